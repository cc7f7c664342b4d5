package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the base configuration directory name
	DefaultBaseDir = ".giztoy"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.yaml"
)

// Environment variables consulted when a context leaves a credential empty.
const (
	EnvAppID     = "XFYUN_APP_ID"
	EnvAPIKey    = "XFYUN_API_KEY"
	EnvAPISecret = "XFYUN_API_SECRET"
)

// Config is the on-disk configuration of a CLI app.
type Config struct {
	// AppName is the application name, e.g. "xfyunspeech"
	AppName string `yaml:"-"`

	// CurrentContext is the name of the currently active context
	CurrentContext string `yaml:"current_context,omitempty"`

	// Contexts maps context names to their settings
	Contexts map[string]*Context `yaml:"contexts,omitempty"`

	configPath string
}

// Context is one named set of credentials and synthesis defaults.
type Context struct {
	Name string `yaml:"name"`

	// Client holds the signing credentials.
	Client *Credentials `yaml:"client,omitempty"`

	// DefaultVoice is the speaker used when a request names none.
	DefaultVoice string `yaml:"default_voice,omitempty"`

	// AudioDir receives generated files when no output path is given.
	AudioDir string `yaml:"audio_dir,omitempty"`

	// Timeout is the connect timeout in seconds.
	Timeout int `yaml:"timeout,omitempty"`

	// ReadTimeout is the per-frame idle timeout in seconds.
	ReadTimeout int `yaml:"read_timeout,omitempty"`

	// Strict aborts a session on the first service error frame.
	Strict bool `yaml:"strict,omitempty"`
}

// Credentials are the three values a connection is signed with.
type Credentials struct {
	AppID     string `yaml:"app_id"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

// Validate reports the first missing credential.
func (c Credentials) Validate() error {
	switch {
	case c.AppID == "":
		return fmt.Errorf("app_id is required (set it in the context or %s)", EnvAppID)
	case c.APIKey == "":
		return fmt.Errorf("api_key is required (set it in the context or %s)", EnvAPIKey)
	case c.APISecret == "":
		return fmt.Errorf("api_secret is required (set it in the context or %s)", EnvAPISecret)
	}
	return nil
}

// LoadConfig loads or creates configuration for the specified app
func LoadConfig(appName string) (*Config, error) {
	return LoadConfigWithPath(appName, "")
}

// LoadConfigWithPath loads configuration from a custom path
func LoadConfigWithPath(appName, customPath string) (*Config, error) {
	configPath := customPath
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, DefaultBaseDir, appName, DefaultConfigFile)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		AppName:    appName,
		Contexts:   make(map[string]*Context),
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	cfg.AppName = appName
	cfg.configPath = configPath

	return cfg, nil
}

// Save writes the configuration to disk. The file holds secrets and is
// written with mode 0600.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path returns the config file path
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the config directory path
func (c *Config) Dir() string {
	return filepath.Dir(c.configPath)
}

// AddContext adds or replaces a context
func (c *Config) AddContext(name string, ctx *Context) error {
	ctx.Name = name
	c.Contexts[name] = ctx
	return c.Save()
}

// DeleteContext removes a context
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

// UseContext sets the current context
func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.Save()
}

// GetContext returns a specific context
func (c *Config) GetContext(name string) (*Context, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// GetCurrentContext returns the current context
func (c *Config) GetCurrentContext() (*Context, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}
	return c.GetContext(c.CurrentContext)
}

// ResolveContext returns the named context, or the current one if name is
// empty. With no name and no current context it returns an empty context so
// that credentials can still come from the environment.
func (c *Config) ResolveContext(name string) (*Context, error) {
	if name == "" {
		if c.CurrentContext == "" {
			return &Context{}, nil
		}
		return c.GetCurrentContext()
	}
	return c.GetContext(name)
}

// ListContexts returns all context names in sorted order
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Credentials returns the context credentials, filling empty fields from
// getenv. A nil getenv means os.Getenv.
func (ctx *Context) Credentials(getenv func(string) string) Credentials {
	if getenv == nil {
		getenv = os.Getenv
	}
	var creds Credentials
	if ctx.Client != nil {
		creds = *ctx.Client
	}
	if creds.AppID == "" {
		creds.AppID = getenv(EnvAppID)
	}
	if creds.APIKey == "" {
		creds.APIKey = getenv(EnvAPIKey)
	}
	if creds.APISecret == "" {
		creds.APISecret = getenv(EnvAPISecret)
	}
	return creds
}

// ConnectTimeout returns Timeout as a duration, zero when unset.
func (ctx *Context) ConnectTimeout() time.Duration {
	return time.Duration(ctx.Timeout) * time.Second
}

// IdleTimeout returns ReadTimeout as a duration, zero when unset.
func (ctx *Context) IdleTimeout() time.Duration {
	return time.Duration(ctx.ReadTimeout) * time.Second
}

// MaskAPIKey masks a secret for display
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
