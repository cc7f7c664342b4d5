package cli

import (
	"os"
	"path/filepath"
)

// Paths locates the per-app directories under ~/.giztoy.
type Paths struct {
	AppName string
	HomeDir string
}

// NewPaths creates a new Paths instance for the given app
func NewPaths(appName string) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{AppName: appName, HomeDir: home}, nil
}

// BaseDir returns ~/.giztoy
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// AppDir returns ~/.giztoy/<app>
func (p *Paths) AppDir() string {
	return filepath.Join(p.BaseDir(), p.AppName)
}

// ConfigFile returns ~/.giztoy/<app>/config.yaml
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.AppDir(), DefaultConfigFile)
}

// DataDir returns ~/.giztoy/<app>/data
func (p *Paths) DataDir() string {
	return filepath.Join(p.AppDir(), "data")
}

// AudioDir returns ~/.giztoy/<app>/data/audio, the default home of
// synthesized files.
func (p *Paths) AudioDir() string {
	return filepath.Join(p.DataDir(), "audio")
}

// EnsureDir creates dir and its parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// ExpandHome replaces a leading "~/" with the home directory.
func (p *Paths) ExpandHome(path string) string {
	if path == "~" {
		return p.HomeDir
	}
	if len(path) >= 2 && path[:2] == "~/" {
		return filepath.Join(p.HomeDir, path[2:])
	}
	return path
}
