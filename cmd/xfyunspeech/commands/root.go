package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/haivivi/xfyunspeech/pkg/cli"
)

const appName = "xfyunspeech"

var (
	// Global flags
	cfgFile     string
	contextName string
	outputJSON  bool
	outFile     string
	verbose     bool

	globalConfig *cli.Config
)

var rootCmd = &cobra.Command{
	Use:   "xfyunspeech",
	Short: "iFLYTEK streaming TTS CLI tool",
	Long: `xfyunspeech - A command line interface for the iFLYTEK (xfyun) streaming
text-to-speech WebSocket API.

Configuration is stored in ~/.giztoy/xfyunspeech/ and supports multiple contexts,
similar to kubectl's context management. Credentials missing from a context are
read from XFYUN_APP_ID, XFYUN_API_KEY and XFYUN_API_SECRET.

Examples:
  # Set up a new context
  xfyunspeech config add-context prod --app-id APP --api-key KEY --api-secret SECRET
  xfyunspeech config use-context prod

  # Synthesize text into an MP3 file
  xfyunspeech tts synthesize "你好，世界" -o hello.mp3

  # Synthesize from a request file and pipe the result
  xfyunspeech tts synthesize -f request.yaml --json | jq -r '.data.audio_path'
`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.giztoy/xfyunspeech/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().StringVar(&outFile, "out-file", "", "write the result document to a file instead of stdout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(ttsCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	setupLogging(cmd.ErrOrStderr(), verbose)

	cfg, err := cli.LoadConfigWithPath(appName, cfgFile)
	if err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	globalConfig = cfg
	return nil
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})))
}

func getConfig() *cli.Config {
	return globalConfig
}

// getContext returns the context selected by -c, the current context, or an
// empty one when neither exists so that env credentials still apply.
func getContext() (*cli.Context, error) {
	cfg := getConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return cfg.ResolveContext(contextName)
}

// outputResult prints a result document to w, or to --out-file when set.
func outputResult(w io.Writer, result any) error {
	opts := cli.OutputOptions{Format: cli.FormatYAML}
	if outputJSON {
		opts.Format = cli.FormatJSON
	}
	if outFile != "" {
		opts.File = outFile
	} else {
		opts.Writer = w
	}
	return cli.Output(result, opts)
}
