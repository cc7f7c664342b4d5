package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haivivi/xfyunspeech/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

Contexts allow you to manage multiple credential sets,
similar to kubectl's context management.

Configuration is stored in ~/.giztoy/xfyunspeech/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context with the specified name.

The streaming TTS API signs every connection with:
  - App ID: Your application ID
  - API Key: Sent in the authorization header
  - API Secret: HMAC-SHA256 signing key

Credentials left empty here are read from XFYUN_APP_ID, XFYUN_API_KEY and
XFYUN_API_SECRET at synthesis time.

Example:
  xfyunspeech config add-context prod \
    --app-id YOUR_APP_ID --api-key YOUR_API_KEY --api-secret YOUR_API_SECRET \
    --default-voice aisjiuxu --audio-dir ~/audio`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		flags := cmd.Flags()

		appID, err := flags.GetString("app-id")
		if err != nil {
			return fmt.Errorf("failed to read 'app-id' flag: %w", err)
		}
		apiKey, err := flags.GetString("api-key")
		if err != nil {
			return fmt.Errorf("failed to read 'api-key' flag: %w", err)
		}
		apiSecret, err := flags.GetString("api-secret")
		if err != nil {
			return fmt.Errorf("failed to read 'api-secret' flag: %w", err)
		}
		defaultVoice, err := flags.GetString("default-voice")
		if err != nil {
			return fmt.Errorf("failed to read 'default-voice' flag: %w", err)
		}
		audioDir, err := flags.GetString("audio-dir")
		if err != nil {
			return fmt.Errorf("failed to read 'audio-dir' flag: %w", err)
		}
		timeout, err := flags.GetInt("timeout")
		if err != nil {
			return fmt.Errorf("failed to read 'timeout' flag: %w", err)
		}
		readTimeout, err := flags.GetInt("read-timeout")
		if err != nil {
			return fmt.Errorf("failed to read 'read-timeout' flag: %w", err)
		}
		strict, err := flags.GetBool("strict")
		if err != nil {
			return fmt.Errorf("failed to read 'strict' flag: %w", err)
		}

		if timeout < 0 || readTimeout < 0 {
			return fmt.Errorf("--timeout and --read-timeout must not be negative")
		}

		ctx := &cli.Context{
			DefaultVoice: defaultVoice,
			AudioDir:     audioDir,
			Timeout:      timeout,
			ReadTimeout:  readTimeout,
			Strict:       strict,
		}
		if appID != "" || apiKey != "" || apiSecret != "" {
			ctx.Client = &cli.Credentials{
				AppID:     appID,
				APIKey:    apiKey,
				APISecret: apiSecret,
			}
		}

		if err := getConfig().AddContext(name, ctx); err != nil {
			return err
		}

		cli.PrintSuccess(cmd.OutOrStdout(), "Context %q added successfully", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess(cmd.OutOrStdout(), "Context %q deleted", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getConfig().UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess(cmd.OutOrStdout(), "Switched to context %q", args[0])
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context",
	Short: "Display the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg.CurrentContext == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No current context set")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), cfg.CurrentContext)
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"get-contexts"},
	Short:   "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		out := cmd.OutOrStdout()

		if len(cfg.Contexts) == 0 {
			fmt.Fprintln(out, "No contexts configured")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tCREDENTIALS\tDEFAULT_VOICE\tSTRICT")
		for _, name := range cfg.ListContexts() {
			ctx := cfg.Contexts[name]
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			creds := "✗"
			if ctx.Client != nil && ctx.Client.Validate() == nil {
				creds = "✓"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n", current, name, creds, ctx.DefaultVoice, ctx.Strict)
		}
		return w.Flush()
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Config file: %s\n", cfg.Path())
		fmt.Fprintf(out, "Current context: %s\n", cfg.CurrentContext)
		fmt.Fprintf(out, "Contexts: %d\n", len(cfg.Contexts))

		if len(cfg.Contexts) == 0 {
			return nil
		}

		fmt.Fprintln(out, "\nContext details:")
		for _, name := range cfg.ListContexts() {
			ctx := cfg.Contexts[name]
			fmt.Fprintf(out, "\n  %s:\n", name)

			if ctx.Client != nil {
				fmt.Fprintln(out, "    Client:")
				fmt.Fprintf(out, "      App ID: %s\n", ctx.Client.AppID)
				fmt.Fprintf(out, "      API Key: %s\n", cli.MaskAPIKey(ctx.Client.APIKey))
				fmt.Fprintf(out, "      API Secret: %s\n", cli.MaskAPIKey(ctx.Client.APISecret))
			}
			if ctx.DefaultVoice != "" {
				fmt.Fprintf(out, "    Default Voice: %s\n", ctx.DefaultVoice)
			}
			if ctx.AudioDir != "" {
				fmt.Fprintf(out, "    Audio Dir: %s\n", ctx.AudioDir)
			}
			if ctx.Timeout > 0 {
				fmt.Fprintf(out, "    Timeout: %ds\n", ctx.Timeout)
			}
			if ctx.ReadTimeout > 0 {
				fmt.Fprintf(out, "    Read Timeout: %ds\n", ctx.ReadTimeout)
			}
			if ctx.Strict {
				fmt.Fprintln(out, "    Strict: true")
			}
		}
		return nil
	},
}

func init() {
	f := configAddContextCmd.Flags()
	f.String("app-id", "", "Application ID")
	f.String("api-key", "", "API key")
	f.String("api-secret", "", "API secret used to sign connections")
	f.String("default-voice", "", "Default voice (vcn)")
	f.String("audio-dir", "", "Directory for generated audio files")
	f.Int("timeout", 0, "Connect timeout in seconds")
	f.Int("read-timeout", 0, "Per-frame idle timeout in seconds")
	f.Bool("strict", false, "Abort on the first service error frame")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configGetContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configViewCmd)
}
