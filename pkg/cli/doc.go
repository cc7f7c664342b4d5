// Package cli provides shared pieces of the xfyunspeech command-line tool.
//
// This package includes:
//   - Configuration contexts with credentials and synthesis defaults
//   - Result documents rendered as YAML or JSON
//   - Request file loading (YAML/JSON)
//   - Directory layout under ~/.giztoy/<app>/
//   - A styled summary panel for terminal output
//
// Configuration supports multiple contexts similar to kubectl:
//
//	cfg, err := cli.LoadConfig("xfyunspeech")
//	ctx, err := cfg.ResolveContext("")
//	creds := ctx.Credentials(nil)
//
//	cli.Output(cli.Success(data), cli.OutputOptions{Format: cli.FormatJSON})
package cli
