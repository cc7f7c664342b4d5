package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/haivivi/xfyunspeech/pkg/cli"
	xf "github.com/haivivi/xfyunspeech/pkg/xfyunspeech"
)

// createClient builds an SDK client from the context. Missing credentials
// fall back to the environment and are reported before any connection.
func createClient(ctx *cli.Context, strict bool) (*xf.Client, error) {
	creds := ctx.Credentials(nil)
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	opts := []xf.Option{
		xf.WithDefaultVoice(ctx.DefaultVoice),
		xf.WithStrictServiceErrors(strict || ctx.Strict),
		xf.WithLogger(slog.Default()),
	}
	if d := ctx.ConnectTimeout(); d > 0 {
		opts = append(opts, xf.WithConnectTimeout(d))
	}
	if d := ctx.IdleTimeout(); d > 0 {
		opts = append(opts, xf.WithReadTimeout(d))
	}

	return xf.NewClient(creds.AppID, creds.APIKey, creds.APISecret, opts...), nil
}

// resolveOutputPath returns the audio file path for one synthesis and makes
// sure its directory exists. Without an explicit path the file gets a unique
// name in the context audio directory.
func resolveOutputPath(ctx *cli.Context, explicit string) (string, error) {
	paths, err := cli.NewPaths(appName)
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	path := explicit
	if path == "" {
		dir := paths.AudioDir()
		if ctx.AudioDir != "" {
			dir = paths.ExpandHome(ctx.AudioDir)
		}
		path = filepath.Join(dir, uuid.NewString()+".mp3")
	} else {
		path = paths.ExpandHome(path)
	}

	if err := cli.EnsureDir(filepath.Dir(path)); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}
	return path, nil
}
