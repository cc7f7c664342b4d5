package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// OutputFormat is the rendering of a result document.
type OutputFormat string

const (
	// FormatYAML is the default terminal format
	FormatYAML OutputFormat = "yaml"
	// FormatJSON outputs indented JSON
	FormatJSON OutputFormat = "json"
)

// OutputOptions configures output behavior
type OutputOptions struct {
	Format OutputFormat

	// File is the output file path (empty for stdout)
	File string

	// Writer overrides File when set
	Writer io.Writer
}

// Result is the document a command prints: either data on success or an
// error message on failure.
type Result struct {
	Type  string `json:"type" yaml:"type"`
	Data  any    `json:"data,omitempty" yaml:"data,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result types.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Success wraps data in a success document.
func Success(data any) Result {
	return Result{Type: ResultSuccess, Data: data}
}

// Failure wraps err in an error document.
func Failure(err error) Result {
	return Result{Type: ResultError, Error: err.Error()}
}

// Output writes the result to the configured destination
func Output(result any, opts OutputOptions) error {
	var w io.Writer = os.Stdout

	if opts.Writer != nil {
		w = opts.Writer
	} else if opts.File != "" {
		f, err := os.Create(opts.File)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch opts.Format {
	case FormatJSON:
		return outputJSON(w, result)
	case FormatYAML, "":
		return outputYAML(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}

func outputJSON(w io.Writer, result any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func outputYAML(w io.Writer, result any) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// PrintSuccess prints a success message with checkmark
func PrintSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "✓ "+format+"\n", args...)
}
