package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutput_JSON(t *testing.T) {
	var buf bytes.Buffer

	err := Output(Success(map[string]any{"audio_path": "/tmp/a.mp3", "audio_size": 12}), OutputOptions{
		Format: FormatJSON,
		Writer: &buf,
	})
	if err != nil {
		t.Fatalf("Output error: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if doc["type"] != "success" {
		t.Errorf("type = %v, want success", doc["type"])
	}
	if _, ok := doc["error"]; ok {
		t.Error("success document should not carry an error field")
	}
	data, _ := doc["data"].(map[string]any)
	if data["audio_path"] != "/tmp/a.mp3" {
		t.Errorf("data.audio_path = %v", data["audio_path"])
	}
}

func TestOutput_YAMLFailure(t *testing.T) {
	var buf bytes.Buffer

	if err := Output(Failure(errors.New("handshake failed")), OutputOptions{Writer: &buf}); err != nil {
		t.Fatalf("Output error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "type: error") {
		t.Errorf("output should contain 'type: error', got: %s", out)
	}
	if !strings.Contains(out, "error: handshake failed") {
		t.Errorf("output should contain the message, got: %s", out)
	}
	if strings.Contains(out, "data:") {
		t.Errorf("failure document should omit data, got: %s", out)
	}
}

func TestOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")

	if err := Output(Success("ok"), OutputOptions{Format: FormatJSON, File: path}); err != nil {
		t.Fatalf("Output error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"type": "success"`) {
		t.Errorf("file content = %s", data)
	}
}

func TestOutput_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Output("x", OutputOptions{Format: "xml", Writer: &buf}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestPrintSuccess(t *testing.T) {
	var buf bytes.Buffer
	PrintSuccess(&buf, "Context %q created", "prod")
	if got, want := buf.String(), "✓ Context \"prod\" created\n"; got != want {
		t.Errorf("PrintSuccess wrote %q, want %q", got, want)
	}
}
