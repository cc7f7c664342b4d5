package xfyunspeech

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func TestEncodeRequest_TextRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"ascii", "Hello, world."},
		{"chinese", "你好，这是一段测试语音。"},
		{"emoji", "weather: ☀️🌧️ 🎉"},
		{"whitespace", "line one\nline two\t end  "},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeRequest("app", &TTSRequest{Text: tt.text, Voice: "v"})
			if err != nil {
				t.Fatalf("EncodeRequest error: %v", err)
			}

			var env Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				t.Fatalf("unmarshal envelope: %v", err)
			}

			if got := string(env.Data.Text); got != tt.text {
				t.Errorf("decoded text = %q, want %q", got, tt.text)
			}

			var raw map[string]map[string]any
			if err := json.Unmarshal(data, &raw); err != nil {
				t.Fatalf("unmarshal raw envelope: %v", err)
			}
			want := base64.StdEncoding.EncodeToString([]byte(tt.text))
			if got := raw["data"]["text"]; got != want {
				t.Errorf("data.text = %v, want %q", got, want)
			}
		})
	}
}

func TestEncodeRequest_WireFields(t *testing.T) {
	data, err := EncodeRequest("my-app", &TTSRequest{Text: "hi", Voice: "aisjiuxu"})
	if err != nil {
		t.Fatalf("EncodeRequest error: %v", err)
	}

	var m map[string]map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := m["common"]["app_id"]; got != "my-app" {
		t.Errorf("common.app_id = %v, want %q", got, "my-app")
	}

	business := map[string]any{
		"aue": "lame",
		"auf": "audio/L16;rate=16000",
		"vcn": "aisjiuxu",
		"tte": "utf8",
		"sfl": float64(1),
	}
	for k, want := range business {
		if got := m["business"][k]; got != want {
			t.Errorf("business.%s = %v, want %v", k, got, want)
		}
	}
	if len(m["business"]) != len(business) {
		t.Errorf("business has %d fields, want %d", len(m["business"]), len(business))
	}

	if got := m["data"]["status"]; got != float64(2) {
		t.Errorf("data.status = %v, want 2", got)
	}
	if got := m["data"]["text"]; got != "aGk=" {
		t.Errorf("data.text = %v, want %q", got, "aGk=")
	}
}
