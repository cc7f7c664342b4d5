package xfyunspeech

import (
	"context"
	"path/filepath"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// counterPoints returns the data points of the named int64 counter.
func counterPoints(t *testing.T, rm metricdata.ResourceMetrics, name string) []metricdata.DataPoint[int64] {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s data = %T, want metricdata.Sum[int64]", name, m.Data)
			}
			return sum.DataPoints
		}
	}
	t.Fatalf("metric %s not recorded", name)
	return nil
}

func total(points []metricdata.DataPoint[int64]) int64 {
	var n int64
	for _, p := range points {
		n += p.Value
	}
	return n
}

func TestSynthesize_Telemetry(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
		_ = tp.Shutdown(context.Background())
	})

	ch := newFakeChannel(
		frame(0, StatusFirst, []byte("A")),
		frame(0, StatusContinue, []byte("B")),
		frame(0, StatusLast, []byte("C")),
	)
	client := newTestClient(dialerFor(ch), nil,
		WithMeterProvider(mp),
		WithTracerProvider(tp),
	)
	out := filepath.Join(t.TempDir(), "out.mp3")

	if _, err := client.TTS.Synthesize(context.Background(), &TTSRequest{Text: "你好"}, out); err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}

	if got := total(counterPoints(t, rm, "xfyunspeech.tts.frames")); got != 3 {
		t.Errorf("frames = %d, want 3", got)
	}
	if got := total(counterPoints(t, rm, "xfyunspeech.tts.audio_bytes")); got != 3 {
		t.Errorf("audio_bytes = %d, want 3", got)
	}

	sessions := counterPoints(t, rm, "xfyunspeech.tts.sessions")
	if len(sessions) != 1 || sessions[0].Value != 1 {
		t.Fatalf("sessions = %+v, want one point with value 1", sessions)
	}
	for _, key := range []attribute.Key{"completed", "output_exists"} {
		v, ok := sessions[0].Attributes.Value(key)
		if !ok || !v.AsBool() {
			t.Errorf("sessions attribute %s = %v, want true", key, v.Emit())
		}
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "xfyunspeech.tts.synthesize" {
		t.Errorf("span name = %q, want %q", span.Name(), "xfyunspeech.tts.synthesize")
	}
	if span.SpanKind() != trace.SpanKindClient {
		t.Errorf("span kind = %v, want %v", span.SpanKind(), trace.SpanKindClient)
	}

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if got := attrs["tts.voice"].AsString(); got != DefaultVoice {
		t.Errorf("tts.voice = %q, want %q", got, DefaultVoice)
	}
	if got := attrs["tts.sid"].AsString(); got != "tts-sid-1" {
		t.Errorf("tts.sid = %q, want %q", got, "tts-sid-1")
	}
	if got := attrs["tts.frames"].AsInt64(); got != 3 {
		t.Errorf("tts.frames = %d, want 3", got)
	}
}
