package xfyunspeech

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/haivivi/xfyunspeech/pkg/xfyunspeech"

type telemetry struct {
	tracer   trace.Tracer
	sessions metric.Int64Counter
	frames   metric.Int64Counter
	bytes    metric.Int64Counter
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) *telemetry {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)

	return &telemetry{
		tracer: tp.Tracer(instrumentationName),
		sessions: counter(meter, "xfyunspeech.tts.sessions",
			metric.WithDescription("Synthesis sessions by outcome")),
		frames: counter(meter, "xfyunspeech.tts.frames",
			metric.WithDescription("Inbound frames decoded")),
		bytes: counter(meter, "xfyunspeech.tts.audio_bytes",
			metric.WithDescription("Audio bytes appended to output"),
			metric.WithUnit("By")),
	}
}

func counter(meter metric.Meter, name string, opts ...metric.Int64CounterOption) metric.Int64Counter {
	c, err := meter.Int64Counter(name, opts...)
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}

func (t *telemetry) startSession(ctx context.Context, voice string, textLen int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "xfyunspeech.tts.synthesize",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("tts.voice", voice),
			attribute.Int("tts.text_length", textLen),
		),
	)
}

func (t *telemetry) recordFrame(ctx context.Context, f *Frame) {
	t.frames.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", f.Status.String()),
		attribute.Bool("service_error", f.Code != CodeSuccess),
	))
}

func (t *telemetry) recordAudio(ctx context.Context, n int) {
	t.bytes.Add(ctx, int64(n))
}

func (t *telemetry) recordSession(ctx context.Context, completed, ok bool) {
	t.sessions.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("completed", completed),
		attribute.Bool("output_exists", ok),
	))
}
