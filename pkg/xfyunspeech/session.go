package xfyunspeech

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// TTSService provides streaming text-to-speech synthesis.
type TTSService struct {
	client *Client
	tel    *telemetry
}

func newTTSService(c *Client) *TTSService {
	return &TTSService{
		client: c,
		tel:    newTelemetry(c.config.tracerProvider, c.config.meterProvider),
	}
}

// SynthesizeFile synthesizes req into outputPath and reports whether the
// output file exists afterwards. Failure details are only logged.
func (s *TTSService) SynthesizeFile(ctx context.Context, req *TTSRequest, outputPath string) bool {
	res, _ := s.Synthesize(ctx, req, outputPath)
	return res.OK
}

// Synthesize runs one streaming session and writes the audio to outputPath.
//
// Any file already at outputPath is deleted first. Audio chunks are appended
// in arrival order. The call blocks until a LAST frame arrives, the
// connection fails, or ctx is done; cancelling ctx closes the connection and
// leaves the output as written so far.
//
// The returned error is why the session failed and is nil when a LAST
// frame ended it. The result is never nil. Its OK field is the existence of
// the output file and is set even when err is non-nil.
func (s *TTSService) Synthesize(ctx context.Context, req *TTSRequest, outputPath string) (*TTSResult, error) {
	start := time.Now()
	cfg := s.client.config

	voice := req.Voice
	if voice == "" {
		voice = cfg.voice
	}

	sess := &session{
		config: cfg,
		logger: cfg.logger.With("session", uuid.NewString(), "voice", voice),
		tel:    s.tel,
		sink:   FileSink{Path: outputPath},
		result: &TTSResult{
			OutputPath: outputPath,
			Voice:      voice,
		},
	}

	ctx, span := s.tel.startSession(ctx, voice, len(req.Text))
	defer span.End()

	err := sess.run(ctx, &TTSRequest{Text: req.Text, Voice: voice})

	res := sess.result
	res.Duration = time.Since(start)
	if !sess.prepareFailed {
		exists, size, statErr := sess.sink.Stat()
		if statErr != nil {
			sess.logger.Warn("tts: stat output", "path", outputPath, "error", statErr)
		}
		res.OK = exists
		res.AudioSize = size
	}

	s.tel.recordSession(ctx, res.Completed, res.OK)
	span.SetAttributes(
		attribute.String("tts.sid", res.SID),
		attribute.Int("tts.frames", res.Frames),
		attribute.Int64("tts.audio_size", res.AudioSize),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		sess.logger.Error("tts: session failed",
			"sid", res.SID,
			"state", res.State,
			"frames", res.Frames,
			"output_exists", res.OK,
			"error", err,
		)
		return res, err
	}

	sess.logger.Info("tts: session completed",
		"sid", res.SID,
		"frames", res.Frames,
		"audio_size", res.AudioSize,
		"duration", res.Duration,
	)
	return res, nil
}

// session is the state of one synthesis call.
type session struct {
	config *clientConfig
	logger *slog.Logger
	tel    *telemetry
	sink   FileSink
	result *TTSResult

	prepareFailed bool
}

func (s *session) setState(state SessionState) {
	s.result.State = state
	s.logger.Debug("tts: state", "state", state)
}

func (s *session) run(ctx context.Context, req *TTSRequest) error {
	if err := s.sink.Prepare(); err != nil {
		s.prepareFailed = true
		return wrapError(ErrSink, err, "prepare output")
	}

	s.setState(StateConnecting)

	payload, err := EncodeRequest(s.config.appID, req)
	if err != nil {
		return fmt.Errorf("xfyunspeech: encode request: %w", err)
	}

	signed, err := BuildConnectionURL(
		s.config.endpoint,
		s.config.signedHost,
		s.config.requestPath,
		s.config.apiKey,
		s.config.apiSecret,
		s.config.clock(),
	)
	if err != nil {
		return err
	}
	s.logger.Debug("tts: connecting", "endpoint", s.config.endpoint, "date", signed.Date)

	dialCtx := ctx
	if s.config.connectTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, s.config.connectTimeout)
		defer cancel()
	}
	ch, err := s.config.dialer.Dial(dialCtx, signed.URL)
	if err != nil {
		return wrapError(ErrHandshake, err, "connect")
	}
	defer ch.Close()

	// The watcher runs before the envelope is sent so that cancellation also
	// unblocks a stalled write.
	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			ch.Close()
		case <-done:
		}
		return nil
	})
	g.Go(func() error {
		defer close(done)

		s.setState(StateSending)
		if err := ch.Send(gctx, payload); err != nil {
			return transportError(gctx, err, "send request")
		}

		s.setState(StateReceiving)
		return s.receive(gctx, ch)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.setState(StateClosed)
	return nil
}

// receive applies frames in arrival order until a LAST frame or an error.
func (s *session) receive(ctx context.Context, ch Channel) error {
	for {
		raw, err := ch.Receive(ctx)
		if err != nil {
			return transportError(ctx, err, "receive frame")
		}

		frame, err := DecodeFrame(raw)
		if err != nil {
			return err
		}

		s.result.Frames++
		if s.result.SID == "" {
			s.result.SID = frame.SID
		}
		s.tel.recordFrame(ctx, frame)
		s.logger.Debug("tts: frame",
			"sid", frame.SID,
			"status", frame.Status,
			"code", frame.Code,
			"audio_bytes", len(frame.Audio),
			"progress", frame.Progress,
		)

		if frame.Code != CodeSuccess {
			svcErr := &Error{Code: frame.Code, Message: frame.Message, SID: frame.SID}
			s.result.ServiceErrors = append(s.result.ServiceErrors, svcErr)
			s.logger.Warn("tts: service error",
				"sid", frame.SID,
				"code", frame.Code,
				"message", frame.Message,
			)
			if s.config.strict {
				return svcErr
			}
		} else if err := s.append(ctx, frame); err != nil {
			return err
		}

		if frame.IsLast() {
			s.result.Completed = true
			_ = ch.Close()
			return nil
		}
	}
}

// transportError wraps a channel failure. A channel closed by cancellation
// reports the cancellation instead.
func transportError(ctx context.Context, err error, message string) error {
	if cerr := ctx.Err(); cerr != nil {
		err = cerr
	}
	return wrapError(ErrTransport, err, message)
}

func (s *session) append(ctx context.Context, f *Frame) error {
	if !f.HasAudio || len(f.Audio) == 0 {
		return nil
	}
	if err := s.sink.Append(f.Audio); err != nil {
		return wrapError(ErrSink, err, "append audio")
	}
	s.result.Chunks++
	s.tel.recordAudio(ctx, len(f.Audio))
	return nil
}
