// Package xfyunspeech is a Go client for the iFLYTEK (xfyun) online
// text-to-speech WebSocket API.
//
// A synthesis call signs a connection URL with HMAC-SHA256, opens the
// WebSocket, sends the whole text in one envelope and appends the audio
// chunks of the inbound frames to a single output file:
//
//	client := xfyunspeech.NewClient(appID, apiKey, apiSecret)
//	res, err := client.TTS.Synthesize(ctx, &xfyunspeech.TTSRequest{
//	    Text: "你好，世界！",
//	}, "out.mp3")
//	if err != nil {
//	    // the session failed; res.OK still reports whether out.mp3 exists
//	}
//
// The service's certificate does not match the signed host, so the default
// dialer skips the hostname check for its own connections only. The chain is
// still verified.
package xfyunspeech

import (
	"crypto/x509"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultReadTimeout    = 30 * time.Second
)

// Client is an xfyun speech API client.
type Client struct {
	// TTS is the streaming text-to-speech service.
	TTS *TTSService

	config *clientConfig
}

type clientConfig struct {
	appID     string
	apiKey    string
	apiSecret string

	endpoint    string
	signedHost  string
	requestPath string
	voice       string

	clock  func() time.Time
	dialer Dialer

	rootCAs        *x509.CertPool
	connectTimeout time.Duration
	readTimeout    time.Duration
	strict         bool

	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures a Client.
type Option func(*clientConfig)

// NewClient creates a client for the given application credentials.
//
// Credentials are not validated locally. Bad credentials surface as a
// handshake rejection when a session connects.
func NewClient(appID, apiKey, apiSecret string, opts ...Option) *Client {
	config := &clientConfig{
		appID:          appID,
		apiKey:         apiKey,
		apiSecret:      apiSecret,
		endpoint:       DefaultEndpoint,
		signedHost:     DefaultSignedHost,
		requestPath:    DefaultRequestPath,
		voice:          DefaultVoice,
		clock:          time.Now,
		connectTimeout: defaultConnectTimeout,
		readTimeout:    defaultReadTimeout,
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.logger == nil {
		config.logger = slog.Default()
	}
	config.logger = config.logger.With("component", "xfyunspeech")

	if config.dialer == nil {
		config.dialer = NewWebSocketDialer(WebSocketDialerConfig{
			HandshakeTimeout: config.connectTimeout,
			ReadTimeout:      config.readTimeout,
			RootCAs:          config.rootCAs,
		})
	}

	c := &Client{config: config}
	c.TTS = newTTSService(c)
	return c
}

// WithEndpoint sets the WebSocket endpoint.
//
// Default: wss://tts-api.xfyun.cn/v2/tts
func WithEndpoint(url string) Option {
	return func(c *clientConfig) {
		c.endpoint = url
	}
}

// WithSignedHost sets the host used in the signature and the host query parameter.
//
// Default: ws-api.xfyun.cn
func WithSignedHost(host string) Option {
	return func(c *clientConfig) {
		c.signedHost = host
	}
}

// WithRequestPath sets the path of the signed request line.
//
// Default: /v2/tts
func WithRequestPath(path string) Option {
	return func(c *clientConfig) {
		c.requestPath = path
	}
}

// WithDefaultVoice sets the voice used when a request has none.
func WithDefaultVoice(voice string) Option {
	return func(c *clientConfig) {
		if voice != "" {
			c.voice = voice
		}
	}
}

// WithClock sets the time source used for signing.
func WithClock(now func() time.Time) Option {
	return func(c *clientConfig) {
		c.clock = now
	}
}

// WithDialer replaces the WebSocket dialer, e.g. with an in-memory channel in tests.
func WithDialer(d Dialer) Option {
	return func(c *clientConfig) {
		c.dialer = d
	}
}

// WithRootCAs sets the roots the default dialer verifies the service chain against.
// Nil means the system roots.
func WithRootCAs(pool *x509.CertPool) Option {
	return func(c *clientConfig) {
		c.rootCAs = pool
	}
}

// WithConnectTimeout bounds the dial and handshake.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.connectTimeout = timeout
	}
}

// WithReadTimeout bounds the wait for each inbound frame. Zero disables it.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.readTimeout = timeout
	}
}

// WithStrictServiceErrors makes a session abort on the first frame with a
// non-zero code. By default such frames are logged and the session keeps
// reading.
func WithStrictServiceErrors(strict bool) Option {
	return func(c *clientConfig) {
		c.strict = strict
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithTracerProvider sets the tracer provider. Default: the otel global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *clientConfig) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider sets the meter provider. Default: the otel global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *clientConfig) {
		c.meterProvider = mp
	}
}

// AppID returns the application id the client signs envelopes with.
func (c *Client) AppID() string {
	return c.config.appID
}

// DefaultVoice returns the voice used for requests without one.
func (c *Client) DefaultVoice() string {
	return c.config.voice
}
