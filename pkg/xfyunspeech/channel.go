package xfyunspeech

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Channel is a duplex byte-message connection.
type Channel interface {
	// Send writes one message.
	Send(ctx context.Context, msg []byte) error
	// Receive blocks for the next message.
	Receive(ctx context.Context) ([]byte, error)
	// Close closes the connection. It is safe to call more than once and
	// concurrently with Receive, which then returns an error.
	Close() error
}

// Dialer opens a Channel to a signed URL.
type Dialer interface {
	Dial(ctx context.Context, url string) (Channel, error)
}

// DialFunc adapts a function to the Dialer interface.
type DialFunc func(ctx context.Context, url string) (Channel, error)

// Dial implements Dialer.
func (f DialFunc) Dial(ctx context.Context, url string) (Channel, error) {
	return f(ctx, url)
}

// WebSocketDialerConfig configures NewWebSocketDialer.
type WebSocketDialerConfig struct {
	// HandshakeTimeout bounds the TCP, TLS and WebSocket handshake.
	HandshakeTimeout time.Duration

	// ReadTimeout bounds each Receive. Zero disables it.
	ReadTimeout time.Duration

	// RootCAs verifies the service chain. Nil means the system roots.
	RootCAs *x509.CertPool

	// TLSConfig replaces the relaxed TLS configuration entirely.
	TLSConfig *tls.Config
}

type webSocketDialer struct {
	dialer      *websocket.Dialer
	readTimeout time.Duration
}

// NewWebSocketDialer returns a gorilla/websocket based Dialer.
//
// Unless cfg.TLSConfig is set, the dialer verifies the peer certificate
// chain but not its hostname: the service presents a certificate that does
// not cover the signed host. The relaxation lives in this dialer's own
// tls.Config and affects no other connection.
func NewWebSocketDialer(cfg WebSocketDialerConfig) Dialer {
	tlsConfig := cfg.TLSConfig
	if tlsConfig == nil {
		tlsConfig = relaxedHostnameTLSConfig(cfg.RootCAs)
	}
	return &webSocketDialer{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
			TLSClientConfig:  tlsConfig,
		},
		readTimeout: cfg.ReadTimeout,
	}
}

func (d *webSocketDialer) Dial(ctx context.Context, url string) (Channel, error) {
	conn, resp, err := d.dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			return nil, fmt.Errorf("%w (http_status=%d, body=%s)", err, resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return nil, err
	}
	return &webSocketChannel{conn: conn, readTimeout: d.readTimeout}, nil
}

// relaxedHostnameTLSConfig verifies the chain against roots and skips the
// hostname check.
func relaxedHostnameTLSConfig(roots *x509.CertPool) *tls.Config {
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: true, // hostname only; the chain is checked in VerifyConnection
		VerifyConnection: func(cs tls.ConnectionState) error {
			if len(cs.PeerCertificates) == 0 {
				return errors.New("xfyunspeech: no peer certificate")
			}
			opts := x509.VerifyOptions{
				Roots:         roots,
				Intermediates: x509.NewCertPool(),
			}
			for _, cert := range cs.PeerCertificates[1:] {
				opts.Intermediates.AddCert(cert)
			}
			_, err := cs.PeerCertificates[0].Verify(opts)
			return err
		},
	}
}

type webSocketChannel struct {
	conn        *websocket.Conn
	readTimeout time.Duration

	closeOnce sync.Once
	closeErr  error
}

func (c *webSocketChannel) Send(ctx context.Context, msg []byte) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
	}
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

func (c *webSocketChannel) Receive(ctx context.Context) ([]byte, error) {
	if c.readTimeout > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	}
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *webSocketChannel) Close() error {
	c.closeOnce.Do(func() {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
