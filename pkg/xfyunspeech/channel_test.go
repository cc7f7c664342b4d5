package xfyunspeech

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newTLSWebSocketServer starts a TLS server whose certificate does not cover
// "localhost" and returns a wss://localhost URL for it.
func newTLSWebSocketServer(t *testing.T, handle func(r *http.Request, conn *websocket.Conn)) (*httptest.Server, string) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handle(r, conn)
	}))
	t.Cleanup(srv.Close)

	if err := srv.Certificate().VerifyHostname("localhost"); err == nil {
		t.Skip("test certificate covers localhost")
	}

	_, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	return srv, "wss://localhost:" + port + DefaultRequestPath
}

func certPool(srv *httptest.Server) *x509.CertPool {
	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())
	return pool
}

func TestWebSocketDialer_RelaxedHostname(t *testing.T) {
	srv, endpoint := newTLSWebSocketServer(t, func(r *http.Request, conn *websocket.Conn) {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, msg)
	})

	d := NewWebSocketDialer(WebSocketDialerConfig{
		HandshakeTimeout: 5 * time.Second,
		ReadTimeout:      5 * time.Second,
		RootCAs:          certPool(srv),
	})

	ctx := context.Background()
	ch, err := d.Dial(ctx, endpoint)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer ch.Close()

	if err := ch.Send(ctx, []byte("ping")); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	got, err := ch.Receive(ctx)
	if err != nil {
		t.Fatalf("Receive error: %v", err)
	}
	if string(got) != "ping" {
		t.Errorf("Receive = %q, want %q", got, "ping")
	}

	if err := ch.Close(); err != nil {
		t.Errorf("Close error: %v", err)
	}
	if err := ch.Close(); err != nil {
		t.Errorf("second Close error: %v", err)
	}
}

func TestWebSocketDialer_UntrustedChain(t *testing.T) {
	_, endpoint := newTLSWebSocketServer(t, func(r *http.Request, conn *websocket.Conn) {})

	d := NewWebSocketDialer(WebSocketDialerConfig{
		HandshakeTimeout: 5 * time.Second,
		RootCAs:          x509.NewCertPool(),
	})

	if _, err := d.Dial(context.Background(), endpoint); err == nil {
		t.Fatal("expected chain verification error")
	}
}

func TestWebSocketDialer_TLSConfigOverride(t *testing.T) {
	srv, endpoint := newTLSWebSocketServer(t, func(r *http.Request, conn *websocket.Conn) {})

	tests := []struct {
		name    string
		tls     *tls.Config
		wantErr bool
	}{
		{"matching server name", &tls.Config{RootCAs: certPool(srv), ServerName: "example.com"}, false},
		{"strict hostname check", &tls.Config{RootCAs: certPool(srv)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewWebSocketDialer(WebSocketDialerConfig{
				HandshakeTimeout: 5 * time.Second,
				TLSConfig:        tt.tls,
			})
			ch, err := d.Dial(context.Background(), endpoint)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Dial error = %v, wantErr %v", err, tt.wantErr)
			}
			if ch != nil {
				ch.Close()
			}
		})
	}
}

func TestWebSocketDialer_ReadTimeout(t *testing.T) {
	release := make(chan struct{})
	srv, endpoint := newTLSWebSocketServer(t, func(r *http.Request, conn *websocket.Conn) {
		<-release
	})
	defer close(release)

	d := NewWebSocketDialer(WebSocketDialerConfig{
		HandshakeTimeout: 5 * time.Second,
		ReadTimeout:      100 * time.Millisecond,
		RootCAs:          certPool(srv),
	})

	ch, err := d.Dial(context.Background(), endpoint)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer ch.Close()

	start := time.Now()
	if _, err := ch.Receive(context.Background()); err == nil {
		t.Fatal("expected read timeout")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Receive took %v, want about 100ms", elapsed)
	}
}

func TestSynthesize_OverWebSocket(t *testing.T) {
	type captured struct {
		query url.Values
		env   Envelope
	}
	got := make(chan captured, 1)

	srv, endpoint := newTLSWebSocketServer(t, func(r *http.Request, conn *websocket.Conn) {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var c captured
		c.query = r.URL.Query()
		_ = json.Unmarshal(msg, &c.env)
		got <- c

		for _, f := range [][]byte{
			frame(0, StatusFirst, []byte("ID3")),
			frame(0, StatusContinue, []byte("-audio")),
			frame(0, StatusLast, []byte("-end")),
		} {
			if err := conn.WriteMessage(websocket.TextMessage, f); err != nil {
				return
			}
		}
		// Wait for the client to close.
		_, _, _ = conn.ReadMessage()
	})

	client := NewClient("app-1", "key-1", "secret-1",
		WithEndpoint(endpoint),
		WithRootCAs(certPool(srv)),
		WithConnectTimeout(5*time.Second),
		WithReadTimeout(5*time.Second),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	out := filepath.Join(t.TempDir(), "speech.mp3")

	res, err := client.TTS.Synthesize(context.Background(), &TTSRequest{Text: "讯飞"}, out)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	if !res.OK || !res.Completed {
		t.Errorf("OK/Completed = %v/%v, want true/true", res.OK, res.Completed)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "ID3-audio-end" {
		t.Errorf("output = %q, want %q", data, "ID3-audio-end")
	}

	c := <-got
	if c.query.Get("host") != DefaultSignedHost {
		t.Errorf("host param = %q, want %q", c.query.Get("host"), DefaultSignedHost)
	}
	if c.query.Get("date") == "" || c.query.Get("authorization") == "" {
		t.Errorf("missing signature parameters: %v", c.query)
	}
	if text := string(c.env.Data.Text); text != "讯飞" {
		t.Errorf("envelope text = %q, want %q", text, "讯飞")
	}
	if c.env.Business.Voice != DefaultVoice {
		t.Errorf("vcn = %q, want %q", c.env.Business.Voice, DefaultVoice)
	}
}
