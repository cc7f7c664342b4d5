package xfyunspeech

import (
	"fmt"
	"time"
)

// ================== Protocol Constants ==================

const (
	// DefaultEndpoint is the WebSocket endpoint the client connects to.
	DefaultEndpoint = "wss://tts-api.xfyun.cn/v2/tts"

	// DefaultSignedHost is the host that goes into the signature and the
	// host query parameter. It differs from the endpoint host.
	DefaultSignedHost = "ws-api.xfyun.cn"

	// DefaultRequestPath is the request-line path covered by the signature.
	DefaultRequestPath = "/v2/tts"

	// DefaultVoice is used when neither the request nor the client sets one.
	DefaultVoice = "x_xiaomei"
)

// Signature scheme constants.
const (
	signAlgorithm = "hmac-sha256"
	signHeaders   = "host date request-line"
)

// Fixed business parameters negotiated with the service.
const (
	AudioEncodingLame = "lame"                 // aue: mp3
	AudioFormatL16    = "audio/L16;rate=16000" // auf
	TextEncodingUTF8  = "utf8"                 // tte
	streamFlagOn      = 1                      // sfl
)

// dataStatusWhole tells the service the entire text is in one frame.
const dataStatusWhole = 2

// ================== Frame Status ==================

// FrameStatus is the position of an inbound frame in the synthesis stream.
type FrameStatus int

const (
	StatusFirst    FrameStatus = 0
	StatusContinue FrameStatus = 1
	StatusLast     FrameStatus = 2
)

func (s FrameStatus) String() string {
	switch s {
	case StatusFirst:
		return "first"
	case StatusContinue:
		return "continue"
	case StatusLast:
		return "last"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ================== Session State ==================

// SessionState is the state of a streaming session.
type SessionState int

const (
	StateConnecting SessionState = iota
	StateSending
	StateReceiving
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateSending:
		return "sending"
	case StateReceiving:
		return "receiving"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ================== Request / Result ==================

// TTSRequest is the per-call synthesis payload. Credentials live on the Client.
type TTSRequest struct {
	// Text is the UTF-8 text to synthesize. It is sent as-is in one frame.
	Text string `json:"text" yaml:"text"`

	// Voice is the speaker (vcn). Empty means the client default.
	Voice string `json:"voice,omitempty" yaml:"voice,omitempty"`
}

// SignedConnection is a freshly signed connection target.
type SignedConnection struct {
	URL           string
	Date          string
	Host          string
	Authorization string
}

// TTSResult reports the outcome of one streaming session.
type TTSResult struct {
	// OK reports whether the output file exists after the session ended.
	// It is checked independently of how the session ended, so a session
	// that failed after writing some audio still reports OK.
	OK bool `json:"ok"`

	// Completed is true when a LAST frame ended the session.
	Completed bool `json:"completed"`

	// State is the last state the session reached.
	State SessionState `json:"-"`

	OutputPath    string        `json:"output_path"`
	AudioSize     int64         `json:"audio_size"`
	Frames        int           `json:"frames"`
	Chunks        int           `json:"chunks"`
	SID           string        `json:"sid,omitempty"`
	Voice         string        `json:"voice"`
	ServiceErrors []*Error      `json:"service_errors,omitempty"`
	Duration      time.Duration `json:"duration"`
}
