package xfyunspeech

import (
	"encoding/json"
	"errors"

	"github.com/haivivi/xfyunspeech/pkg/encoding"
)

// Frame is one decoded inbound message.
type Frame struct {
	Code    int
	Message string
	SID     string
	Status  FrameStatus

	// Audio is the decoded chunk. HasAudio distinguishes an absent field
	// from an empty one.
	Audio    []byte
	HasAudio bool

	// Progress is the optional synthesis progress (data.ced).
	Progress string
}

// IsLast reports whether the frame terminates the stream.
func (f *Frame) IsLast() bool {
	return f.Status == StatusLast
}

// wireFrame mirrors the inbound JSON. Pointers mark required fields.
type wireFrame struct {
	Code    *int      `json:"code"`
	Message string    `json:"message"`
	SID     *string   `json:"sid"`
	Data    *wireData `json:"data"`
}

type wireData struct {
	Audio  *encoding.Base64 `json:"audio"`
	Status *int             `json:"status"`
	Ced    string           `json:"ced"`
}

// DecodeFrame parses one inbound message.
//
// code, sid and data.status are required. data.audio is optional and
// must be valid base64 when present. Code and status are not interpreted here.
// Every failure wraps ErrDecode.
func DecodeFrame(raw []byte) (*Frame, error) {
	var w wireFrame
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, wrapError(ErrDecode, err, "unmarshal frame")
	}

	switch {
	case w.Code == nil:
		return nil, wrapError(ErrDecode, errors.New("missing code"), "validate frame")
	case w.SID == nil:
		return nil, wrapError(ErrDecode, errors.New("missing sid"), "validate frame")
	case w.Data == nil || w.Data.Status == nil:
		return nil, wrapError(ErrDecode, errors.New("missing data.status"), "validate frame")
	}

	f := &Frame{
		Code:     *w.Code,
		Message:  w.Message,
		SID:      *w.SID,
		Status:   FrameStatus(*w.Data.Status),
		Progress: w.Data.Ced,
	}

	if w.Data.Audio != nil {
		f.Audio = *w.Data.Audio
		f.HasAudio = true
	}

	return f, nil
}
