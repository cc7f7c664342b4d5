package xfyunspeech

import (
	"encoding/json"

	"github.com/haivivi/xfyunspeech/pkg/encoding"
)

// Envelope is the single outbound message of a session.
type Envelope struct {
	Common   EnvelopeCommon   `json:"common"`
	Business EnvelopeBusiness `json:"business"`
	Data     EnvelopeData     `json:"data"`
}

// EnvelopeCommon carries the application id.
type EnvelopeCommon struct {
	AppID string `json:"app_id"`
}

// EnvelopeBusiness carries the format negotiation parameters.
type EnvelopeBusiness struct {
	AudioEncoding string `json:"aue"`
	AudioFormat   string `json:"auf"`
	Voice         string `json:"vcn"`
	TextEncoding  string `json:"tte"`
	StreamFlag    int    `json:"sfl"`
}

// EnvelopeData carries the text. Status 2 means the whole text is in this frame.
type EnvelopeData struct {
	Status int             `json:"status"`
	Text   encoding.Base64 `json:"text"`
}

// NewEnvelope builds the envelope for req. An empty voice is left empty;
// the session resolves defaults before encoding.
func NewEnvelope(appID string, req *TTSRequest) *Envelope {
	return &Envelope{
		Common: EnvelopeCommon{AppID: appID},
		Business: EnvelopeBusiness{
			AudioEncoding: AudioEncodingLame,
			AudioFormat:   AudioFormatL16,
			Voice:         req.Voice,
			TextEncoding:  TextEncodingUTF8,
			StreamFlag:    streamFlagOn,
		},
		Data: EnvelopeData{
			Status: dataStatusWhole,
			Text:   encoding.Base64(req.Text),
		},
	}
}

// EncodeRequest returns the JSON envelope for req. The text is base64 encoded
// verbatim, without chunking or truncation.
func EncodeRequest(appID string, req *TTSRequest) ([]byte, error) {
	return json.Marshal(NewEnvelope(appID, req))
}
