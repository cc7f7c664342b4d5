package xfyunspeech

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{Code: 10313, Message: "appid and apikey mismatch", SID: "tts0001"}
	want := "xfyunspeech: appid and apikey mismatch (code=10313, sid=tts0001)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_IsAuthError(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{CodeAuthFailed, true},
		{CodeLicenseLimit, true},
		{CodeTextTooLong, false},
		{7, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			if got := (&Error{Code: tt.code}).IsAuthError(); got != tt.want {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAsError(t *testing.T) {
	wrapped := fmt.Errorf("synthesize: %w", &Error{Code: 7, Message: "boom"})
	e, ok := AsError(wrapped)
	if !ok || e.Code != 7 {
		t.Errorf("AsError(wrapped) = %v, %v", e, ok)
	}

	if _, ok := AsError(errors.New("plain")); ok {
		t.Error("AsError(plain) = true, want false")
	}
}

func TestWrapError(t *testing.T) {
	if wrapError(ErrSink, nil, "append") != nil {
		t.Error("wrapError(nil) should be nil")
	}

	cause := errors.New("disk full")
	err := wrapError(ErrSink, cause, "append audio")
	if !errors.Is(err, ErrSink) || !errors.Is(err, cause) {
		t.Errorf("error %v should match both kind and cause", err)
	}
	if want := "xfyunspeech: output write failed: append audio: disk full"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestStatusStrings(t *testing.T) {
	if got := FrameStatus(9).String(); got != "status(9)" {
		t.Errorf("FrameStatus(9) = %q", got)
	}
	if got := StatusLast.String(); got != "last" {
		t.Errorf("StatusLast = %q", got)
	}
	if got := StateReceiving.String(); got != "receiving" {
		t.Errorf("StateReceiving = %q", got)
	}
}
