// Package encoding provides JSON field types for binary payloads.
package encoding

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Base64 is a byte slice carried as a standard base64 JSON string.
//
// Decoding goes through the JSON string decoder first, so escaped forms
// such as "\/" are accepted. A JSON null leaves the value unchanged.
type Base64 []byte

// MarshalJSON implements json.Marshaler.
func (b Base64) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.StdEncoding.EncodeToString(b))
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Base64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("base64 field: %w", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("base64 field: %w", err)
	}
	*b = decoded
	return nil
}

// String returns the base64 form.
func (b Base64) String() string {
	return base64.StdEncoding.EncodeToString(b)
}
