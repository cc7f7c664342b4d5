package xfyunspeech

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// SignURL signs a connection URL with the client's credentials and clock.
//
// The signature is time-bound; sign again for every connection.
func (c *Client) SignURL() (*SignedConnection, error) {
	return BuildConnectionURL(
		c.config.endpoint,
		c.config.signedHost,
		c.config.requestPath,
		c.config.apiKey,
		c.config.apiSecret,
		c.config.clock(),
	)
}

// BuildConnectionURL builds the authenticated connection URL for the given
// instant.
//
// The signed string is three lines:
//
//	host: <host>
//	date: <RFC 1123 date in GMT>
//	GET <path> HTTP/1.1
//
// It is signed with HMAC-SHA256 keyed by apiSecret. The authorization
// parameter is the base64 of
//
//	api_key="<apiKey>", algorithm="hmac-sha256", headers="host date request-line", signature="<sig>"
//
// The only error is an endpoint that does not parse.
func BuildConnectionURL(endpoint, host, path, apiKey, apiSecret string, now time.Time) (*SignedConnection, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("xfyunspeech: parse endpoint: %w", err)
	}

	date := now.UTC().Format(http.TimeFormat)
	signature := base64.StdEncoding.EncodeToString(
		hmacSHA256([]byte(apiSecret), signatureBase(host, date, path)),
	)

	origin := fmt.Sprintf(`api_key="%s", algorithm="%s", headers="%s", signature="%s"`,
		apiKey, signAlgorithm, signHeaders, signature)
	authorization := base64.StdEncoding.EncodeToString([]byte(origin))

	q := url.Values{}
	q.Set("authorization", authorization)
	q.Set("date", date)
	q.Set("host", host)
	u.RawQuery = q.Encode()

	return &SignedConnection{
		URL:           u.String(),
		Date:          date,
		Host:          host,
		Authorization: authorization,
	}, nil
}

// signatureBase returns the string covered by the signature.
func signatureBase(host, date, path string) string {
	return "host: " + host + "\n" +
		"date: " + date + "\n" +
		"GET " + path + " HTTP/1.1"
}

// hmacSHA256 calculates HMAC-SHA256
func hmacSHA256(key []byte, data string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(data))
	return h.Sum(nil)
}
