package genai

import (
	"errors"
	"strings"
)

// ErrMissingCredential is returned when neither the request nor the process
// configuration carries an API credential.
var ErrMissingCredential = errors.New("no API credential available")

// ResolveCredential picks the credential for one request. A non-empty
// request-supplied key always wins over the server default. Credentials are
// never persisted; the returned string lives only for the request.
func ResolveCredential(requestKey, serverKey string) (string, error) {
	if key := strings.TrimSpace(requestKey); key != "" {
		return key, nil
	}
	if key := strings.TrimSpace(serverKey); key != "" {
		return key, nil
	}
	return "", ErrMissingCredential
}
