package csrf

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"golang.org/x/net/xsrftoken"
)

// Codec mints and verifies tokens for a secret. Mint may return a
// different token on every call; Verify must be a pure function of its
// inputs.
type Codec interface {
	Mint(secret string) (string, error)
	Verify(secret, token string) bool
}

const saltBytes = 8

// XSRFTokenCodec is the default Codec. Each token is a random salt joined
// to an x/net/xsrftoken signature whose action ID is that salt, so two
// mints never collide even within the same millisecond.
type XSRFTokenCodec struct {
	// UserID optionally binds tokens to a principal. Empty is allowed.
	UserID string
	// Timeout bounds token age. Zero uses xsrftoken.Timeout.
	Timeout time.Duration
}

func (c XSRFTokenCodec) Mint(secret string) (string, error) {
	salt, err := newToken(saltBytes)
	if err != nil {
		return "", err
	}
	return salt + "." + xsrftoken.Generate(secret, c.UserID, salt), nil
}

func (c XSRFTokenCodec) Verify(secret, token string) bool {
	salt, sig, ok := strings.Cut(token, ".")
	if !ok || salt == "" || sig == "" {
		return false
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = xsrftoken.Timeout
	}
	return xsrftoken.ValidFor(sig, secret, c.UserID, salt, timeout)
}

// Gera token aleatório url-safe
func newToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	// base64 URL-encoding sem padding
	return base64.RawURLEncoding.EncodeToString(b), nil
}
