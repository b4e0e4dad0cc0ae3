package csrf

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXSRFTokenCodecRoundTrip(t *testing.T) {
	c := XSRFTokenCodec{Timeout: time.Hour}

	tok, err := c.Mint(testSecret)
	require.NoError(t, err)
	assert.True(t, c.Verify(testSecret, tok))
	assert.False(t, c.Verify("s2", tok), "token must be bound to its secret")
}

func TestXSRFTokenCodecMintsDistinctTokens(t *testing.T) {
	c := XSRFTokenCodec{}
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tok, err := c.Mint(testSecret)
		require.NoError(t, err)
		require.False(t, seen[tok], "duplicate token %q", tok)
		seen[tok] = true
	}
}

func TestXSRFTokenCodecRejectsTampering(t *testing.T) {
	c := XSRFTokenCodec{}
	tok, err := c.Mint(testSecret)
	require.NoError(t, err)

	salt, sig, ok := strings.Cut(tok, ".")
	require.True(t, ok)

	other, err := c.Mint(testSecret)
	require.NoError(t, err)
	otherSalt, _, _ := strings.Cut(other, ".")

	for name, bad := range map[string]string{
		"empty":        "",
		"no separator": salt + sig,
		"empty salt":   "." + sig,
		"swapped salt": otherSalt + "." + sig,
		"plain text":   "hello",
	} {
		assert.False(t, c.Verify(testSecret, bad), name)
	}
}

func TestXSRFTokenCodecUserBinding(t *testing.T) {
	alice := XSRFTokenCodec{UserID: "alice"}
	bob := XSRFTokenCodec{UserID: "bob"}

	tok, err := alice.Mint(testSecret)
	require.NoError(t, err)
	assert.True(t, alice.Verify(testSecret, tok))
	assert.False(t, bob.Verify(testSecret, tok))
}

func TestXSRFTokenCodecExpiry(t *testing.T) {
	c := XSRFTokenCodec{Timeout: time.Millisecond}
	tok, err := c.Mint(testSecret)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	assert.False(t, c.Verify(testSecret, tok))
}
