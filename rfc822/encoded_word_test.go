package rfc822

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeHeaderBEncoding(t *testing.T) {
	decoded, warnings := DecodeHeader("=?UTF-8?B?SGVsbG8=?=")

	assert.Equal(t, "Hello", decoded)
	assert.Empty(t, warnings)
}

func TestDecodeHeaderQEncoding(t *testing.T) {
	decoded, warnings := DecodeHeader("=?UTF-8?Q?Hello_=C3=A9?=")

	assert.Equal(t, "Hello é", decoded)
	assert.Empty(t, warnings)
}

func TestDecodeHeaderLatin1(t *testing.T) {
	decoded, warnings := DecodeHeader("=?ISO-8859-1?Q?J=F8rgen?=")

	assert.Equal(t, "Jørgen", decoded)
	assert.Empty(t, warnings)
}

func TestDecodeHeaderPlainASCIIPassesThrough(t *testing.T) {
	decoded, warnings := DecodeHeader("just a plain subject")

	assert.Equal(t, "just a plain subject", decoded)
	assert.Empty(t, warnings)
}

func TestDecodeHeaderUnknownCharsetFallsBackWithWarning(t *testing.T) {
	// The payload is valid UTF-8; the charset label is nonsense. Decoding
	// falls back to UTF-8 and says so.
	decoded, warnings := DecodeHeader("=?x-nonexistent?B?SGVsbG8=?=")

	assert.Equal(t, "Hello", decoded)
	assert.NotEmpty(t, warnings)
}

func TestDecodeHeaderMalformedLeftVerbatim(t *testing.T) {
	decoded, _ := DecodeHeader("=?UTF-8?X?broken?=")

	assert.Equal(t, "=?UTF-8?X?broken?=", decoded)
}

func TestEncodeHeader(t *testing.T) {
	assert.Equal(t, "plain ascii", EncodeHeader("plain ascii"))

	encoded := EncodeHeader("héllo")
	assert.NotEqual(t, "héllo", encoded)

	decoded, warnings := DecodeHeader(encoded)
	assert.Equal(t, "héllo", decoded)
	assert.Empty(t, warnings)
}
