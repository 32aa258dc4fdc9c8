package rfc822

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner(t *testing.T) {
	const literal = `this part of the text should be ignored

--longrandomstring

body1

--longrandomstring

body2

--longrandomstring--
`

	scanner, err := NewScanner(bytes.NewReader([]byte(literal)), "longrandomstring")
	require.NoError(t, err)

	parts, err := scanner.ScanAll()
	require.NoError(t, err)
	require.Equal(t, 2, len(parts))

	assert.Equal(t, "\nbody1\n", string(parts[0].Data))
	assert.Equal(t, "\nbody2\n", string(parts[1].Data))

	assert.Equal(t, "\nbody1\n", literal[parts[0].Offset:parts[0].Offset+len(parts[0].Data)])
	assert.Equal(t, "\nbody2\n", literal[parts[1].Offset:parts[1].Offset+len(parts[1].Data)])
}

func TestScannerNested(t *testing.T) {
	const literal = `This is the preamble. It is to be ignored.
--simple boundary
Content-type: multipart/mixed; boundary="nested boundary"

--nested boundary
Content-type: text/plain; charset=us-ascii

This part does not end with a linebreak.
--nested boundary
Content-type: text/plain; charset=us-ascii

This part does end with a linebreak.

--nested boundary--
--simple boundary
Content-type: text/plain; charset=us-ascii

This part does end with a linebreak.

--simple boundary--
This is the epilogue. It is also to be ignored.
`

	scanner, err := NewScanner(bytes.NewReader([]byte(literal)), "simple boundary")
	require.NoError(t, err)

	parts, err := scanner.ScanAll()
	require.NoError(t, err)
	require.Equal(t, 2, len(parts))

	assert.True(t, bytes.HasPrefix(parts[0].Data, []byte(`Content-type: multipart/mixed; boundary="nested boundary"`)))
	assert.True(t, bytes.HasSuffix(parts[0].Data, []byte("--nested boundary--")))

	assert.Equal(t, `Content-type: text/plain; charset=us-ascii

This part does end with a linebreak.
`, string(parts[1].Data))
}

func TestScannerBoundaryPrefixIsNotTerminator(t *testing.T) {
	// A part whose content starts with the boundary text must not confuse
	// delimiter matching; only exact "--boundary" lines count.
	const literal = "--b\r\n--bx is content\r\n--b\r\nsecond\r\n--b--\r\n"

	scanner, err := NewScanner(bytes.NewReader([]byte(literal)), "b")
	require.NoError(t, err)

	parts, err := scanner.ScanAll()
	require.NoError(t, err)
	require.Equal(t, 2, len(parts))

	assert.Equal(t, "--bx is content", string(parts[0].Data))
	assert.Equal(t, "second", string(parts[1].Data))
}

func TestScannerDelimiterTrailingWhitespace(t *testing.T) {
	const literal = "--b \t\r\nfirst\r\n--b-- \r\nepilogue\r\n"

	scanner, err := NewScanner(bytes.NewReader([]byte(literal)), "b")
	require.NoError(t, err)

	parts, err := scanner.ScanAll()
	require.NoError(t, err)
	require.Equal(t, 1, len(parts))

	assert.Equal(t, "first", string(parts[0].Data))
}

func TestScannerNoBoundaryYieldsNoParts(t *testing.T) {
	scanner, err := NewScanner(bytes.NewReader([]byte("no boundary anywhere\r\nin this content\r\n")), "b")
	require.NoError(t, err)

	parts, err := scanner.ScanAll()
	require.NoError(t, err)
	assert.Empty(t, parts)
}

func TestScannerMissingTerminator(t *testing.T) {
	// Without a terminating delimiter the final segment runs to the end of
	// the content.
	const literal = "--b\r\nfirst\r\n--b\r\nsecond without terminator\r\n"

	scanner, err := NewScanner(bytes.NewReader([]byte(literal)), "b")
	require.NoError(t, err)

	parts, err := scanner.ScanAll()
	require.NoError(t, err)
	require.Equal(t, 2, len(parts))

	assert.Equal(t, "first", string(parts[0].Data))
	assert.Equal(t, "second without terminator", string(parts[1].Data))
}
