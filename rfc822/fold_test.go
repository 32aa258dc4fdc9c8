package rfc822

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnfold(t *testing.T) {
	assert.Equal(t, []byte("Subject: this is a multiline field"), Unfold([]byte("Subject: this is\r\n a multiline field")))
	assert.Equal(t, []byte("Subject: this is\ta multiline field"), Unfold([]byte("Subject: this is\r\n\ta multiline field")))
	assert.Equal(t, []byte("Subject: bare LF is accepted"), Unfold([]byte("Subject: bare LF\n is accepted")))

	// A break not followed by whitespace is not a fold.
	assert.Equal(t, []byte("Subject: one\r\nTo: two"), Unfold([]byte("Subject: one\r\nTo: two")))
}

func TestFoldShortLineUnchanged(t *testing.T) {
	line := []byte("Subject: short enough")

	assert.Equal(t, line, Fold(line, 78))
}

func TestFoldRespectsLimit(t *testing.T) {
	line := []byte("Subject: " + strings.Repeat("word ", 40) + "end")

	folded := Fold(line, 78)

	for _, wireLine := range bytes.Split(folded, []byte("\r\n")) {
		assert.LessOrEqual(t, len(wireLine), 78)
	}
}

func TestFoldUnfoldInverse(t *testing.T) {
	lines := [][]byte{
		[]byte("Subject: " + strings.Repeat("word ", 40) + "end"),
		[]byte("To: " + strings.Repeat("someone@example.com, ", 10) + "last@example.com"),
		[]byte("Subject:\t" + strings.Repeat("tabbed\t", 30) + "end"),
	}

	for _, line := range lines {
		require.Equal(t, string(line), string(Unfold(Fold(line, 78))))
	}
}

func TestFoldNoWhitespaceBeforeLimit(t *testing.T) {
	// The only break point lies beyond the limit; folding must still use it.
	line := []byte("X-Token: " + strings.Repeat("a", 100) + " tail")

	folded := Fold(line, 20)

	assert.Equal(t, string(line), string(Unfold(folded)))
	assert.True(t, bytes.Contains(folded, []byte("\r\n")))
}

func TestFoldNoWhitespaceAnywhere(t *testing.T) {
	// Without any whitespace the line is emitted unbroken rather than
	// corrupted.
	line := []byte("X-Token:" + strings.Repeat("a", 200))

	assert.Equal(t, line, Fold(line, 78))
}
