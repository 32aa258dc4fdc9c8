package rfc822

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentDisposition(t *testing.T) {
	disposition, err := ParseContentDisposition(`attachment; filename="report.pdf"; size=1024`)
	require.NoError(t, err)

	assert.Equal(t, DispositionAttachment, disposition.Type)
	assert.Equal(t, "report.pdf", disposition.Filename)
	assert.Equal(t, int64(1024), disposition.Size)
	assert.True(t, disposition.CreationDate.IsZero())
}

func TestParseContentDispositionInline(t *testing.T) {
	disposition, err := ParseContentDisposition("inline")
	require.NoError(t, err)

	assert.Equal(t, DispositionInline, disposition.Type)
	assert.Equal(t, int64(-1), disposition.Size)
}

func TestParseContentDispositionUnknownTokenIsAttachment(t *testing.T) {
	disposition, err := ParseContentDisposition("x-whatever")
	require.NoError(t, err)

	assert.Equal(t, DispositionAttachment, disposition.Type)
}

func TestParseContentDispositionDates(t *testing.T) {
	disposition, err := ParseContentDisposition(`attachment; filename=a.txt; modification-date="Wed, 12 Feb 1997 16:29:51 -0500"`)
	require.NoError(t, err)

	assert.Equal(t, "a.txt", disposition.Filename)
	assert.Equal(t, time.Date(1997, time.February, 12, 16, 29, 51, 0, time.FixedZone("zone", -5*3600)).Unix(), disposition.ModificationDate.Unix())
}

func TestParseContentDispositionEmpty(t *testing.T) {
	_, err := ParseContentDisposition("")
	assert.ErrorIs(t, err, ErrInvalidDisposition)
}

func TestContentDispositionRoundTrip(t *testing.T) {
	original := ContentDisposition{
		Type:             DispositionAttachment,
		Filename:         "report.pdf",
		ModificationDate: time.Date(1997, time.February, 12, 16, 29, 51, 0, time.FixedZone("zone", -5*3600)),
		Size:             1024,
	}

	reparsed, err := ParseContentDisposition(original.String())
	require.NoError(t, err)

	assert.Equal(t, original.Type, reparsed.Type)
	assert.Equal(t, original.Filename, reparsed.Filename)
	assert.Equal(t, original.ModificationDate.Unix(), reparsed.ModificationDate.Unix())
	assert.Equal(t, original.Size, reparsed.Size)
}
