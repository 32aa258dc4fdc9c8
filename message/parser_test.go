package message

import (
	"context"
	"strings"
	"testing"

	"github.com/blockmail/blockmail/rfc822"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleLiteral = "Date: Fri, 21 Nov 1997 09:55:06 -0600\r\n" +
	"From: John Doe <john@example.com>\r\n" +
	"To: Jane Doe <jane@example.com>, solo@example.com\r\n" +
	"Message-ID: <1234@example.com>\r\n" +
	"Subject: Saying Hello\r\n" +
	"X-Custom: first value\r\n" +
	"X-Custom: second value\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: text/plain; charset=us-ascii\r\n" +
	"\r\n" +
	"This is a message just to say hello.\r\n"

func TestParseSimpleMessage(t *testing.T) {
	metadata, err := Parse(context.Background(), []byte(simpleLiteral))
	require.NoError(t, err)

	assert.Equal(t, "john", metadata.From.LocalPart)
	assert.Equal(t, "example.com", metadata.From.Domain)
	assert.Equal(t, "John Doe", metadata.From.DisplayName)

	require.Len(t, metadata.To, 2)

	assert.Equal(t, "<1234@example.com>", metadata.MessageID)
	assert.Equal(t, "Saying Hello", metadata.Subject)
	assert.Equal(t, 1997, metadata.Date.Year())
	assert.Equal(t, "1.0", metadata.MIMEVersion)
	assert.Equal(t, rfc822.TextPlain, metadata.ContentType.MIMEType())

	require.Len(t, metadata.Parts, 1)
	assert.Equal(t, "This is a message just to say hello.\r\n", string(metadata.Parts[0].Body))
	assert.Equal(t, len(metadata.Parts[0].Body), metadata.Parts[0].Size)

	assert.Equal(t, []HeaderField{
		{Key: "X-Custom", Value: "first value"},
		{Key: "X-Custom", Value: "second value"},
	}, metadata.CustomHeaders)

	assert.Empty(t, metadata.Warnings)
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse(context.Background(), nil)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseMissingFrom(t *testing.T) {
	const literal = "To: jane@example.com\r\nSubject: no sender\r\n\r\nbody\r\n"

	_, err := Parse(context.Background(), []byte(literal))
	assert.ErrorIs(t, err, ErrMissingRequiredHeader)
}

func TestParseGeneratesMessageID(t *testing.T) {
	const literal = "From: john@example.com\r\nTo: jane@example.com\r\n\r\nbody\r\n"

	metadata, err := Parse(context.Background(), []byte(literal))
	require.NoError(t, err)

	require.NoError(t, ValidateMessageID(metadata.MessageID))
	assert.True(t, strings.HasSuffix(metadata.MessageID, "@example.com>"))
}

func TestParseReplacesInvalidMessageID(t *testing.T) {
	const literal = "From: john@example.com\r\nMessage-ID: <no-at-sign>\r\n\r\nbody\r\n"

	metadata, err := Parse(context.Background(), []byte(literal))
	require.NoError(t, err)

	require.NoError(t, ValidateMessageID(metadata.MessageID))
	assert.NotEqual(t, "<no-at-sign>", metadata.MessageID)
	assert.NotEmpty(t, metadata.Warnings)
}

func TestParseValidatesReferences(t *testing.T) {
	const literal = "From: john@example.com\r\n" +
		"In-Reply-To: <parent@example.com>\r\n" +
		"References: <good@example.com> bad-reference <also@good.example>\r\n" +
		"\r\nbody\r\n"

	metadata, err := Parse(context.Background(), []byte(literal))
	require.NoError(t, err)

	assert.Equal(t, "<parent@example.com>", metadata.InReplyTo)
	assert.Equal(t, []string{"<good@example.com>", "<also@good.example>"}, metadata.References)
	assert.NotEmpty(t, metadata.Warnings)
}

func TestParseEncodedSubject(t *testing.T) {
	const literal = "From: john@example.com\r\nSubject: =?UTF-8?B?SGVsbG8=?=\r\n\r\nbody\r\n"

	metadata, err := Parse(context.Background(), []byte(literal))
	require.NoError(t, err)

	assert.Equal(t, "Hello", metadata.Subject)
}

func TestParseMultipart(t *testing.T) {
	const literal = "From: john@example.com\r\n" +
		"Content-Type: multipart/mixed; boundary=b\r\n" +
		"\r\n" +
		"preamble to be ignored\r\n" +
		"--b\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Hello\r\n" +
		"--b\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<p>Hello</p>\r\n" +
		"--b--\r\n" +
		"epilogue to be ignored\r\n"

	metadata, err := Parse(context.Background(), []byte(literal))
	require.NoError(t, err)

	assert.True(t, metadata.ContentType.IsMultiPart())
	require.Len(t, metadata.Parts, 2)

	assert.Equal(t, rfc822.TextPlain, metadata.Parts[0].ContentType.MIMEType())
	assert.Equal(t, "Hello", strings.TrimRight(string(metadata.Parts[0].Body), "\r\n"))

	assert.Equal(t, rfc822.TextHTML, metadata.Parts[1].ContentType.MIMEType())
	assert.Equal(t, "<p>Hello</p>", strings.TrimRight(string(metadata.Parts[1].Body), "\r\n"))
}

func TestParseMultipartBase64Part(t *testing.T) {
	const literal = "From: john@example.com\r\n" +
		"Content-Type: multipart/mixed; boundary=b\r\n" +
		"\r\n" +
		"--b\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		"SGVsbG8=\r\n" +
		"--b--\r\n"

	metadata, err := Parse(context.Background(), []byte(literal))
	require.NoError(t, err)

	require.Len(t, metadata.Parts, 1)
	assert.Equal(t, rfc822.EncodingBase64, metadata.Parts[0].TransferEncoding)
	assert.Equal(t, "Hello", string(metadata.Parts[0].Body))
}

func TestParseMultipartMissingBoundary(t *testing.T) {
	const literal = "From: john@example.com\r\nContent-Type: multipart/mixed\r\n\r\nbody\r\n"

	_, err := Parse(context.Background(), []byte(literal))
	assert.ErrorIs(t, err, ErrMalformedMime)
}

func TestParseDepthLimit(t *testing.T) {
	const literal = "From: john@example.com\r\n" +
		"Content-Type: multipart/mixed; boundary=outer\r\n" +
		"\r\n" +
		"--outer\r\n" +
		"Content-Type: multipart/mixed; boundary=inner\r\n" +
		"\r\n" +
		"--inner\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"deep\r\n" +
		"--inner--\r\n" +
		"--outer--\r\n"

	_, err := Parse(context.Background(), []byte(literal), WithMaxDepth(2))
	assert.ErrorIs(t, err, ErrMalformedMime)

	metadata, err := Parse(context.Background(), []byte(literal))
	require.NoError(t, err)
	require.Len(t, metadata.Parts, 1)
	require.Len(t, metadata.Parts[0].Parts, 1)
}

func TestParseMalformedPartContentTypeDegrades(t *testing.T) {
	const literal = "From: john@example.com\r\n" +
		"Content-Type: this-is-not-a-media-type\r\n" +
		"\r\n" +
		"still readable body\r\n"

	metadata, err := Parse(context.Background(), []byte(literal))
	require.NoError(t, err)

	assert.Equal(t, rfc822.TextPlain, metadata.ContentType.MIMEType())
	assert.Equal(t, "us-ascii", metadata.ContentType.Charset())
	assert.NotEmpty(t, metadata.Warnings)
}

func TestParseDroppedUnparseableAddressListWarns(t *testing.T) {
	const literal = "From: john@example.com\r\nTo: not a valid @@ list\r\n\r\nbody\r\n"

	metadata, err := Parse(context.Background(), []byte(literal))
	require.NoError(t, err)

	assert.Empty(t, metadata.To)
	assert.NotEmpty(t, metadata.Warnings)
}

func TestValidateMessageID(t *testing.T) {
	assert.NoError(t, ValidateMessageID("<abc@example.com>"))
	assert.ErrorIs(t, ValidateMessageID("abc@example.com"), ErrInvalidMessageID)
	assert.ErrorIs(t, ValidateMessageID("<no-at-sign>"), ErrInvalidMessageID)
	assert.ErrorIs(t, ValidateMessageID("<two@@example.com>"), ErrInvalidMessageID)
}
