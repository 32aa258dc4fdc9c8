package rfc822

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime/quotedprintable"
	"strings"
)

// Encoding is a Content-Transfer-Encoding. The identity encodings differ only
// in what content they promise, so they share a pass-through codec.
type Encoding int

const (
	Encoding7Bit Encoding = iota
	Encoding8Bit
	EncodingBinary
	EncodingQuotedPrintable
	EncodingBase64
)

func (e Encoding) String() string {
	switch e {
	case Encoding8Bit:
		return "8bit"
	case EncodingBinary:
		return "binary"
	case EncodingQuotedPrintable:
		return "quoted-printable"
	case EncodingBase64:
		return "base64"
	default:
		return "7bit"
	}
}

// ParseEncoding maps a Content-Transfer-Encoding token to an Encoding,
// reporting whether the token was recognized. Unknown tokens map to the
// identity encoding so their content passes through untouched.
func ParseEncoding(value string) (Encoding, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "7bit":
		return Encoding7Bit, true
	case "8bit":
		return Encoding8Bit, true
	case "binary":
		return EncodingBinary, true
	case "quoted-printable":
		return EncodingQuotedPrintable, true
	case "base64":
		return EncodingBase64, true
	default:
		return EncodingBinary, false
	}
}

// DecodeTransfer reverses a transfer encoding, yielding the raw content
// octets. Identity encodings return the input unchanged.
func DecodeTransfer(b []byte, encoding Encoding) ([]byte, error) {
	switch encoding {
	case EncodingQuotedPrintable:
		decoded, err := io.ReadAll(quotedprintable.NewReader(bytes.NewReader(b)))
		if err != nil {
			return nil, fmt.Errorf("failed to decode quoted-printable content: %w", err)
		}

		return decoded, nil

	case EncodingBase64:
		stripped := stripWhitespace(b)

		decoded, err := base64.StdEncoding.DecodeString(string(stripped))
		if err != nil {
			// Tolerate stripped padding.
			if decoded, err = base64.RawStdEncoding.DecodeString(string(stripped)); err != nil {
				return nil, fmt.Errorf("failed to decode base64 content: %w", err)
			}
		}

		return decoded, nil

	default:
		return b, nil
	}
}

// EncodeTransfer applies a transfer encoding to raw content octets. Encoded
// output is wrapped at 76 columns.
func EncodeTransfer(b []byte, encoding Encoding) ([]byte, error) {
	switch encoding {
	case EncodingQuotedPrintable:
		return encodeQuotedPrintable(b), nil

	case EncodingBase64:
		encoded := base64.StdEncoding.EncodeToString(b)

		var buf bytes.Buffer

		for len(encoded) > 76 {
			buf.WriteString(encoded[:76])
			buf.WriteString("\r\n")

			encoded = encoded[76:]
		}

		buf.WriteString(encoded)

		return buf.Bytes(), nil

	default:
		return b, nil
	}
}

// encodeQuotedPrintable escapes every octet outside printable US-ASCII, plus
// '=', as an =XX sequence. The stdlib writer instead normalizes lone CR and LF
// octets into hard line breaks, which loses them on decode; escaping them
// keeps the codec an exact inverse for arbitrary binary content. Lines stay
// within 76 columns via soft breaks.
func encodeQuotedPrintable(b []byte) []byte {
	const (
		maxLine  = 76
		upperhex = "0123456789ABCDEF"
	)

	var buf bytes.Buffer

	lineLen := 0

	for _, c := range b {
		width := 1

		if !isQPLiteral(c) {
			width = 3
		}

		// The '=' of the soft break counts towards the limit of the line it
		// ends.
		if lineLen+width > maxLine-1 {
			buf.WriteString("=\r\n")

			lineLen = 0
		}

		if width == 1 {
			buf.WriteByte(c)
		} else {
			buf.WriteByte('=')
			buf.WriteByte(upperhex[c>>4])
			buf.WriteByte(upperhex[c&0x0f])
		}

		lineLen += width
	}

	return buf.Bytes()
}

// isQPLiteral reports whether an octet may appear unescaped in
// quoted-printable content.
func isQPLiteral(c byte) bool {
	return c >= 33 && c <= 126 && c != '='
}

func stripWhitespace(b []byte) []byte {
	res := make([]byte, 0, len(b))

	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			res = append(res, c)
		}
	}

	return res
}
