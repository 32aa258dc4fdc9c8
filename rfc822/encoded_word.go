package rfc822

import (
	"fmt"
	"io"
	"mime"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// CharsetReader returns a reader converting input from the named charset to
// UTF-8. It never fails: an unknown charset falls back to passing the bytes
// through as-is, on the assumption that they are already UTF-8.
func CharsetReader(charset string, input io.Reader) (io.Reader, error) {
	reader, _ := charsetReader(charset, input)
	return reader, nil
}

func charsetReader(charset string, input io.Reader) (io.Reader, bool) {
	lower := strings.ToLower(charset)

	switch lower {
	case "", "utf-8", "utf8", "us-ascii", "ascii", "ansi_x3.4-1968":
		return input, true

	case "latin1", "latin-1", "iso8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), true
	}

	if enc, err := ianaindex.MIME.Encoding(lower); err == nil && enc != nil {
		return enc.NewDecoder().Reader(input), true
	}

	if enc, err := htmlindex.Get(lower); err == nil && enc != nil {
		return enc.NewDecoder().Reader(input), true
	}

	return input, false
}

// DecodeHeader decodes any RFC 2047 encoded-words in a header value. Decoding
// is best-effort: values that cannot be decoded are returned verbatim, and
// every fallback taken is reported as a warning string.
func DecodeHeader(value string) (string, []string) {
	if !strings.Contains(value, "=?") {
		return value, nil
	}

	var warnings []string

	decoder := mime.WordDecoder{
		CharsetReader: func(charset string, input io.Reader) (io.Reader, error) {
			reader, known := charsetReader(charset, input)
			if !known {
				warnings = append(warnings, fmt.Sprintf("unknown charset '%v', decoded as utf-8", charset))
			}

			return reader, nil
		},
	}

	decoded, err := decoder.DecodeHeader(value)
	if err != nil {
		return value, append(warnings, fmt.Sprintf("malformed encoded-word left verbatim: %v", err))
	}

	return decoded, warnings
}

// EncodeHeader makes a header value 7-bit safe, wrapping it in UTF-8 B
// encoded-words when it contains non-ASCII. Plain ASCII values pass through
// unchanged.
func EncodeHeader(value string) string {
	return mime.BEncoding.Encode("utf-8", value)
}
