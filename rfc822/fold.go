package rfc822

import "bytes"

// DefaultMaxLineLength is the preferred wire line length for folded header
// fields, per RFC 5322 section 2.1.1.
const DefaultMaxLineLength = 78

func isFoldWS(b byte) bool {
	return b == ' ' || b == '\t'
}

// Unfold removes every line break that is immediately followed by a space or
// tab, preserving that whitespace. Bare LF line breaks are accepted for
// robustness.
func Unfold(line []byte) []byte {
	res := make([]byte, 0, len(line))

	for i := 0; i < len(line); {
		if line[i] == '\r' && i+2 < len(line) && line[i+1] == '\n' && isFoldWS(line[i+2]) {
			i += 2
			continue
		}

		if line[i] == '\n' && i+1 < len(line) && isFoldWS(line[i+1]) {
			i++
			continue
		}

		res = append(res, line[i])
		i++
	}

	return res
}

// Fold breaks an assembled header line at whitespace so that no wire line
// exceeds maxLength. The whitespace the line is broken at starts the
// continuation line, which makes Unfold an exact inverse. A line without any
// whitespace is emitted unbroken rather than corrupted.
func Fold(line []byte, maxLength int) []byte {
	if maxLength <= 0 {
		maxLength = DefaultMaxLineLength
	}

	if len(line) <= maxLength {
		return line
	}

	var out bytes.Buffer

	rest := line

	for len(rest) > maxLength {
		// Last whitespace at or before the limit; never position 0, that
		// would make no progress.
		ix := bytes.LastIndexFunc(rest[1:maxLength+1], func(r rune) bool {
			return r == ' ' || r == '\t'
		})

		if ix >= 0 {
			ix++ // compensate for the rest[1:] slice
		} else {
			// No break point before the limit: first whitespace after it.
			fwd := bytes.IndexFunc(rest[maxLength+1:], func(r rune) bool {
				return r == ' ' || r == '\t'
			})
			if fwd < 0 {
				break
			}

			ix = maxLength + 1 + fwd
		}

		out.Write(rest[:ix])
		out.WriteString("\r\n")

		rest = rest[ix:]
	}

	out.Write(rest)

	return out.Bytes()
}
