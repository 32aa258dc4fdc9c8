package rfc822

import "bytes"

// Split separates a message literal into its header block and body at the
// first blank line. The blank line belongs to neither. A literal without a
// blank line is all header. Bare LF line breaks are accepted.
func Split(b []byte) ([]byte, []byte) {
	remaining := b

	var offset int

	for len(remaining) > 0 {
		ix := bytes.IndexByte(remaining, '\n')
		if ix < 0 {
			return b, nil
		}

		line := remaining[:ix+1]

		if len(bytes.TrimRight(line, "\r\n")) == 0 {
			return b[:offset], b[offset+len(line):]
		}

		offset += len(line)
		remaining = remaining[ix+1:]
	}

	return b, nil
}
