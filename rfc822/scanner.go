package rfc822

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

type scanState int

const (
	// Another delimiter line was found; more parts may follow.
	scanBoundary scanState = iota

	// The terminating delimiter line was found.
	scanTerminator

	// The content ended without a terminating delimiter.
	scanEOF
)

// Scanner splits a multipart body into its parts. The preamble before the
// first delimiter line and the epilogue after the terminating one are
// discarded. Delimiter matching is exact: a line is a delimiter only when,
// after stripping trailing whitespace, it equals "--boundary" or
// "--boundary--".
type Scanner struct {
	reader    *bufio.Reader
	boundary  []byte
	progress  int
	exhausted bool
}

// Part is the raw bytes of one multipart segment, header block included,
// together with its offset into the scanned body.
type Part struct {
	Data   []byte
	Offset int
}

// NewScanner wraps a multipart body and consumes its preamble. A body that
// never mentions the boundary yields no parts.
func NewScanner(reader io.Reader, boundary string) (*Scanner, error) {
	scanner := &Scanner{
		reader:   bufio.NewReader(reader),
		boundary: []byte(boundary),
	}

	if _, state, err := scanner.readToBoundary(); err != nil {
		return nil, err
	} else if state != scanBoundary {
		scanner.exhausted = true
	}

	return scanner, nil
}

// ScanAll collects every part of the body. A missing terminating delimiter is
// tolerated: the final segment then runs to the end of the content.
func (s *Scanner) ScanAll() ([]Part, error) {
	var parts []Part

	for !s.exhausted {
		offset := s.progress

		data, state, err := s.readToBoundary()
		if err != nil {
			return nil, err
		}

		switch state {
		case scanBoundary:
			parts = append(parts, Part{Data: data, Offset: offset})

		case scanTerminator:
			s.exhausted = true

			parts = append(parts, Part{Data: data, Offset: offset})

		case scanEOF:
			s.exhausted = true

			if len(data) > 0 {
				parts = append(parts, Part{Data: data, Offset: offset})
			}
		}
	}

	return parts, nil
}

// readToBoundary accumulates lines up to the next delimiter line, returning
// the segment between with its final line break stripped. The terminating
// delimiter is checked before the part delimiter since the latter is a prefix
// of the former.
func (s *Scanner) readToBoundary() ([]byte, scanState, error) {
	var res []byte

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err != io.EOF {
				return nil, scanEOF, fmt.Errorf("failed to read line: %w", err)
			}

			s.progress += len(line)

			res = append(res, line...)

			return trimPartSuffix(res), scanEOF, nil
		}

		s.progress += len(line)

		trimmed := bytes.TrimRight(line, " \t\r\n")

		if len(trimmed) == len(s.boundary)+4 && bytes.Equal(trimmed[:2], []byte("--")) && bytes.Equal(trimmed[2:len(s.boundary)+2], s.boundary) && bytes.Equal(trimmed[len(s.boundary)+2:], []byte("--")) {
			return trimPartSuffix(res), scanTerminator, nil
		}

		if len(trimmed) == len(s.boundary)+2 && bytes.Equal(trimmed[:2], []byte("--")) && bytes.Equal(trimmed[2:], s.boundary) {
			return trimPartSuffix(res), scanBoundary, nil
		}

		res = append(res, line...)
	}
}

// trimPartSuffix drops the line break that belongs to the delimiter line
// rather than to the part content.
func trimPartSuffix(res []byte) []byte {
	res = bytes.TrimSuffix(res, []byte("\n"))
	res = bytes.TrimSuffix(res, []byte("\r"))

	return res
}
