package rfc822

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/exp/slices"
)

var rxWhitespace = regexp.MustCompile(`^\s+`)

// Header is an ordered, multi-valued collection of header fields. The raw
// bytes of every line are retained so that an unmodified header block can be
// written back out byte for byte.
type Header struct {
	lines [][]byte
}

// ParseHeader splits a raw header block into logical lines, merging folded
// continuation lines (and lines inside an unbalanced quote) into the field
// they continue. Lines without a colon stay as standalone noise lines, which
// every lookup skips.
func ParseHeader(header []byte) *Header {
	var (
		lines [][]byte
		quote int
	)

	forEachLine(header, func(line []byte) {
		split := splitLine(line)

		switch {
		case quote%2 != 0, rxWhitespace.Match(split[0]):
			if len(lines) > 0 {
				lines[len(lines)-1] = append(lines[len(lines)-1], line...)
			} else {
				lines = append(lines, line)
			}

		default:
			lines = append(lines, line)
		}

		quote += bytes.Count(line, []byte(`"`))
	})

	return &Header{lines: lines}
}

// NewEmptyHeader returns a header with no fields, ready to be built up with
// Add calls.
func NewEmptyHeader() *Header {
	return &Header{}
}

// Raw returns the exact bytes of the header block.
func (h *Header) Raw() []byte {
	return bytes.Join(h.lines, nil)
}

// Has reports whether a field with the given name exists. Field names are
// case-insensitive.
func (h *Header) Has(key string) bool {
	for _, line := range h.lines {
		split := splitLine(line)
		if len(split) != 2 {
			continue
		}

		if strings.EqualFold(string(split[0]), key) {
			return true
		}
	}

	return false
}

// Get returns the value of the first field with the given name, unfolded and
// with outer whitespace trimmed.
func (h *Header) Get(key string) string {
	v, _ := h.GetChecked(key)
	return v
}

// GetChecked behaves like Get but reports whether the field exists at all,
// distinguishing an absent field from an empty one.
func (h *Header) GetChecked(key string) (string, bool) {
	for _, line := range h.lines {
		split := splitLine(line)
		if len(split) != 2 {
			continue
		}

		if strings.EqualFold(string(split[0]), key) {
			return string(mergeMultiline(split[1])), true
		}
	}

	return "", false
}

// GetRaw returns the value of the first field with the given name with the
// original folding intact, without the trailing line break.
func (h *Header) GetRaw(key string) []byte {
	for _, line := range h.lines {
		split := splitLine(line)
		if len(split) != 2 {
			continue
		}

		if strings.EqualFold(string(split[0]), key) {
			return bytes.TrimRight(bytes.TrimPrefix(split[1], []byte{' '}), "\r\n")
		}
	}

	return nil
}

// GetLine returns the full raw line of the first field with the given name,
// name and line break included.
func (h *Header) GetLine(key string) []byte {
	for _, line := range h.lines {
		split := splitLine(line)
		if len(split) != 2 {
			continue
		}

		if strings.EqualFold(string(split[0]), key) {
			return line
		}
	}

	return nil
}

// Values returns every value carried by fields with the given name, in
// order of appearance.
func (h *Header) Values(key string) []string {
	var values []string

	for _, line := range h.lines {
		split := splitLine(line)
		if len(split) != 2 {
			continue
		}

		if strings.EqualFold(string(split[0]), key) {
			values = append(values, string(mergeMultiline(split[1])))
		}
	}

	return values
}

// Set replaces the value of the first field with the given name, inserting a
// new field at the front when none exists.
func (h *Header) Set(key, val string) {
	for ix, line := range h.lines {
		split := splitLine(line)
		if len(split) != 2 {
			continue
		}

		if strings.EqualFold(string(split[0]), key) {
			h.lines[ix] = joinLine(split[0], []byte(val))
			return
		}
	}

	h.lines = slices.Insert(h.lines, 0, joinLine([]byte(key), []byte(val)))
}

// Add appends a field at the end of the header, after any existing fields
// with the same name.
func (h *Header) Add(key, val string) {
	h.lines = append(h.lines, joinLine([]byte(key), []byte(val)))
}

// Del removes the first field with the given name.
func (h *Header) Del(key string) {
	for ix, line := range h.lines {
		split := splitLine(line)
		if len(split) != 2 {
			continue
		}

		if strings.EqualFold(string(split[0]), key) {
			h.lines = append(h.lines[:ix], h.lines[ix+1:]...)
			return
		}
	}
}

// Entries calls fn once per field, in order, with the field name as it
// appears on the wire and the unfolded value. Noise lines are skipped.
func (h *Header) Entries(fn func(key, val string)) {
	for _, line := range h.lines {
		split := splitLine(line)
		if len(split) != 2 {
			continue
		}

		fn(string(split[0]), string(mergeMultiline(split[1])))
	}
}

// Fields returns the raw bytes of the fields whose names appear in the given
// set, preserving their order.
func (h *Header) Fields(fields []string) []byte {
	wantFields := make(map[string]struct{}, len(fields))

	for _, field := range fields {
		wantFields[strings.ToLower(field)] = struct{}{}
	}

	var res []byte

	for _, line := range h.lines {
		split := splitLine(line)
		if len(split) != 2 {
			continue
		}

		if _, ok := wantFields[strings.ToLower(string(split[0]))]; ok {
			res = append(res, line...)
		}
	}

	return res
}

func forEachLine(b []byte, fn func(line []byte)) {
	for len(b) > 0 {
		ix := bytes.IndexByte(b, '\n')
		if ix < 0 {
			fn(b)
			return
		}

		fn(b[:ix+1])

		b = b[ix+1:]
	}
}

// splitLine splits a raw line at the first colon. The result has one element
// for a noise line and two (name, value) otherwise. A colon in the first
// position counts as noise.
func splitLine(line []byte) [][]byte {
	result := bytes.SplitN(line, []byte(`:`), 2)

	if len(result) > 1 && len(result[0]) > 0 {
		return result
	}

	return [][]byte{line}
}

func joinLine(key, val []byte) []byte {
	res := make([]byte, 0, len(key)+len(val)+4)

	res = append(res, key...)
	res = append(res, ':', ' ')
	res = append(res, val...)
	res = append(res, '\r', '\n')

	return res
}

// mergeMultiline collapses a folded value into a single line, joining the
// trimmed fold lines with single spaces.
func mergeMultiline(line []byte) []byte {
	remaining := line

	builder := strings.Builder{}

	for len(remaining) != 0 {
		index := bytes.Index(remaining, []byte{'\n'})
		if index < 0 {
			builder.Write(bytes.TrimSpace(remaining))
			break
		}

		var section []byte
		if index >= 1 && remaining[index-1] == '\r' {
			section = remaining[:index-1]
		} else {
			section = remaining[:index]
		}

		remaining = remaining[index+1:]

		if len(section) != 0 {
			builder.Write(bytes.TrimSpace(section))

			if len(remaining) != 0 {
				builder.WriteRune(' ')
			}
		}
	}

	return []byte(builder.String())
}
