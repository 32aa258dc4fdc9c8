package rfc822

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidContentType reports a Content-Type value whose media type could
// not be parsed.
var ErrInvalidContentType = errors.New("invalid content type")

// Parameter is a single key=value attribute of a structured header field.
// Keys are stored lowercase, values verbatim.
type Parameter struct {
	Key   string
	Value string
}

// ContentType is a parsed Content-Type value. Parameters keep their original
// order so a round trip does not reshuffle them; keys compare
// case-insensitively.
type ContentType struct {
	Type    string
	SubType string
	Params  []Parameter
}

// ParseContentType parses a Content-Type header value. The media type must be
// of the form type/subtype with both sides non-empty; malformed parameters
// after a valid media type are skipped rather than fatal.
func ParseContentType(value string) (ContentType, error) {
	mediaType, rest, _ := strings.Cut(value, ";")

	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		return ContentType{}, fmt.Errorf("%w: empty media type", ErrInvalidContentType)
	}

	mainType, subType, ok := strings.Cut(mediaType, "/")
	if !ok || mainType == "" || subType == "" || strings.Contains(subType, "/") {
		return ContentType{}, fmt.Errorf("%w: malformed media type '%v'", ErrInvalidContentType, mediaType)
	}

	return ContentType{
		Type:    strings.ToLower(mainType),
		SubType: strings.ToLower(subType),
		Params:  parseParameters(rest),
	}, nil
}

// parseParameters scans a parameter list left to right. Values may be quoted
// with backslash escapes; tokens without '=' are skipped as noise.
func parseParameters(s string) []Parameter {
	var params []Parameter

	for i := 0; i < len(s); {
		// Skip separators and surrounding whitespace.
		for i < len(s) && (s[i] == ';' || s[i] == ' ' || s[i] == '\t' || s[i] == '\r' || s[i] == '\n') {
			i++
		}

		if i >= len(s) {
			break
		}

		keyStart := i

		for i < len(s) && s[i] != '=' && s[i] != ';' {
			i++
		}

		if i >= len(s) || s[i] == ';' {
			// Bare token, no value.
			continue
		}

		key := strings.ToLower(strings.TrimSpace(s[keyStart:i]))

		i++ // skip '='

		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}

		var value string

		if i < len(s) && s[i] == '"' {
			i++

			var sb strings.Builder

			for i < len(s) && s[i] != '"' {
				if s[i] == '\\' && i+1 < len(s) {
					i++
				}

				sb.WriteByte(s[i])
				i++
			}

			i++ // closing quote, if any

			value = sb.String()
		} else {
			valueStart := i

			for i < len(s) && s[i] != ';' {
				i++
			}

			value = strings.TrimSpace(s[valueStart:i])
		}

		if key != "" {
			params = append(params, Parameter{Key: key, Value: value})
		}
	}

	return params
}

// MIMEType returns the lowercase type/subtype pair.
func (t ContentType) MIMEType() MIMEType {
	return MIMEType(t.Type + "/" + t.SubType)
}

func (t ContentType) IsMultiPart() bool {
	return t.Type == "multipart"
}

// Param returns the value of the named parameter, reporting whether it is
// present.
func (t ContentType) Param(key string) (string, bool) {
	for _, param := range t.Params {
		if strings.EqualFold(param.Key, key) {
			return param.Value, true
		}
	}

	return "", false
}

// Boundary returns the multipart boundary parameter, or the empty string.
func (t ContentType) Boundary() string {
	v, _ := t.Param("boundary")
	return v
}

// Charset returns the charset parameter, or the empty string.
func (t ContentType) Charset() string {
	v, _ := t.Param("charset")
	return v
}

// SetParam replaces the value of the named parameter, appending a new
// parameter when none exists. The parameter list is copied first so that a
// ContentType sharing its backing array with another value can be modified
// without touching the other.
func (t *ContentType) SetParam(key, value string) {
	params := make([]Parameter, len(t.Params), len(t.Params)+1)
	copy(params, t.Params)

	for ix, param := range params {
		if strings.EqualFold(param.Key, key) {
			params[ix].Value = value
			t.Params = params

			return
		}
	}

	t.Params = append(params, Parameter{Key: strings.ToLower(key), Value: value})
}

// String assembles the value back into wire form, quoting parameter values
// that contain tspecials or whitespace.
func (t ContentType) String() string {
	var sb strings.Builder

	sb.WriteString(t.Type)
	sb.WriteByte('/')
	sb.WriteString(t.SubType)

	for _, param := range t.Params {
		sb.WriteString("; ")
		sb.WriteString(param.Key)
		sb.WriteByte('=')
		sb.WriteString(formatParamValue(param.Value))
	}

	return sb.String()
}

// DefaultContentType is the assumed content type for a part without a valid
// Content-Type field, per RFC 2045 section 5.2.
func DefaultContentType() ContentType {
	return ContentType{
		Type:    "text",
		SubType: "plain",
		Params:  []Parameter{{Key: "charset", Value: "us-ascii"}},
	}
}

func formatParamValue(value string) string {
	if value != "" && !strings.ContainsAny(value, "()<>@,;:\\\"/[]?= \t") && isPrintableASCII(value) {
		return value
	}

	var sb strings.Builder

	sb.WriteByte('"')

	for i := 0; i < len(value); i++ {
		if value[i] == '"' || value[i] == '\\' {
			sb.WriteByte('\\')
		}

		sb.WriteByte(value[i])
	}

	sb.WriteByte('"')

	return sb.String()
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 33 || s[i] > 126 {
			return false
		}
	}

	return true
}
