package rfc822

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/blockmail/blockmail/rfc5322"
)

// ErrInvalidDisposition reports a Content-Disposition value without a
// disposition token.
var ErrInvalidDisposition = errors.New("invalid content disposition")

// DispositionType says whether a part is displayed inline or offered as an
// attachment. Unrecognized tokens are treated as attachments, per RFC 2183.
type DispositionType int

const (
	DispositionInline DispositionType = iota
	DispositionAttachment
)

func (d DispositionType) String() string {
	if d == DispositionInline {
		return "inline"
	}

	return "attachment"
}

// ContentDisposition is a parsed Content-Disposition value. Zero time values
// and a negative size mean the corresponding parameter was absent.
type ContentDisposition struct {
	Type             DispositionType
	Filename         string
	CreationDate     time.Time
	ModificationDate time.Time
	ReadDate         time.Time
	Size             int64
}

// ParseContentDisposition parses a Content-Disposition header value.
// Unparseable dates and sizes are dropped rather than fatal.
func ParseContentDisposition(value string) (ContentDisposition, error) {
	token, rest, _ := strings.Cut(value, ";")

	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return ContentDisposition{}, fmt.Errorf("%w: empty disposition token", ErrInvalidDisposition)
	}

	disposition := ContentDisposition{
		Type: DispositionAttachment,
		Size: -1,
	}

	if token == "inline" {
		disposition.Type = DispositionInline
	}

	for _, param := range parseParameters(rest) {
		switch param.Key {
		case "filename":
			disposition.Filename = param.Value

		case "creation-date":
			if t, err := rfc5322.ParseDateTime(param.Value); err == nil {
				disposition.CreationDate = t
			}

		case "modification-date":
			if t, err := rfc5322.ParseDateTime(param.Value); err == nil {
				disposition.ModificationDate = t
			}

		case "read-date":
			if t, err := rfc5322.ParseDateTime(param.Value); err == nil {
				disposition.ReadDate = t
			}

		case "size":
			if size, err := strconv.ParseInt(param.Value, 10, 64); err == nil {
				disposition.Size = size
			}
		}
	}

	return disposition, nil
}

// String assembles the value back into wire form. Parameters are emitted in
// the RFC 2183 order; date parameters are always quoted.
func (d ContentDisposition) String() string {
	var sb strings.Builder

	sb.WriteString(d.Type.String())

	if d.Filename != "" {
		sb.WriteString("; filename=")
		sb.WriteString(formatParamValue(d.Filename))
	}

	for _, date := range []struct {
		key string
		val time.Time
	}{
		{"creation-date", d.CreationDate},
		{"modification-date", d.ModificationDate},
		{"read-date", d.ReadDate},
	} {
		if !date.val.IsZero() {
			sb.WriteString("; ")
			sb.WriteString(date.key)
			sb.WriteString(`="`)
			sb.WriteString(rfc5322.FormatDateTime(date.val))
			sb.WriteByte('"')
		}
	}

	if d.Size >= 0 {
		sb.WriteString("; size=")
		sb.WriteString(strconv.FormatInt(d.Size, 10))
	}

	return sb.String()
}
