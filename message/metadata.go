package message

import (
	"time"

	"github.com/blockmail/blockmail/rfc5322"
	"github.com/blockmail/blockmail/rfc822"
	"github.com/blockmail/blockmail/store"
)

// HeaderField is one occurrence of a non-standard header, with the field name
// exactly as it appeared on the wire.
type HeaderField struct {
	Key   string
	Value string
}

// MimePart is one node of a message's body tree. Exactly one of Body,
// BodyBlockIDs and Parts is meaningful: Parts when the content type is
// multipart, BodyBlockIDs when the decoded content has been handed to a block
// store, Body otherwise. Size is always the decoded content length.
type MimePart struct {
	ContentType        rfc822.ContentType
	TransferEncoding   rfc822.Encoding
	Disposition        *rfc822.ContentDisposition
	ContentID          string
	ContentDescription string

	Body         []byte
	BodyBlockIDs []store.BlockID
	Parts        []MimePart

	Size int
}

// IsMultiPart reports whether this node carries child parts rather than
// content of its own.
func (p MimePart) IsMultiPart() bool {
	return p.ContentType.IsMultiPart()
}

// EmailMetadata is the structured form of a message: the standard RFC 5322
// header surface, the decoded body tree, and every non-standard header
// round-tripped verbatim in order.
type EmailMetadata struct {
	From    rfc5322.Mailbox
	Sender  *rfc5322.Mailbox
	ReplyTo []rfc5322.Address
	To      []rfc5322.Address
	Cc      []rfc5322.Address
	Bcc     []rfc5322.Address

	MessageID  string
	InReplyTo  string
	References []string

	Subject  string
	Comments []string
	Keywords []string

	Date        time.Time
	MIMEVersion string

	ContentType      rfc822.ContentType
	TransferEncoding rfc822.Encoding

	CustomHeaders []HeaderField

	Parts []MimePart

	// Warnings records every tolerance fallback taken while parsing, such as
	// unknown charsets decoded as UTF-8 or dropped malformed references.
	Warnings []string
}

// standardHeaders are the recognized field names which map onto EmailMetadata
// directly and are therefore excluded from CustomHeaders.
var standardHeaders = map[string]struct{}{
	"date":                      {},
	"from":                      {},
	"sender":                    {},
	"reply-to":                  {},
	"to":                        {},
	"cc":                        {},
	"bcc":                       {},
	"message-id":                {},
	"in-reply-to":               {},
	"references":                {},
	"subject":                   {},
	"comments":                  {},
	"keywords":                  {},
	"mime-version":              {},
	"content-type":              {},
	"content-transfer-encoding": {},
	"content-disposition":       {},
	"content-id":                {},
	"content-description":       {},
	"received":                  {},
	"return-path":               {},
}

// IsStandardHeader reports whether a field name maps onto a dedicated
// EmailMetadata field. Names compare case-insensitively.
func IsStandardHeader(key string) bool {
	_, ok := standardHeaders[lowerASCII(key)]
	return ok
}

func lowerASCII(s string) string {
	b := []byte(s)

	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}

	return string(b)
}
