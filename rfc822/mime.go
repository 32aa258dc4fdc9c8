package rfc822

import "strings"

// MIMEType is a lowercase media type such as "text/plain".
type MIMEType string

const (
	TextPlain            MIMEType = "text/plain"
	TextHTML             MIMEType = "text/html"
	MessageRFC822        MIMEType = "message/rfc822"
	MultipartMixed       MIMEType = "multipart/mixed"
	MultipartAlternative MIMEType = "multipart/alternative"
	MultipartRelated     MIMEType = "multipart/related"
	MultipartDigest      MIMEType = "multipart/digest"
)

func (t MIMEType) IsMultiPart() bool {
	return strings.HasPrefix(string(t), "multipart/")
}

func (t MIMEType) Type() string {
	if ix := strings.Index(string(t), "/"); ix >= 0 {
		return string(t[:ix])
	}

	return string(t)
}

func (t MIMEType) SubType() string {
	if ix := strings.Index(string(t), "/"); ix >= 0 {
		return string(t[ix+1:])
	}

	return ""
}
