package message

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/blockmail/blockmail/rfc5322"
	"github.com/blockmail/blockmail/rfc822"
	"github.com/blockmail/blockmail/store"
	gomessage "github.com/emersion/go-message"
	"github.com/sirupsen/logrus"
)

func init() {
	// All header charset handling funnels through the same best-effort
	// converter, both in the MIME engine and in the address grammar.
	gomessage.CharsetReader = rfc822.CharsetReader
	rfc5322.CharsetReader = rfc822.CharsetReader
}

// Parse converts a raw message literal into its structured form. Bulk
// header/body decomposition is delegated to the MIME engine; local faults
// such as a malformed part Content-Type degrade to defaults and are recorded
// as warnings rather than aborting the whole message.
func Parse(ctx context.Context, literal []byte, withOpt ...Option) (EmailMetadata, error) {
	opts := defaultOptions()

	for _, opt := range withOpt {
		opt.config(&opts)
	}

	if len(literal) == 0 {
		return EmailMetadata{}, fmt.Errorf("%w: empty input", ErrParse)
	}

	entity, err := gomessage.Read(bytes.NewReader(literal))
	if err != nil && !gomessage.IsUnknownCharset(err) && !gomessage.IsUnknownEncoding(err) {
		return EmailMetadata{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	p := &parser{opts: opts}

	headerBytes, _ := rfc822.Split(literal)

	metadata, err := p.parseMetadata(rfc822.ParseHeader(headerBytes))
	if err != nil {
		return EmailMetadata{}, err
	}

	part, err := p.parseEntity(ctx, entity, 1)
	if err != nil {
		return EmailMetadata{}, err
	}

	// The top-level Content-Type belongs to the metadata; the part tree hangs
	// off it.
	metadata.ContentType = part.ContentType
	metadata.TransferEncoding = part.TransferEncoding

	if part.IsMultiPart() {
		metadata.Parts = part.Parts
	} else {
		metadata.Parts = []MimePart{part}
	}

	if p.opts.blockStore != nil {
		if err := p.storeBodies(metadata.Parts); err != nil {
			return EmailMetadata{}, err
		}
	}

	metadata.Warnings = p.warnings

	return metadata, nil
}

type parser struct {
	opts     options
	warnings []string
}

func (p *parser) warn(format string, args ...any) {
	warning := fmt.Sprintf(format, args...)

	logrus.WithField("pkg", "message").Debug(warning)

	p.warnings = append(p.warnings, warning)
}

// parseMetadata maps the top-level header block onto EmailMetadata. Only a
// missing From is fatal; everything else degrades with a warning.
func (p *parser) parseMetadata(header *rfc822.Header) (EmailMetadata, error) {
	var metadata EmailMetadata

	rawFrom, ok := header.GetChecked("From")
	if !ok || strings.TrimSpace(rawFrom) == "" {
		return EmailMetadata{}, fmt.Errorf("%w: From", ErrMissingRequiredHeader)
	}

	from, err := rfc5322.ParseMailbox(rawFrom)
	if err != nil {
		return EmailMetadata{}, err
	}

	metadata.From = from

	if rawSender, ok := header.GetChecked("Sender"); ok {
		if sender, err := rfc5322.ParseMailbox(rawSender); err != nil {
			p.warn("dropped unparseable Sender %q: %v", rawSender, err)
		} else {
			metadata.Sender = &sender
		}
	}

	metadata.ReplyTo = p.parseAddressList(header, "Reply-To")
	metadata.To = p.parseAddressList(header, "To")
	metadata.Cc = p.parseAddressList(header, "Cc")
	metadata.Bcc = p.parseAddressList(header, "Bcc")

	metadata.MessageID = p.parseMessageID(header.Get("Message-ID"), from.Domain)

	if rawInReplyTo := strings.TrimSpace(header.Get("In-Reply-To")); rawInReplyTo != "" {
		normalized := normalizeMessageID(rawInReplyTo)

		if err := ValidateMessageID(normalized); err != nil {
			p.warn("dropped In-Reply-To: %v", err)
		} else {
			metadata.InReplyTo = normalized
		}
	}

	for _, ref := range strings.Fields(header.Get("References")) {
		if err := ValidateMessageID(ref); err != nil {
			p.warn("dropped reference: %v", err)
			continue
		}

		metadata.References = append(metadata.References, ref)
	}

	if rawSubject, ok := header.GetChecked("Subject"); ok {
		subject, warnings := rfc822.DecodeHeader(rawSubject)

		metadata.Subject = subject
		p.warnings = append(p.warnings, warnings...)
	}

	metadata.Comments = header.Values("Comments")

	for _, rawKeywords := range header.Values("Keywords") {
		for _, keyword := range strings.Split(rawKeywords, ",") {
			if keyword = strings.TrimSpace(keyword); keyword != "" {
				metadata.Keywords = append(metadata.Keywords, keyword)
			}
		}
	}

	if rawDate, ok := header.GetChecked("Date"); ok {
		if date, err := rfc5322.ParseDateTime(rawDate); err != nil {
			p.warn("dropped unparseable Date %q: %v", rawDate, err)
		} else {
			metadata.Date = date
		}
	}

	metadata.MIMEVersion = strings.TrimSpace(header.Get("MIME-Version"))
	if metadata.MIMEVersion == "" {
		metadata.MIMEVersion = "1.0"
	}

	header.Entries(func(key, val string) {
		if IsStandardHeader(key) {
			return
		}

		metadata.CustomHeaders = append(metadata.CustomHeaders, HeaderField{Key: key, Value: val})
	})

	return metadata, nil
}

func (p *parser) parseAddressList(header *rfc822.Header, key string) []rfc5322.Address {
	raw, ok := header.GetChecked(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}

	addrs, err := rfc5322.ParseAddressList(raw)
	if err != nil {
		p.warn("dropped unparseable %v %q: %v", key, raw, err)
		return nil
	}

	return addrs
}

// parseMessageID validates a Message-ID field, minting a fresh id when the
// field is absent or beyond repair.
func (p *parser) parseMessageID(raw, domain string) string {
	raw = strings.TrimSpace(raw)

	if raw == "" {
		return NewMessageID(domain)
	}

	normalized := normalizeMessageID(raw)

	if err := ValidateMessageID(normalized); err != nil {
		p.warn("replaced Message-ID: %v", err)
		return NewMessageID(domain)
	}

	return normalized
}

// parseEntity converts one MIME engine entity into a part node, recursing
// into multipart content.
func (p *parser) parseEntity(ctx context.Context, entity *gomessage.Entity, depth int) (MimePart, error) {
	if err := ctx.Err(); err != nil {
		return MimePart{}, err
	}

	part := MimePart{
		ContentType: p.parseContentType(entity.Header.Get("Content-Type")),
		ContentID:   strings.TrimSpace(entity.Header.Get("Content-Id")),
	}

	if encoding, known := rfc822.ParseEncoding(entity.Header.Get("Content-Transfer-Encoding")); known {
		part.TransferEncoding = encoding
	} else {
		p.warn("passing through unknown transfer encoding %q", entity.Header.Get("Content-Transfer-Encoding"))

		part.TransferEncoding = rfc822.EncodingBinary
	}

	if rawDisposition := entity.Header.Get("Content-Disposition"); rawDisposition != "" {
		if disposition, err := rfc822.ParseContentDisposition(rawDisposition); err != nil {
			p.warn("dropped malformed Content-Disposition %q: %v", rawDisposition, err)
		} else {
			part.Disposition = &disposition
		}
	}

	if rawDescription := entity.Header.Get("Content-Description"); rawDescription != "" {
		description, warnings := rfc822.DecodeHeader(rawDescription)

		part.ContentDescription = description
		p.warnings = append(p.warnings, warnings...)
	}

	if !part.ContentType.IsMultiPart() {
		// The engine's body reader already reverses the transfer encoding.
		body, err := io.ReadAll(entity.Body)
		if err != nil {
			return MimePart{}, fmt.Errorf("%w: %v", ErrParse, err)
		}

		part.Body = body
		part.Size = len(body)

		return part, nil
	}

	if part.ContentType.Boundary() == "" {
		return MimePart{}, fmt.Errorf("%w: multipart content without boundary", ErrMalformedMime)
	}

	if depth >= p.opts.maxDepth {
		return MimePart{}, fmt.Errorf("%w: nesting depth exceeds %v", ErrMalformedMime, p.opts.maxDepth)
	}

	mr := entity.MultipartReader()
	if mr == nil {
		// The engine refused this multipart body; fall back to scanning the
		// raw content with our own codecs.
		body, err := io.ReadAll(entity.Body)
		if err != nil {
			return MimePart{}, fmt.Errorf("%w: %v", ErrParse, err)
		}

		parts, err := p.parseMultipartLiteral(ctx, body, part.ContentType.Boundary(), depth)
		if err != nil {
			return MimePart{}, err
		}

		part.Parts = parts

		return part, nil
	}

	for {
		child, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil && !gomessage.IsUnknownCharset(err) && !gomessage.IsUnknownEncoding(err) {
			return MimePart{}, fmt.Errorf("%w: %v", ErrParse, err)
		}

		childPart, err := p.parseEntity(ctx, child, depth+1)
		if err != nil {
			return MimePart{}, err
		}

		part.Parts = append(part.Parts, childPart)
	}

	return part, nil
}

// parseMultipartLiteral splits a raw multipart body on its boundary and
// parses each segment with the codecs in this module, covering content the
// MIME engine cannot decompose.
func (p *parser) parseMultipartLiteral(ctx context.Context, body []byte, boundary string, depth int) ([]MimePart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if boundary == "" {
		return nil, fmt.Errorf("%w: multipart content without boundary", ErrMalformedMime)
	}

	if depth >= p.opts.maxDepth {
		return nil, fmt.Errorf("%w: nesting depth exceeds %v", ErrMalformedMime, p.opts.maxDepth)
	}

	scanner, err := rfc822.NewScanner(bytes.NewReader(body), boundary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	segments, err := scanner.ScanAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var parts []MimePart

	for _, segment := range segments {
		headerBytes, bodyBytes := rfc822.Split(segment.Data)
		header := rfc822.ParseHeader(headerBytes)

		part := MimePart{
			ContentType: p.parseContentType(header.Get("Content-Type")),
			ContentID:   strings.TrimSpace(header.Get("Content-Id")),
		}

		if encoding, known := rfc822.ParseEncoding(header.Get("Content-Transfer-Encoding")); known {
			part.TransferEncoding = encoding
		} else {
			p.warn("passing through unknown transfer encoding %q", header.Get("Content-Transfer-Encoding"))

			part.TransferEncoding = rfc822.EncodingBinary
		}

		if rawDisposition := header.Get("Content-Disposition"); rawDisposition != "" {
			if disposition, err := rfc822.ParseContentDisposition(rawDisposition); err != nil {
				p.warn("dropped malformed Content-Disposition %q: %v", rawDisposition, err)
			} else {
				part.Disposition = &disposition
			}
		}

		if part.ContentType.IsMultiPart() {
			children, err := p.parseMultipartLiteral(ctx, bodyBytes, part.ContentType.Boundary(), depth+1)
			if err != nil {
				return nil, err
			}

			part.Parts = children
		} else {
			decoded, err := rfc822.DecodeTransfer(bodyBytes, part.TransferEncoding)
			if err != nil {
				p.warn("kept body of %v verbatim: %v", part.ContentType.MIMEType(), err)

				decoded = bodyBytes
			}

			part.Body = decoded
			part.Size = len(decoded)
		}

		parts = append(parts, part)
	}

	return parts, nil
}

// parseContentType degrades a missing or malformed Content-Type to the
// RFC 2045 default instead of failing the part.
func (p *parser) parseContentType(raw string) rfc822.ContentType {
	if strings.TrimSpace(raw) == "" {
		return rfc822.DefaultContentType()
	}

	contentType, err := rfc822.ParseContentType(raw)
	if err != nil {
		p.warn("degraded malformed Content-Type %q to default: %v", raw, err)

		return rfc822.DefaultContentType()
	}

	return contentType
}

// storeBodies moves decoded leaf content over the block threshold into the
// configured block store.
func (p *parser) storeBodies(parts []MimePart) error {
	for ix := range parts {
		if parts[ix].IsMultiPart() {
			if err := p.storeBodies(parts[ix].Parts); err != nil {
				return err
			}

			continue
		}

		if len(parts[ix].Body) <= p.opts.blockThreshold {
			continue
		}

		blockIDs, err := store.PutLiteral(p.opts.blockStore, parts[ix].Body, p.opts.blockSize)
		if err != nil {
			return err
		}

		parts[ix].BodyBlockIDs = blockIDs
		parts[ix].Body = nil
	}

	return nil
}
