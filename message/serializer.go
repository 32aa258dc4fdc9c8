package message

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/blockmail/blockmail/rfc5322"
	"github.com/blockmail/blockmail/rfc822"
	"github.com/blockmail/blockmail/store"
)

// Serialize converts a structured message back into RFC 5322 wire bytes:
// the folded header block, a blank line, then the body via the multipart
// codec when the top-level type is multipart.
func Serialize(metadata EmailMetadata, withOpt ...Option) ([]byte, error) {
	opts := defaultOptions()

	for _, opt := range withOpt {
		opt.config(&opts)
	}

	if metadata.From.LocalPart == "" && metadata.From.Domain == "" {
		return nil, fmt.Errorf("%w: From", ErrMissingRequiredHeader)
	}

	s := &serializer{opts: opts}

	contentType := metadata.ContentType
	if contentType.Type == "" {
		contentType = rfc822.DefaultContentType()
	}

	if contentType.IsMultiPart() && contentType.Boundary() == "" {
		contentType.SetParam("boundary", rfc822.GenerateBoundary())
	}

	buf := new(bytes.Buffer)

	if err := s.writeHeader(buf, metadata, contentType); err != nil {
		return nil, err
	}

	buf.WriteString("\r\n")

	if contentType.IsMultiPart() {
		if err := s.writeMultipart(buf, metadata.Parts, contentType.Boundary(), 1); err != nil {
			return nil, err
		}
	} else if len(metadata.Parts) > 0 {
		if err := s.writeBody(buf, metadata.Parts[0]); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

type serializer struct {
	opts options
}

func (s *serializer) writeHeader(w io.Writer, metadata EmailMetadata, contentType rfc822.ContentType) error {
	date := metadata.Date
	if date.IsZero() {
		date = time.Now()
	}

	if err := s.writeField(w, "Date", rfc5322.FormatDateTime(date)); err != nil {
		return err
	}

	if err := s.writeField(w, "From", metadata.From.String()); err != nil {
		return err
	}

	if metadata.Sender != nil {
		if err := s.writeField(w, "Sender", metadata.Sender.String()); err != nil {
			return err
		}
	}

	for _, addresses := range []struct {
		key   string
		addrs []rfc5322.Address
	}{
		{"Reply-To", metadata.ReplyTo},
		{"To", metadata.To},
		{"Cc", metadata.Cc},
		{"Bcc", metadata.Bcc},
	} {
		if len(addresses.addrs) == 0 {
			continue
		}

		if err := s.writeField(w, addresses.key, rfc5322.FormatAddressList(addresses.addrs)); err != nil {
			return err
		}
	}

	messageID := metadata.MessageID
	if messageID == "" {
		messageID = NewMessageID(metadata.From.Domain)
	}

	if err := s.writeField(w, "Message-ID", messageID); err != nil {
		return err
	}

	if metadata.InReplyTo != "" {
		if err := s.writeField(w, "In-Reply-To", metadata.InReplyTo); err != nil {
			return err
		}
	}

	if len(metadata.References) > 0 {
		if err := s.writeField(w, "References", strings.Join(metadata.References, " ")); err != nil {
			return err
		}
	}

	if metadata.Subject != "" {
		if err := s.writeField(w, "Subject", rfc822.EncodeHeader(metadata.Subject)); err != nil {
			return err
		}
	}

	for _, comment := range metadata.Comments {
		if err := s.writeField(w, "Comments", rfc822.EncodeHeader(comment)); err != nil {
			return err
		}
	}

	if len(metadata.Keywords) > 0 {
		if err := s.writeField(w, "Keywords", rfc822.EncodeHeader(strings.Join(metadata.Keywords, ", "))); err != nil {
			return err
		}
	}

	mimeVersion := metadata.MIMEVersion
	if mimeVersion == "" {
		mimeVersion = "1.0"
	}

	if err := s.writeField(w, "MIME-Version", mimeVersion); err != nil {
		return err
	}

	if err := s.writeField(w, "Content-Type", contentType.String()); err != nil {
		return err
	}

	if !contentType.IsMultiPart() {
		encoding := metadata.TransferEncoding

		if len(metadata.Parts) > 0 {
			encoding = metadata.Parts[0].TransferEncoding
		}

		if encoding != rfc822.Encoding7Bit {
			if err := s.writeField(w, "Content-Transfer-Encoding", encoding.String()); err != nil {
				return err
			}
		}
	}

	for _, field := range metadata.CustomHeaders {
		if err := s.writeField(w, field.Key, field.Value); err != nil {
			return err
		}
	}

	return nil
}

// writeField folds one assembled "Name: value" line to the configured wire
// line length.
func (s *serializer) writeField(w io.Writer, key, value string) error {
	if _, err := w.Write(rfc822.Fold([]byte(key+": "+value), s.opts.maxLineLength)); err != nil {
		return err
	}

	if _, err := w.Write([]byte("\r\n")); err != nil {
		return err
	}

	return nil
}

func (s *serializer) writeMultipart(w io.Writer, parts []MimePart, boundary string, depth int) error {
	if boundary == "" {
		return fmt.Errorf("%w: multipart content without boundary", ErrMalformedMime)
	}

	if depth >= s.opts.maxDepth {
		return fmt.Errorf("%w: nesting depth exceeds %v", ErrMalformedMime, s.opts.maxDepth)
	}

	mw := rfc822.NewMultipartWriter(w, boundary)

	for _, part := range parts {
		part := part

		if err := mw.AddPart(func(pw io.Writer) error {
			return s.writePart(pw, part, depth)
		}); err != nil {
			return err
		}
	}

	return mw.Done()
}

// writePart emits one part: its headers, a blank line, then the encoded body
// or a recursive multipart.
func (s *serializer) writePart(w io.Writer, part MimePart, depth int) error {
	contentType := part.ContentType
	if contentType.Type == "" {
		contentType = rfc822.DefaultContentType()
	}

	if contentType.IsMultiPart() && contentType.Boundary() == "" {
		contentType.SetParam("boundary", rfc822.GenerateBoundary())
	}

	if err := s.writeField(w, "Content-Type", contentType.String()); err != nil {
		return err
	}

	if !contentType.IsMultiPart() && part.TransferEncoding != rfc822.Encoding7Bit {
		if err := s.writeField(w, "Content-Transfer-Encoding", part.TransferEncoding.String()); err != nil {
			return err
		}
	}

	if part.Disposition != nil {
		if err := s.writeField(w, "Content-Disposition", part.Disposition.String()); err != nil {
			return err
		}
	}

	if part.ContentID != "" {
		if err := s.writeField(w, "Content-Id", part.ContentID); err != nil {
			return err
		}
	}

	if part.ContentDescription != "" {
		if err := s.writeField(w, "Content-Description", rfc822.EncodeHeader(part.ContentDescription)); err != nil {
			return err
		}
	}

	if _, err := w.Write([]byte("\r\n")); err != nil {
		return err
	}

	if contentType.IsMultiPart() {
		return s.writeMultipart(w, part.Parts, contentType.Boundary(), depth+1)
	}

	return s.writeBody(w, part)
}

// writeBody applies the part's transfer encoding to its decoded content,
// resolving block references first when needed.
func (s *serializer) writeBody(w io.Writer, part MimePart) error {
	body := part.Body

	if body == nil && len(part.BodyBlockIDs) > 0 {
		if s.opts.blockStore == nil {
			return ErrMissingBlockStore
		}

		literal, err := store.GetLiteral(s.opts.blockStore, part.BodyBlockIDs)
		if err != nil {
			return err
		}

		body = literal
	}

	encoded, err := rfc822.EncodeTransfer(body, part.TransferEncoding)
	if err != nil {
		return err
	}

	if _, err := w.Write(encoded); err != nil {
		return err
	}

	return nil
}
