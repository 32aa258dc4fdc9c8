package rfc822

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// MultipartWriter assembles a multipart body: each part is preceded by a
// delimiter line and the whole body is closed by the terminating delimiter.
type MultipartWriter struct {
	writer   io.Writer
	boundary string
}

func NewMultipartWriter(writer io.Writer, boundary string) *MultipartWriter {
	return &MultipartWriter{writer: writer, boundary: boundary}
}

// AddPart writes the delimiter line and hands the writer to fn to produce the
// part, header block included.
func (w *MultipartWriter) AddPart(fn func(writer io.Writer) error) error {
	if _, err := fmt.Fprintf(w.writer, "--%v\r\n", w.boundary); err != nil {
		return err
	}

	if err := fn(w.writer); err != nil {
		return err
	}

	if _, err := w.writer.Write([]byte("\r\n")); err != nil {
		return err
	}

	return nil
}

// Done writes the terminating delimiter line.
func (w *MultipartWriter) Done() error {
	if _, err := fmt.Fprintf(w.writer, "--%v--\r\n", w.boundary); err != nil {
		return err
	}

	return nil
}

// GenerateBoundary returns a fresh boundary that is vanishingly unlikely to
// collide with part content. It stays within the 70 character limit of
// RFC 2046.
func GenerateBoundary() string {
	return fmt.Sprintf("----=_Part_%v_%v", time.Now().UnixNano(), uuid.NewString())
}
