package store

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// ZLibCompressor shrinks block literals with zlib before they are sealed to
// disk. Message bodies are text-heavy, so most blocks compress well.
type ZLibCompressor struct{}

func (ZLibCompressor) Compress(block []byte) ([]byte, error) {
	buf := new(bytes.Buffer)

	zw := zlib.NewWriter(buf)

	if _, err := zw.Write(block); err != nil {
		return nil, fmt.Errorf("failed to compress block: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress block: %w", err)
	}

	return buf.Bytes(), nil
}

func (ZLibCompressor) Decompress(compressed []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress block: %w", err)
	}

	block, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress block: %w", err)
	}

	if err := zr.Close(); err != nil {
		return nil, fmt.Errorf("failed to decompress block: %w", err)
	}

	return block, nil
}
