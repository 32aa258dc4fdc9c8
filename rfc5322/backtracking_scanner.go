package rfc5322

import (
	"bytes"
	"io"
)

// BacktrackingByteScanner is an in-memory rfcparser.Reader whose position can
// be saved and restored, which is what makes the mailbox/group ambiguity in
// the address grammar cheap to resolve.
type BacktrackingByteScanner struct {
	data   []byte
	offset int
}

func NewBacktrackingByteScanner(data []byte) *BacktrackingByteScanner {
	return &BacktrackingByteScanner{
		data: data,
	}
}

type BacktrackingByteScannerScope struct {
	offset int
}

func (bs *BacktrackingByteScanner) Read(dst []byte) (int, error) {
	if bs.offset >= len(bs.data) {
		return 0, io.EOF
	}

	n := copy(dst, bs.data[bs.offset:])
	bs.offset += n

	return n, nil
}

func (bs *BacktrackingByteScanner) ReadByte() (byte, error) {
	if bs.offset >= len(bs.data) {
		return 0, io.EOF
	}

	b := bs.data[bs.offset]

	bs.offset++

	return b, nil
}

func (bs *BacktrackingByteScanner) ReadBytes(delim byte) ([]byte, error) {
	if bs.offset >= len(bs.data) {
		return nil, io.EOF
	}

	index := bytes.IndexByte(bs.data[bs.offset:], delim)
	if index < 0 {
		result := append([]byte{}, bs.data[bs.offset:]...)
		bs.offset = len(bs.data)

		return result, nil
	}

	end := bs.offset + index + 1
	result := append([]byte{}, bs.data[bs.offset:end]...)
	bs.offset = end

	return result, nil
}

func (bs *BacktrackingByteScanner) SaveState() BacktrackingByteScannerScope {
	return BacktrackingByteScannerScope{offset: bs.offset}
}

func (bs *BacktrackingByteScanner) RestoreState(scope BacktrackingByteScannerScope) {
	bs.offset = scope.offset
}
