package store

// Compressor transforms block literals on their way to and from the disk
// store. Compression runs before encryption, since ciphertext does not
// compress.
type Compressor interface {
	Compress([]byte) ([]byte, error)
	Decompress([]byte) ([]byte, error)
}
