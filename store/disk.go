package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io/fs"
	"os"
	"path/filepath"
)

type onDiskStore struct {
	path string
	gcm  cipher.AEAD
	cmp  Compressor
	sem  *Semaphore
}

// NewOnDiskStore creates a store that keeps each block in its own file,
// encrypted with AES-GCM under a key derived from pass.
func NewOnDiskStore(path string, pass []byte, opt ...Option) (Store, error) {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, err
	}

	aes, err := aes.NewCipher(hash(pass))
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(aes)
	if err != nil {
		return nil, err
	}

	store := &onDiskStore{
		path: path,
		gcm:  gcm,
	}

	for _, opt := range opt {
		opt.config(store)
	}

	return store, nil
}

func (c *onDiskStore) Get(blockID BlockID) ([]byte, error) {
	if c.sem != nil {
		c.sem.Lock()
		defer c.sem.Unlock()
	}

	enc, err := os.ReadFile(filepath.Join(c.path, blockID.String()))
	if err != nil {
		return nil, err
	}

	b, err := c.gcm.Open(nil, enc[:c.gcm.NonceSize()], enc[c.gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}

	if c.cmp != nil {
		dec, err := c.cmp.Decompress(b)
		if err != nil {
			return nil, err
		}

		b = dec
	}

	return b, nil
}

func (c *onDiskStore) Set(block []byte) (BlockID, error) {
	if c.sem != nil {
		c.sem.Lock()
		defer c.sem.Unlock()
	}

	blockID := BlockIDForLiteral(block)

	nonce := make([]byte, c.gcm.NonceSize())

	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	if c.cmp != nil {
		enc, err := c.cmp.Compress(block)
		if err != nil {
			return "", err
		}

		block = enc
	}

	if err := os.WriteFile(
		filepath.Join(c.path, blockID.String()),
		c.gcm.Seal(nonce, nonce, block, nil),
		0o600,
	); err != nil {
		return "", err
	}

	return blockID, nil
}

func (c *onDiskStore) Delete(blockIDs ...BlockID) error {
	if c.sem != nil {
		c.sem.Lock()
		defer c.sem.Unlock()
	}

	for _, blockID := range blockIDs {
		if err := os.RemoveAll(filepath.Join(c.path, blockID.String())); err != nil {
			return err
		}
	}

	return nil
}

func (c *onDiskStore) List() ([]BlockID, error) {
	if c.sem != nil {
		c.sem.Lock()
		defer c.sem.Unlock()
	}

	var blockIDs []BlockID

	if err := filepath.Walk(c.path, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		blockIDs = append(blockIDs, BlockID(info.Name()))

		return nil
	}); err != nil {
		return nil, err
	}

	return blockIDs, nil
}

func (c *onDiskStore) Close() error {
	return nil
}

type OnDiskStoreBuilder struct{}

func (*OnDiskStoreBuilder) New(path, ownerID string, passphrase []byte) (Store, error) {
	return NewOnDiskStore(filepath.Join(path, ownerID), passphrase)
}

func (*OnDiskStoreBuilder) Delete(path, ownerID string) error {
	return os.RemoveAll(filepath.Join(path, ownerID))
}
