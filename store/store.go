package store

// BlockID is the content address of a stored block: the lowercase hex SHA-256
// of the block's bytes. Two blocks with equal content always share an ID.
type BlockID string

func (id BlockID) String() string {
	return string(id)
}

// Store is a content-addressed block store. Set derives the block's ID from
// its content, which makes writes idempotent.
type Store interface {
	Get(blockID BlockID) ([]byte, error)
	Set(block []byte) (BlockID, error)
	Delete(blockID ...BlockID) error
	List() ([]BlockID, error)
	Close() error
}

// Builder constructs a store rooted at a directory for a given owner.
type Builder interface {
	New(dir, ownerID string, passphrase []byte) (Store, error)
	Delete(dir, ownerID string) error
}

// PutLiteral splits a literal into blocks of at most blockSize bytes and
// stores each, returning the block IDs in literal order.
func PutLiteral(store Store, literal []byte, blockSize int) ([]BlockID, error) {
	if blockSize <= 0 {
		blockSize = len(literal)
	}

	var blockIDs []BlockID

	for len(literal) > 0 {
		n := blockSize
		if n > len(literal) {
			n = len(literal)
		}

		blockID, err := store.Set(literal[:n])
		if err != nil {
			return nil, err
		}

		blockIDs = append(blockIDs, blockID)

		literal = literal[n:]
	}

	return blockIDs, nil
}

// GetLiteral reassembles a literal previously split by PutLiteral.
func GetLiteral(store Store, blockIDs []BlockID) ([]byte, error) {
	var literal []byte

	for _, blockID := range blockIDs {
		block, err := store.Get(blockID)
		if err != nil {
			return nil, err
		}

		literal = append(literal, block...)
	}

	return literal, nil
}
