package store

import (
	"crypto/sha256"
	"encoding/hex"
)

func hash(b []byte) []byte {
	hash := sha256.New()

	if _, err := hash.Write(b); err != nil {
		panic(err)
	}

	return hash.Sum(nil)
}

// BlockIDForLiteral computes the content address of a block.
func BlockIDForLiteral(b []byte) BlockID {
	return BlockID(hex.EncodeToString(hash(b)))
}
