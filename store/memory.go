package store

import (
	"errors"
	"sync"
)

// ErrNoSuchBlock is returned by Get for an ID the store does not hold.
var ErrNoSuchBlock = errors.New("no such block in store")

type inMemoryStore struct {
	data map[BlockID][]byte
	lock sync.RWMutex
}

func NewInMemoryStore() Store {
	return &inMemoryStore{
		data: make(map[BlockID][]byte),
	}
}

func (c *inMemoryStore) Get(blockID BlockID) ([]byte, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	block, ok := c.data[blockID]
	if !ok {
		return nil, ErrNoSuchBlock
	}

	return block, nil
}

func (c *inMemoryStore) Set(block []byte) (BlockID, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	blockID := BlockIDForLiteral(block)

	c.data[blockID] = block

	return blockID, nil
}

func (c *inMemoryStore) Delete(blockIDs ...BlockID) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	for _, blockID := range blockIDs {
		delete(c.data, blockID)
	}

	return nil
}

func (c *inMemoryStore) List() ([]BlockID, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	blockIDs := make([]BlockID, 0, len(c.data))

	for blockID := range c.data {
		blockIDs = append(blockIDs, blockID)
	}

	return blockIDs, nil
}

func (c *inMemoryStore) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.data = make(map[BlockID][]byte)

	return nil
}
