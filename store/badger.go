package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blockmail/blockmail/logging"
	"github.com/dgraph-io/badger/v3"
	"github.com/sirupsen/logrus"
)

type BadgerStore struct {
	db       *badger.DB
	gcExitCh chan struct{}
	wg       sync.WaitGroup
}

// NewBadgerStore opens an encrypted badger database holding one key per
// block.
func NewBadgerStore(path string, ownerID string, passphrase []byte) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(filepath.Join(path, ownerID)).
		WithLogger(logrus.StandardLogger()).
		WithLoggingLevel(badger.ERROR).
		WithEncryptionKey(hash(passphrase)).
		WithIndexCacheSize(128 * 1024 * 1024),
	)
	if err != nil {
		return nil, err
	}

	store := &BadgerStore{
		db:       db,
		gcExitCh: make(chan struct{}),
	}

	// Registered before the goroutine starts so that Close cannot pass the
	// Wait before the collector is accounted for.
	store.wg.Add(1)

	logging.GoAnnotate(context.Background(), func(context.Context) {
		store.startGCCollector()
	})

	return store, nil
}

func (b *BadgerStore) startGCCollector() {
	// Garbage collection needs to be run manually by us at some point.
	// See https://dgraph.io/docs/badger/get-started/#garbage-collection for more details.
	defer b.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			{
			again:
				if err := b.db.RunValueLogGC(0.5); err == nil {
					goto again
				}
			}

		case <-b.gcExitCh:
			return
		}
	}
}

func (b *BadgerStore) Get(blockID BlockID) ([]byte, error) {
	var data []byte

	if err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(blockID))
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return data, nil
}

func (b *BadgerStore) Set(block []byte) (BlockID, error) {
	blockID := BlockIDForLiteral(block)

	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(blockID), block)
	}); err != nil {
		return "", err
	}

	return blockID, nil
}

func (b *BadgerStore) Delete(blockIDs ...BlockID) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for _, blockID := range blockIDs {
			if err := txn.Delete([]byte(blockID)); err != nil {
				return err
			}
		}

		return nil
	})
}

func (b *BadgerStore) List() ([]BlockID, error) {
	var blockIDs []BlockID

	if err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			blockIDs = append(blockIDs, BlockID(it.Item().KeyCopy(nil)))
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return blockIDs, nil
}

func (b *BadgerStore) Close() error {
	close(b.gcExitCh)
	b.wg.Wait()

	return b.db.Close()
}

type BadgerStoreBuilder struct{}

func (*BadgerStoreBuilder) New(directory, ownerID string, encryptionPassphrase []byte) (Store, error) {
	return NewBadgerStore(directory, ownerID, encryptionPassphrase)
}

func (*BadgerStoreBuilder) Delete(directory, ownerID string) error {
	return os.RemoveAll(filepath.Join(directory, ownerID))
}
