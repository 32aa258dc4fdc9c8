package store_test

import (
	"testing"

	"github.com/blockmail/blockmail/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerStore(t *testing.T) {
	st, err := store.NewBadgerStore(t.TempDir(), "owner", []byte("pass"))
	require.NoError(t, err)

	blockID, err := st.Set([]byte("badger block"))
	require.NoError(t, err)
	assert.Equal(t, store.BlockIDForLiteral([]byte("badger block")), blockID)

	read, err := st.Get(blockID)
	require.NoError(t, err)
	assert.Equal(t, []byte("badger block"), read)

	blockIDs, err := st.List()
	require.NoError(t, err)
	assert.Equal(t, []store.BlockID{blockID}, blockIDs)

	require.NoError(t, st.Delete(blockID))

	_, err = st.Get(blockID)
	assert.Error(t, err)

	require.NoError(t, st.Close())
}

func TestBadgerStoreReopen(t *testing.T) {
	dir := t.TempDir()

	builder := &store.BadgerStoreBuilder{}

	st, err := builder.New(dir, "owner", []byte("pass"))
	require.NoError(t, err)

	blockID, err := st.Set([]byte("persisted block"))
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = builder.New(dir, "owner", []byte("pass"))
	require.NoError(t, err)

	read, err := st.Get(blockID)
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted block"), read)

	require.NoError(t, st.Close())
	require.NoError(t, builder.Delete(dir, "owner"))
}

func TestBadgerStoreCloseStopsCollector(t *testing.T) {
	st, err := store.NewBadgerStore(t.TempDir(), "owner", []byte("pass"))
	require.NoError(t, err)

	// The goleak hook in TestMain verifies the GC goroutine is gone.
	require.NoError(t, st.Close())
}
