package message

import "github.com/blockmail/blockmail/store"

type options struct {
	maxDepth      int
	maxLineLength int

	blockStore     store.Store
	blockThreshold int
	blockSize      int
}

func defaultOptions() options {
	return options{
		maxDepth:      100,
		maxLineLength: 78,
	}
}

type Option interface {
	config(*options)
}

// WithMaxDepth caps multipart nesting. Parsing a tree nested deeper fails
// with ErrMalformedMime.
func WithMaxDepth(maxDepth int) Option {
	return &withMaxDepth{maxDepth: maxDepth}
}

type withMaxDepth struct {
	maxDepth int
}

func (opt withMaxDepth) config(op *options) {
	op.maxDepth = opt.maxDepth
}

// WithMaxLineLength sets the wire line length header folding aims for.
func WithMaxLineLength(maxLineLength int) Option {
	return &withMaxLineLength{maxLineLength: maxLineLength}
}

type withMaxLineLength struct {
	maxLineLength int
}

func (opt withMaxLineLength) config(op *options) {
	op.maxLineLength = opt.maxLineLength
}

// WithBlockStore hands decoded part content larger than threshold to a block
// store, split into blocks of blockSize bytes. Such parts carry BodyBlockIDs
// instead of Body, and serialization reads them back from the same store.
func WithBlockStore(st store.Store, threshold, blockSize int) Option {
	return &withBlockStore{store: st, threshold: threshold, blockSize: blockSize}
}

type withBlockStore struct {
	store     store.Store
	threshold int
	blockSize int
}

func (opt withBlockStore) config(op *options) {
	op.blockStore = opt.store
	op.blockThreshold = opt.threshold
	op.blockSize = opt.blockSize
}
