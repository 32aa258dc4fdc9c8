package message

import "errors"

var (
	// ErrParse is returned on empty input or when the underlying MIME engine
	// cannot make sense of the literal at all.
	ErrParse = errors.New("failed to parse message")

	// ErrMissingRequiredHeader is returned when a message has no From field.
	ErrMissingRequiredHeader = errors.New("missing required header")

	// ErrMalformedMime is returned for an empty multipart boundary or a part
	// tree nested beyond the configured depth.
	ErrMalformedMime = errors.New("malformed mime structure")

	// ErrInvalidMessageID is returned for a message id without angle brackets
	// or whose "@" count is not exactly one.
	ErrInvalidMessageID = errors.New("invalid message id")

	// ErrMissingBlockStore is returned when a part carries block references
	// but no block store was configured to resolve them.
	ErrMissingBlockStore = errors.New("part content is in block storage but no store is configured")
)
