package message

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidateMessageID checks the msg-id grammar this codec relies on: angle
// brackets around exactly one "@".
func ValidateMessageID(id string) error {
	id = strings.TrimSpace(id)

	if !strings.HasPrefix(id, "<") || !strings.HasSuffix(id, ">") {
		return fmt.Errorf("%w: %q: missing angle brackets", ErrInvalidMessageID, id)
	}

	if count := strings.Count(id[1:len(id)-1], "@"); count != 1 {
		return fmt.Errorf("%w: %q: expected exactly one '@', got %v", ErrInvalidMessageID, id, count)
	}

	return nil
}

// NewMessageID generates a fresh message id under the given domain.
func NewMessageID(domain string) string {
	if domain == "" {
		domain = "localhost"
	}

	return fmt.Sprintf("<%v@%v>", uuid.NewString(), domain)
}

// normalizeMessageID wraps a bare but otherwise valid msg-id in angle
// brackets.
func normalizeMessageID(id string) string {
	id = strings.TrimSpace(id)

	if id != "" && !strings.HasPrefix(id, "<") && !strings.HasSuffix(id, ">") {
		id = "<" + id + ">"
	}

	return id
}
