package message

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextReferences(t *testing.T) {
	refs := NextReferences("<parent@example.com>", []string{"<root@example.com>"})

	assert.Equal(t, []string{"<root@example.com>", "<parent@example.com>"}, refs)
}

func TestNextReferencesEmptyParent(t *testing.T) {
	refs := NextReferences("<parent@example.com>", nil)

	assert.Equal(t, []string{"<parent@example.com>"}, refs)
}

func TestNextReferencesTrimsToNewestTwenty(t *testing.T) {
	var parentRefs []string

	for i := 0; i < 30; i++ {
		parentRefs = append(parentRefs, fmt.Sprintf("<%d@example.com>", i))
	}

	refs := NextReferences("<parent@example.com>", parentRefs)

	assert.Len(t, refs, 20)
	assert.Equal(t, "<11@example.com>", refs[0])
	assert.Equal(t, "<parent@example.com>", refs[19])
}

func TestNextReferencesDoesNotMutateParent(t *testing.T) {
	parentRefs := []string{"<root@example.com>"}

	_ = NextReferences("<parent@example.com>", parentRefs)

	assert.Equal(t, []string{"<root@example.com>"}, parentRefs)
}
