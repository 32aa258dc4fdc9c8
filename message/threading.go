package message

import "github.com/bradenaw/juniper/xslices"

// maxReferences caps the References list of a reply, per RFC 5322's advice to
// trim the thread tail rather than grow without bound.
const maxReferences = 20

// NextReferences returns the References list a reply to the given parent must
// carry: the parent's references followed by the parent's own message id,
// trimmed to the newest maxReferences entries.
func NextReferences(parentMessageID string, parentReferences []string) []string {
	refs := append(xslices.Clone(parentReferences), parentMessageID)

	if len(refs) > maxReferences {
		refs = refs[len(refs)-maxReferences:]
	}

	return refs
}
