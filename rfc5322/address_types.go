package rfc5322

import (
	"strings"

	"github.com/bradenaw/juniper/xslices"
)

// Address is either a Mailbox or a Group.
type Address interface {
	isAddress()
	String() string
}

type Mailbox struct {
	LocalPart   string
	Domain      string
	DisplayName string
}

func (Mailbox) isAddress() {}

// Address returns the addr-spec `localPart@domain`.
func (m Mailbox) Address() string {
	return m.LocalPart + "@" + m.Domain
}

// String formats the mailbox as `"name" <local@domain>` when a display name
// is present, else as a bare addr-spec.
func (m Mailbox) String() string {
	if m.DisplayName == "" {
		return formatLocalPart(m.LocalPart) + "@" + m.Domain
	}

	return formatDisplayName(m.DisplayName) + " <" + formatLocalPart(m.LocalPart) + "@" + m.Domain + ">"
}

type Group struct {
	DisplayName string
	Mailboxes   []Mailbox
}

func (Group) isAddress() {}

// String formats the group as `name: m1, m2;` (or `name:;` when empty).
func (g Group) String() string {
	return formatDisplayName(g.DisplayName) + ":" + strings.Join(xslices.Map(g.Mailboxes, func(m Mailbox) string {
		return " " + m.String()
	}), ",") + ";"
}

// FormatAddressList renders a comma separated address list that
// ParseAddressList accepts back.
func FormatAddressList(addresses []Address) string {
	return strings.Join(xslices.Map(addresses, func(addr Address) string {
		return addr.String()
	}), ", ")
}

// atextSpecials are the printable US-ASCII characters allowed in an atom;
// anything else in a display name or local part forces quoting.
const atextSpecials = "!#$%&'*+-/=?^_`{|}~"

func isAtextByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b >= 128:
		return true
	}

	return strings.IndexByte(atextSpecials, b) >= 0
}

// needsQuoting reports whether a local part cannot be emitted as a dot-atom.
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}

	for i := 0; i < len(s); i++ {
		if isAtextByte(s[i]) || s[i] == '.' {
			continue
		}

		return true
	}

	// Leading, trailing or doubled dots are not valid dot-atoms.
	return strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") || strings.Contains(s, "..")
}

func quoteString(s string) string {
	var b strings.Builder

	b.WriteByte('"')

	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}

		b.WriteByte(s[i])
	}

	b.WriteByte('"')

	return b.String()
}

func formatLocalPart(local string) string {
	if needsQuoting(local) {
		return quoteString(local)
	}

	return local
}

func formatDisplayName(name string) string {
	// Display names are always emitted as quoted strings; the quoted form
	// round-trips any phrase content, including names that happen to contain
	// specials. Unescaped CR/LF must never reach the wire.
	if strings.ContainsAny(name, "\r\n") {
		name = strings.Map(func(r rune) rune {
			if r == '\r' || r == '\n' {
				return -1
			}
			return r
		}, name)
	}

	return quoteString(name)
}
