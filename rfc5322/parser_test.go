package rfc5322

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMailbox(t *testing.T) {
	mailbox, err := ParseMailbox("John Doe <john@example.com>")
	require.NoError(t, err)

	assert.Equal(t, "john", mailbox.LocalPart)
	assert.Equal(t, "example.com", mailbox.Domain)
	assert.Equal(t, "John Doe", mailbox.DisplayName)
	assert.Equal(t, "john@example.com", mailbox.Address())
}

func TestParseMailboxBareAddrSpec(t *testing.T) {
	mailbox, err := ParseMailbox("john@example.com")
	require.NoError(t, err)

	assert.Equal(t, "john", mailbox.LocalPart)
	assert.Equal(t, "example.com", mailbox.Domain)
	assert.Equal(t, "", mailbox.DisplayName)
}

func TestParseMailboxQuotedDisplayName(t *testing.T) {
	mailbox, err := ParseMailbox(`"Doe, John" <john@example.com>`)
	require.NoError(t, err)

	assert.Equal(t, "Doe, John", mailbox.DisplayName)
	assert.Equal(t, "john@example.com", mailbox.Address())
}

func TestParseMailboxQuotedLocalPart(t *testing.T) {
	mailbox, err := ParseMailbox(`"john smith"@example.com`)
	require.NoError(t, err)

	assert.Equal(t, "john smith", mailbox.LocalPart)
	assert.Equal(t, "example.com", mailbox.Domain)
}

func TestParseMailboxDomainLiteral(t *testing.T) {
	mailbox, err := ParseMailbox("jdoe@[192.168.0.1]")
	require.NoError(t, err)

	assert.Equal(t, "jdoe", mailbox.LocalPart)
	assert.Equal(t, "[192.168.0.1]", mailbox.Domain)
}

func TestParseMailboxEncodedDisplayName(t *testing.T) {
	mailbox, err := ParseMailbox("=?UTF-8?B?SGVsbG8=?= <hello@example.com>")
	require.NoError(t, err)

	assert.Equal(t, "Hello", mailbox.DisplayName)
}

func TestParseMailboxWithComments(t *testing.T) {
	mailbox, err := ParseMailbox("John (the boss) Doe <john@example.com> (comment)")
	require.NoError(t, err)

	assert.Equal(t, "John Doe", mailbox.DisplayName)
	assert.Equal(t, "john@example.com", mailbox.Address())
}

func TestParseMailboxErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"not an address",
		"john@",
		"@example.com",
		"john@example.com extra",
		"a@example.com, b@example.com",
		"Group: a@example.com;",
	} {
		_, err := ParseMailbox(input)
		assert.ErrorIs(t, err, ErrInvalidMailbox, "input %q", input)
	}
}

func TestParseAddressList(t *testing.T) {
	addrs, err := ParseAddressList("John Doe <john@example.com>, jane@example.com")
	require.NoError(t, err)
	require.Len(t, addrs, 2)

	john, ok := addrs[0].(Mailbox)
	require.True(t, ok)
	assert.Equal(t, "John Doe", john.DisplayName)
	assert.Equal(t, "john@example.com", john.Address())

	jane, ok := addrs[1].(Mailbox)
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", jane.Address())
}

func TestParseAddressListGroup(t *testing.T) {
	addrs, err := ParseAddressList("Friends: a@example.com, Bob <b@example.com>;, solo@example.com")
	require.NoError(t, err)
	require.Len(t, addrs, 2)

	group, ok := addrs[0].(Group)
	require.True(t, ok)
	assert.Equal(t, "Friends", group.DisplayName)
	require.Len(t, group.Mailboxes, 2)
	assert.Equal(t, "a@example.com", group.Mailboxes[0].Address())
	assert.Equal(t, "Bob", group.Mailboxes[1].DisplayName)

	solo, ok := addrs[1].(Mailbox)
	require.True(t, ok)
	assert.Equal(t, "solo@example.com", solo.Address())
}

func TestParseAddressListGroupQuotedDisplayNames(t *testing.T) {
	addrs, err := ParseAddressList(`"Friends": "A B" <a@x.com>, b@y.com;`)
	require.NoError(t, err)
	require.Len(t, addrs, 1)

	group, ok := addrs[0].(Group)
	require.True(t, ok)
	assert.Equal(t, "Friends", group.DisplayName)
	require.Len(t, group.Mailboxes, 2)
	assert.Equal(t, "A B", group.Mailboxes[0].DisplayName)
	assert.Equal(t, "a@x.com", group.Mailboxes[0].Address())
	assert.Equal(t, "b@y.com", group.Mailboxes[1].Address())
}

func TestParseAddressListQuotedGroup(t *testing.T) {
	addrs, err := ParseAddressList(`"Friends: a@example.com, b@example.com;"`)
	require.NoError(t, err)
	require.Len(t, addrs, 1)

	group, ok := addrs[0].(Group)
	require.True(t, ok)
	assert.Equal(t, "Friends", group.DisplayName)
	require.Len(t, group.Mailboxes, 2)
	assert.Equal(t, "a@example.com", group.Mailboxes[0].Address())
	assert.Equal(t, "b@example.com", group.Mailboxes[1].Address())
}

func TestGroupFormatParseRoundTrip(t *testing.T) {
	for _, group := range []Group{
		{DisplayName: "Empty"},
		{DisplayName: "Friends", Mailboxes: []Mailbox{
			{LocalPart: "a", Domain: "x.com"},
		}},
		{DisplayName: "Friends", Mailboxes: []Mailbox{
			{LocalPart: "a", Domain: "x.com", DisplayName: "A B"},
			{LocalPart: "b", Domain: "y.com"},
			{LocalPart: "c", Domain: "z.com", DisplayName: "C, D"},
		}},
	} {
		reparsed, err := ParseAddressList(group.String())
		require.NoError(t, err, "group %v", group.String())
		require.Len(t, reparsed, 1)

		assert.Equal(t, group, reparsed[0])
	}
}

func TestParseAddressListEmptyGroup(t *testing.T) {
	addrs, err := ParseAddressList("Undisclosed recipients:;")
	require.NoError(t, err)
	require.Len(t, addrs, 1)

	group, ok := addrs[0].(Group)
	require.True(t, ok)
	assert.Equal(t, "Undisclosed recipients", group.DisplayName)
	assert.Empty(t, group.Mailboxes)
}

func TestParseAddressListEmptyInput(t *testing.T) {
	_, err := ParseAddressList("")
	assert.ErrorIs(t, err, ErrInvalidMailbox)
}

func TestMailboxString(t *testing.T) {
	assert.Equal(t, `"John Doe" <john@example.com>`, Mailbox{LocalPart: "john", Domain: "example.com", DisplayName: "John Doe"}.String())
	assert.Equal(t, "john@example.com", Mailbox{LocalPart: "john", Domain: "example.com"}.String())
	assert.Equal(t, `"john smith"@example.com`, Mailbox{LocalPart: "john smith", Domain: "example.com"}.String())
}

func TestGroupString(t *testing.T) {
	group := Group{
		DisplayName: "Friends",
		Mailboxes: []Mailbox{
			{LocalPart: "a", Domain: "example.com"},
			{LocalPart: "b", Domain: "example.com", DisplayName: "Bob"},
		},
	}

	assert.Equal(t, `"Friends": a@example.com, "Bob" <b@example.com>;`, group.String())
	assert.Equal(t, `"Empty":;`, Group{DisplayName: "Empty"}.String())
}

func TestMailboxFormatParseRoundTrip(t *testing.T) {
	mailboxes := []Mailbox{
		{LocalPart: "john", Domain: "example.com"},
		{LocalPart: "john", Domain: "example.com", DisplayName: "John Doe"},
		{LocalPart: "john smith", Domain: "example.com", DisplayName: "Doe, John"},
		{LocalPart: "j.doe", Domain: "mail.example.com", DisplayName: `John "JD" Doe`},
	}

	for _, mailbox := range mailboxes {
		reparsed, err := ParseMailbox(mailbox.String())
		require.NoError(t, err, "mailbox %v", mailbox)

		assert.Equal(t, mailbox.LocalPart, reparsed.LocalPart)
		assert.Equal(t, mailbox.Domain, reparsed.Domain)
		assert.Equal(t, mailbox.DisplayName, reparsed.DisplayName)
	}
}

func TestAddressListFormatParseRoundTrip(t *testing.T) {
	original := []Address{
		Mailbox{LocalPart: "john", Domain: "example.com", DisplayName: "John Doe"},
		Group{DisplayName: "Friends", Mailboxes: []Mailbox{
			{LocalPart: "a", Domain: "example.com"},
			{LocalPart: "b", Domain: "example.com", DisplayName: "Bob"},
		}},
		Mailbox{LocalPart: "jane", Domain: "example.com"},
	}

	reparsed, err := ParseAddressList(FormatAddressList(original))
	require.NoError(t, err)

	assert.Equal(t, original, reparsed)
}
