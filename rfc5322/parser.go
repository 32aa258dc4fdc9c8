package rfc5322

import (
	"errors"
	"fmt"
	"time"

	"github.com/blockmail/blockmail/rfcparser"
)

var (
	// ErrInvalidMailbox is returned on empty or unparseable mailbox input, or
	// when the input parses to a group rather than a single mailbox.
	ErrInvalidMailbox = errors.New("invalid mailbox")

	// ErrInvalidDate is returned on empty or unparseable RFC 5322 date-time
	// input.
	ErrInvalidDate = errors.New("invalid date")
)

type Parser struct {
	source  *BacktrackingByteScanner
	scanner *rfcparser.Scanner
	parser  *rfcparser.Parser
}

type parserStringType int

const (
	parserStringTypeOther parserStringType = iota
	parserStringTypeUnspaced
	parserStringTypeEncoded
)

type parserString struct {
	String rfcparser.String
	Type   parserStringType
}

func newParser(input string) (*Parser, error) {
	source := NewBacktrackingByteScanner([]byte(input))
	scanner := rfcparser.NewScannerWithReader(source)
	parser := rfcparser.NewParser(scanner)

	p := &Parser{
		source:  source,
		scanner: scanner,
		parser:  parser,
	}

	if err := p.parser.Advance(); err != nil {
		return nil, err
	}

	return p, nil
}

// ParseMailbox parses a single RFC 5322 mailbox (name-addr or addr-spec).
func ParseMailbox(input string) (Mailbox, error) {
	if len(input) == 0 {
		return Mailbox{}, fmt.Errorf("%w: empty input", ErrInvalidMailbox)
	}

	p, err := newParser(input)
	if err != nil {
		return Mailbox{}, fmt.Errorf("%w: %v", ErrInvalidMailbox, err)
	}

	addrs, _, err := parseAddress(p)
	if err != nil {
		return Mailbox{}, fmt.Errorf("%w: %q: %v", ErrInvalidMailbox, input, err)
	}

	if !p.parser.Check(rfcparser.TokenTypeEOF) {
		return Mailbox{}, fmt.Errorf("%w: %q: trailing characters after address", ErrInvalidMailbox, input)
	}

	if len(addrs) != 1 {
		return Mailbox{}, fmt.Errorf("%w: %q: expected exactly one address, got %v", ErrInvalidMailbox, input, len(addrs))
	}

	mailbox, ok := addrs[0].(Mailbox)
	if !ok {
		return Mailbox{}, fmt.Errorf("%w: %q: input is a group, not a mailbox", ErrInvalidMailbox, input)
	}

	return mailbox, nil
}

// ParseAddressList parses a comma separated list of mailboxes and groups,
// preserving order and group structure.
func ParseAddressList(input string) ([]Address, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidMailbox)
	}

	p, err := newParser(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMailbox, err)
	}

	result, err := parseAddressList(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidMailbox, input, err)
	}

	if !p.parser.Check(rfcparser.TokenTypeEOF) {
		return nil, fmt.Errorf("%w: %q: trailing characters after address list", ErrInvalidMailbox, input)
	}

	return result, nil
}

// ParseDateTime parses an RFC 5322 date-time, including obsolete zone names.
func ParseDateTime(input string) (time.Time, error) {
	if len(input) == 0 {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrInvalidDate)
	}

	p, err := newParser(input)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	t, err := parseDateTime(p.parser)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, input, err)
	}

	return t, nil
}

// FormatDateTime renders a date-time the way RFC 5322 wants it on the wire.
func FormatDateTime(t time.Time) string {
	return t.Format("Mon, 02 Jan 2006 15:04:05 -0700")
}

type ParserState struct {
	scanner BacktrackingByteScannerScope
	parser  rfcparser.ParserState
}

func (p *Parser) SaveState() ParserState {
	return ParserState{
		scanner: p.source.SaveState(),
		parser:  p.parser.SaveState(),
	}
}

func (p *Parser) RestoreState(s ParserState) {
	p.source.RestoreState(s.scanner)
	p.parser.RestoreState(s.parser)
}
