package rfcparser

import (
	"bufio"
	"errors"
	"io"
)

type TokenType int

const (
	TokenTypeEOF TokenType = iota
	TokenTypeError
	TokenTypeSP
	TokenTypeTab
	TokenTypeExclamation
	TokenTypeDQuote
	TokenTypeHash
	TokenTypeDollar
	TokenTypePercent
	TokenTypeAmpersand
	TokenTypeSQuote
	TokenTypeLParen
	TokenTypeRParen
	TokenTypeAsterisk
	TokenTypePlus
	TokenTypeComma
	TokenTypeMinus
	TokenTypePeriod
	TokenTypeSlash
	TokenTypeSemicolon
	TokenTypeColon
	TokenTypeLess
	TokenTypeEqual
	TokenTypeGreater
	TokenTypeQuestion
	TokenTypeAt
	TokenTypeLBracket
	TokenTypeRBracket
	TokenTypeCaret
	TokenTypeUnderscore
	TokenTypeBacktick
	TokenTypeLCurly
	TokenTypePipe
	TokenTypeRCurly
	TokenTypeTilde
	TokenTypeBackslash
	TokenTypeDigit
	TokenTypeChar
	TokenTypeExtendedChar
	TokenTypeCR
	TokenTypeLF
	TokenTypeZero
	TokenTypeDelete
	TokenTypeCTL
)

type Token struct {
	TType  TokenType
	Value  byte
	Offset int
}

// singleByteTokens covers the printable specials; everything else is
// classified by range in ScanToken.
var singleByteTokens = map[byte]TokenType{
	' ':  TokenTypeSP,
	'!':  TokenTypeExclamation,
	'"':  TokenTypeDQuote,
	'#':  TokenTypeHash,
	'$':  TokenTypeDollar,
	'%':  TokenTypePercent,
	'&':  TokenTypeAmpersand,
	'\'': TokenTypeSQuote,
	'(':  TokenTypeLParen,
	')':  TokenTypeRParen,
	'*':  TokenTypeAsterisk,
	'+':  TokenTypePlus,
	',':  TokenTypeComma,
	'-':  TokenTypeMinus,
	'.':  TokenTypePeriod,
	'/':  TokenTypeSlash,
	':':  TokenTypeColon,
	';':  TokenTypeSemicolon,
	'<':  TokenTypeLess,
	'=':  TokenTypeEqual,
	'>':  TokenTypeGreater,
	'?':  TokenTypeQuestion,
	'@':  TokenTypeAt,
	'[':  TokenTypeLBracket,
	']':  TokenTypeRBracket,
	'^':  TokenTypeCaret,
	'_':  TokenTypeUnderscore,
	'`':  TokenTypeBacktick,
	'{':  TokenTypeLCurly,
	'|':  TokenTypePipe,
	'}':  TokenTypeRCurly,
	'~':  TokenTypeTilde,
	'\\': TokenTypeBackslash,
}

type Scanner struct {
	source      Reader
	currentByte byte
	offset      int
}

type Reader interface {
	io.Reader
	ReadByte() (byte, error)
	ReadBytes(byte) ([]byte, error)
}

func NewScanner(source io.Reader) *Scanner {
	return &Scanner{
		source: bufio.NewReader(source),
	}
}

func NewScannerWithReader(source Reader) *Scanner {
	return &Scanner{
		source: source,
	}
}

func (s *Scanner) ScanToken() (Token, error) {
	b, err := s.advance()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return s.makeEOF(), nil
		}

		return Token{}, err
	}

	if isByteDigit(b) {
		return s.makeToken(TokenTypeDigit), nil
	}

	if isByteAlpha(b) {
		return s.makeToken(TokenTypeChar), nil
	}

	if isByteExtendedChar(b) {
		return s.makeToken(TokenTypeExtendedChar), nil
	}

	if tokenType, ok := singleByteTokens[b]; ok {
		return s.makeToken(tokenType), nil
	}

	switch b {
	case 0:
		return s.makeToken(TokenTypeZero), nil
	case '\t':
		return s.makeToken(TokenTypeTab), nil
	case '\r':
		return s.makeToken(TokenTypeCR), nil
	case '\n':
		return s.makeToken(TokenTypeLF), nil
	case 127:
		return s.makeToken(TokenTypeDelete), nil
	}

	return s.makeToken(TokenTypeCTL), nil
}

func (s *Scanner) ResetOffsetCounter() {
	s.offset = 0
}

func (s *Scanner) advance() (byte, error) {
	b, err := s.source.ReadByte()
	if err != nil {
		return 0, err
	}

	s.currentByte = b
	s.offset += 1

	return b, nil
}

func (s *Scanner) makeToken(t TokenType) Token {
	return Token{
		TType:  t,
		Value:  s.currentByte,
		Offset: s.offset,
	}
}

func (s *Scanner) makeEOF() Token {
	return Token{
		TType:  TokenTypeEOF,
		Value:  0,
		Offset: s.offset,
	}
}

func isByteAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isByteDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isByteExtendedChar(b byte) bool {
	return b >= 128
}

func ByteToLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return 'a' + (b - 'A')
	}

	return b
}
