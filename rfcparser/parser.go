package rfcparser

import (
	"errors"
	"fmt"
)

// Parser consumes tokens from a given scanner. Advance must be called at
// least once before any checks in order to initialize the previous token.
type Parser struct {
	scanner       *Scanner
	previousToken Token
	currentToken  Token
}

// String is a parsed value that remembers where in the input it started.
type String struct {
	Value  string
	Offset int
}

func (s String) ToLower() String {
	lower := make([]byte, len(s.Value))

	for i := 0; i < len(s.Value); i++ {
		lower[i] = ByteToLower(s.Value[i])
	}

	return String{Value: string(lower), Offset: s.Offset}
}

type Bytes struct {
	Value  []byte
	Offset int
}

func (b Bytes) IntoString() String {
	return String{Value: string(b.Value), Offset: b.Offset}
}

type Error struct {
	Token   Token
	Message string
}

func (p *Error) Error() string {
	return fmt.Sprintf("[Error offset=%v]: %v", p.Token.Offset, p.Message)
}

func (p *Error) IsEOF() bool {
	return p.Token.TType == TokenTypeEOF
}

func IsError(err error) bool {
	var perr *Error
	return errors.As(err, &perr)
}

func NewParser(s *Scanner) *Parser {
	return &Parser{scanner: s}
}

type ParserState struct {
	previousToken Token
	currentToken  Token
}

func (p *Parser) SaveState() ParserState {
	return ParserState{
		previousToken: p.previousToken,
		currentToken:  p.currentToken,
	}
}

func (p *Parser) RestoreState(s ParserState) {
	p.previousToken = s.previousToken
	p.currentToken = s.currentToken
}

// ParseNumber parses a non decimal number without any signs.
func (p *Parser) ParseNumber() (int, error) {
	if err := p.Consume(TokenTypeDigit, "expected valid digit for number"); err != nil {
		return 0, err
	}

	number := ByteToInt(p.previousToken.Value)

	for {
		if ok, err := p.Matches(TokenTypeDigit); err != nil {
			return 0, err
		} else if ok {
			number *= 10
			number += ByteToInt(p.previousToken.Value)
		} else {
			break
		}
	}

	return number, nil
}

// ParseNumberN parses a non decimal number with at most N digits.
func (p *Parser) ParseNumberN(n int) (int, error) {
	if n == 0 {
		return 0, p.MakeError("requested ParseNumberN with 0 length number")
	}

	if err := p.Consume(TokenTypeDigit, "expected valid digit for number"); err != nil {
		return 0, err
	}

	number := ByteToInt(p.previousToken.Value)

	for i := 0; i < n-1; i++ {
		if ok, err := p.Matches(TokenTypeDigit); err != nil {
			return 0, err
		} else if ok {
			number *= 10
			number += ByteToInt(p.previousToken.Value)
		} else {
			break
		}
	}

	return number, nil
}

// Check if the next token matches the given input.
func (p *Parser) Check(tokenType TokenType) bool {
	return p.currentToken.TType == tokenType
}

// CheckWith checks if the next token matches the given condition.
func (p *Parser) CheckWith(f func(tokenType TokenType) bool) bool {
	return f(p.currentToken.TType)
}

// ConsumeNewLine issues two Consume calls for the `CRLF` token sequence.
func (p *Parser) ConsumeNewLine() error {
	if err := p.Consume(TokenTypeCR, "expected CR"); err != nil {
		return err
	}

	if err := p.Consume(TokenTypeLF, "expected LF after CR"); err != nil {
		return err
	}

	return nil
}

// Consume will advance the scanner to the next token if the current token
// matches the given token. If not, an error with the given message is
// returned.
func (p *Parser) Consume(tokenType TokenType, message string) error {
	return p.ConsumeWith(func(token TokenType) bool {
		return token == tokenType
	}, message)
}

// ConsumeWith will advance the scanner to the next token if the current token
// matches the given condition. If not, an error with the given message is
// returned.
func (p *Parser) ConsumeWith(f func(token TokenType) bool, message string) error {
	if f(p.currentToken.TType) {
		return p.Advance()
	}

	return p.MakeError(message)
}

// ConsumeBytesFold will advance if the next token values match the given
// sequence, case insensitive.
func (p *Parser) ConsumeBytesFold(chars ...byte) error {
	for _, c := range chars {
		if ByteToLower(p.currentToken.Value) != ByteToLower(c) {
			return p.MakeError(fmt.Sprintf("expected byte value %x", c))
		}

		if err := p.Advance(); err != nil {
			return err
		}
	}

	return nil
}

// MatchesWith will advance the scanner to the next token and return true if
// the current token matches the given condition.
func (p *Parser) MatchesWith(f func(tokenType TokenType) bool) (bool, error) {
	if !p.CheckWith(f) {
		return false, nil
	}

	err := p.Advance()

	return true, err
}

// Matches will advance the scanner to the next token and return true if the
// current token matches the given tokenType.
func (p *Parser) Matches(tokenType TokenType) (bool, error) {
	if !p.Check(tokenType) {
		return false, nil
	}

	err := p.Advance()

	return true, err
}

// Advance advances the scanner to the next token.
func (p *Parser) Advance() error {
	p.previousToken = p.currentToken

	nextToken, err := p.scanner.ScanToken()
	if err != nil {
		return err
	}

	p.currentToken = nextToken

	return nil
}

// CollectBytesWhileMatchesWithPrevWith collects bytes from the token scanner
// while tokens match the given condition. This function INCLUDES the previous
// token consumed before this call.
func (p *Parser) CollectBytesWhileMatchesWithPrevWith(f func(tokenType TokenType) bool) (Bytes, error) {
	result := Bytes{
		Value:  []byte{p.previousToken.Value},
		Offset: p.previousToken.Offset,
	}

	for {
		if ok, err := p.MatchesWith(f); err != nil {
			return Bytes{}, err
		} else if ok {
			result.Value = append(result.Value, p.previousToken.Value)
		} else {
			break
		}
	}

	return result, nil
}

// CollectBytesWhileMatches collects bytes from the token scanner while tokens
// match the given token type. This function DOES NOT INCLUDE the previous
// token consumed before this call.
func (p *Parser) CollectBytesWhileMatches(tokenType TokenType) (Bytes, error) {
	return p.CollectBytesWhileMatchesWith(func(tt TokenType) bool {
		return tt == tokenType
	})
}

// CollectBytesWhileMatchesWith collects bytes from the token scanner while
// tokens match the given condition. This function DOES NOT INCLUDE the
// previous token consumed before this call.
func (p *Parser) CollectBytesWhileMatchesWith(f func(tokenType TokenType) bool) (Bytes, error) {
	result := Bytes{
		Offset: p.currentToken.Offset,
	}

	for {
		if ok, err := p.MatchesWith(f); err != nil {
			return Bytes{}, err
		} else if ok {
			result.Value = append(result.Value, p.previousToken.Value)
		} else {
			break
		}
	}

	return result, nil
}

func (p *Parser) PreviousToken() Token {
	return p.previousToken
}

func (p *Parser) CurrentToken() Token {
	return p.currentToken
}

func (p *Parser) MakeError(err string) error {
	return &Error{
		Token:   p.previousToken,
		Message: err,
	}
}

// MakeErrorAtOffset reports the error at a caller-recorded offset rather than
// at the previous token.
func (p *Parser) MakeErrorAtOffset(err string, offset int) error {
	return &Error{
		Token:   Token{TType: p.previousToken.TType, Value: p.previousToken.Value, Offset: offset},
		Message: err,
	}
}

func IsCTL(tokenType TokenType) bool {
	return tokenType == TokenTypeCTL ||
		tokenType == TokenTypeZero ||
		tokenType == TokenTypeTab ||
		tokenType == TokenTypeCR ||
		tokenType == TokenTypeLF
}

func ByteToInt(b byte) int {
	return int(b) - int(byte('0'))
}
