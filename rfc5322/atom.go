package rfc5322

// 3.2.3.  Atom

import (
	"fmt"
	"io"
	"mime"

	"github.com/blockmail/blockmail/rfcparser"
)

func parseDotAtom(p *rfcparser.Parser) (rfcparser.String, error) {
	// dot-atom        =   [CFWS] dot-atom-text [CFWS]
	if _, err := tryParseCFWS(p); err != nil {
		return rfcparser.String{}, err
	}

	atom, err := parseDotAtomText(p)
	if err != nil {
		return rfcparser.String{}, err
	}

	if _, err := tryParseCFWS(p); err != nil {
		return rfcparser.String{}, err
	}

	return atom, nil
}

func parseDotAtomText(p *rfcparser.Parser) (rfcparser.String, error) {
	//  dot-atom-text   =   1*atext *("." 1*atext)
	if err := p.ConsumeWith(isAText, "expected atext char for dot-atom-text"); err != nil {
		return rfcparser.String{}, err
	}

	atom, err := p.CollectBytesWhileMatchesWithPrevWith(isAText)
	if err != nil {
		return rfcparser.String{}, err
	}

	for {
		if ok, err := p.Matches(rfcparser.TokenTypePeriod); err != nil {
			return rfcparser.String{}, err
		} else if !ok {
			break
		}

		atom.Value = append(atom.Value, '.')

		if p.Check(rfcparser.TokenTypePeriod) {
			return rfcparser.String{}, p.MakeError("invalid token after '.'")
		}

		if err := p.ConsumeWith(isAText, "expected atext char for dot-atom-text"); err != nil {
			return rfcparser.String{}, err
		}

		atomNext, err := p.CollectBytesWhileMatchesWithPrevWith(isAText)
		if err != nil {
			return rfcparser.String{}, err
		}

		atom.Value = append(atom.Value, atomNext.Value...)
	}

	return atom.IntoString(), nil
}

func parseAtom(p *rfcparser.Parser) (parserString, error) {
	// atom            =   [CFWS] 1*atext [CFWS]
	if _, err := tryParseCFWS(p); err != nil {
		return parserString{}, err
	}

	if err := p.ConsumeWith(isAText, "expected atext char for atom"); err != nil {
		return parserString{}, err
	}

	atom, err := p.CollectBytesWhileMatchesWithPrevWith(isAText)
	if err != nil {
		return parserString{}, err
	}

	if _, err := tryParseCFWS(p); err != nil {
		return parserString{}, err
	}

	return parserString{
		String: atom.IntoString(),
		Type:   parserStringTypeOther,
	}, nil
}

// CharsetReader converts non UTF-8 encoded-word payloads to UTF-8. When nil,
// only UTF-8 and US-ASCII charsets decode.
var CharsetReader func(charset string, input io.Reader) (io.Reader, error)

func parseEncodedAtom(p *rfcparser.Parser) (parserString, error) {
	// encoded-word = "=?" charset "?" encoding "?" encoded-text "?="
	//
	// charset = token    ; see section 3
	//
	// encoding = token   ; see section 4
	if _, err := tryParseCFWS(p); err != nil {
		return parserString{}, err
	}

	var fullWord string

	startOffset := p.CurrentToken().Offset

	if err := p.ConsumeBytesFold('=', '?'); err != nil {
		return parserString{}, err
	}

	fullWord += "=?"

	charset, err := p.CollectBytesWhileMatchesWith(isEncodedAtomToken)
	if err != nil {
		return parserString{}, err
	}

	fullWord += charset.IntoString().Value

	if err := p.Consume(rfcparser.TokenTypeQuestion, "expected '?' after encoding charset"); err != nil {
		return parserString{}, err
	}

	fullWord += "?"

	if err := p.Consume(rfcparser.TokenTypeChar, "expected char after '?'"); err != nil {
		return parserString{}, err
	}

	encoding := rfcparser.ByteToLower(p.PreviousToken().Value)
	if encoding != 'q' && encoding != 'b' {
		return parserString{}, p.MakeError("encoding should either be 'Q' or 'B'")
	}

	if err := p.Consume(rfcparser.TokenTypeQuestion, "expected '?' after encoding byte"); err != nil {
		return parserString{}, err
	}

	if encoding == 'b' {
		fullWord += "B"
	} else {
		fullWord += "Q"
	}

	fullWord += "?"

	encodedText, err := p.CollectBytesWhileMatchesWith(isEncodedText)
	if err != nil {
		return parserString{}, err
	}

	fullWord += encodedText.IntoString().Value

	if err := p.ConsumeBytesFold('?', '='); err != nil {
		return parserString{}, err
	}

	fullWord += "?="

	if _, err := tryParseCFWS(p); err != nil {
		return parserString{}, err
	}

	decoder := mime.WordDecoder{CharsetReader: CharsetReader}

	decoded, err := decoder.Decode(fullWord)
	if err != nil {
		return parserString{}, p.MakeErrorAtOffset(fmt.Sprintf("failed to decode encoded atom: %v", err), startOffset)
	}

	return parserString{
		String: rfcparser.String{Value: decoded, Offset: startOffset},
		Type:   parserStringTypeEncoded,
	}, nil
}

func isEncodedAtomToken(tokenType rfcparser.TokenType) bool {
	// token = 1*<Any CHAR except SPACE, CTLs, and especials>
	//
	// especials = "(" / ")" / "<" / ">" / "@" / "," / ";" / ":" / "
	// <"> / "/" / "[" / "]" / "?" / "." / "="
	if rfcparser.IsCTL(tokenType) {
		return false
	}

	switch tokenType { //nolint:exhaustive
	case rfcparser.TokenTypeEOF,
		rfcparser.TokenTypeError,
		rfcparser.TokenTypeSP,
		rfcparser.TokenTypeLParen,
		rfcparser.TokenTypeRParen,
		rfcparser.TokenTypeLess,
		rfcparser.TokenTypeGreater,
		rfcparser.TokenTypeAt,
		rfcparser.TokenTypeComma,
		rfcparser.TokenTypeSemicolon,
		rfcparser.TokenTypeColon,
		rfcparser.TokenTypeDQuote,
		rfcparser.TokenTypeSlash,
		rfcparser.TokenTypeLBracket,
		rfcparser.TokenTypeRBracket,
		rfcparser.TokenTypeQuestion,
		rfcparser.TokenTypePeriod,
		rfcparser.TokenTypeEqual:
		return false
	default:
		return true
	}
}

func isEncodedText(tokenType rfcparser.TokenType) bool {
	//  encoded-text = 1*<Any printable ASCII character other than "?"
	//                     or SPACE>
	if rfcparser.IsCTL(tokenType) ||
		tokenType == rfcparser.TokenTypeSP ||
		tokenType == rfcparser.TokenTypeQuestion ||
		tokenType == rfcparser.TokenTypeEOF ||
		tokenType == rfcparser.TokenTypeError ||
		tokenType == rfcparser.TokenTypeExtendedChar {
		return false
	}

	return true
}

func isAText(tokenType rfcparser.TokenType) bool {
	//     atext           =   ALPHA / DIGIT /    ; Printable US-ASCII
	//                         "!" / "#" /        ;  characters not including
	//                         "$" / "%" /        ;  specials.  Used for atoms.
	//                         "&" / "'" /
	//                         "*" / "+" /
	//                         "-" / "/" /
	//                         "=" / "?" /
	//                         "^" / "_" /
	//                         "`" / "{" /
	//                         "|" / "}" /
	//                         "~"
	switch tokenType { //nolint:exhaustive
	case rfcparser.TokenTypeDigit,
		rfcparser.TokenTypeChar,
		rfcparser.TokenTypeExclamation,
		rfcparser.TokenTypeHash,
		rfcparser.TokenTypeDollar,
		rfcparser.TokenTypePercent,
		rfcparser.TokenTypeAmpersand,
		rfcparser.TokenTypeSQuote,
		rfcparser.TokenTypeAsterisk,
		rfcparser.TokenTypePlus,
		rfcparser.TokenTypeMinus,
		rfcparser.TokenTypeSlash,
		rfcparser.TokenTypeEqual,
		rfcparser.TokenTypeQuestion,
		rfcparser.TokenTypeCaret,
		rfcparser.TokenTypeUnderscore,
		rfcparser.TokenTypeBacktick,
		rfcparser.TokenTypeLCurly,
		rfcparser.TokenTypeRCurly,
		rfcparser.TokenTypePipe,
		rfcparser.TokenTypeExtendedChar, // RFC 6532
		rfcparser.TokenTypeTilde:
		return true
	default:
		return false
	}
}
