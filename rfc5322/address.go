package rfc5322

import (
	"github.com/blockmail/blockmail/rfcparser"
)

// 3.4.  Address Specification

func parseAddressList(p *Parser) ([]Address, error) {
	// address-list    =   (address *("," address)) / obs-addr-list
	//  *([CFWS] ",") address *("," [address / CFWS])
	// We extended this rule to allow ';' as separator.
	var result []Address

	isSep := func(tokenType rfcparser.TokenType) bool {
		return tokenType == rfcparser.TokenTypeComma || tokenType == rfcparser.TokenTypeSemicolon
	}

	// *([CFWS] ",")
	for {
		if _, err := tryParseCFWS(p.parser); err != nil {
			return nil, err
		}

		if ok, err := p.parser.MatchesWith(isSep); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}

	var groupConsumedSemicolon bool

	// address
	{
		addr, consumedSemicolon, err := parseAddress(p)
		if err != nil {
			return nil, err
		}

		groupConsumedSemicolon = consumedSemicolon

		result = append(result, addr...)
	}

	// *("," [address / CFWS])
	for {
		if ok, err := p.parser.MatchesWith(isSep); err != nil {
			return nil, err
		} else if !ok {
			// A group may have consumed its own ';' terminator; in that case
			// the next address can follow without a separator.
			if !groupConsumedSemicolon || p.parser.Check(rfcparser.TokenTypeEOF) {
				break
			}
		}

		if ok, err := tryParseCFWS(p.parser); err != nil {
			return nil, err
		} else if ok {
			// Only continue when the rest of the input is EOF or another
			// separator, otherwise `"," address` rules would trip over the
			// consumed whitespace.
			if p.parser.Check(rfcparser.TokenTypeEOF) || p.parser.CheckWith(isSep) {
				continue
			}
		}

		addr, consumedSemicolon, err := parseAddress(p)
		if err != nil {
			return nil, err
		}

		groupConsumedSemicolon = consumedSemicolon

		result = append(result, addr...)
	}

	return result, nil
}

// The boolean return reports whether a group consumed a ';' separator, which
// disambiguates the sequence ` g:<address>;<address>` since groups are also
// allowed an optional ';' terminator.
func parseAddress(p *Parser) ([]Address, bool, error) {
	//    address         =   mailbox / group
	//    name-addr       =   [display-name] angle-addr
	//    group           =   display-name ":" [group-list] ";" [CFWS]
	if _, err := tryParseCFWS(p.parser); err != nil {
		return nil, false, err
	}

	// Standalone angle-addr.
	if p.parser.Check(rfcparser.TokenTypeLess) {
		local, domain, err := parseAngleAddr(p.parser)
		if err != nil {
			return nil, false, err
		}

		return []Address{Mailbox{LocalPart: local, Domain: domain}}, false, nil
	}

	parserState := p.SaveState()

	if mailbox, err := parseMailbox(p); err == nil {
		return []Address{mailbox}, false, nil
	}

	p.RestoreState(parserState)

	group, didConsumeSemicolon, err := parseGroup(p)
	if err != nil {
		return nil, false, err
	}

	return []Address{group}, didConsumeSemicolon, nil
}

func parseGroup(p *Parser) (Group, bool, error) {
	// nolint:dupword
	// group           =   display-name ":" [group-list] ";" [CFWS]
	// group-list      =   mailbox-list / CFWS / obs-group-list
	// obs-group-list  =   1*([CFWS] ",") [CFWS]
	//
	// mailbox-list    =   (mailbox *("," mailbox)) / obs-mbox-list
	// obs-mbox-list   =   *([CFWS] ",") mailbox *("," [mailbox / CFWS])
	//
	// Relaxed so that the ';' is optional and a group can be wrapped in `"`.
	var (
		group     Group
		hasQuotes bool
	)

	if p.parser.Check(rfcparser.TokenTypeDQuote) {
		// A leading '"' is either a quoted display name (`"name": ...;`) or a
		// quote wrapping the entire group (`"name: ...;"`). Try the former
		// first: it is what our own formatter produces.
		parserState := p.SaveState()

		displayName, err := parseDisplayName(p.parser)
		if err == nil && p.parser.Check(rfcparser.TokenTypeColon) {
			group.DisplayName = displayName
		} else {
			p.RestoreState(parserState)

			if _, err := p.parser.Matches(rfcparser.TokenTypeDQuote); err != nil {
				return Group{}, false, err
			}

			hasQuotes = true

			displayName, err := parseDisplayName(p.parser)
			if err != nil {
				return Group{}, false, err
			}

			group.DisplayName = displayName
		}
	} else {
		displayName, err := parseDisplayName(p.parser)
		if err != nil {
			return Group{}, false, err
		}

		group.DisplayName = displayName
	}

	if err := p.parser.Consume(rfcparser.TokenTypeColon, "expected ':' for group start"); err != nil {
		return Group{}, false, err
	}

	var didConsumeSemicolon bool

	if ok, err := p.parser.Matches(rfcparser.TokenTypeSemicolon); err != nil {
		return Group{}, false, err
	} else if !ok {
		// *([CFWS] ",")
		for {
			if _, err := tryParseCFWS(p.parser); err != nil {
				return Group{}, false, err
			}

			if ok, err := p.parser.Matches(rfcparser.TokenTypeComma); err != nil {
				return Group{}, false, err
			} else if !ok {
				break
			}
		}

		// The group list is optionally mailbox-list / CFWS / obs-group-list,
		// so running into EOF, ';' or the closing '"' of a quoted group means
		// the list is empty. A '"' in an unquoted group starts the quoted
		// display name of the first mailbox instead.
		if !(p.parser.Check(rfcparser.TokenTypeEOF) ||
			p.parser.Check(rfcparser.TokenTypeSemicolon) ||
			(hasQuotes && p.parser.Check(rfcparser.TokenTypeDQuote))) {
			var parsedFirstMailbox bool

			{
				parserState := p.SaveState()

				mailbox, err := parseMailbox(p)
				if err != nil {
					p.RestoreState(parserState)
				} else {
					parsedFirstMailbox = true

					group.Mailboxes = append(group.Mailboxes, mailbox)
				}
			}

			if parsedFirstMailbox {
				// *("," [mailbox / CFWS])
				for {
					if ok, err := p.parser.Matches(rfcparser.TokenTypeComma); err != nil {
						return Group{}, false, err
					} else if !ok {
						break
					}

					if ok, err := tryParseCFWS(p.parser); err != nil {
						return Group{}, false, err
					} else if ok {
						// Whitespace after the separator only closes the list
						// when nothing but another separator or the group end
						// follows; `", mailbox"` keeps going.
						if p.parser.Check(rfcparser.TokenTypeEOF) ||
							p.parser.Check(rfcparser.TokenTypeComma) ||
							p.parser.Check(rfcparser.TokenTypeSemicolon) ||
							(hasQuotes && p.parser.Check(rfcparser.TokenTypeDQuote)) {
							continue
						}
					}

					mailbox, err := parseMailbox(p)
					if err != nil {
						return Group{}, false, err
					}

					group.Mailboxes = append(group.Mailboxes, mailbox)
				}
			} else {
				// If we did not parse a mailbox then we must parse CFWS.
				if err := parseCFWS(p.parser); err != nil {
					return Group{}, false, err
				}
			}
		}

		consumedSemicolon, err := p.parser.Matches(rfcparser.TokenTypeSemicolon)
		if err != nil {
			return Group{}, false, err
		}

		didConsumeSemicolon = consumedSemicolon
	} else {
		didConsumeSemicolon = true
	}

	if _, err := tryParseCFWS(p.parser); err != nil {
		return Group{}, false, err
	}

	if hasQuotes {
		if err := p.parser.Consume(rfcparser.TokenTypeDQuote, `expected '"' for group end`); err != nil {
			return Group{}, false, err
		}
	}

	return group, didConsumeSemicolon, nil
}

func parseMailbox(p *Parser) (Mailbox, error) {
	//    mailbox         =   name-addr / addr-spec
	parserState := p.SaveState()

	if mailbox, err := parseNameAddr(p.parser); err == nil {
		return mailbox, nil
	}

	p.RestoreState(parserState)

	local, domain, err := parseAddrSpec(p.parser)
	if err != nil {
		return Mailbox{}, err
	}

	return Mailbox{LocalPart: local, Domain: domain}, nil
}

func parseNameAddr(p *rfcparser.Parser) (Mailbox, error) {
	// name-addr       =   [display-name] angle-addr
	if _, err := tryParseCFWS(p); err != nil {
		return Mailbox{}, err
	}

	// Only has the angle-addr component.
	if p.Check(rfcparser.TokenTypeLess) {
		local, domain, err := parseAngleAddr(p)
		if err != nil {
			return Mailbox{}, err
		}

		return Mailbox{LocalPart: local, Domain: domain}, nil
	}

	displayName, err := parseDisplayName(p)
	if err != nil {
		return Mailbox{}, err
	}

	local, domain, err := parseAngleAddr(p)
	if err != nil {
		return Mailbox{}, err
	}

	return Mailbox{LocalPart: local, Domain: domain, DisplayName: displayName}, nil
}

func parseAngleAddr(p *rfcparser.Parser) (string, string, error) {
	// angle-addr      =   [CFWS] "<" addr-spec ">" [CFWS] /
	//                        obs-angle-addr
	//
	//      obs-angle-addr  =   [CFWS] "<" obs-route addr-spec ">" [CFWS]
	//
	//      obs-route       =   obs-domain-list ":"
	//
	//      obs-domain-list =   *(CFWS / ",") "@" domain
	//                          *("," [CFWS] ["@" domain])
	if _, err := tryParseCFWS(p); err != nil {
		return "", "", err
	}

	if err := p.Consume(rfcparser.TokenTypeLess, "expected < for angle-addr start"); err != nil {
		return "", "", err
	}

	for {
		if ok, err := tryParseCFWS(p); err != nil {
			return "", "", err
		} else if !ok {
			if ok, err := p.Matches(rfcparser.TokenTypeComma); err != nil {
				return "", "", err
			} else if !ok {
				break
			}
		}
	}

	if ok, err := p.Matches(rfcparser.TokenTypeAt); err != nil {
		return "", "", err
	} else if ok {
		if _, err := parseDomain(p); err != nil {
			return "", "", err
		}

		for {
			if ok, err := p.Matches(rfcparser.TokenTypeComma); err != nil {
				return "", "", err
			} else if !ok {
				break
			}

			if _, err := tryParseCFWS(p); err != nil {
				return "", "", err
			}

			if ok, err := p.Matches(rfcparser.TokenTypeAt); err != nil {
				return "", "", err
			} else if ok {
				if _, err := parseDomain(p); err != nil {
					return "", "", err
				}
			}
		}

		if err := p.Consume(rfcparser.TokenTypeColon, "expected ':' for obs-route end"); err != nil {
			return "", "", err
		}
	}

	local, domain, err := parseAddrSpec(p)
	if err != nil {
		return "", "", err
	}

	if err := p.Consume(rfcparser.TokenTypeGreater, "expected > for angle-addr end"); err != nil {
		return "", "", err
	}

	if _, err := tryParseCFWS(p); err != nil {
		return "", "", err
	}

	return local, domain, nil
}

func parseDisplayName(p *rfcparser.Parser) (string, error) {
	// display-name    =   phrase
	phrase, err := parsePhrase(p)
	if err != nil {
		return "", err
	}

	return joinWithSpacingRules(phrase), nil
}

func parseAddrSpec(p *rfcparser.Parser) (string, string, error) {
	//     addr-spec       =   local-part "@" domain
	localPart, err := parseLocalPart(p)
	if err != nil {
		return "", "", err
	}

	if err := p.Consume(rfcparser.TokenTypeAt, "expected @ after local-part"); err != nil {
		return "", "", err
	}

	domain, err := parseDomain(p)
	if err != nil {
		return "", "", err
	}

	return localPart, domain, nil
}

func parseLocalPart(p *rfcparser.Parser) (string, error) {
	// nolint:dupword
	//     local-part      =   dot-atom / quoted-string / obs-local-part
	// 	   obs-local-part  =   word *("." word)
	//     word            =   atom / quoted-string
	var words []parserString

	{
		word, err := parseWord(p)
		if err != nil {
			return "", err
		}

		words = append(words, word)
	}

	for {
		if ok, err := p.Matches(rfcparser.TokenTypePeriod); err != nil {
			return "", err
		} else if !ok {
			break
		}

		words = append(words, parserString{
			String: rfcparser.String{
				Value:  ".",
				Offset: p.PreviousToken().Offset,
			},
			Type: parserStringTypeUnspaced,
		})

		word, err := parseWord(p)
		if err != nil {
			return "", err
		}

		words = append(words, word)
	}

	return joinWithSpacingRules(words), nil
}

func parseDomain(p *rfcparser.Parser) (string, error) {
	//     domain          =   dot-atom / domain-literal / obs-domain
	//
	//     obs-domain      =   atom *("." atom)
	if _, err := tryParseCFWS(p); err != nil {
		return "", err
	}

	if ok, err := p.Matches(rfcparser.TokenTypeLBracket); err != nil {
		return "", err
	} else if ok {
		return parseDomainLiteral(p)
	}

	// obs-domain is a more restrictive dot-atom so the dot-atom rule covers it.
	dotAtom, err := parseDotAtom(p)
	if err != nil {
		return "", err
	}

	return dotAtom.Value, nil
}

func parseDomainLiteral(p *rfcparser.Parser) (string, error) {
	//     domain-literal  =   [CFWS] "[" *([FWS] dtext) [FWS] "]" [CFWS]
	//
	// [CFWS] and "[" consumed before entry.
	result := []byte{'['}

	for {
		if _, err := tryParseFWS(p); err != nil {
			return "", err
		}

		if ok, err := p.MatchesWith(isDText); err != nil {
			return "", err
		} else if !ok {
			break
		}

		result = append(result, p.PreviousToken().Value)
	}

	if _, err := tryParseFWS(p); err != nil {
		return "", err
	}

	if err := p.Consume(rfcparser.TokenTypeRBracket, "expected ] for domain-literal end"); err != nil {
		return "", err
	}

	result = append(result, ']')

	if _, err := tryParseCFWS(p); err != nil {
		return "", err
	}

	return string(result), nil
}

func isDText(tokenType rfcparser.TokenType) bool {
	//     dtext           =   %d33-90 /          ; Printable US-ASCII
	//                         %d94-126           ;  characters not including
	//                                            ;  "[", "]", or "\"
	if rfcparser.IsCTL(tokenType) ||
		tokenType == rfcparser.TokenTypeEOF ||
		tokenType == rfcparser.TokenTypeError ||
		tokenType == rfcparser.TokenTypeSP ||
		tokenType == rfcparser.TokenTypeDelete ||
		tokenType == rfcparser.TokenTypeLBracket ||
		tokenType == rfcparser.TokenTypeRBracket ||
		tokenType == rfcparser.TokenTypeBackslash {
		return false
	}

	return true
}

func joinWithSpacingRules(v []parserString) string {
	result := v[0].String.Value

	prevStrType := v[0].Type

	for i := 1; i < len(v); i++ {
		curStrType := v[i].Type

		if prevStrType == parserStringTypeEncoded {
			if curStrType == parserStringTypeOther {
				result += " "
			}
		} else if prevStrType != parserStringTypeUnspaced {
			if curStrType != parserStringTypeUnspaced {
				result += " "
			}
		}

		prevStrType = curStrType

		result += v[i].String.Value
	}

	return result
}
