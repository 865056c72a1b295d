package regex

import (
	"fmt"
)

// ParseError reports a malformed pattern together with the rune offset of the
// offending construct.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Pos, e.Msg)
}

func newParseError(pos int, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// parser is a recursive-descent parser over the grammar
//
//	alt    := seq ('|' seq)*
//	seq    := repeat*
//	repeat := atom ('?' | '+' | '*')?
//	atom   := '(' alt ')' | '[' '^'? class ']' | '\' esc | '.' | '^' | '$' | literal
//
// groupCount is incremented when an opening '(' is consumed, so nested groups
// are numbered in the order a reader encounters them.
type parser struct {
	pattern    []rune
	pos        int
	groupCount int
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.pattern) {
		return 0, false
	}
	return p.pattern[p.pos], true
}

func (p *parser) advance() (rune, bool) {
	ch, ok := p.peek()
	if ok {
		p.pos++
	}
	return ch, ok
}

func (p *parser) expect(want rune) bool {
	if ch, ok := p.peek(); ok && ch == want {
		p.pos++
		return true
	}
	return false
}

func (p *parser) parse() (astNode, error) {
	root, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	// parseSeq stops at ')' and parseAlt consumes every '|', so any leftover
	// input is an unmatched closing paren.
	if p.pos < len(p.pattern) {
		return nil, newParseError(p.pos, "unmatched ')'")
	}
	return root, nil
}

func (p *parser) parseAlt() (astNode, error) {
	branch, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	branches := []astNode{branch}
	for p.expect('|') {
		branch, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}
	if len(branches) == 1 {
		return branches[0], nil
	}
	return &alternation{Branches: branches}, nil
}

func (p *parser) parseSeq() (astNode, error) {
	var children []astNode
	for {
		ch, ok := p.peek()
		if !ok || ch == ')' || ch == '|' {
			break
		}
		child, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return &sequence{Children: children}, nil
}

func (p *parser) parseRepeat() (astNode, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	var kind repeatKind
	quantified := false
	switch ch, _ := p.peek(); ch {
	case '?':
		kind, quantified = zeroOrOne, true
	case '+':
		kind, quantified = oneOrMore, true
	case '*':
		kind, quantified = zeroOrMore, true
	}
	if !quantified {
		return atom, nil
	}
	p.advance()

	// quantifiers bind to a single atom, so a second one has no operand
	if ch, ok := p.peek(); ok && (ch == '?' || ch == '+' || ch == '*') {
		return nil, newParseError(p.pos, "stacked quantifier %q", ch)
	}
	return &repeat{Body: atom, Kind: kind}, nil
}

func (p *parser) parseAtom() (astNode, error) {
	ch, ok := p.peek()
	if !ok {
		return nil, newParseError(p.pos, "unexpected end of pattern")
	}

	switch ch {
	case '(':
		openPos := p.pos
		p.advance()
		p.groupCount++
		index := p.groupCount
		body, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if !p.expect(')') {
			return nil, newParseError(openPos, "unmatched '('")
		}
		return &group{Index: index, Body: body}, nil
	case '[':
		return p.parseClass()
	case '\\':
		return p.parseEscape()
	case '.':
		p.advance()
		return &dot{}, nil
	case '^':
		p.advance()
		return &anchorStart{}, nil
	case '$':
		p.advance()
		return &anchorEnd{}, nil
	case '?', '+', '*':
		return nil, newParseError(p.pos, "quantifier %q has nothing to repeat", ch)
	default:
		p.advance()
		return &literal{Char: ch}, nil
	}
}

func (p *parser) parseEscape() (astNode, error) {
	escPos := p.pos
	p.advance() // consume '\'
	ch, ok := p.advance()
	if !ok {
		return nil, newParseError(escPos, "dangling escape")
	}

	switch {
	case ch == 'd':
		return &escape{Kind: escapeDigit}, nil
	case ch == 'w':
		return &escape{Kind: escapeWord}, nil
	case ch >= '1' && ch <= '9':
		index := int(ch - '0')
		// groups are counted as the pattern is scanned, so this also rejects
		// forward references
		if index > p.groupCount {
			return nil, newParseError(escPos, "backreference to undefined group %d", index)
		}
		return &backref{Index: index}, nil
	default:
		return nil, newParseError(escPos, "unknown escape %q", ch)
	}
}

func (p *parser) parseClass() (astNode, error) {
	openPos := p.pos
	p.advance() // consume '['

	negate := p.expect('^')

	var items []classItem
	for {
		ch, ok := p.peek()
		if !ok {
			return nil, newParseError(openPos, "unmatched '['")
		}
		if ch == ']' {
			p.advance()
			break
		}
		if ch == '-' {
			return nil, newParseError(p.pos, "'-' is not part of a range")
		}

		lo, _ := p.advance()
		if next, ok := p.peek(); !ok || next != '-' {
			items = append(items, classItem{From: lo, To: lo})
			continue
		}
		dashPos := p.pos
		p.advance() // consume '-'
		hi, ok := p.peek()
		if !ok || hi == ']' {
			return nil, newParseError(dashPos, "'-' is not part of a range")
		}
		p.advance()
		if hi < lo {
			return nil, newParseError(dashPos, "invalid range %q-%q", lo, hi)
		}
		items = append(items, classItem{From: lo, To: hi})
	}

	if len(items) == 0 {
		return nil, newParseError(openPos, "empty character class")
	}
	return &charClass{Negate: negate, Items: items}, nil
}
