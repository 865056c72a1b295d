package regex

import (
	"slices"
)

// matcher holds the subject text for one search invocation. All search state
// lives on the stack (positions) and in forked Captures values, so a compiled
// pattern can run many searches concurrently.
type matcher struct {
	input []rune
}

func (n *literal) match(m *matcher, pos int, caps Captures, cont contFn) bool {
	if pos >= len(m.input) || m.input[pos] != n.Char {
		return false
	}
	return cont(pos+1, caps)
}

func (n *dot) match(m *matcher, pos int, caps Captures, cont contFn) bool {
	if pos >= len(m.input) {
		return false
	}
	return cont(pos+1, caps)
}

func (n *anchorStart) match(m *matcher, pos int, caps Captures, cont contFn) bool {
	if pos != 0 {
		return false
	}
	return cont(pos, caps)
}

func (n *anchorEnd) match(m *matcher, pos int, caps Captures, cont contFn) bool {
	if pos != len(m.input) {
		return false
	}
	return cont(pos, caps)
}

func (n *escape) match(m *matcher, pos int, caps Captures, cont contFn) bool {
	if pos >= len(m.input) {
		return false
	}
	ch := m.input[pos]
	var ok bool
	switch n.Kind {
	case escapeDigit:
		ok = ch >= '0' && ch <= '9'
	case escapeWord:
		ok = ch >= 'A' && ch <= 'Z' || ch >= 'a' && ch <= 'z' || ch >= '0' && ch <= '9' || ch == '_'
	}
	if !ok {
		return false
	}
	return cont(pos+1, caps)
}

func (n *charClass) match(m *matcher, pos int, caps Captures, cont contFn) bool {
	if pos >= len(m.input) {
		return false
	}
	ch := m.input[pos]
	in := slices.ContainsFunc(n.Items, func(item classItem) bool { return item.contains(ch) })
	if in == n.Negate {
		return false
	}
	return cont(pos+1, caps)
}

func (n *sequence) match(m *matcher, pos int, caps Captures, cont contFn) bool {
	return m.matchSeq(n.Children, pos, caps, cont)
}

// matchSeq threads position and captures through the children in order,
// fully exploring each child's candidates before its siblings backtrack.
func (m *matcher) matchSeq(nodes []astNode, pos int, caps Captures, cont contFn) bool {
	if len(nodes) == 0 {
		return cont(pos, caps)
	}
	return nodes[0].match(m, pos, caps, func(p int, c Captures) bool {
		return m.matchSeq(nodes[1:], p, c, cont)
	})
}

func (n *alternation) match(m *matcher, pos int, caps Captures, cont contFn) bool {
	// each branch gets its own captures fork so that a group assigned on a
	// failed left branch stays unset for the branches to its right
	for _, branch := range n.Branches {
		if branch.match(m, pos, caps.fork(), cont) {
			return true
		}
	}
	return false
}

func (n *group) match(m *matcher, pos int, caps Captures, cont contFn) bool {
	return n.Body.match(m, pos, caps, func(end int, c Captures) bool {
		forked := c.fork()
		forked[n.Index-1] = Span{Start: pos, End: end}
		return cont(end, forked)
	})
}

func (n *backref) match(m *matcher, pos int, caps Captures, cont contFn) bool {
	span := caps[n.Index-1]
	if span.Start < 0 {
		// the group was never taken on this branch
		return false
	}
	length := span.End - span.Start
	if pos+length > len(m.input) {
		return false
	}
	for i := 0; i < length; i++ {
		if m.input[pos+i] != m.input[span.Start+i] {
			return false
		}
	}
	return cont(pos+length, caps)
}

func (n *repeat) match(m *matcher, pos int, caps Captures, cont contFn) bool {
	switch n.Kind {
	case zeroOrOne:
		if n.Body.match(m, pos, caps.fork(), cont) {
			return true
		}
		return cont(pos, caps)
	case oneOrMore:
		return n.Body.match(m, pos, caps.fork(), func(p int, c Captures) bool {
			return m.matchGreedy(n.Body, p, c, cont)
		})
	case zeroOrMore:
		return m.matchGreedy(n.Body, pos, caps, cont)
	default:
		return false
	}
}

// matchGreedy explores "one more repetition" before "stop here". A repetition
// that consumes nothing ends the loop so that zero-width bodies terminate.
func (m *matcher) matchGreedy(body astNode, pos int, caps Captures, cont contFn) bool {
	matched := body.match(m, pos, caps.fork(), func(p int, c Captures) bool {
		if p == pos {
			return false
		}
		return m.matchGreedy(body, p, c, cont)
	})
	if matched {
		return true
	}
	return cont(pos, caps)
}
