package regex

// astNode is matched in continuation-passing style: cont receives every end
// position (with the capture state at that point) reachable from pos, in
// depth-first order, and returns true to stop the exploration.
type astNode interface {
	match(m *matcher, pos int, caps Captures, cont contFn) bool
}

type contFn func(pos int, caps Captures) bool

// literal matches exactly one character.
type literal struct {
	Char rune
}

// dot matches any single character.
type dot struct{}

// anchorStart and anchorEnd are zero-width and only valid at the very
// start/end of the input buffer, regardless of where they sit in the pattern.
type anchorStart struct{}

type anchorEnd struct{}

type escapeKind int

const (
	escapeDigit escapeKind = iota // \d: 0-9
	escapeWord                    // \w: A-Z, a-z, 0-9, _
)

// escape matches one character of a predefined set.
type escape struct {
	Kind escapeKind
}

// classItem is a single class member; a lone character is stored as a range
// with From == To.
type classItem struct {
	From rune
	To   rune
}

func (c classItem) contains(r rune) bool {
	return r >= c.From && r <= c.To
}

// charClass matches one character against its items, XOR'd with Negate.
type charClass struct {
	Negate bool
	Items  []classItem
}

// group is a capturing group; Index is assigned left-to-right by the position
// of the opening '(' and is unique within a pattern.
type group struct {
	Index int
	Body  astNode
}

// backref matches the exact text captured by group Index earlier on the same
// branch, or fails if that group is unset.
type backref struct {
	Index int
}

// sequence is concatenation.
type sequence struct {
	Children []astNode
}

// alternation tries its branches left to right.
type alternation struct {
	Branches []astNode
}

type repeatKind int

const (
	zeroOrOne  repeatKind = iota // ?
	oneOrMore                    // +
	zeroOrMore                   // *
)

// repeat is a greedy quantifier applied to a single atom.
type repeat struct {
	Body astNode
	Kind repeatKind
}

// Span is a half-open [Start, End) interval of rune offsets into the subject.
type Span struct {
	Start int
	End   int
}

// Captures maps group index i to its span at Captures[i-1]; a negative Start
// marks the group as unset. Every branch point of the search forks its own
// copy, so assignments on an abandoned branch never leak into a sibling.
type Captures []Span

func newCaptures(n int) Captures {
	caps := make(Captures, n)
	for i := range caps {
		caps[i] = Span{Start: -1, End: -1}
	}
	return caps
}

func (c Captures) fork() Captures {
	forked := make(Captures, len(c))
	copy(forked, c)
	return forked
}

// Match is the result of a successful search: the matched span and the
// capture state of the winning branch. Offsets are rune offsets.
type Match struct {
	Start  int
	End    int
	Groups Captures

	input []rune
}

// Text returns the matched text.
func (m *Match) Text() string {
	return string(m.input[m.Start:m.End])
}

// Group returns the text captured by group i (1-based; 0 is the whole match).
// The second return is false if the group is unset or out of range.
func (m *Match) Group(i int) (string, bool) {
	if i == 0 {
		return m.Text(), true
	}
	if i < 1 || i > len(m.Groups) {
		return "", false
	}
	span := m.Groups[i-1]
	if span.Start < 0 {
		return "", false
	}
	return string(m.input[span.Start:span.End]), true
}
