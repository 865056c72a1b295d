// Package regex is a small backtracking regular-expression engine with
// capturing groups and backreferences.
//
// Supported syntax: literals, '.', '^', '$', character classes with ranges
// and negation, \d, \w, greedy '?' '+' '*', '(...)' capturing groups,
// alternation and \1-\9 backreferences. Anchors bind to the whole input, not
// per line.
//
// The search is plain backtracking with no memoization, so pathological
// patterns (nested quantifiers, backreferences) can take exponential time.
package regex

import (
	"fmt"
	"strings"
	"unicode"
)

// Regex is a compiled pattern. It is immutable and safe for concurrent use.
type Regex struct {
	root          astNode
	groupCount    int
	startAnchored bool
}

// Compile parses the pattern into a Regex or returns a ParseError (wrapped)
// describing the offending position.
func Compile(pattern string) (*Regex, error) {
	p := &parser{pattern: []rune(pattern)}
	root, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("failed to construct regex from %q: %w", pattern, err)
	}
	return &Regex{
		root:          root,
		groupCount:    p.groupCount,
		startAnchored: startAnchored(root),
	}, nil
}

// MustCompile is Compile for patterns known to be valid; it panics otherwise.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// startAnchored reports whether every match must begin at position 0, which
// lets the search skip all later start positions.
func startAnchored(root astNode) bool {
	if _, ok := root.(*anchorStart); ok {
		return true
	}
	if seq, ok := root.(*sequence); ok && len(seq.Children) > 0 {
		_, ok := seq.Children[0].(*anchorStart)
		return ok
	}
	return false
}

// GroupCount returns the number of capturing groups in the pattern.
func (re *Regex) GroupCount() int {
	return re.groupCount
}

// Search returns the leftmost match of the pattern in s, or nil if there is
// none. Among matches at the leftmost admissible start position, the
// depth-first greedy-first left-alternative-first candidate wins, so the
// result is deterministic for a given pattern and subject.
func (re *Regex) Search(s string) *Match {
	return re.search([]rune(s), 0)
}

// Match reports whether the pattern matches anywhere in s.
func (re *Regex) Match(s string) bool {
	return re.Search(s) != nil
}

// FindAllMatches finds up to maxCount non-overlapping matches, leftmost
// first. To return all matches pass a maxCount of -1.
func (re *Regex) FindAllMatches(s string, maxCount int) []*Match {
	input := []rune(s)
	var all []*Match
	from := 0
	for from <= len(input) {
		if maxCount != -1 && len(all) >= maxCount {
			return all
		}
		m := re.search(input, from)
		if m == nil {
			break
		}
		all = append(all, m)
		if m.End == m.Start {
			// empty match, step past it to guarantee progress
			from = m.End + 1
		} else {
			from = m.End
		}
	}
	return all
}

// Replace returns s with its first match replaced by the expansion of with,
// where $n expands to the text of group n ($0 is the whole match). If the
// pattern does not match, s is returned unchanged.
func (re *Regex) Replace(s string, with string) string {
	m := re.Search(s)
	if m == nil {
		return s
	}

	out := strings.Builder{}
	for i := 0; i < len(with); i++ {
		if with[i] == '$' && i+1 < len(with) && unicode.IsDigit(rune(with[i+1])) {
			num := 0
			for j := i + 1; j < len(with) && unicode.IsDigit(rune(with[j])); j++ {
				num *= 10
				num += int(with[j] - '0')
				i++
			}

			if text, ok := m.Group(num); ok {
				out.WriteString(text)
			}
		} else {
			out.WriteByte(with[i])
		}
	}

	input := []rune(s)
	return string(input[:m.Start]) + out.String() + string(input[m.End:])
}

// search tries start positions from..len(input) in increasing order and
// commits to the first one that admits any full match.
func (re *Regex) search(input []rune, from int) *Match {
	m := &matcher{input: input}
	for start := from; start <= len(input); start++ {
		if re.startAnchored && start > 0 {
			return nil
		}
		var result *Match
		re.root.match(m, start, newCaptures(re.groupCount), func(end int, caps Captures) bool {
			result = &Match{
				Start:  start,
				End:    end,
				Groups: caps,
				input:  input,
			}
			return true
		})
		if result != nil {
			return result
		}
	}
	return nil
}
