package regex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSearchSpan(t *testing.T) {
	unset := Span{Start: -1, End: -1}

	tests := map[string]struct {
		givenRe    string
		givenInput string
		wantMatch  bool
		wantSpan   Span
		wantGroups Captures
	}{
		"leftmost match wins": {
			givenRe:    "a",
			givenInput: "bba",
			wantMatch:  true,
			wantSpan:   Span{Start: 2, End: 3},
		},
		"empty pattern matches at start": {
			givenRe:    "",
			givenInput: "abc",
			wantMatch:  true,
			wantSpan:   Span{Start: 0, End: 0},
		},
		"greedy plus takes the longest run": {
			givenRe:    "a+",
			givenInput: "aaab",
			wantMatch:  true,
			wantSpan:   Span{Start: 0, End: 3},
		},
		"greedy star backtracks for the suffix": {
			givenRe:    "a.*b",
			givenInput: "axbxb",
			wantMatch:  true,
			wantSpan:   Span{Start: 0, End: 5},
		},
		"alternation prefers the left branch": {
			givenRe:    "cat|cats",
			givenInput: "cats",
			wantMatch:  true,
			wantSpan:   Span{Start: 0, End: 3},
		},
		"anchored both ends": {
			givenRe:    "^abc$",
			givenInput: "abc",
			wantMatch:  true,
			wantSpan:   Span{Start: 0, End: 3},
		},
		"start anchor rejects offset match": {
			givenRe:    "^abc$",
			givenInput: "xabc",
			wantMatch:  false,
		},
		"end anchor rejects trailing text": {
			givenRe:    "^abc$",
			givenInput: "abcx",
			wantMatch:  false,
		},
		"negated class matches outsider": {
			givenRe:    "[^abc]",
			givenInput: "d",
			wantMatch:  true,
			wantSpan:   Span{Start: 0, End: 1},
		},
		"negated class rejects member": {
			givenRe:    "[^abc]",
			givenInput: "a",
			wantMatch:  false,
		},
		"class range": {
			givenRe:    "[a-c]+",
			givenInput: "zabcz",
			wantMatch:  true,
			wantSpan:   Span{Start: 1, End: 4},
		},
		"digit escape": {
			givenRe:    `\d\d`,
			givenInput: "ab12cd",
			wantMatch:  true,
			wantSpan:   Span{Start: 2, End: 4},
		},
		"word escape": {
			givenRe:    `\w+`,
			givenInput: "!a_9!",
			wantMatch:  true,
			wantSpan:   Span{Start: 1, End: 4},
		},
		"group captures its span": {
			givenRe:    "a(b+)c",
			givenInput: "abbbc",
			wantMatch:  true,
			wantSpan:   Span{Start: 0, End: 5},
			wantGroups: Captures{{Start: 1, End: 4}},
		},
		"group on untaken branch stays unset": {
			givenRe:    "(a)|b",
			givenInput: "b",
			wantMatch:  true,
			wantSpan:   Span{Start: 0, End: 1},
			wantGroups: Captures{unset},
		},
		"last iteration of a quantified group wins": {
			givenRe:    "(a|b)+",
			givenInput: "ab",
			wantMatch:  true,
			wantSpan:   Span{Start: 0, End: 2},
			wantGroups: Captures{{Start: 1, End: 2}},
		},
		"zero width star body terminates": {
			givenRe:    "(a*)*b",
			givenInput: "b",
			wantMatch:  true,
			wantSpan:   Span{Start: 0, End: 1},
			wantGroups: Captures{unset},
		},
		"optional group skipped leaves group unset": {
			givenRe:    "x(y)?z",
			givenInput: "xz",
			wantMatch:  true,
			wantSpan:   Span{Start: 0, End: 2},
			wantGroups: Captures{unset},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			re, err := Compile(tt.givenRe)
			if err != nil {
				t.Fatalf("failed to compile %q: %v", tt.givenRe, err)
			}

			// when
			got := re.Search(tt.givenInput)

			// then
			if !tt.wantMatch {
				if got != nil {
					t.Fatalf("expected no match, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a match, got none")
			}
			if d := cmp.Diff(tt.wantSpan, Span{Start: got.Start, End: got.End}); d != "" {
				t.Errorf("span diff (-want +got):\n%s", d)
			}
			if tt.wantGroups != nil {
				if d := cmp.Diff(tt.wantGroups, got.Groups); d != "" {
					t.Errorf("groups diff (-want +got):\n%s", d)
				}
			}
		})
	}
}

func TestSearchBackreferences(t *testing.T) {
	tests := map[string]struct {
		givenRe    string
		givenInput string
		wantMatch  bool
		wantText   string
	}{
		"happy backreference": {
			givenRe:    `(foo) bar \1`,
			givenInput: "foo bar foo",
			wantMatch:  true,
			wantText:   "foo bar foo",
		},
		"backreference text differs": {
			givenRe:    `(foo) bar \1`,
			givenInput: "foo bar baz",
			wantMatch:  false,
		},
		"backreference to unset group fails": {
			givenRe:    `(a)|\1`,
			givenInput: "x",
			wantMatch:  false,
		},
		"abandoned branch does not leak captures": {
			givenRe:    `((a)x|\2a)`,
			givenInput: "aa",
			wantMatch:  false,
		},
		"backreference matches whatever the group took": {
			givenRe:    `(\w+) and \1`,
			givenInput: "time and time again",
			wantMatch:  true,
			wantText:   "time and time",
		},
		"backreference inside a later iteration of its group": {
			givenRe:    `^(a|\1b)+$`,
			givenInput: "aab",
			wantMatch:  true,
			wantText:   "aab",
		},
		"group reassigned between iterations": {
			givenRe:    `(\d)+x\1`,
			givenInput: "123x3",
			wantMatch:  true,
			wantText:   "123x3",
		},
		"anchored pair": {
			givenRe:    `^(ab|cd)-\1$`,
			givenInput: "cd-cd",
			wantMatch:  true,
			wantText:   "cd-cd",
		},
		"anchored pair mismatch": {
			givenRe:    `^(ab|cd)-\1$`,
			givenInput: "ab-cd",
			wantMatch:  false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			re := MustCompile(tt.givenRe)

			// when
			got := re.Search(tt.givenInput)

			// then
			if !tt.wantMatch {
				if got != nil {
					t.Fatalf("expected no match, got %q", got.Text())
				}
				return
			}
			if got == nil {
				t.Fatal("expected a match, got none")
			}
			if d := cmp.Diff(tt.wantText, got.Text()); d != "" {
				t.Errorf("text diff (-want +got):\n%s", d)
			}
		})
	}
}

// searches must be repeatable: same pattern and input, same result
func TestSearchDeterministic(t *testing.T) {
	re := MustCompile(`(a+)(b|bb)\2`)
	input := "xaabbbby"

	first := re.Search(input)
	if first == nil {
		t.Fatal("expected a match, got none")
	}
	for i := 0; i < 10; i++ {
		again := re.Search(input)
		if again == nil {
			t.Fatal("expected a match, got none")
		}
		if d := cmp.Diff(Span{Start: first.Start, End: first.End}, Span{Start: again.Start, End: again.End}); d != "" {
			t.Errorf("span diff (-want +got):\n%s", d)
		}
		if d := cmp.Diff(first.Groups, again.Groups); d != "" {
			t.Errorf("groups diff (-want +got):\n%s", d)
		}
	}
}
