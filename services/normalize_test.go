package services

import "testing"

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace runs", "a  b\t\nc", "a b c"},
		{"collapses nbsp", "a\u00a0\u00a0b", "a b"},
		{"collapses dash variants", "price–resistance and co‐operation", "price-resistance and co-operation"},
		{"em dash", "before — after", "before - after"},
		{"lower cases", "The Sandwich METHOD", "the sandwich method"},
		{"trims", "  padded  ", "padded"},
		{"empty", "", ""},
		{"whitespace only", " \t \n ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeText(tc.in); got != tc.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"  Mixed   Whitespace\t— And DASHES ‑ here  ",
		"Sandwichmethode   reduziert    Preiswiderstand",
		"‐‑‒–—―",
	}

	for _, in := range inputs {
		once := NormalizeText(in)
		twice := NormalizeText(once)
		if once != twice {
			t.Errorf("NormalizeText not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
