package services

import (
	"regexp"
	"strings"
)

// PDF extractors disagree on whitespace and dash characters, so both sides of
// every substring comparison go through the same canonical form first.
var (
	// \s does not cover NBSP (U+00A0), which shows up constantly in
	// extracted PDF text.
	whitespaceRuns = regexp.MustCompile(`[\s\x{00A0}]+`)
	dashVariants   = regexp.MustCompile(`[\x{2010}\x{2011}\x{2012}\x{2013}\x{2014}\x{2015}]`)
)

// NormalizeText canonicalizes text for comparison: dash variants become "-",
// whitespace runs collapse to a single space, and the result is trimmed and
// lower-cased. Idempotent.
func NormalizeText(text string) string {
	text = dashVariants.ReplaceAllString(text, "-")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}
