// Package markdown strips Markdown formatting from text that is about to be
// spoken, keeping only the words a listener should hear.
package markdown

import "regexp"

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules run in order: block constructs first, then inline emphasis, then
// links and leftover structure. Code blocks are dropped entirely since
// reading them aloud is noise.
var rules = []rule{
	{regexp.MustCompile("```[\\s\\S]*?```"), ""},
	{regexp.MustCompile(`(?m)^\s{0,2}\[.+?\]:\s*\S+.*$`), ""},
	{regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`), "$1"},
	{regexp.MustCompile(`(?m)^(.+)\n[=\-]{3,}\s*$`), "$1"},
	{regexp.MustCompile(`\*\*([^\n*]+)\*\*`), "$1"},
	{regexp.MustCompile(`__([^\n_]+)__`), "$1"},
	{regexp.MustCompile(`~~([^\n~]+)~~`), "$1"},
	{regexp.MustCompile(`\*([^\n*]+)\*`), "$1"},
	{regexp.MustCompile(`_([^\n_]+)_`), "$1"},
	{regexp.MustCompile("`([^`\n]+)`"), "$1"},
	{regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`), "$1"},
	{regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`), "$1"},
	{regexp.MustCompile(`<[^>\n]+>`), ""},
	{regexp.MustCompile(`(?m)^\s*>\s*`), ""},
	{regexp.MustCompile(`(?m)^\s*([*\-+]|\d+\.)\s+`), ""},
	{regexp.MustCompile(`(?m)^\s*[-*_]{3,}\s*$`), ""},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
}

// Filter returns text with Markdown syntax removed. Plain text passes
// through unchanged.
func Filter(text string) string {
	result := text
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}
