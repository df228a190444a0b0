package runner

import (
	"regexp"
	"strings"
)

// matchesAny reports whether rel matches any of patterns, each in the
// "**"-aware glob syntax namespace file patterns use (§6).
func matchesAny(rel string, patterns []string) bool {
	for _, p := range patterns {
		if globMatch(p, rel) {
			return true
		}
	}
	return false
}

var globCache = map[string]*regexp.Regexp{}

func globMatch(pattern, name string) bool {
	re, ok := globCache[pattern]
	if !ok {
		re = regexp.MustCompile(globToRegexp(pattern))
		globCache[pattern] = re
	}
	return re.MatchString(name)
}

// globToRegexp translates a glob pattern into an anchored regexp:
// "**" matches across directory boundaries, "*" matches within one
// path segment, "?" matches a single non-separator rune.
func globToRegexp(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				b.WriteString(".*")
				i++
				if i+1 < len(runes) && runes[i+1] == '/' {
					i++
				}
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		case '.', '(', ')', '+', '|', '^', '$', '[', ']', '{', '}', '\\':
			b.WriteString("\\")
			b.WriteRune(runes[i])
		default:
			b.WriteRune(runes[i])
		}
	}
	b.WriteString("$")
	return b.String()
}
