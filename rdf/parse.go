package rdf

import "strings"

// Parse parses a raw address string per the grammar in the package
// doc comment. Parse is deterministic: Parse(Build(Parse(x))) equals
// Parse(x) for any well-formed x.
func Parse(raw string) (Address, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Address{}, &ParseError{Kind: Malformed, Input: raw, Reason: "address must not be empty"}
	}

	slash := strings.Index(raw, "/")
	if slash < 0 {
		// No path separator: a bare library/package address.
		if !segmentPattern.MatchString(raw) {
			return Address{}, &ParseError{Kind: IllegalChar, Input: raw, Reason: "illegal characters in library address"}
		}
		return Address{project: raw, library: true}, nil
	}

	project := raw[:slash]
	rest := raw[slash+1:]

	hash := strings.Index(rest, "#")
	if hash < 0 {
		return Build(project, rest, "", "")
	}

	filePath := rest[:hash]
	fragment := rest[hash+1:]

	colon := strings.Index(fragment, ":")
	if colon < 0 {
		return Address{}, &ParseError{Kind: Malformed, Input: raw, Reason: "symbol fragment missing ':' separator"}
	}
	nodeType := fragment[:colon]
	symbolName := fragment[colon+1:]
	if nodeType == "" {
		return Address{}, &ParseError{Kind: Malformed, Input: raw, Reason: "empty NodeType in fragment"}
	}

	return Build(project, filePath, NodeType(nodeType), symbolName)
}
