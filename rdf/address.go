// Package rdf implements the global RDF-style address scheme used to
// identify nodes in the dependency graph:
//
//	<project>/<filePath>
//	<project>/<filePath>#<NodeType>:<SymbolName>
//	<libraryName>
package rdf

import (
	"fmt"
	"regexp"
	"strings"
)

// NodeType is the enumerated symbol kind carried in a symbol address
// fragment. Scenarios may declare additional node types beyond the
// standard set below.
type NodeType string

const (
	File      NodeType = "File"
	Directory NodeType = "Directory"
	Class     NodeType = "Class"
	Interface NodeType = "Interface"
	Function  NodeType = "Function"
	Method    NodeType = "Method"
	Property  NodeType = "Property"
	Variable  NodeType = "Variable"
	Type      NodeType = "Type"
	Enum      NodeType = "Enum"
	Namespace NodeType = "Namespace"
	Heading   NodeType = "Heading"
	Section   NodeType = "Section"
	Paragraph NodeType = "Paragraph"
	Unknown   NodeType = "Unknown"
)

var standardNodeTypes = map[NodeType]bool{
	File: true, Directory: true, Class: true, Interface: true,
	Function: true, Method: true, Property: true, Variable: true,
	Type: true, Enum: true, Namespace: true, Heading: true,
	Section: true, Paragraph: true, Unknown: true,
}

// IsStandardNodeType reports whether t is one of the pre-declared node
// types rather than a scenario extension.
func IsStandardNodeType(t NodeType) bool {
	return standardNodeTypes[t]
}

// segmentPattern matches project/filePath/libraryName segments: letters,
// digits, dot, underscore, hyphen, slash, and '@' (scoped npm packages).
var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9._\-/@]+$`)

// symbolNamePattern allows dot-separated nesting, e.g. Class.method.
var symbolNamePattern = regexp.MustCompile(`^[A-Za-z0-9._\-$]+$`)

// Address is the immutable external identity of a node. Build it with
// Build or Parse; there are no setters.
type Address struct {
	project    string
	filePath   string
	nodeType   NodeType
	symbolName string
	library    bool
}

// Project returns the owning project name, empty for a library address.
func (a Address) Project() string { return a.project }

// FilePath returns the project-root-relative, forward-slash path,
// empty for a library address.
func (a Address) FilePath() string { return a.filePath }

// NodeType returns the symbol's node type, empty if this address
// identifies a file/directory or library rather than a symbol.
func (a Address) NodeType() NodeType { return a.nodeType }

// SymbolName returns the dot-separated symbol name, empty if this
// address does not carry a symbol fragment.
func (a Address) SymbolName() string { return a.symbolName }

// IsLibrary reports whether this is a bare library/package address.
func (a Address) IsLibrary() bool { return a.library }

// IsSymbol reports whether this address carries a #NodeType:SymbolName
// fragment.
func (a Address) IsSymbol() bool { return a.symbolName != "" }

// String renders the canonical textual form of the address. It is the
// inverse of Parse: Parse(a.String()) reproduces an equal Address.
func (a Address) String() string {
	if a.library {
		return a.project
	}
	if a.symbolName == "" {
		return a.project + "/" + a.filePath
	}
	return fmt.Sprintf("%s/%s#%s:%s", a.project, a.filePath, a.nodeType, a.symbolName)
}

// Equal reports whether two addresses identify the same entity.
func (a Address) Equal(b Address) bool {
	return a.String() == b.String()
}

// Build constructs a validated Address from its parts. Pass an empty
// nodeType/symbolName for a plain file/directory address, or set both
// together for a symbol address. A non-empty project with an empty
// filePath builds a library address.
func Build(project, filePath string, nodeType NodeType, symbolName string) (Address, error) {
	if project == "" {
		return Address{}, &ParseError{Kind: Malformed, Input: project, Reason: "project must not be empty"}
	}
	if !segmentPattern.MatchString(project) {
		return Address{}, &ParseError{Kind: IllegalChar, Input: project, Reason: "project contains illegal characters"}
	}

	if filePath == "" {
		// Library address: no file path, no symbol.
		if symbolName != "" {
			return Address{}, &ParseError{Kind: Malformed, Input: project, Reason: "library address cannot carry a symbol"}
		}
		return Address{project: project, library: true}, nil
	}

	normalized, err := normalizePath(filePath)
	if err != nil {
		return Address{}, err
	}
	if !segmentPattern.MatchString(normalized) {
		return Address{}, &ParseError{Kind: IllegalChar, Input: filePath, Reason: "filePath contains illegal characters"}
	}

	if symbolName == "" {
		if nodeType != "" {
			return Address{}, &ParseError{Kind: Malformed, Input: filePath, Reason: "nodeType without symbolName"}
		}
		return Address{project: project, filePath: normalized}, nil
	}

	if nodeType == "" {
		return Address{}, &ParseError{Kind: Malformed, Input: symbolName, Reason: "symbolName without nodeType"}
	}
	if !IsStandardNodeType(nodeType) && !looksLikeNodeTypeExtension(nodeType) {
		return Address{}, &ParseError{Kind: UnknownNodeType, Input: string(nodeType), Reason: "nodeType is neither standard nor a well-formed scenario extension"}
	}
	if symbolName != strings.TrimSpace(symbolName) || symbolName == "" {
		return Address{}, &ParseError{Kind: Malformed, Input: symbolName, Reason: "symbolName must not have surrounding whitespace"}
	}
	if !symbolNamePattern.MatchString(symbolName) {
		return Address{}, &ParseError{Kind: IllegalChar, Input: symbolName, Reason: "symbolName contains illegal characters"}
	}

	return Address{
		project:    project,
		filePath:   normalized,
		nodeType:   nodeType,
		symbolName: symbolName,
	}, nil
}

// nodeTypeExtensionPattern is the shape a scenario-declared node type
// must take: PascalCase, matching the standard catalogue's own naming
// convention (File, Class, ...). Address construction cannot check a
// scenario-declared type against the live registry (rdf has no
// dependency on scenario), so this is the only gate against an
// obviously malformed nodeType slipping into an address.
var nodeTypeExtensionPattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

func looksLikeNodeTypeExtension(t NodeType) bool {
	return nodeTypeExtensionPattern.MatchString(string(t))
}

// normalizePath collapses "./" segments, rejects a ".." that would
// escape the project root, and converts to forward slashes.
func normalizePath(p string) (string, error) {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "/")

	var out []string
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(out) == 0 {
				return "", &ParseError{Kind: PathEscapesRoot, Input: p, Reason: "path escapes project root"}
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}
	if len(out) == 0 {
		return "", &ParseError{Kind: Malformed, Input: p, Reason: "path is empty after normalization"}
	}
	return strings.Join(out, "/"), nil
}

// Normalize applies Build's path normalization to a raw address string
// by parsing it and re-rendering it, returning the normalized textual
// form.
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) (string, error) {
	parsed, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// Validate checks raw against the address grammar without returning
// the parsed value, classifying failures per the ParseErrorKind taxonomy.
func Validate(raw string) error {
	_, err := Parse(raw)
	return err
}

// Compare orders two addresses lexicographically over
// (project, filePath, nodeType, symbolName), with library addresses
// sorting after project-qualified addresses.
func Compare(a, b Address) int {
	if a.library != b.library {
		if a.library {
			return 1
		}
		return -1
	}
	if c := strings.Compare(a.project, b.project); c != 0 {
		return c
	}
	if c := strings.Compare(a.filePath, b.filePath); c != 0 {
		return c
	}
	if c := strings.Compare(string(a.nodeType), string(b.nodeType)); c != 0 {
		return c
	}
	return strings.Compare(a.symbolName, b.symbolName)
}
