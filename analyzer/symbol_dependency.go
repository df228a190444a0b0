package analyzer

import (
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/linagraph/linagraph/rdf"
	"github.com/linagraph/linagraph/scenario"
)

// SymbolDependencyID is the built-in scenario id for symbol-dependency.
const SymbolDependencyID = "symbol-dependency"

// symbol is a declared class/interface/function/type found in one file,
// kept around so the second walk (call sites, embeddings) can resolve
// same-file references by name without a second tree-sitter pass.
type symbol struct {
	addr     rdf.Address
	nodeType rdf.NodeType
	name     string
	node     *sitter.Node
}

// symbolDependency emits class/function/interface/type nodes and the
// calls/instantiates/type-references/extends-class edges between them,
// resolved within the bounds of one file. No implements-interface edge
// is emitted.
type symbolDependency struct{ opts *options }

// NewSymbolDependency returns the symbol-dependency analyzer.
func NewSymbolDependency(opts ...Option) scenario.Analyzer {
	return &symbolDependency{opts: newOptions(opts...)}
}

func (a *symbolDependency) Analyze(ctx scenario.AnalysisContext) (scenario.AnalysisResult, error) {
	if ctx.AST == nil {
		return scenario.AnalysisResult{}, nil
	}
	project := ctx.ProjectName
	filePath := path.Clean(strings.TrimPrefix(ctx.FilePath, "/"))
	src := ctx.Source

	symbolAddr := func(nodeType rdf.NodeType, name string) (rdf.Address, error) {
		return rdf.Build(project, filePath, nodeType, name)
	}

	symbols := declareSymbols(ctx.AST, src, symbolAddr)

	var result scenario.AnalysisResult
	byName := make(map[string]*symbol, len(symbols))
	for _, s := range symbols {
		byName[s.name] = s
		hash, err := spanHash(src, s.node)
		if err != nil {
			return scenario.AnalysisResult{}, err
		}
		result.Nodes = append(result.Nodes, scenario.NodeDraft{
			Address: s.addr, NodeType: s.nodeType, Name: s.name, Language: ctx.Language,
			Properties: map[string]any{"contentHash": hash},
		})
	}

	for _, s := range symbols {
		if s.nodeType != rdf.Class {
			continue
		}
		for _, embedded := range embeddedFieldTypes(s.node, src) {
			target, ok := byName[embedded]
			if !ok {
				continue
			}
			result.Edges = append(result.Edges, scenario.EdgeDraft{
				From: s.addr, To: target.addr, EdgeType: "extends-class",
			})
		}
	}

	for _, s := range symbols {
		if s.nodeType != rdf.Function {
			continue
		}
		body := s.node.ChildByFieldName("body")
		if body == nil {
			continue
		}
		walkCalls(body, src, func(callee string) {
			target, ok := byName[callee]
			if !ok || target == s {
				return
			}
			edgeType := "calls"
			if target.nodeType == rdf.Class {
				edgeType = "instantiates"
			}
			result.Edges = append(result.Edges, scenario.EdgeDraft{
				From: s.addr, To: target.addr, EdgeType: edgeType,
			})
		})
		for _, typeName := range referencedTypes(s.node, src) {
			target, ok := byName[typeName]
			if !ok {
				continue
			}
			result.Edges = append(result.Edges, scenario.EdgeDraft{
				From: s.addr, To: target.addr, EdgeType: "type-references",
			})
		}
	}

	return result, nil
}

// declareSymbols finds top-level type (struct/interface) and function
// declarations and builds their addresses.
func declareSymbols(root *sitter.Node, src []byte, addrOf func(rdf.NodeType, string) (rdf.Address, error)) []*symbol {
	var out []*symbol
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		switch n.Type() {
		case "type_declaration":
			for j := 0; j < int(n.NamedChildCount()); j++ {
				spec := n.NamedChild(j)
				if spec.Type() != "type_spec" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				if nameNode == nil {
					continue
				}
				name := nameNode.Content(src)
				nodeType := rdf.Type
				if typeNode := spec.ChildByFieldName("type"); typeNode != nil {
					switch typeNode.Type() {
					case "struct_type":
						nodeType = rdf.Class
					case "interface_type":
						nodeType = rdf.Interface
					}
				}
				addr, err := addrOf(nodeType, name)
				if err != nil {
					continue
				}
				out = append(out, &symbol{addr: addr, nodeType: nodeType, name: name, node: spec})
			}
		case "function_declaration":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			name := nameNode.Content(src)
			addr, err := addrOf(rdf.Function, name)
			if err != nil {
				continue
			}
			out = append(out, &symbol{addr: addr, nodeType: rdf.Function, name: name, node: n})
		}
	}
	return out
}

// embeddedFieldTypes returns the type names of a struct's embedded
// (anonymous) fields, Go's nearest analogue to class extension.
func embeddedFieldTypes(typeSpec *sitter.Node, src []byte) []string {
	structType := typeSpec.ChildByFieldName("type")
	if structType == nil || structType.Type() != "struct_type" {
		return nil
	}
	var out []string
	fieldList := structType.ChildByFieldName("body")
	if fieldList == nil {
		return nil
	}
	for i := 0; i < int(fieldList.NamedChildCount()); i++ {
		decl := fieldList.NamedChild(i)
		if decl.Type() != "field_declaration" {
			continue
		}
		if decl.ChildByFieldName("name") != nil {
			continue // named field, not embedded
		}
		if typeNode := decl.ChildByFieldName("type"); typeNode != nil {
			out = append(out, strings.TrimPrefix(typeNode.Content(src), "*"))
		}
	}
	return out
}

// walkCalls invokes fn with the callee identifier of every call_expression
// in the subtree whose function is a bare identifier (same-file calls).
func walkCalls(root *sitter.Node, src []byte, fn func(callee string)) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "call_expression" {
			if target := n.ChildByFieldName("function"); target != nil && target.Type() == "identifier" {
				fn(target.Content(src))
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)
}

// referencedTypes returns the type_identifier names appearing in a
// function's parameter list and result, its closest analogue to
// type-reference edges without full type-checking.
func referencedTypes(fn *sitter.Node, src []byte) []string {
	var out []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "type_identifier" {
			out = append(out, n.Content(src))
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	if params := fn.ChildByFieldName("parameters"); params != nil {
		walk(params)
	}
	if result := fn.ChildByFieldName("result"); result != nil {
		walk(result)
	}
	return out
}
