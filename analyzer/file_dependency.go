package analyzer

import (
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	astpkg "github.com/linagraph/linagraph/ast"
	"github.com/linagraph/linagraph/rdf"
	"github.com/linagraph/linagraph/scenario"
)

// FileDependencyID is the built-in scenario id for file-dependency.
const FileDependencyID = "file-dependency"

type importSite struct {
	// path is the raw import specifier as written in source.
	path string
	// alias is the locally-bound name, if any ("import X as Y" /
	// "import Y \"pkg/x\""). For JavaScript every bound name is
	// recorded, whether or not the import renamed its target.
	alias string
}

// fileDependency consumes AST import sites and emits library and
// alias nodes plus imports_file/imports_library/aliasOf edges. It
// extends basic-structure but does not read RunOutputs and does not
// emit file or directory nodes itself: its edges point at the same
// File addresses basic-structure emits, and the store merges the two.
type fileDependency struct{ opts *options }

// NewFileDependency returns the file-dependency analyzer.
func NewFileDependency(opts ...Option) scenario.Analyzer {
	return &fileDependency{opts: newOptions(opts...)}
}

func (a *fileDependency) Analyze(ctx scenario.AnalysisContext) (scenario.AnalysisResult, error) {
	project := ctx.ProjectName
	filePath := path.Clean(strings.TrimPrefix(ctx.FilePath, "/"))
	fileAddr, err := rdf.Build(project, filePath, "", "")
	if err != nil {
		return scenario.AnalysisResult{}, err
	}

	var sites []importSite
	switch ctx.Language {
	case string(astpkg.Go):
		sites = goImportSites(ctx.AST, ctx.Source)
	case string(astpkg.JavaScript):
		sites = jsImportSites(ctx.AST, ctx.Source)
	}

	var result scenario.AnalysisResult
	for _, site := range sites {
		if isRelativeImport(site.path) {
			targetFile := resolveRelativeImport(filePath, site.path)
			targetAddr, err := rdf.Build(project, targetFile, "", "")
			if err != nil {
				continue // unresolvable relative import: skip, not fatal
			}
			result.Edges = append(result.Edges, scenario.EdgeDraft{
				From: fileAddr, To: targetAddr, EdgeType: "imports_file",
			})
			if site.alias != "" {
				aliasAddr, err := rdf.Build(project, filePath, rdf.Unknown, site.alias)
				if err == nil {
					result.Nodes = append(result.Nodes, scenario.NodeDraft{
						Address: aliasAddr, NodeType: rdf.Unknown, Name: site.alias,
						SemanticTags: []string{"alias"},
					})
					result.Edges = append(result.Edges, scenario.EdgeDraft{
						From: aliasAddr, To: targetAddr, EdgeType: "aliasOf",
					})
				}
			}
			continue
		}

		libAddr, err := rdf.Build(site.path, "", "", "")
		if err != nil {
			continue
		}
		result.Nodes = append(result.Nodes, scenario.NodeDraft{
			Address: libAddr, NodeType: rdf.Namespace, Name: site.path,
		})
		result.Edges = append(result.Edges, scenario.EdgeDraft{
			From: fileAddr, To: libAddr, EdgeType: "imports_library",
		})
		if site.alias != "" {
			aliasAddr, err := rdf.Build(project, filePath, rdf.Unknown, site.alias)
			if err == nil {
				result.Nodes = append(result.Nodes, scenario.NodeDraft{
					Address: aliasAddr, NodeType: rdf.Unknown, Name: site.alias,
					SemanticTags: []string{"alias"},
				})
				result.Edges = append(result.Edges, scenario.EdgeDraft{
					From: aliasAddr, To: libAddr, EdgeType: "aliasOf",
				})
			}
		}
	}

	return result, nil
}

func isRelativeImport(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// resolveRelativeImport resolves a "./b" or "../x/y" specifier against
// the directory containing fromFile, matching how imports_file targets
// are expected to round-trip through rdf.Build/Parse.
func resolveRelativeImport(fromFile, spec string) string {
	dir := path.Dir(fromFile)
	joined := path.Join(dir, spec)
	if path.Ext(joined) == "" {
		joined += ".ts"
	}
	return joined
}

// goImportSites extracts import_spec nodes from a Go AST, per the
// tree-sitter grammar's import_declaration -> import_spec_list ->
// import_spec (package_identifier? interpreted_string_literal) shape.
func goImportSites(root *sitter.Node, src []byte) []importSite {
	if root == nil {
		return nil
	}
	var sites []importSite
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "import_spec" {
			var alias, importPath string
			for i := 0; i < int(n.NamedChildCount()); i++ {
				child := n.NamedChild(i)
				switch child.Type() {
				case "package_identifier", "dot", "blank_identifier":
					alias = child.Content(src)
				case "interpreted_string_literal", "raw_string_literal":
					importPath = strings.Trim(child.Content(src), "\"`")
				}
			}
			if importPath != "" {
				sites = append(sites, importSite{path: importPath, alias: alias})
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return sites
}

// jsImportSites extracts named/default/namespace import specifiers
// from a JavaScript/TypeScript AST's import_statement nodes.
func jsImportSites(root *sitter.Node, src []byte) []importSite {
	if root == nil {
		return nil
	}
	var sites []importSite
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "import_statement" {
			var spec string
			var aliases []string
			for i := 0; i < int(n.NamedChildCount()); i++ {
				child := n.NamedChild(i)
				switch child.Type() {
				case "string":
					spec = strings.Trim(child.Content(src), "\"'`")
				case "import_clause":
					aliases = append(aliases, jsClauseAliases(child, src)...)
				}
			}
			if spec != "" {
				if len(aliases) == 0 {
					sites = append(sites, importSite{path: spec})
				}
				for _, a := range aliases {
					sites = append(sites, importSite{path: spec, alias: a})
				}
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return sites
}

func jsClauseAliases(clause *sitter.Node, src []byte) []string {
	var out []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "import_specifier":
			if alias := n.ChildByFieldName("alias"); alias != nil {
				out = append(out, alias.Content(src))
				return
			}
			if name := n.ChildByFieldName("name"); name != nil {
				out = append(out, name.Content(src))
				return
			}
		case "namespace_import", "identifier":
			out = append(out, n.Content(src))
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(clause)
	return out
}
