package analyzer

import (
	"path"
	"strings"

	"github.com/linagraph/linagraph/rdf"
	"github.com/linagraph/linagraph/scenario"
	"github.com/linagraph/linagraph/store/memstore"
)

// BasicStructureID is the built-in scenario id for basic-structure.
const BasicStructureID = "basic-structure"

// basicStructure emits a file node, one directory node per path
// segment between the project root and the file, and a "contains"
// edge chaining top-level directory -> ... -> directory -> file. No
// node is emitted for the project root itself.
type basicStructure struct{ opts *options }

// NewBasicStructure returns the basic-structure analyzer: emits file
// and directory nodes plus containment edges, tagging by path pattern.
func NewBasicStructure(opts ...Option) scenario.Analyzer {
	return &basicStructure{opts: newOptions(opts...)}
}

func (a *basicStructure) Analyze(ctx scenario.AnalysisContext) (scenario.AnalysisResult, error) {
	project := ctx.ProjectName
	filePath := path.Clean(strings.TrimPrefix(ctx.FilePath, "/"))

	fileAddr, err := rdf.Build(project, filePath, "", "")
	if err != nil {
		return scenario.AnalysisResult{}, err
	}

	tags := a.opts.pathMatcher(filePath)

	hash, err := memstore.ContentHash(ctx.Source)
	if err != nil {
		return scenario.AnalysisResult{}, err
	}

	result := scenario.AnalysisResult{
		Nodes: []scenario.NodeDraft{{
			Address:      fileAddr,
			NodeType:     rdf.File,
			Name:         path.Base(filePath),
			Language:     ctx.Language,
			SemanticTags: tags,
			Properties:   map[string]any{"sourceFile": filePath, "contentHash": hash},
		}},
	}

	segments := strings.Split(filePath, "/")
	var childAddr rdf.Address = fileAddr
	dirPath := ""
	for i := 0; i < len(segments)-1; i++ {
		if dirPath == "" {
			dirPath = segments[i]
		} else {
			dirPath = dirPath + "/" + segments[i]
		}
		dirAddr, err := rdf.Build(project, dirPath, "", "")
		if err != nil {
			return scenario.AnalysisResult{}, err
		}
		result.Nodes = append(result.Nodes, scenario.NodeDraft{
			Address:  dirAddr,
			NodeType: rdf.Directory,
			Name:     segments[i],
		})
		result.Edges = append(result.Edges, scenario.EdgeDraft{
			From: dirAddr, To: childAddr, EdgeType: "contains",
		})
		childAddr = dirAddr
	}

	result.SemanticTags = tags
	return result, nil
}
