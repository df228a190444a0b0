package analyzer

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/linagraph/linagraph/rdf"
	"github.com/linagraph/linagraph/scenario"
)

// MarkdownLinkingID is the built-in scenario id for markdown-linking.
const MarkdownLinkingID = "markdown-linking"

var (
	headingPattern   = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+?)\s*$`)
	imageLinkPattern = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)[^)]*\)`)
	linkPattern      = regexp.MustCompile(`\[[^\]]*\]\(([^)\s]+)[^)]*\)`)
	wikiLinkPattern  = regexp.MustCompile(`\[\[([^\]|]+)(?:\|[^\]]*)?\]\]`)
	codeSpanPattern  = regexp.MustCompile("`([A-Za-z_][A-Za-z0-9_.]*)`")
	includePattern   = regexp.MustCompile(`<!--\s*include:\s*([^\s]+)\s*-->`)
)

// markdownLinking extracts headings, links, and cross-references from
// a markdown file's raw source, since markdown has no tree-sitter
// grammar wired into the default AST provider. It works off
// AnalysisContext.Source directly, matching how the non-parsed
// language case is documented to be handled.
type markdownLinking struct{ opts *options }

// NewMarkdownLinking returns the markdown-linking analyzer.
func NewMarkdownLinking(opts ...Option) scenario.Analyzer {
	return &markdownLinking{opts: newOptions(opts...)}
}

func (a *markdownLinking) Analyze(ctx scenario.AnalysisContext) (scenario.AnalysisResult, error) {
	project := ctx.ProjectName
	filePath := path.Clean(strings.TrimPrefix(ctx.FilePath, "/"))
	fileAddr, err := rdf.Build(project, filePath, "", "")
	if err != nil {
		return scenario.AnalysisResult{}, err
	}
	text := string(ctx.Source)

	var result scenario.AnalysisResult

	headingCounts := map[string]int{}
	for _, m := range headingPattern.FindAllStringSubmatch(text, -1) {
		level := len(m[1])
		title := m[2]
		slug := slugify(title)
		if headingCounts[slug] > 0 {
			slug = fmt.Sprintf("%s-%d", slug, headingCounts[slug])
		}
		headingCounts[slug]++
		headingAddr, err := rdf.Build(project, filePath, rdf.Heading, slug)
		if err != nil {
			continue
		}
		result.Nodes = append(result.Nodes, scenario.NodeDraft{
			Address: headingAddr, NodeType: rdf.Heading, Name: title,
			SemanticTags: []string{fmt.Sprintf("heading-level-%d", level)},
		})
	}

	for _, m := range imageLinkPattern.FindAllStringSubmatch(text, -1) {
		target := m[1]
		targetAddr, err := rdf.Build(project, resolveRelativeImport(filePath, ensureRelative(target)), "", "")
		if err != nil {
			continue
		}
		result.Edges = append(result.Edges, scenario.EdgeDraft{
			From: fileAddr, To: targetAddr, EdgeType: "md-embeds-image",
		})
	}

	for _, idx := range linkPattern.FindAllStringSubmatchIndex(text, -1) {
		start, targetStart, targetEnd := idx[0], idx[2], idx[3]
		target := text[targetStart:targetEnd]
		if start > 0 && text[start-1] == '!' {
			continue // already counted as an image embed
		}
		if strings.HasPrefix(target, "#") {
			headingAddr, err := rdf.Build(project, filePath, rdf.Heading, slugify(strings.TrimPrefix(target, "#")))
			if err != nil {
				continue
			}
			result.Edges = append(result.Edges, scenario.EdgeDraft{
				From: fileAddr, To: headingAddr, EdgeType: "md-links-anchor",
			})
			continue
		}
		if strings.Contains(target, "://") {
			continue // external link, not addressable within this project
		}
		targetFile := resolveRelativeImport(filePath, ensureRelative(target))
		targetFile = strings.TrimSuffix(targetFile, ".ts")
		targetAddr, err := rdf.Build(project, targetFile, "", "")
		if err != nil {
			continue
		}
		result.Edges = append(result.Edges, scenario.EdgeDraft{
			From: fileAddr, To: targetAddr, EdgeType: "md-links-to",
		})
	}

	for _, m := range wikiLinkPattern.FindAllStringSubmatch(text, -1) {
		page := strings.ReplaceAll(strings.TrimSpace(m[1]), " ", "-")
		targetAddr, err := rdf.Build(project, resolveRelativeImport(filePath, ensureRelative(page)), "", "")
		if err != nil {
			continue
		}
		result.Edges = append(result.Edges, scenario.EdgeDraft{
			From: fileAddr, To: targetAddr, EdgeType: "md-wiki-links",
		})
	}

	for _, m := range includePattern.FindAllStringSubmatch(text, -1) {
		targetAddr, err := rdf.Build(project, resolveRelativeImport(filePath, ensureRelative(m[1])), "", "")
		if err != nil {
			continue
		}
		result.Edges = append(result.Edges, scenario.EdgeDraft{
			From: fileAddr, To: targetAddr, EdgeType: "md-includes",
		})
	}

	for _, m := range codeSpanPattern.FindAllStringSubmatch(text, -1) {
		symbolAddr, err := rdf.Build(project, filePath, rdf.Unknown, m[1])
		if err != nil {
			continue
		}
		result.Edges = append(result.Edges, scenario.EdgeDraft{
			From: fileAddr, To: symbolAddr, EdgeType: "md-references-symbol",
		})
	}

	return result, nil
}

func ensureRelative(target string) string {
	if strings.HasPrefix(target, "./") || strings.HasPrefix(target, "../") {
		return target
	}
	return "./" + target
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = strconv.Itoa(len(s))
	}
	return out
}
