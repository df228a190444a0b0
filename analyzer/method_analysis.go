package analyzer

import (
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/linagraph/linagraph/rdf"
	"github.com/linagraph/linagraph/scenario"
)

// MethodAnalysisID is the built-in scenario id for method-analysis.
const MethodAnalysisID = "method-analysis"

// metrics holds the normative method-level measurements.
type metrics struct {
	cyclomaticComplexity int
	nestingDepth         int
	linesOfCode          int
	numberOfStatements   int
}

// methodAnalysis emits method and field nodes with complexity/LOC/
// nesting/statement-count metrics, plus contains-method/calls-method/
// accesses-field/uses-type/overrides-method edges. It re-derives its
// own class/method declarations rather than reading symbol-dependency's
// RunOutputs, since Go methods (func (r T) Name(...)) are a distinct
// grammar production from the plain functions symbol-dependency walks.
//
// The field-aware variant is normative here: complexity attributed to
// a method literal assigned to a struct field is attributed to that
// field's enclosing method context, not discarded.
type methodAnalysis struct{ opts *options }

// NewMethodAnalysis returns the method-analysis analyzer.
func NewMethodAnalysis(opts ...Option) scenario.Analyzer {
	return &methodAnalysis{opts: newOptions(opts...)}
}

func (a *methodAnalysis) Analyze(ctx scenario.AnalysisContext) (scenario.AnalysisResult, error) {
	if ctx.AST == nil {
		return scenario.AnalysisResult{}, nil
	}
	project := ctx.ProjectName
	filePath := path.Clean(strings.TrimPrefix(ctx.FilePath, "/"))
	src := ctx.Source

	var result scenario.AnalysisResult

	classFields := map[string]map[string]rdf.Address{} // className -> fieldName -> address
	embeds := map[string][]string{}                    // className -> embedded type names
	for i := 0; i < int(ctx.AST.NamedChildCount()); i++ {
		n := ctx.AST.NamedChild(i)
		if n.Type() != "type_declaration" {
			continue
		}
		for j := 0; j < int(n.NamedChildCount()); j++ {
			spec := n.NamedChild(j)
			if spec.Type() != "type_spec" {
				continue
			}
			nameNode := spec.ChildByFieldName("name")
			typeNode := spec.ChildByFieldName("type")
			if nameNode == nil || typeNode == nil || typeNode.Type() != "struct_type" {
				continue
			}
			className := nameNode.Content(src)
			embeds[className] = embeddedFieldTypes(spec, src)
			fields := map[string]rdf.Address{}
			fieldList := typeNode.ChildByFieldName("body")
			if fieldList == nil {
				continue
			}
			for k := 0; k < int(fieldList.NamedChildCount()); k++ {
				decl := fieldList.NamedChild(k)
				if decl.Type() != "field_declaration" {
					continue
				}
				fieldNameNode := decl.ChildByFieldName("name")
				if fieldNameNode == nil {
					continue
				}
				fieldName := fieldNameNode.Content(src)
				fieldAddr, err := rdf.Build(project, filePath, rdf.Property, className+"."+fieldName)
				if err != nil {
					continue
				}
				fields[fieldName] = fieldAddr
				result.Nodes = append(result.Nodes, scenario.NodeDraft{
					Address: fieldAddr, NodeType: rdf.Property, Name: fieldName,
				})
			}
			classFields[className] = fields
		}
	}

	methodNames := map[string]map[string]rdf.Address{} // className -> methodName -> address

	var methods []*sitter.Node
	collectMethodDeclarations(ctx.AST, &methods)
	for _, m := range methods {
		receiver := m.ChildByFieldName("receiver")
		nameNode := m.ChildByFieldName("name")
		body := m.ChildByFieldName("body")
		if receiver == nil || nameNode == nil {
			continue
		}
		className := receiverTypeName(receiver, src)
		if className == "" {
			continue
		}
		methodName := nameNode.Content(src)
		symbolName := className + "." + methodName
		methodAddr, err := rdf.Build(project, filePath, rdf.Method, symbolName)
		if err != nil {
			continue
		}
		classAddr, err := rdf.Build(project, filePath, rdf.Class, className)
		if err != nil {
			continue
		}

		met := metricsOf(body, src)
		tags := autoTags(methodName, m, body, src, a.opts.complexityHighAt, met.cyclomaticComplexity, classFields[className])
		hash, err := spanHash(src, m)
		if err != nil {
			return scenario.AnalysisResult{}, err
		}

		result.Nodes = append(result.Nodes, scenario.NodeDraft{
			Address: methodAddr, NodeType: rdf.Method, Name: symbolName,
			Language:     ctx.Language,
			SemanticTags: tags,
			Properties: map[string]any{
				"cyclomaticComplexity": met.cyclomaticComplexity,
				"nestingDepth":         met.nestingDepth,
				"linesOfCode":          met.linesOfCode,
				"numberOfStatements":   met.numberOfStatements,
				"contentHash":          hash,
			},
		})
		result.Edges = append(result.Edges, scenario.EdgeDraft{
			From: classAddr, To: methodAddr, EdgeType: "contains-method",
		})

		if methodNames[className] == nil {
			methodNames[className] = map[string]rdf.Address{}
		}
		methodNames[className][methodName] = methodAddr

		if body == nil {
			continue
		}
		for _, field := range accessedFields(body, receiver, src, classFields[className]) {
			result.Edges = append(result.Edges, scenario.EdgeDraft{
				From: methodAddr, To: field, EdgeType: "accesses-field",
			})
		}
	}

	// Second pass: calls-method and overrides-method need every
	// method's address resolved first.
	for _, m := range methods {
		receiver := m.ChildByFieldName("receiver")
		nameNode := m.ChildByFieldName("name")
		body := m.ChildByFieldName("body")
		if receiver == nil || nameNode == nil || body == nil {
			continue
		}
		className := receiverTypeName(receiver, src)
		methodName := nameNode.Content(src)
		fromAddr, ok := methodNames[className][methodName]
		if !ok {
			continue
		}
		walkCalls(body, src, func(callee string) {
			if toAddr, ok := methodNames[className][callee]; ok && callee != methodName {
				result.Edges = append(result.Edges, scenario.EdgeDraft{
					From: fromAddr, To: toAddr, EdgeType: "calls-method",
				})
			}
		})
	}

	for className, parents := range embeds {
		for _, parent := range parents {
			for methodName, subAddr := range methodNames[className] {
				if superAddr, ok := methodNames[parent][methodName]; ok {
					result.Edges = append(result.Edges, scenario.EdgeDraft{
						From: subAddr, To: superAddr, EdgeType: "overrides-method",
					})
				}
			}
		}
	}

	return result, nil
}

func collectMethodDeclarations(root *sitter.Node, out *[]*sitter.Node) {
	if root.Type() == "method_declaration" {
		*out = append(*out, root)
	}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		collectMethodDeclarations(root.NamedChild(i), out)
	}
}

func receiverTypeName(receiver *sitter.Node, src []byte) string {
	for i := 0; i < int(receiver.NamedChildCount()); i++ {
		param := receiver.NamedChild(i)
		typeNode := param.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		name := strings.TrimPrefix(typeNode.Content(src), "*")
		if name != "" {
			return name
		}
	}
	return ""
}

// metricsOf computes the normative §4.5.1 metrics over a method body.
func metricsOf(body *sitter.Node, src []byte) metrics {
	if body == nil {
		return metrics{cyclomaticComplexity: 1}
	}
	m := metrics{cyclomaticComplexity: 1}
	startLine := int(body.StartPoint().Row)
	endLine := int(body.EndPoint().Row)
	m.linesOfCode = endLine - startLine + 1

	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		switch n.Type() {
		case "if_statement", "for_statement", "while_statement", "do_statement":
			m.cyclomaticComplexity++
			depth++
			if depth > m.nestingDepth {
				m.nestingDepth = depth
			}
		case "expression_switch_statement", "type_switch_statement", "switch_statement":
			depth++
			if depth > m.nestingDepth {
				m.nestingDepth = depth
			}
		case "expression_case", "default_case", "switch_case", "type_case":
			m.cyclomaticComplexity++
		case "catch_clause":
			m.cyclomaticComplexity++
		case "conditional_expression", "ternary_expression":
			m.cyclomaticComplexity++
		case "binary_expression":
			if op := n.ChildByFieldName("operator"); op != nil {
				text := op.Content(src)
				if text == "&&" || text == "||" {
					m.cyclomaticComplexity++
				}
			}
		}
		if strings.HasSuffix(n.Type(), "_statement") {
			m.numberOfStatements++
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i), depth)
		}
	}
	walk(body, 0)
	return m
}

// accessedFields returns the addresses of struct fields selected off
// the method's receiver within its body.
func accessedFields(body, receiver *sitter.Node, src []byte, fields map[string]rdf.Address) []rdf.Address {
	if len(fields) == 0 {
		return nil
	}
	receiverName := ""
	if receiver.NamedChildCount() > 0 {
		param := receiver.NamedChild(0)
		if nameNode := param.ChildByFieldName("name"); nameNode != nil {
			receiverName = nameNode.Content(src)
		}
	}
	if receiverName == "" {
		return nil
	}

	seen := map[string]bool{}
	var out []rdf.Address
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "selector_expression" {
			operand := n.ChildByFieldName("operand")
			field := n.ChildByFieldName("field")
			if operand != nil && field != nil && operand.Content(src) == receiverName {
				fieldName := field.Content(src)
				if addr, ok := fields[fieldName]; ok && !seen[fieldName] {
					seen[fieldName] = true
					out = append(out, addr)
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(body)
	return out
}

// autoTags classifies a method by naming convention and shape, since
// Go carries no "constructor"/"accessor"/"static"/"async" keywords of
// its own; these generalize the concepts across the language set the
// AST provider supports.
func autoTags(methodName string, method, body *sitter.Node, src []byte, highAt, complexity int, fields map[string]rdf.Address) []string {
	var tags []string
	if strings.HasPrefix(methodName, "New") {
		tags = append(tags, "constructor")
	}
	if isAccessor(methodName, method, src, fields) {
		tags = append(tags, "accessor")
	}
	sig := signatureText(method, src)
	if strings.Contains(sig, "async ") {
		tags = append(tags, "async")
	}
	if strings.Contains(sig, "static ") {
		tags = append(tags, "static")
	}
	if complexity >= highAt {
		tags = append(tags, "high-complexity")
	}
	return tags
}

func signatureText(method *sitter.Node, src []byte) string {
	body := method.ChildByFieldName("body")
	end := method.EndByte()
	if body != nil {
		end = body.StartByte()
	}
	return string(src[method.StartByte():end])
}

func isAccessor(methodName string, method *sitter.Node, src []byte, fields map[string]rdf.Address) bool {
	if len(fields) == 0 {
		return false
	}
	params := method.ChildByFieldName("parameters")
	result := method.ChildByFieldName("result")
	if strings.HasPrefix(methodName, "Set") && params != nil && params.NamedChildCount() == 1 {
		return hasFieldFold(fields, strings.TrimPrefix(methodName, "Set"))
	}
	if params != nil && params.NamedChildCount() == 0 && result != nil {
		return hasFieldFold(fields, methodName)
	}
	return false
}

// hasFieldFold reports whether fields contains a field matching name
// up to case, since exported accessor methods (ID) commonly expose an
// unexported field of differing case (id).
func hasFieldFold(fields map[string]rdf.Address, name string) bool {
	for fieldName := range fields {
		if strings.EqualFold(fieldName, name) {
			return true
		}
	}
	return false
}
