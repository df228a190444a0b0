// Package analyzer implements the built-in Scenario Analyzers (C5):
// pure AnalysisContext -> AnalysisResult functions that walk a
// tree-sitter AST and emit typed nodes, edges, and semantic tags.
package analyzer

import (
	"path/filepath"
	"strings"
)

// PathMatcher classifies a file path into the tag categories
// basic-structure attaches (test, config, source, ...).
type PathMatcher func(path string) []string

// DefaultPathMatcher tags common test/config/source path patterns,
// generalized across the teacher's GolangFiles/JavaFiles filename
// predicates into a single cross-language classifier.
func DefaultPathMatcher(path string) []string {
	base := filepath.Base(path)
	var tags []string

	switch {
	case strings.HasSuffix(base, "_test.go"),
		strings.HasSuffix(base, ".test.ts"), strings.HasSuffix(base, ".test.js"),
		strings.HasSuffix(base, ".spec.ts"), strings.HasSuffix(base, ".spec.js"),
		strings.Contains(path, "/test/"), strings.Contains(path, "/tests/"):
		tags = append(tags, "test")
	}

	switch base {
	case "go.mod", "go.sum", "package.json", "tsconfig.json", "pom.xml",
		"build.gradle", ".eslintrc", ".eslintrc.json":
		tags = append(tags, "config")
	}
	if strings.HasSuffix(base, ".yaml") || strings.HasSuffix(base, ".yml") ||
		strings.HasSuffix(base, ".toml") || strings.HasSuffix(base, ".ini") {
		tags = append(tags, "config")
	}

	if len(tags) == 0 {
		tags = append(tags, "source")
	}
	return tags
}

// Option configures a built-in analyzer at construction time.
type Option func(*options)

type options struct {
	pathMatcher      PathMatcher
	complexityHighAt int
}

func newOptions(opts ...Option) *options {
	o := &options{pathMatcher: DefaultPathMatcher, complexityHighAt: 10}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithPathMatcher overrides the default test/config/source classifier.
func WithPathMatcher(m PathMatcher) Option {
	return func(o *options) { o.pathMatcher = m }
}

// WithHighComplexityThreshold sets the cyclomatic-complexity value at
// or above which method-analysis attaches the "high-complexity" tag.
func WithHighComplexityThreshold(n int) Option {
	return func(o *options) { o.complexityHighAt = n }
}
