package ast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, Go, DetectLanguage("a/b.go"))
	assert.Equal(t, Java, DetectLanguage("a/b.java"))
	assert.Equal(t, JavaScript, DetectLanguage("a/b.tsx"))
	assert.Equal(t, Markdown, DetectLanguage("readme.md"))
	assert.Equal(t, Language(""), DetectLanguage("a/b.rs"))
}

func TestParseSourceGo(t *testing.T) {
	p := NewProvider()
	src := []byte("package main\n\nfunc main() {}\n")
	result, err := p.ParseSource(context.Background(), "main.go", src)
	require.NoError(t, err)
	require.NotNil(t, result.Root)
	assert.Equal(t, Go, result.Language)
	assert.Equal(t, "source_file", result.Root.Type())
}

func TestParseSourceMarkdownHasNoRoot(t *testing.T) {
	p := NewProvider()
	result, err := p.ParseSource(context.Background(), "readme.md", []byte("# Title\n"))
	require.NoError(t, err)
	assert.Nil(t, result.Root)
	assert.Equal(t, Markdown, result.Language)
}

func TestNodeTextTrimsWhitespace(t *testing.T) {
	p := NewProvider()
	src := []byte("package main\n\nfunc main() {}\n")
	result, err := p.ParseSource(context.Background(), "main.go", src)
	require.NoError(t, err)
	text := NodeText(result.Root, src)
	assert.Contains(t, text, "package main")
}
