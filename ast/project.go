package ast

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// projectMarkers are root-marker files searched for, in priority
// order, walking up from a file's directory.
var projectMarkers = []string{"go.mod", "pom.xml", "build.gradle", "package.json", ".git"}

// DetectProjectName resolves the RDF address's project segment for a
// file by walking up from its directory looking for a project root
// marker, then extracting a human name from that marker file.
func DetectProjectName(ctx context.Context, filePath string) string {
	root, marker := findProjectRoot(filePath)
	if root == "" {
		return filepath.Base(filepath.Dir(filePath))
	}
	switch marker {
	case "go.mod":
		return goModuleName(ctx, filepath.Join(root, marker))
	default:
		return filepath.Base(root)
	}
}

func findProjectRoot(filePath string) (root, marker string) {
	dir := filepath.Dir(filePath)
	for {
		for _, m := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir, m
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ""
		}
		dir = parent
	}
}

// goModuleName extracts the module path from a go.mod file, preferring
// golang.org/x/mod/modfile's structured parse and falling back to a
// regex scan if the file can't be parsed as a valid modfile.
func goModuleName(ctx context.Context, goModPath string) string {
	fs := afs.New()
	if content, err := fs.DownloadWithURL(ctx, goModPath); err == nil && len(content) > 0 {
		if mod, err := modfile.Parse(goModPath, content, nil); err == nil && mod.Module != nil {
			return mod.Module.Mod.Path
		}
	}
	return scanModuleName(goModPath)
}

var moduleLineRegex = regexp.MustCompile(`module\s+([^\s]+)`)

func scanModuleName(goModPath string) string {
	f, err := os.Open(goModPath)
	if err != nil {
		return filepath.Base(filepath.Dir(goModPath))
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := moduleLineRegex.FindStringSubmatch(scanner.Text()); len(m) == 2 {
			return m[1]
		}
	}
	return filepath.Base(filepath.Dir(goModPath))
}
