package runner

import (
	"context"
	"io"
	"os"
	"path"
	"sort"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// resolveFiles walks root and returns every file path, relative to
// root, that matches one of include and none of exclude, grounded on
// the teacher's afs.Service.Walk + storage.OnVisit idiom. Paths are
// project-root-relative, not absolute URLs: rdf.Build and the
// analyzers expect AnalysisContext.FilePath in that form, so the
// runner joins root back on only when it needs to read the file.
func resolveFiles(ctx context.Context, fs afs.Service, root string, include, exclude []string) ([]string, error) {
	var files []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		rel := path.Join(parent, info.Name())
		if len(include) > 0 && !matchesAny(rel, include) {
			return true, nil
		}
		if matchesAny(rel, exclude) {
			return true, nil
		}
		files = append(files, rel)
		return true, nil
	}
	if err := fs.Walk(ctx, root, visitor); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
