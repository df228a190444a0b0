package runner

import (
	"github.com/viant/afs"
	"go.uber.org/zap"

	astpkg "github.com/linagraph/linagraph/ast"
)

// DefaultMaxConcurrency bounds per-scenario, per-file parallelism when
// neither the namespace config nor the caller overrides it.
const DefaultMaxConcurrency = 4

// Option configures a Runner at construction time.
type Option func(*Runner)

// WithLogger injects a structured logger; nil is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithFS overrides the afs.Service used to walk and read files.
func WithFS(fs afs.Service) Option {
	return func(r *Runner) {
		if fs != nil {
			r.fs = fs
		}
	}
}

// WithASTProvider overrides the AST acquisition collaborator.
func WithASTProvider(p *astpkg.Provider) Option {
	return func(r *Runner) {
		if p != nil {
			r.ast = p
		}
	}
}

// WithMaxConcurrency overrides the default worker pool size.
func WithMaxConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxConcurrency = n
		}
	}
}
