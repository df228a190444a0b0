package runner

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	astpkg "github.com/linagraph/linagraph/ast"
	"github.com/linagraph/linagraph/scenario"
	"github.com/linagraph/linagraph/store"
)

// Config is one namespace run's resolved parameters: the file
// selection view and the scenario composition to run against it,
// already flattened out of nsconfig.Namespace by the caller.
type Config struct {
	Namespace      string
	ProjectName    string
	Root           string
	Include        []string
	Exclude        []string
	ScenarioIDs    []string
	ScenarioConfig map[string]map[string]any
	MaxConcurrency int
}

// Runner executes a namespace's scenarios against its resolved file
// set and merges the results into a Graph Store, one transaction per
// file. Parallelism is bounded and exists only within a scenario: all
// files run scenario N before any file starts scenario N+1, so a
// later scenario's analyzers can read an earlier one's AnalysisResult
// through RunOutputs.
type Runner struct {
	store          store.Store
	scenarios      *scenario.Registry
	ast            *astpkg.Provider
	fs             afs.Service
	logger         *zap.Logger
	maxConcurrency int
}

// New returns a Runner over st and registry, pre-seeded with the
// teacher's storage-agnostic afs.Service and a no-op logger; override
// either with options.
func New(st store.Store, registry *scenario.Registry, opts ...Option) *Runner {
	r := &Runner{
		store:          st,
		scenarios:      registry,
		ast:            astpkg.NewProvider(),
		fs:             afs.New(),
		logger:         zap.NewNop(),
		maxConcurrency: DefaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run resolves cfg's file set, executes its scenarios in topological
// order, and returns the namespace's result summary. A fatal error is
// only returned for failures that abort the whole run (scenario
// ordering, file resolution); per-file failures are recorded in the
// summary and do not stop the run.
func (r *Runner) Run(ctx context.Context, cfg Config) (Summary, error) {
	runID := uuid.NewString()
	logger := r.logger.With(zap.String("runId", runID), zap.String("namespace", cfg.Namespace))

	order, err := r.scenarios.Order()
	if err != nil {
		return Summary{}, fmt.Errorf("runner: resolve scenario order: %w", err)
	}
	ordered := filterOrder(order, cfg.ScenarioIDs)

	files, err := resolveFiles(ctx, r.fs, cfg.Root, cfg.Include, cfg.Exclude)
	if err != nil {
		return Summary{}, fmt.Errorf("runner: resolve files: %w", err)
	}

	limit := cfg.MaxConcurrency
	if limit <= 0 {
		limit = r.maxConcurrency
	}

	summary := Summary{Namespace: cfg.Namespace, TotalFiles: len(files), RunID: runID}
	failed := map[string]bool{}
	var summaryMu sync.Mutex

	outputs := map[string]map[string]scenario.AnalysisResult{}
	var outputsMu sync.Mutex

	logger.Info("namespace run starting", zap.Int("files", len(files)), zap.Strings("scenarios", ordered))

	for _, scenarioID := range ordered {
		spec, ok := r.scenarios.Get(scenarioID)
		if !ok || spec.Analyzer == nil {
			continue
		}
		scenarioConfig := cfg.ScenarioConfig[scenarioID]

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)

		for _, file := range files {
			file := file
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				r.runFileScenario(gctx, cfg, scenarioID, scenarioConfig, spec, file, outputs, &outputsMu, &summary, failed, &summaryMu, logger)
				return nil
			})
		}

		if waitErr := g.Wait(); waitErr != nil {
			summary.Cancelled = true
			logger.Warn("scenario aborted by cancellation", zap.String("scenario", scenarioID), zap.Error(waitErr))
			break
		}
		summary.ScenariosExecuted = append(summary.ScenariosExecuted, scenarioID)
	}

	finalizeSummary(&summary, files, failed)

	stats, err := r.store.Stats(ctx)
	if err != nil {
		logger.Warn("stats unavailable", zap.Error(err))
	} else {
		summary.GraphStats = GraphStats{
			Nodes:                stats.Nodes,
			Edges:                stats.Edges,
			CircularDependencies: stats.CircularDependencies,
		}
	}

	logger.Info("namespace run finished",
		zap.Int("analyzed", summary.AnalyzedFiles),
		zap.Int("failed", len(summary.FailedFiles)),
		zap.Bool("cancelled", summary.Cancelled),
	)
	return summary, nil
}

// runFileScenario parses, analyzes, and merges one file's contribution
// for one scenario. Every failure path records a FileError and returns
// without propagating, keeping the worker pool alive for the rest of
// the file set.
func (r *Runner) runFileScenario(
	ctx context.Context,
	cfg Config,
	scenarioID string,
	scenarioConfig map[string]any,
	spec *scenario.Spec,
	file string,
	outputs map[string]map[string]scenario.AnalysisResult,
	outputsMu *sync.Mutex,
	summary *Summary,
	failed map[string]bool,
	summaryMu *sync.Mutex,
	logger *zap.Logger,
) {
	parsed, err := r.ast.Parse(ctx, url.Join(cfg.Root, file))
	if err != nil {
		recordFailure(summaryMu, summary, failed, file, fmt.Errorf("parse: %w", err))
		logger.Warn("parse failed", zap.String("file", file), zap.Error(err))
		return
	}

	outputsMu.Lock()
	runOutputs := outputs[file]
	outputsMu.Unlock()

	analysisCtx := scenario.AnalysisContext{
		Context:        ctx,
		FilePath:       file,
		Language:       string(parsed.Language),
		ProjectName:    cfg.ProjectName,
		AST:            parsed.Root,
		Source:         parsed.Source,
		ScenarioConfig: scenarioConfig,
		RunOutputs:     runOutputs,
	}

	result, err := spec.Analyzer.Analyze(analysisCtx)
	if err != nil {
		recordFailure(summaryMu, summary, failed, file, &runError{scenarioID: scenarioID, file: file, err: err})
		logger.Warn("analyzer failed", zap.String("scenario", scenarioID), zap.String("file", file), zap.Error(err))
		return
	}

	if err := r.store.Transaction(ctx, file, func(tx store.Tx) error {
		return mergeResult(ctx, tx, r.store, file, result)
	}); err != nil {
		recordFailure(summaryMu, summary, failed, file, &runError{scenarioID: scenarioID, file: file, err: err})
		logger.Warn("merge failed", zap.String("scenario", scenarioID), zap.String("file", file), zap.Error(err))
		return
	}

	outputsMu.Lock()
	if outputs[file] == nil {
		outputs[file] = map[string]scenario.AnalysisResult{}
	}
	outputs[file][scenarioID] = result
	outputsMu.Unlock()
}

func recordFailure(mu *sync.Mutex, summary *Summary, failed map[string]bool, file string, err error) {
	mu.Lock()
	defer mu.Unlock()
	failed[file] = true
	summary.Errors = append(summary.Errors, FileError{File: file, Error: err.Error()})
}

func finalizeSummary(summary *Summary, files []string, failed map[string]bool) {
	summary.AnalyzedFiles = len(files) - len(failed)
	for f := range failed {
		summary.FailedFiles = append(summary.FailedFiles, f)
	}
	sort.Strings(summary.FailedFiles)
	sort.Slice(summary.Errors, func(i, j int) bool {
		if summary.Errors[i].File != summary.Errors[j].File {
			return summary.Errors[i].File < summary.Errors[j].File
		}
		return summary.Errors[i].Error < summary.Errors[j].Error
	})
}

// filterOrder returns order restricted to the ids present in
// requested, preserving order's relative sequence — a subsequence of a
// valid topological order is itself a valid topological order of the
// induced subgraph, so no separate layering computation is needed.
func filterOrder(order []string, requested []string) []string {
	if len(requested) == 0 {
		return order
	}
	want := make(map[string]bool, len(requested))
	for _, id := range requested {
		want[id] = true
	}
	var out []string
	for _, id := range order {
		if want[id] {
			out = append(out, id)
		}
	}
	return out
}
