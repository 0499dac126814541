// Package engine runs the scan pipeline: file discovery, parsing, pattern
// matching, rule evaluation, and cost accounting, fanned out across a
// bounded worker pool, then folded into deterministic reports.
package engine

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/jenian/llmscan/internal/catalog"
	"github.com/jenian/llmscan/internal/config"
	"github.com/jenian/llmscan/internal/cost"
	"github.com/jenian/llmscan/internal/matcher"
	"github.com/jenian/llmscan/internal/parser"
	"github.com/jenian/llmscan/internal/report"
	"github.com/jenian/llmscan/internal/rules"
	"github.com/jenian/llmscan/internal/scanner"
)

// errBudgetAbort cancels the worker group once the budget is exceeded and
// early abort is on. It never surfaces to the caller: results computed so
// far are still reported.
var errBudgetAbort = errors.New("budget exceeded")

// Engine wires the pipeline stages together. Safe for a single Run at a
// time; the grammar registry and rule engine inside are shared read-only
// across workers.
type Engine struct {
	cfg       *config.Config
	logger    hclog.Logger
	registry  *parser.Registry
	rules     *rules.Engine
	estimator *cost.Estimator
	version   string
}

// Result is the output of one scan run.
type Result struct {
	Inventory *report.Inventory
	Audit     *report.AuditReport
}

// New builds an engine from validated configuration. Custom rule
// compilation errors abort here, before any file is touched.
func New(cfg *config.Config, logger hclog.Logger, toolVersion string) (*Engine, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	custom, err := cfg.CompileRules()
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:       cfg,
		logger:    logger,
		registry:  parser.NewRegistry(),
		rules:     rules.NewEngine(custom),
		estimator: cost.NewEstimator(cfg.CostModel, logger),
		version:   toolVersion,
	}, nil
}

func (e *Engine) workers() int {
	if e.cfg.Workers > 0 {
		return e.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// fileResult holds one file's contribution, kept in a slice indexed by
// discovery order so parallel completion order never changes the output.
type fileResult struct {
	matches  []matcher.Match
	findings []rules.Finding
	note     *report.SkipNote
}

// Run scans rootPath and returns the inventory and audit reports. A file
// that fails to parse becomes a skip note, never an error; only discovery
// failures and context cancellation are fatal.
func (e *Engine) Run(ctx context.Context, rootPath string) (*Result, error) {
	start := time.Now()

	sc := scanner.NewScanner(e.logger)
	sc.AddExcludeDirs(e.cfg.ExcludeDirs)
	sc.SetExcludeGlobs(e.cfg.ExcludeGlobs)
	sc.SetIncludeGlobs(e.cfg.IncludeGlobs)
	sc.SetIncludeHidden(e.cfg.IncludeHidden)
	sc.SetMaxFileSize(e.cfg.MaxFileSizeMB << 20)

	files, err := sc.Scan(rootPath)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("discovered source files", "count", len(files))

	ledger := cost.NewLedger(cost.Limits{
		MaxTokens:   e.cfg.MaxTokens,
		MaxRequests: e.cfg.MaxRequests,
		MaxUSD:      e.cfg.MaxUSD,
	})

	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())

	for i := range files {
		i := i
		f := &files[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.processFile(f, ledger)
			if e.cfg.EarlyAbort && ledger.Exceeded() {
				return errBudgetAbort
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if !errors.Is(err, errBudgetAbort) {
			return nil, err
		}
		e.logger.Info("budget exceeded, scan aborted early")
	}

	var matches []matcher.Match
	var findings []rules.Finding
	var notes []report.SkipNote
	for i := range results {
		matches = append(matches, results[i].matches...)
		findings = append(findings, results[i].findings...)
		if results[i].note != nil {
			notes = append(notes, *results[i].note)
		}
	}

	meta := report.NewMetadata(e.version, len(files), time.Since(start))
	inv, audit := report.Build(meta, matches, findings, notes, ledger.Snapshot())
	return &Result{Inventory: inv, Audit: audit}, nil
}

// processFile runs the per-file pipeline. The raw-content secret sweep runs
// even when parsing fails, so a malformed file can still surface a leaked
// key.
func (e *Engine) processFile(f *scanner.SourceFile, ledger *cost.Ledger) fileResult {
	var res fileResult

	res.findings = e.rules.EvaluateFile(f.Path, f.Content)

	lang := string(f.Language)
	if !e.registry.Supported(lang) {
		e.logger.Debug("skipping file", "path", f.Path, "reason", "unsupported language")
		res.note = &report.SkipNote{File: f.Path, Reason: "unsupported language"}
		return res
	}
	tree, err := e.registry.Parse(lang, f.Content)
	if err != nil {
		reason := "parse failed"
		if errors.Is(err, parser.ErrMalformed) {
			reason = "malformed source"
		}
		e.logger.Debug("skipping file", "path", f.Path, "reason", reason, "error", err)
		res.note = &report.SkipNote{File: f.Path, Reason: reason}
		return res
	}
	defer tree.Close()

	m, err := matcher.New(lang)
	if err != nil {
		res.note = &report.SkipNote{File: f.Path, Reason: "unsupported language"}
		return res
	}

	located := m.FindMatches(tree, f.Content, f.Path)
	var tokens, requests int64
	var usd float64
	var uncertain bool
	for i := range located {
		loc := &located[i]
		res.matches = append(res.matches, loc.Match)

		mctx := m.Extract(loc, f.Content)
		res.findings = append(res.findings, e.rules.Evaluate(mctx)...)

		// only call sites count as requests; imports and literals carry no
		// prompt content
		if loc.Kind == catalog.KindQualifiedCall {
			tc := e.estimator.Estimate(mctx)
			tokens += int64(tc.Tokens)
			requests++
			usd += tc.USD
			uncertain = uncertain || tc.Uncertain
		}
	}
	// one ledger update per file, so a file's contribution lands wholly or
	// not at all
	if requests > 0 {
		ledger.Add(tokens, requests, usd, uncertain)
	}

	return res
}
