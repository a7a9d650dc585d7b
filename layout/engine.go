package layout

import (
	"context"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Engine runs a layout strategy over a catalog and keeps the best candidate.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an engine for it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Layout is shorthand for NewEngine(cfg) followed by Engine.Layout.
func Layout(ctx context.Context, items []Item, cfg Config) (*Result, error) {
	e, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	return e.Layout(ctx, items)
}

// Layout places items on the canvas.
//
// The row strategy evaluates every (row count, iteration) trial, possibly in
// parallel, and returns the lowest score; ties go to the earliest trial. The
// organic strategy runs once. When ctx ends early the best candidate found so
// far is returned with Result.Partial set.
func (e *Engine) Layout(ctx context.Context, items []Item) (*Result, error) {
	catalog, err := NewCatalog(items)
	if err != nil {
		return nil, err
	}
	e.cfg.logger().Debug("layout",
		"strategy", e.cfg.Strategy,
		"items", catalog.Len(),
		"canvas", e.cfg.Canvas().String(),
		"seed", e.cfg.Seed)

	if e.cfg.Strategy == Organic {
		return e.layoutOrganic(ctx, catalog)
	}
	return e.layoutRows(ctx, catalog)
}

func (e *Engine) layoutOrganic(ctx context.Context, catalog *Catalog) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapError(CodeExhaustedSearch, err, "layout aborted")
	}
	rng := rand.New(rand.NewPCG(e.cfg.Seed, e.cfg.Seed^0xdeadbeef))
	cand, err := newOrganicLayout(&e.cfg).layout(catalog.scaled(), rng)
	if err != nil {
		return nil, err
	}
	return &Result{
		Candidate: cand,
		Strategy:  Organic,
		Seed:      e.cfg.Seed,
		Trials:    1,
	}, nil
}

// trial identifies one row-strategy attempt.
type trial struct {
	rows int
	iter int
}

type trialResult struct {
	cand Candidate
	ok   bool
	done bool
}

// rng returns the trial's own random stream. Streams depend only on the seed
// and the trial, so results do not depend on evaluation order.
func (t trial) rng(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed+uint64(t.rows)*0x9e3779b97f4a7c15, (seed^0xdeadbeef)+uint64(t.iter)))
}

func (e *Engine) trials(n int) []trial {
	rowCounts := []int{e.cfg.Rows}
	if e.cfg.Rows == 0 {
		rowCounts = make([]int, n)
		for i := range rowCounts {
			rowCounts[i] = i + 1
		}
	}
	trials := make([]trial, 0, len(rowCounts)*e.cfg.Iterations)
	for _, r := range rowCounts {
		for i := range e.cfg.Iterations {
			trials = append(trials, trial{rows: r, iter: i})
		}
	}
	return trials
}

func (e *Engine) layoutRows(ctx context.Context, catalog *Catalog) (*Result, error) {
	items := catalog.scaled()
	trials := e.trials(catalog.Len())
	results := make([]trialResult, len(trials))

	workers := e.cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, t := range trials {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			rl := &rowLayout{
				canvas:      e.cfg.Canvas(),
				rows:        t.rows,
				jitter:      e.cfg.Jitter,
				maxRotation: e.cfg.MaxRotation,
			}
			cand, ok := rl.layout(items, t.rng(e.cfg.Seed))
			results[i] = trialResult{cand: cand, ok: ok, done: true}
			return nil
		})
	}
	// Trials never return errors; cancellation is read from ctx below.
	_ = g.Wait()

	res, found := e.reduce(trials, results)
	if !found {
		if err := ctx.Err(); err != nil {
			return nil, wrapError(CodeExhaustedSearch, err, "no candidate after %d of %d trials", res.Trials, len(trials))
		}
		return nil, newError(CodeExhaustedSearch, "all %d trials were wasted", res.Trials)
	}
	return res, nil
}

// reduce keeps the first lowest-scoring candidate in trial order and reports
// whether any trial produced one.
func (e *Engine) reduce(trials []trial, results []trialResult) (*Result, bool) {
	res := &Result{Strategy: Rows, Seed: e.cfg.Seed}
	found := false
	rowBest, rowFound := 0, false
	for i, r := range results {
		if !r.done {
			res.Partial = true
			continue
		}
		res.Trials++
		if !r.ok {
			res.Wasted++
		} else {
			if !found || r.cand.Score < res.Score {
				res.Candidate = r.cand
				found = true
			}
			if !rowFound || r.cand.Score < rowBest {
				rowBest, rowFound = r.cand.Score, true
			}
		}
		if i == len(trials)-1 || trials[i+1].rows != trials[i].rows {
			if rowFound {
				e.cfg.logger().Debug("row count evaluated", "rows", trials[i].rows, "best", rowBest)
			}
			rowBest, rowFound = 0, false
		}
	}
	return res, found
}
