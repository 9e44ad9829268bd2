// SPDX-License-Identifier: MIT

// Package experiment runs computational comparisons of branching rules.
//
// For every breakpoint count K in Config.Breakpoints it draws Config.Instances
// random d-dimensional knapsack instances (package instance), solves each one
// with every configured rule and records solve time, node count and status.
// Runs are independent and execute on a bounded worker pool.
//
// Instance j of breakpoint count K is generated from a seed derived from
// (Config.Seed, K, j), so the instance set does not depend on the number of
// workers or on which rules are compared.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/plfopt/instance"
	"github.com/katalvlaran/plfopt/sbb"
)

// ErrBadConfig indicates an unusable experiment configuration.
var ErrBadConfig = errors.New("experiment: invalid configuration")

// Config describes one comparison.
type Config struct {
	Breakpoints []int               // K values, each ≥ 2
	Instances   int                 // instances per K
	Dim         int                 // dimensions per instance
	Rules       []sbb.BranchingRule // rules to compare
	Template    sbb.Options         // solver options; Rule is overwritten per run
	Sample      instance.SampleOptions
	Seed        int64
	Workers     int // 0 ⇒ GOMAXPROCS
	Logger      *slog.Logger
}

// DefaultConfig mirrors the classic largest-error vs longest-edge study:
// K ∈ {10, 50, 100, 500, 750}, 50 instances of dimension 5, ε = 1e-5 and a
// 10 s limit per solve.
func DefaultConfig() Config {
	opts := sbb.DefaultOptions()
	opts.TimeLimit = 10 * time.Second

	return Config{
		Breakpoints: []int{10, 50, 100, 500, 750},
		Instances:   50,
		Dim:         5,
		Rules:       []sbb.BranchingRule{sbb.LongestEdge{}, sbb.LargestError{}},
		Template:    opts,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case len(c.Breakpoints) == 0:
		return fmt.Errorf("no breakpoint counts: %w", ErrBadConfig)
	case c.Instances <= 0:
		return fmt.Errorf("%d instances: %w", c.Instances, ErrBadConfig)
	case c.Dim <= 0:
		return fmt.Errorf("dimension %d: %w", c.Dim, ErrBadConfig)
	case len(c.Rules) == 0:
		return fmt.Errorf("no rules: %w", ErrBadConfig)
	case c.Workers < 0:
		return fmt.Errorf("%d workers: %w", c.Workers, ErrBadConfig)
	}
	for _, k := range c.Breakpoints {
		if k < instance.MinBreakpoints {
			return fmt.Errorf("%d breakpoints: %w", k, ErrBadConfig)
		}
	}
	seen := make(map[string]bool, len(c.Rules))
	for i, r := range c.Rules {
		if r == nil {
			return fmt.Errorf("rule %d is nil: %w", i, ErrBadConfig)
		}
		// Records and summaries are keyed by rule name.
		if seen[r.Name()] {
			return fmt.Errorf("rule %q listed twice: %w", r.Name(), ErrBadConfig)
		}
		seen[r.Name()] = true
	}

	return c.Template.Validate()
}

// Record is the outcome of one solve.
type Record struct {
	Breakpoints int
	Instance    int
	Name        string
	Rule        string
	Status      sbb.Status
	SolveTime   time.Duration
	Nodes       int
	Upper       float64
	Lower       float64
}

// job is one (instance, rule) pair.
type job struct {
	k, j int
	inst instance.Instance
	rule sbb.BranchingRule
}

// Run executes the comparison and returns one Record per (K, instance, rule),
// sorted by K, instance and rule order. The first solver error cancels the
// remaining runs and is returned.
func Run(ctx context.Context, cfg Config) ([]Record, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var jobs []job
	for _, k := range cfg.Breakpoints {
		for j := 0; j < cfg.Instances; j++ {
			inst, err := instance.Generate(instance.Config{
				Name:        fmt.Sprintf("k%d-%03d", k, j),
				Dim:         cfg.Dim,
				Breakpoints: k,
				Sample:      cfg.Sample,
				Seed:        instanceSeed(cfg.Seed, k, j),
			})
			if err != nil {
				return nil, err
			}
			for _, rule := range cfg.Rules {
				jobs = append(jobs, job{k: k, j: j, inst: inst, rule: rule})
			}
		}
	}
	log.Info("experiment: starting",
		slog.Int("runs", len(jobs)),
		slog.Int("workers", workers))

	records := make([]Record, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, jb := range jobs {
		i, jb := i, jb
		g.Go(func() error {
			opts := cfg.Template
			opts.Rule = jb.rule
			opts.Logger = log.With(slog.String("instance", jb.inst.Name), slog.String("rule", jb.rule.Name()))
			opts.OnIteration = nil

			res, err := sbb.SpatialBB(gctx, sbb.Problem{PLFs: jb.inst.PLFs, Constraint: jb.inst.Constraint}, opts)
			if err != nil {
				return fmt.Errorf("experiment: %s with %s: %w", jb.inst.Name, jb.rule.Name(), err)
			}
			records[i] = Record{
				Breakpoints: jb.k,
				Instance:    jb.j,
				Name:        jb.inst.Name,
				Rule:        res.Rule,
				Status:      res.Status,
				SolveTime:   res.SolveTime,
				Nodes:       res.NodeCount,
				Upper:       res.UpperBound,
				Lower:       res.LowerBound,
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("experiment: done", slog.Int("runs", len(records)))

	return records, nil
}

// instanceSeed gives every (K, j) pair its own reproducible seed.
func instanceSeed(base int64, k, j int) int64 {
	return base*1_000_003 + int64(k)*10_007 + int64(j) + 1
}

// Summary aggregates the records of one (K, rule) cell.
type Summary struct {
	Breakpoints   int
	Rule          string
	Runs          int
	Solved        int // runs that ended StatusOptimal
	MeanSolveTime time.Duration
	MeanNodes     float64
}

// Summarize averages records per (K, rule), ordered by K and then by first
// appearance of the rule.
func Summarize(records []Record) []Summary {
	type key struct {
		k    int
		rule string
	}
	var (
		order []key
		acc   = map[key]*Summary{}
		total = map[key]time.Duration{}
	)
	for _, r := range records {
		kk := key{r.Breakpoints, r.Rule}
		s, ok := acc[kk]
		if !ok {
			s = &Summary{Breakpoints: r.Breakpoints, Rule: r.Rule}
			acc[kk] = s
			order = append(order, kk)
		}
		s.Runs++
		if r.Status == sbb.StatusOptimal {
			s.Solved++
		}
		total[kk] += r.SolveTime
		s.MeanNodes += float64(r.Nodes)
	}

	out := make([]Summary, 0, len(order))
	for _, kk := range order {
		s := acc[kk]
		s.MeanSolveTime = total[kk] / time.Duration(s.Runs)
		s.MeanNodes /= float64(s.Runs)
		out = append(out, *s)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Breakpoints < out[b].Breakpoints })

	return out
}
