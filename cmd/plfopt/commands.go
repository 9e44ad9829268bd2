// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/plfopt/experiment"
	"github.com/katalvlaran/plfopt/instance"
	"github.com/katalvlaran/plfopt/relax"
	"github.com/katalvlaran/plfopt/sbb"
)

// solverFlags are shared by solve and compare.
type solverFlags struct {
	rule      string
	relaxer   string
	epsilon   float64
	timeLimit time.Duration
	maxNodes  int
	minWidth  float64
}

func (f *solverFlags) register(cmd *cobra.Command, defaultTimeLimit time.Duration) {
	cmd.Flags().StringVar(&f.relaxer, "relaxer", "greedy", "relaxation backend: 'greedy' or 'lp'")
	cmd.Flags().Float64Var(&f.epsilon, "eps", sbb.DefaultEpsilon, "absolute termination gap")
	cmd.Flags().DurationVar(&f.timeLimit, "time-limit", defaultTimeLimit, "wall-clock limit per solve (0 = unlimited)")
	cmd.Flags().IntVar(&f.maxNodes, "max-nodes", 0, "node budget per solve (0 = unlimited)")
	cmd.Flags().Float64Var(&f.minWidth, "min-width", sbb.DefaultMinWidth, "interval width below which nodes are not split")
}

// options turns the flags into sbb.Options.
func (f *solverFlags) options(log *slog.Logger) (sbb.Options, error) {
	opts := sbb.DefaultOptions()
	if f.rule != "" {
		rule, err := sbb.ParseRule(f.rule)
		if err != nil {
			return opts, err
		}
		opts.Rule = rule
	}
	switch strings.ToLower(f.relaxer) {
	case "greedy":
		opts.Relaxer = relax.Greedy{}
	case "lp":
		opts.Relaxer = relax.LP{}
	default:
		return opts, fmt.Errorf("unknown relaxer %q", f.relaxer)
	}
	opts.Epsilon = f.epsilon
	opts.TimeLimit = f.timeLimit
	opts.MaxNodes = f.maxNodes
	opts.MinWidth = f.minWidth
	opts.Logger = log

	return opts, opts.Validate()
}

// newLogger builds the process logger; text on stderr, level from --log-level.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func newRootCmd() *cobra.Command {
	var (
		logLevel string
		log      *slog.Logger
	)
	root := &cobra.Command{
		Use:          "plfopt",
		Short:        "Spatial branch-and-bound for separable piecewise-linear knapsack problems",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			log, err = newLogger(cmd.ErrOrStderr(), logLevel)
			return err
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	logger := func() *slog.Logger { return log }
	root.AddCommand(newSolveCmd(logger), newGenerateCmd(), newCompareCmd(logger))

	return root
}

func newSolveCmd(logger func() *slog.Logger) *cobra.Command {
	var f solverFlags
	cmd := &cobra.Command{
		Use:   "solve FILE",
		Short: "Solve a YAML instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := instance.LoadFile(args[0])
			if err != nil {
				return err
			}
			opts, err := f.options(logger())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			res, err := sbb.SpatialBB(ctx, sbb.Problem{PLFs: inst.PLFs, Constraint: inst.Constraint}, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "instance:   %s\n", inst.Name)
			fmt.Fprintf(out, "rule:       %s\n", res.Rule)
			fmt.Fprintf(out, "status:     %s\n", res.Status)
			fmt.Fprintf(out, "value:      %g\n", res.UpperBound)
			fmt.Fprintf(out, "lower:      %g\n", res.LowerBound)
			fmt.Fprintf(out, "root bound: %g\n", res.RootBound)
			fmt.Fprintf(out, "nodes:      %d\n", res.NodeCount)
			fmt.Fprintf(out, "time:       %s\n", res.SolveTime)
			fmt.Fprintf(out, "point:      %v\n", res.Point)

			return nil
		},
	}
	f.register(cmd, 0)
	cmd.Flags().StringVar(&f.rule, "rule", sbb.RuleLargestError, "branching rule: 'largest error', 'longest edge' or 'breakpoint'")

	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		cfg       instance.Config
		sense     string
		functions []string
		outPath   string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random instance as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := relax.ParseSense(sense)
			if err != nil {
				return err
			}
			cfg.Sense = s
			for _, name := range functions {
				idx, err := instance.IndexOf(name)
				if err != nil {
					return err
				}
				cfg.Functions = append(cfg.Functions, idx)
			}
			inst, err := instance.Generate(cfg)
			if err != nil {
				return err
			}

			if outPath != "" {
				return writeInstanceFile(outPath, inst)
			}

			return inst.Encode(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&cfg.Name, "name", "", "instance name")
	cmd.Flags().IntVar(&cfg.Dim, "dim", instance.DefaultDim, "number of dimensions")
	cmd.Flags().IntVar(&cfg.Breakpoints, "breakpoints", instance.DefaultBreakpoints, "breakpoints per function")
	cmd.Flags().StringSliceVar(&functions, "functions", nil, "catalogue function names, one per dimension (default random)")
	cmd.Flags().Float64SliceVar(&cfg.Weights, "weights", nil, "constraint weights (default all ones)")
	cmd.Flags().StringVar(&sense, "sense", "<=", "constraint sense: <=, >= or =")
	cmd.Flags().IntVar(&cfg.Sample.JumpEvery, "jump-every", 0, "make every n-th interior breakpoint a discontinuity")
	cmd.Flags().Float64Var(&cfg.Sample.JumpSize, "jump-size", 1, "one-sided jump height")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", 0, "random seed (0 = fixed default)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")

	return cmd
}

func newCompareCmd(logger func() *slog.Logger) *cobra.Command {
	var (
		f       solverFlags
		cfg     = experiment.DefaultConfig()
		rules   []string
		csvPath string
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare branching rules on random instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := f.options(logger())
			if err != nil {
				return err
			}
			cfg.Template = opts
			cfg.Logger = logger()
			cfg.Rules = cfg.Rules[:0]
			for _, name := range rules {
				r, err := sbb.ParseRule(name)
				if err != nil {
					return err
				}
				cfg.Rules = append(cfg.Rules, r)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			recs, err := experiment.Run(ctx, cfg)
			if err != nil {
				return err
			}
			if csvPath != "" {
				if err = writeCSVFile(csvPath, recs); err != nil {
					return err
				}
			}

			return experiment.WriteTable(cmd.OutOrStdout(), experiment.Summarize(recs))
		},
	}
	f.register(cmd, cfg.Template.TimeLimit)
	cmd.Flags().IntSliceVar(&cfg.Breakpoints, "breakpoints", cfg.Breakpoints, "breakpoint counts to compare")
	cmd.Flags().IntVar(&cfg.Instances, "instances", cfg.Instances, "random instances per breakpoint count")
	cmd.Flags().IntVar(&cfg.Dim, "dim", cfg.Dim, "dimensions per instance")
	cmd.Flags().StringSliceVar(&rules, "rules", []string{sbb.RuleLongestEdge, sbb.RuleLargestError}, "rules to compare")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", 0, "base random seed")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 0, "parallel solves (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write per-run records to this CSV file")

	return cmd
}

// writeInstanceFile encodes inst to path; a failed Close is reported since
// it can mean the YAML never reached the disk.
func writeInstanceFile(path string, inst instance.Instance) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = inst.Encode(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func writeCSVFile(path string, recs []experiment.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = experiment.WriteCSV(f, recs); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
