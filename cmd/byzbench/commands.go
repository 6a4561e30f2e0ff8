package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vaultsandbox/byzbench"
	"github.com/vaultsandbox/byzbench/internal/fixture"
	"github.com/vaultsandbox/byzbench/internal/harness"
	"github.com/vaultsandbox/byzbench/internal/search"
	"github.com/vaultsandbox/byzbench/internal/stats"
)

func newGenFixturesCmd(a *app) *cobra.Command {
	var threshold int
	cmd := &cobra.Command{
		Use:   "gen-fixtures",
		Short: "Regenerate the random, forged and byzantine fixtures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.runner()
			if err != nil {
				return err
			}
			rng, err := a.rng("gen-fixtures")
			if err != nil {
				return err
			}
			paths, err := r.GenerateFixtures(cmd.Context(), rng, threshold)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", byzbench.DefaultThreshold, "minimum oracle score for byzantine fixtures")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		threshold int
		count     int
		hard      bool
		out       string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search for byzantine inputs and save them as a fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			minScore, name := threshold, fixture.ByzantineFile
			if hard {
				minScore, name = threshold+search.HardThresholdBonus, fixture.HardByzantineFile
			}
			if out == "" {
				out = filepath.Join(a.fixtureDir, name)
			}

			r, err := a.runner()
			if err != nil {
				return err
			}
			rng, err := a.rng("search")
			if err != nil {
				return err
			}
			found, err := r.SearchByzantine(cmd.Context(), rng, minScore, count, out)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for i, c := range found {
				fmt.Fprintf(w, "%2d score=%d attempts=%d %s\n", i, c.Score, c.Attempts, c.Input)
			}
			fmt.Fprintf(w, "wrote %d inputs to %s\n", len(found), out)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&threshold, "threshold", byzbench.DefaultThreshold, "minimum oracle score")
	f.IntVar(&count, "count", byzbench.DefaultSampleCount, "number of inputs to find")
	f.BoolVar(&hard, "hard", false, "raise the threshold by the hard bonus and write hard_byz.yaml")
	f.StringVarP(&out, "out", "o", "", "output fixture path")
	return cmd
}

func newScoresCmd(a *app) *cobra.Command {
	var (
		n         int
		threshold int
	)
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Print the oracle score distribution of random inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.runner()
			if err != nil {
				return err
			}
			rng, err := a.rng("scores")
			if err != nil {
				return err
			}
			scores, err := r.ScoreDistribution(cmd.Context(), rng, n)
			if err != nil {
				return err
			}

			s, err := stats.Summarize(scores, r.Z())
			if err != nil {
				return err
			}
			above := 0
			for _, sc := range scores {
				if sc >= threshold {
					above++
				}
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "n=%d mean=%.2f std=%.2f min=%d max=%d\n",
				s.N, s.Mean, s.StdDev, slices.Min(scores), slices.Max(scores))
			fmt.Fprintf(w, "score >= %d: %d (%.2f%%)\n", threshold, above, 100*float64(above)/float64(len(scores)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 1000, "number of random inputs to score")
	cmd.Flags().IntVar(&threshold, "threshold", byzbench.DefaultThreshold, "report how many inputs reach this score")
	return cmd
}

// chartFlags controls interval bars.
type chartFlags struct {
	low   float64
	high  float64
	width int
}

func (c *chartFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&c.low, "chart-low", 30, "chart lower bound in microseconds")
	f.Float64Var(&c.high, "chart-high", 40, "chart upper bound in microseconds")
	f.IntVar(&c.width, "chart-width", 120, "chart width in characters, 0 to disable")
}

func (c *chartFlags) render(r stats.Renderer, iv stats.Interval) string {
	return r.Render(iv, c.low*1e3, c.high*1e3, c.width)
}

func newBenchCmd(a *app) *cobra.Command {
	var (
		fixturePath string
		runs        int
		repetitions int
		modes       []string
		z           float64
		chart       chartFlags
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time verification of a fixture under every cache flush mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseModes(modes)
			if err != nil {
				return err
			}
			if fixturePath == "" {
				fixturePath = filepath.Join(a.fixtureDir, fixture.HardByzantineFile)
			}

			r, err := a.runner(
				byzbench.WithModes(parsed...),
				byzbench.WithRepetitions(repetitions),
				byzbench.WithZ(z),
			)
			if err != nil {
				return err
			}
			reports, err := r.Sweep(cmd.Context(), fixturePath, runs)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			glyphs := a.renderer()
			for _, rep := range reports {
				fmt.Fprintf(w, "%-9s run %2d  %s\n", rep.Mode, rep.Run, rep.Summary)
				if bar := chart.render(glyphs, rep.Summary.Interval); bar != "" {
					fmt.Fprintln(w, bar)
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&fixturePath, "fixture", "f", "", "fixture to measure (default <fixtures>/hard_byz.yaml)")
	f.IntVar(&runs, "runs", 10, "number of runs; run i measures fixture input i")
	f.IntVar(&repetitions, "repetitions", byzbench.DefaultRepetitions, "timed trials per run and mode")
	f.StringSliceVar(&modes, "modes", []string{"no_flush", "overwrite", "wbinv"}, "flush modes to measure")
	f.Float64Var(&z, "z", byzbench.DefaultZ, "confidence interval multiplier")
	chart.register(cmd)
	return cmd
}

func newIntervalsCmd(a *app) *cobra.Command {
	var (
		fixturePath string
		repetitions int
		z           float64
		phases      bool
		chart       chartFlags
	)
	cmd := &cobra.Command{
		Use:   "intervals",
		Short: "Chart the verification time interval of every fixture input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fixturePath == "" {
				fixturePath = filepath.Join(a.fixtureDir, fixture.RandomFile)
			}
			f, err := fixture.Load(fixturePath)
			if err != nil {
				return err
			}

			r, err := a.runner(byzbench.WithZ(z))
			if err != nil {
				return err
			}
			inputs := f.Inputs()
			sums, err := r.Intervals(cmd.Context(), inputs, repetitions)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			glyphs := a.renderer()
			for i, s := range sums {
				fmt.Fprintf(w, "%2d %s %s\n", i, chart.render(glyphs, s.Interval), s)
			}

			if !phases {
				return nil
			}
			timings, err := r.Phases(inputs)
			if err != nil {
				return err
			}
			for i, p := range timings {
				if p.Err != nil && p.Total == 0 {
					fmt.Fprintf(w, "%2d rejected: %v\n", i, p.Err)
					continue
				}
				fmt.Fprintf(w, "%2d decode=%v challenge=%v multiply=%v compare=%v total=%v",
					i, p.Decode, p.Challenge, p.Multiply, p.Compare, p.Total)
				if p.Err != nil {
					fmt.Fprintf(w, " rejected: %v", p.Err)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&fixturePath, "fixture", "f", "", "fixture to measure (default <fixtures>/random_10.yaml)")
	fl.IntVar(&repetitions, "repetitions", byzbench.DefaultRepetitions, "timed trials per input")
	fl.Float64Var(&z, "z", byzbench.DefaultZ, "confidence interval multiplier")
	fl.BoolVar(&phases, "phases", false, "also time the verification phases of each input once")
	chart.register(cmd)
	return cmd
}

func parseModes(names []string) ([]harness.FlushMode, error) {
	modes := make([]harness.FlushMode, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		m, err := harness.ParseFlushMode(n)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}
