package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sungear/cool"
	"github.com/katalvlaran/sungear/internal/config"
	sgerr "github.com/katalvlaran/sungear/pkg/errors"
)

type rankReport struct {
	Method cool.Method   `yaml:"method"`
	Totals cool.Totals   `yaml:"totals"`
	Ranked []cool.Ranked `yaml:"ranked"`
}

func newRankCmd(a *app) *cobra.Command {
	var (
		totals  cool.Totals
		vessels []string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank vessel counts with a cool-vessel method",
		Long: `Rank vessels given as counts. Each --vessel is
[anchor,anchor=]ACTIVE:SELECTED[:EXPERIMENT]; a missing experiment count
defaults to the active count, as does a missing --experiment total.

The method is the configured one (cool.* keys) unless overridden by flags.`,
		Example: "  sungear rank --active 200 --selected 20 --vessel heat=16:16 --vessel cold=16:1 --preset all",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			m, err := a.method(cmd)
			if err != nil {
				return err
			}

			if totals.Experiment == 0 {
				totals.Experiment = totals.Active
			}
			tallies := make([]cool.Tally, len(vessels))
			for i, spec := range vessels {
				if tallies[i], err = parseTally(i, spec); err != nil {
					return err
				}
			}

			ranked, err := cool.RankVessels(tallies, totals, m)
			if err != nil {
				return err
			}
			a.log.Debug().Str("method", m.Name).Int("vessels", len(tallies)).Int("ranked", len(ranked)).Msg("vessels ranked")

			r := rankReport{Method: m, Totals: totals, Ranked: ranked}
			return render(cmd.OutOrStdout(), output, r, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "RANK\tVESSEL\tANCHORS\tSIZE\tOBSERVED\tEXPECTED\tP-VALUE\tSCORE")
				for i, v := range ranked {
					fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\t%.3f\t%.3g\t%.3f\n",
						i+1, v.Vessel, strings.Join(v.Anchors, ","), v.Size, v.Observed, v.Expected, v.PValue, v.Score)
				}
				return tw.Flush()
			})
		},
	}

	f := cmd.Flags()
	f.IntVar(&totals.Experiment, "experiment", 0, "experiment set size (default: --active)")
	f.IntVar(&totals.Active, "active", 0, "active set size")
	f.IntVar(&totals.Selected, "selected", 0, "selected set size")
	f.StringArrayVar(&vessels, "vessel", nil, "vessel counts, [anchors=]ACTIVE:SELECTED[:EXPERIMENT] (repeatable)")
	addCoolFlags(cmd)
	f.StringVarP(&output, "output", "o", outputText, "output format (text, yaml)")
	_ = cmd.MarkFlagRequired("active")

	return cmd
}

// coolFlags maps config keys to the flags that override them.
var coolFlags = map[string]string{
	"cool.preset":    "preset",
	"cool.min_size":  "min-size",
	"cool.min_score": "min-score",
	"cool.limit":     "limit",
}

// addCoolFlags registers the method override flags on cmd.
func addCoolFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("preset", "", "ranking preset (overrides cool.preset)")
	f.Int("min-size", 0, "minimum vessel size (overrides cool.min_size)")
	f.Float64("min-score", 0, "minimum -log10(p) (overrides cool.min_score)")
	f.Int("limit", 0, "maximum ranked vessels, 0 for all (overrides cool.limit)")
}

// resolve layers the changed flags named in keys over the loaded
// configuration.
func (a *app) resolve(cmd *cobra.Command, keys map[string]string) (*config.Config, error) {
	for key, name := range keys {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := a.v.BindPFlag(key, f); err != nil {
			return nil, sgerr.Errorf(sgerr.CodeCLISetupFailure, "binding %s flag: %w", name, err)
		}
	}
	return config.FromViper(a.v)
}

// method resolves the ranking method with command flags layered over the
// loaded configuration.
func (a *app) method(cmd *cobra.Command) (cool.Method, error) {
	cfg, err := a.resolve(cmd, coolFlags)
	if err != nil {
		return cool.Method{}, err
	}
	return cfg.Method()
}

// parseTally reads [anchors=]ACTIVE:SELECTED[:EXPERIMENT].
func parseTally(index int, spec string) (cool.Tally, error) {
	t := cool.Tally{Vessel: index}
	counts := spec
	if label, rest, ok := strings.Cut(spec, "="); ok {
		counts = rest
		for _, name := range strings.Split(label, ",") {
			if name = strings.TrimSpace(name); name != "" {
				t.Anchors = append(t.Anchors, name)
			}
		}
	}

	parts := strings.Split(counts, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return t, badVessel(spec)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return t, badVessel(spec)
		}
		nums[i] = n
	}

	t.Active, t.Selected, t.Experiment = nums[0], nums[1], nums[0]
	if len(nums) == 3 {
		t.Experiment = nums[2]
	}
	return t, nil
}

func badVessel(spec string) error {
	return sgerr.New(sgerr.CodeCLIInputInvalid,
		fmt.Sprintf("--vessel %q: want [anchors=]ACTIVE:SELECTED[:EXPERIMENT]", spec),
		sgerr.Field("vessel", spec))
}
