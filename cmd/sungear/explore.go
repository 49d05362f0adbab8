package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/sungear/cool"
	"github.com/katalvlaran/sungear/explorer"
	"github.com/katalvlaran/sungear/model"
	sgerr "github.com/katalvlaran/sungear/pkg/errors"
	"github.com/katalvlaran/sungear/selection"
)

// dataset is the YAML input of the explore command. An empty experiment
// list means every item.
type dataset struct {
	Anchors    []string             `yaml:"anchors"`
	Items      map[string][]float64 `yaml:"items"`
	Experiment []string             `yaml:"experiment"`
}

type exploreReport struct {
	Threshold float64               `yaml:"threshold"`
	Active    int                   `yaml:"active"`
	Selected  int                   `yaml:"selected"`
	Vessels   []explorer.VesselView `yaml:"vessels"`
	Method    cool.Method           `yaml:"method"`
	Ranked    []cool.Ranked         `yaml:"ranked"`
}

func newExploreCmd(a *app) *cobra.Command {
	var (
		data        string
		anchors     []string
		op          string
		narrow      bool
		showMetrics bool
		output      string
	)

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Partition a dataset into vessels and rank them",
		Long: `Load a YAML dataset, partition its items into vessels at the configured
threshold, optionally select and narrow by anchors, then rank the vessels.

Dataset layout:

  anchors: [heat, cold]
  items:
    atA: [3, 0]
    atB: [3, 3]
  experiment: [atA, atB]   # optional, defaults to every item`,
		Example: "  sungear explore --data genes.yaml --threshold 1 --select heat --preset all",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			operation, err := parseOperation(op)
			if err != nil {
				return err
			}

			keys := maps.Clone(coolFlags)
			keys["threshold"] = "threshold"
			cfg, err := a.resolve(cmd, keys)
			if err != nil {
				return err
			}
			m, err := cfg.Method()
			if err != nil {
				return err
			}

			snap, err := loadDataset(data)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			col, err := cfg.NewMetrics(reg)
			if err != nil {
				return sgerr.Errorf(sgerr.CodeCLISetupFailure, "registering metrics: %w", err)
			}

			engine := selection.New(selection.WithLogger(a.log), selection.WithMetrics(col))
			opts := append(cfg.ExplorerOptions(), explorer.WithLogger(a.log), explorer.WithMetrics(col))
			x, err := explorer.New(engine, opts...)
			if err != nil {
				return err
			}
			defer x.Close()

			if err := engine.Load(snap); err != nil {
				return err
			}
			if len(anchors) > 0 {
				if err := x.SelectAnchors(anchors, operation); err != nil {
					return err
				}
			}
			if narrow {
				if err := x.Narrow(); err != nil {
					return err
				}
			}

			views, err := x.Vessels()
			if err != nil {
				return err
			}
			ranked, err := x.Cool(m)
			if err != nil {
				return err
			}
			a.log.Debug().
				Float64("threshold", x.Threshold()).
				Int("vessels", len(views)).
				Int("ranked", len(ranked)).
				Msg("dataset explored")

			r := exploreReport{
				Threshold: x.Threshold(),
				Active:    engine.Active().Len(),
				Selected:  engine.Selected().Len(),
				Vessels:   views,
				Method:    m,
				Ranked:    ranked,
			}
			w := cmd.OutOrStdout()
			if err := render(w, output, r, func(w io.Writer) error { return writeExplore(w, r) }); err != nil {
				return err
			}
			if showMetrics {
				return writeMetrics(w, reg)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&data, "data", "d", "", "path to the YAML dataset")
	f.Float64("threshold", 0, "expression threshold (overrides threshold)")
	f.StringSliceVar(&anchors, "select", nil, "select items by anchor names (comma separated)")
	f.StringVar(&op, "op", selection.OpUnion.String(), "how --select combines anchors (union, intersect)")
	f.BoolVar(&narrow, "narrow", false, "narrow the active set to the selection before ranking")
	f.BoolVar(&showMetrics, "metrics", false, "append the run's metrics in Prometheus text format")
	addCoolFlags(cmd)
	f.StringVarP(&output, "output", "o", outputText, "output format (text, yaml)")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func parseOperation(name string) (selection.Operation, error) {
	for _, op := range []selection.Operation{selection.OpUnion, selection.OpIntersect} {
		if strings.EqualFold(name, op.String()) {
			return op, nil
		}
	}
	return 0, sgerr.New(sgerr.CodeCLIInputInvalid,
		fmt.Sprintf("--op must be one of [union, intersect], got %q", name),
		sgerr.Field("op", name))
}

// loadDataset reads and validates a YAML dataset into a snapshot.
func loadDataset(path string) (*model.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, sgerr.Errorf(sgerr.CodeCLIInputInvalid, "reading dataset: %w", err)
	}
	var ds dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, sgerr.Errorf(sgerr.CodeCLIInputInvalid, "decoding dataset %s: %w", path, err)
	}

	anchors, err := model.NewAnchorSet(ds.Anchors...)
	if err != nil {
		return nil, err
	}
	master := make([]*model.Item, 0, len(ds.Items))
	for name, exp := range ds.Items {
		master = append(master, model.NewItem(name, exp...))
	}
	experiment := master
	if len(ds.Experiment) > 0 {
		experiment = make([]*model.Item, len(ds.Experiment))
		for i, name := range ds.Experiment {
			experiment[i] = model.NewItem(name)
		}
	}
	return model.NewSnapshot(anchors, master, experiment)
}

func writeExplore(w io.Writer, r exploreReport) error {
	fmt.Fprintf(w, "threshold %g, active %d, selected %d\n\n", r.Threshold, r.Active, r.Selected)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VESSEL\tSIGNATURE\tANCHORS\tEXPERIMENT\tACTIVE\tSELECTED")
	for _, v := range r.Vessels {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\n",
			v.Index, v.Signature, strings.Join(v.Anchors, ","), v.Experiment, v.Active, v.Selected)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s\n", r.Method.Name)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tVESSEL\tANCHORS\tSIZE\tOBSERVED\tEXPECTED\tP-VALUE\tSCORE")
	for i, v := range r.Ranked {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\t%.3f\t%.3g\t%.3f\n",
			i+1, v.Vessel, strings.Join(v.Anchors, ","), v.Size, v.Observed, v.Expected, v.PValue, v.Score)
	}
	return tw.Flush()
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return sgerr.Errorf(sgerr.CodeCLIOutputFailure, "gathering metrics: %w", err)
	}
	fmt.Fprintln(w)
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return sgerr.Errorf(sgerr.CodeCLIOutputFailure, "writing metrics: %w", err)
		}
	}
	return nil
}
