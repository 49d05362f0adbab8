package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sungear/cool"
)

type presetsReport struct {
	Presets    []cool.Method `yaml:"presets"`
	Configured cool.Method   `yaml:"configured"`
}

func newPresetsCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List cool-vessel ranking presets and the configured method",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			configured, err := a.cfg.Method()
			if err != nil {
				return err
			}

			r := presetsReport{Presets: cool.Presets(), Configured: configured}
			return render(cmd.OutOrStdout(), output, r, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tREFERENCE\tDIRECTION\tMIN SIZE\tMIN SCORE\tLIMIT")
				for _, m := range r.Presets {
					writeMethod(tw, m)
				}
				fmt.Fprintln(tw, "\t\t\t\t\t")
				fmt.Fprint(tw, "configured: ")
				writeMethod(tw, r.Configured)
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format (text, yaml)")

	return cmd
}

func writeMethod(w io.Writer, m cool.Method) {
	limit := "-"
	if m.Limit > 0 {
		limit = fmt.Sprint(m.Limit)
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%s\n", m.Name, m.Reference, m.Direction, m.MinSize, m.MinScore, limit)
}
