package main

import (
	"fmt"

	"github.com/PetLahev/chartprobe/pkg/chartprobe"
	"github.com/PetLahev/chartprobe/pkg/chartprobe/output"
	"github.com/spf13/cobra"
)

// exitNotFound is the exit code of a check whose chart does not exist.
const exitNotFound = 2

func newCheckCmd(root *rootOptions) *cobra.Command {
	var (
		sheet   sheetSelector
		chartID string
		match   string
		asJSON  bool
		pretty  bool
	)

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Report whether a chart exists on a sheet",
		Long: `Report whether a chart exists on a sheet.

The chart id is either the drawing object id shown in the selection pane
(e.g. 3) or the chart's creation GUID (e.g. {6F1E7C2A-3B4D-4E5F-8A9B-0C1D2E3F4A5B}).
Exit status is 0 when the chart is found, 2 when it is not, and 1 on error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := resolveMatch(match)
			if err != nil {
				return err
			}
			opts := chartprobe.DefaultOptions()
			opts.Match = mode

			p, err := openProbe(cmd, root, args[0], opts)
			if err != nil {
				return err
			}
			defer p.Close()

			sheetID, err := sheet.resolve(p)
			if err != nil {
				return err
			}
			res, err := p.Check(sheetID, chartID)
			if err != nil {
				return err
			}

			if asJSON {
				data, err := output.ToJSON(res, pretty)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else if err := output.WriteCheckText(cmd.OutOrStdout(), res); err != nil {
				return err
			}

			if !res.Found {
				return &ExitError{Code: exitNotFound}
			}
			return nil
		},
	}

	addSheetFlags(cmd.Flags(), &sheet)
	cmd.Flags().StringVar(&chartID, "chart-id", "", "Drawing id or creation GUID of the chart")
	cmd.Flags().StringVar(&match, "match", "", "Match mode: auto, numeric, guid, prefer-guid (env: "+envMatch+")")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	addPrettyFlag(cmd.Flags(), &pretty)
	_ = cmd.MarkFlagRequired("chart-id")
	return cmd
}
