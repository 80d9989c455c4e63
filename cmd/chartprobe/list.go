package main

import (
	"fmt"

	"github.com/PetLahev/chartprobe/pkg/chartprobe"
	"github.com/PetLahev/chartprobe/pkg/chartprobe/models"
	"github.com/PetLahev/chartprobe/pkg/chartprobe/output"
	"github.com/spf13/cobra"
)

func newListCmd(root *rootOptions) *cobra.Command {
	var (
		sheet  sheetSelector
		mode   string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "list FILE",
		Short: "List the charts of one sheet, or of every sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := chartprobe.ParseMode(mode)
			if err != nil {
				return err
			}
			opts := chartprobe.DefaultOptions()
			opts.Mode = detail

			p, err := openProbe(cmd, root, args[0], opts)
			if err != nil {
				return err
			}
			defer p.Close()

			var result any
			if sheet.given() {
				sheetID, err := sheet.resolve(p)
				if err != nil {
					return err
				}
				charts, err := p.ListCharts(sheetID)
				if err != nil {
					return err
				}
				if charts == nil {
					charts = []models.ChartRef{}
				}
				result = charts
			} else {
				all, err := listAll(p)
				if err != nil {
					return err
				}
				result = all
			}

			data, err := output.ToJSON(result, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	addSheetFlags(cmd.Flags(), &sheet)
	cmd.Flags().StringVar(&mode, "mode", "standard", "Detail mode: light, standard, verbose")
	addPrettyFlag(cmd.Flags(), &pretty)
	return cmd
}

// listAll lists the charts of every sheet in tab order. A sheet whose
// drawing cannot be read is reported with no charts.
func listAll(p *chartprobe.Probe) ([]models.SheetCharts, error) {
	sheets, err := p.Sheets()
	if err != nil {
		return nil, err
	}

	log := p.Logger()
	all := make([]models.SheetCharts, 0, len(sheets))
	for _, s := range sheets {
		charts, err := p.ListCharts(s.SheetID)
		if err != nil {
			log.Warn("skipping sheet", "sheet", s.Name, "error", err)
		}
		if charts == nil {
			charts = []models.ChartRef{}
		}
		all = append(all, models.SheetCharts{Sheet: s, Charts: charts})
	}
	return all, nil
}
