package main

import (
	"fmt"

	"github.com/PetLahev/chartprobe/pkg/chartprobe"
	"github.com/PetLahev/chartprobe/pkg/chartprobe/models"
	"github.com/PetLahev/chartprobe/pkg/chartprobe/output"
	"github.com/spf13/cobra"
)

func newSheetsCmd(root *rootOptions) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "sheets FILE",
		Short: "List sheets with their sheet ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProbe(cmd, root, args[0], chartprobe.DefaultOptions())
			if err != nil {
				return err
			}
			defer p.Close()

			sheets, err := p.Sheets()
			if err != nil {
				return err
			}
			data, err := output.ToJSON(models.WorkbookInfo{BookName: p.BookName(), Sheets: sheets}, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	addPrettyFlag(cmd.Flags(), &pretty)
	return cmd
}
