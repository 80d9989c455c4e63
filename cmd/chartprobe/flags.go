package main

import (
	"fmt"

	"github.com/PetLahev/chartprobe/pkg/chartprobe"
	"github.com/spf13/pflag"
)

// sheetSelector picks a sheet by sheetId or by name.
type sheetSelector struct {
	id   int
	name string
	fs   *pflag.FlagSet
}

func addSheetFlags(fs *pflag.FlagSet, sel *sheetSelector) {
	sel.fs = fs
	fs.IntVar(&sel.id, "sheet-id", 0, "Sheet id (the workbook sheetId, not the tab position)")
	fs.StringVar(&sel.name, "sheet", "", "Sheet name, case-insensitive")
}

func addPrettyFlag(fs *pflag.FlagSet, pretty *bool) {
	fs.BoolVar(pretty, "pretty", false, "Pretty-print JSON output")
}

// given reports whether either sheet flag was set.
func (s *sheetSelector) given() bool {
	return s.fs.Changed("sheet-id") || s.fs.Changed("sheet")
}

// resolve returns the selected sheetId. A name is looked up in the workbook.
func (s *sheetSelector) resolve(p *chartprobe.Probe) (int, error) {
	idSet, nameSet := s.fs.Changed("sheet-id"), s.fs.Changed("sheet")
	switch {
	case idSet && nameSet:
		return 0, fmt.Errorf("%w: use either --sheet-id or --sheet, not both", chartprobe.ErrInvalidArgument)
	case nameSet:
		return p.SheetIDByName(s.name)
	case idSet:
		return s.id, nil
	}
	return 0, fmt.Errorf("%w: --sheet-id or --sheet is required", chartprobe.ErrInvalidArgument)
}
