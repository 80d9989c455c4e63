// Package models defines the result types reported by chartprobe.
package models

// SheetRef identifies a sheet of a workbook.
type SheetRef struct {
	// SheetID is the workbook sheetId attribute. It is stable when sheets are
	// reordered and differs from the tab position.
	SheetID int `json:"sheet_id"`
	// Name is the tab name.
	Name string `json:"name"`
	// Kind is worksheet, chartsheet, dialogsheet or xlMacrosheet.
	Kind string `json:"kind"`
	// State is "hidden" or "veryHidden" for hidden sheets.
	State string `json:"state,omitempty"`
	// Visible reports whether the tab is shown.
	Visible bool `json:"visible"`
	// Part is the sheet part name inside the package.
	Part string `json:"part,omitempty"`
}

// SheetCharts pairs a sheet with the charts found on it.
type SheetCharts struct {
	Sheet  SheetRef   `json:"sheet"`
	Charts []ChartRef `json:"charts"`
}
