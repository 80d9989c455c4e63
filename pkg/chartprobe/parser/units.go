// Package parser reads the OOXML parts behind a workbook: relationships,
// workbook sheets, drawings and chart parts.
package parser

import "github.com/xuri/excelize/v2"

// EMUPerPixel is the number of EMUs (English Metric Units) per pixel at 96 DPI.
// 914400 EMU make an inch, so 914400 / 96 = 9525.
const EMUPerPixel = 9525

// EMUToPixels converts EMU to pixels at 96 DPI.
func EMUToPixels(emu int64) int {
	return int(emu / EMUPerPixel)
}

// MarkerCell converts a zero-based drawing marker (xdr:col, xdr:row) to an
// A1-style cell reference. It returns "" for out-of-range markers.
func MarkerCell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return ""
	}
	return name
}
