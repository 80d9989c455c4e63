package models

// WorkbookInfo lists the sheets of a workbook.
type WorkbookInfo struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets lists the sheets in tab order.
	Sheets []SheetRef `json:"sheets"`
}
