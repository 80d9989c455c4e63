package models

// CheckResult is the outcome of a chart existence check.
type CheckResult struct {
	BookName   string `json:"book_name,omitempty"`
	SheetID    int    `json:"sheet_id"`
	SheetName  string `json:"sheet_name,omitempty"`
	SheetFound bool   `json:"sheet_found"`
	ChartID    string `json:"chart_id"`
	// ChartIDKind is "numeric" or "guid"; empty when no chart id was given.
	ChartIDKind string `json:"chart_id_kind,omitempty"`
	Match       string `json:"match"`
	Found       bool   `json:"found"`
	// Ambiguous is set when a numeric id matched more than one frame.
	Ambiguous bool       `json:"ambiguous,omitempty"`
	Matches   []ChartRef `json:"matches,omitempty"`
}
