package models

// ChartSeries describes one series of a chart part.
type ChartSeries struct {
	// Name is the cached series name.
	Name string `json:"name"`
	// NameRange is the formula the name is read from.
	NameRange string `json:"name_range,omitempty"`
	// XRange is the category (or scatter X) range.
	XRange string `json:"x_range,omitempty"`
	// YRange is the value (or scatter Y) range.
	YRange string `json:"y_range,omitempty"`
}

// Chart holds what a chart part says about itself.
type Chart struct {
	// Kind is "chart" for c:chartSpace parts and "chartEx" for cx:chartSpace parts.
	Kind string `json:"kind"`
	// ChartType is the plot type (e.g. Bar, Line, Waterfall); "unknown" when absent.
	ChartType string `json:"chart_type"`
	// Title is the chart title text.
	Title string `json:"title,omitempty"`
	// YAxisTitle is the primary value axis title.
	YAxisTitle string `json:"y_axis_title,omitempty"`
	// YAxisRange is [min, max] of the primary value axis when both are fixed.
	YAxisRange []float64 `json:"y_axis_range,omitempty"`
	// Series lists the plotted series.
	Series []ChartSeries `json:"series"`
}

// ChartRef identifies a chart frame on a sheet's drawing.
type ChartRef struct {
	// ID is the drawing object id (cNvPr/@id). Not unique across a file's history.
	ID *int `json:"id,omitempty"`
	// CreationID is the Office 2010+ creation GUID as written in the file.
	CreationID string `json:"creation_id,omitempty"`
	// Name is the drawing object name, e.g. "Chart 1".
	Name string `json:"name"`
	// Descr is the alternative text.
	Descr string `json:"descr,omitempty"`
	// Hidden reports whether the frame is hidden.
	Hidden bool `json:"hidden,omitempty"`
	// Kind is "chart" or "chartEx".
	Kind string `json:"kind"`
	// Anchor is the anchor element (twoCellAnchor, oneCellAnchor, absoluteAnchor).
	Anchor string `json:"anchor"`
	// From is the top-left anchor cell.
	From string `json:"from,omitempty"`
	// To is the bottom-right anchor cell (two-cell anchors only).
	To string `json:"to,omitempty"`
	// Grouped reports whether the frame sits inside a group shape.
	Grouped bool `json:"grouped,omitempty"`
	// Part is the chart part name inside the package.
	Part string `json:"part,omitempty"`
	// L is the left offset in pixels.
	L int `json:"l"`
	// T is the top offset in pixels.
	T int `json:"t"`
	// W is the width in pixels (verbose mode only).
	W *int `json:"w,omitempty"`
	// H is the height in pixels (verbose mode only).
	H *int `json:"h,omitempty"`
	// Chart holds details read from the chart part (standard and verbose modes).
	Chart *Chart `json:"chart,omitempty"`
}
