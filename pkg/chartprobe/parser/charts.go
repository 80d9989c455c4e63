package parser

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/PetLahev/chartprobe/pkg/chartprobe/models"
)

// ChartTypeMap maps OOXML plot elements to chart type names.
var ChartTypeMap = map[string]string{
	"lineChart":      "Line",
	"line3DChart":    "3DLine",
	"barChart":       "Bar",
	"bar3DChart":     "3DBar",
	"areaChart":      "Area",
	"area3DChart":    "3DArea",
	"pieChart":       "Pie",
	"pie3DChart":     "3DPie",
	"doughnutChart":  "Doughnut",
	"scatterChart":   "XYScatter",
	"bubbleChart":    "Bubble",
	"radarChart":     "Radar",
	"surfaceChart":   "Surface",
	"surface3DChart": "3DSurface",
	"stockChart":     "Stock",
	"ofPieChart":     "PieOfPie",
}

// ChartExTypeMap maps chartEx series layout ids (Office 2016 chart types) to
// chart type names.
var ChartExTypeMap = map[string]string{
	"waterfall":       "Waterfall",
	"funnel":          "Funnel",
	"treemap":         "Treemap",
	"sunburst":        "Sunburst",
	"boxWhisker":      "BoxWhisker",
	"clusteredColumn": "Histogram",
	"paretoLine":      "Pareto",
	"regionMap":       "Map",
}

// ParseChart reads the type, title, primary value axis and series of a chart
// or chartEx part.
func ParseChart(data []byte) (*models.Chart, error) {
	chart := &models.Chart{Kind: ChartKindChart}
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "chartSpace":
			if strings.Contains(strings.ToLower(se.Name.Space), "chartex") {
				chart.Kind = ChartKindChartEx
			}
		case "chart":
			if err := parseChartElement(decoder, chart); err != nil && err != io.EOF {
				return nil, err
			}
		}
	}

	if chart.ChartType == "" {
		chart.ChartType = "unknown"
	}
	return chart, nil
}

// parseChartElement parses c:chart or cx:chart.
func parseChartElement(decoder *xml.Decoder, chart *models.Chart) error {
	return walkChildren(decoder, func(se xml.StartElement, depth int) bool {
		switch se.Name.Local {
		case "title":
			if depth == 1 {
				chart.Title = parseTitle(decoder)
				return true
			}
		case "plotArea":
			parsePlotArea(decoder, chart)
			return true
		}
		return false
	})
}

// parseTitle concatenates the rich text runs of a title, or its cached
// value when the title comes from a formula.
func parseTitle(decoder *xml.Decoder) string {
	var title strings.Builder

	_ = walkChildren(decoder, func(se xml.StartElement, _ int) bool {
		switch se.Name.Local {
		case "t", "v":
			if txt, err := readElementText(decoder); err == nil {
				title.WriteString(txt)
			}
			return true
		}
		return false
	})

	return strings.TrimSpace(title.String())
}

// parsePlotArea reads plot types, series and the primary value axis. Combo
// charts keep the first plot type and the series of every plot.
func parsePlotArea(decoder *xml.Decoder, chart *models.Chart) {
	seenValAx := false

	_ = walkChildren(decoder, func(se xml.StartElement, _ int) bool {
		if ct, ok := ChartTypeMap[se.Name.Local]; ok {
			if chart.ChartType == "" {
				chart.ChartType = ct
			}
			chart.Series = append(chart.Series, parseSeriesList(decoder)...)
			return true
		}

		switch se.Name.Local {
		case "valAx":
			if seenValAx {
				return false
			}
			seenValAx = true
			chart.YAxisTitle, chart.YAxisRange = parseValueAxis(decoder)
			return true
		case "series":
			// chartEx: the layout id names the chart type.
			if ct, ok := ChartExTypeMap[attrValue(se, "layoutId")]; ok && chart.ChartType == "" {
				chart.ChartType = ct
			}
			chart.Series = append(chart.Series, parseSingleSeries(decoder))
			return true
		}
		return false
	})
}

// parseSeriesList parses the c:ser children of a plot element.
func parseSeriesList(decoder *xml.Decoder) []models.ChartSeries {
	var series []models.ChartSeries

	_ = walkChildren(decoder, func(se xml.StartElement, _ int) bool {
		if se.Name.Local == "ser" {
			series = append(series, parseSingleSeries(decoder))
			return true
		}
		return false
	})

	return series
}

func parseSingleSeries(decoder *xml.Decoder) models.ChartSeries {
	var s models.ChartSeries

	_ = walkChildren(decoder, func(se xml.StartElement, _ int) bool {
		switch se.Name.Local {
		case "tx":
			s.Name, s.NameRange = parseSeriesName(decoder)
			return true
		case "cat", "xVal":
			s.XRange = parseFormula(decoder)
			return true
		case "val", "yVal":
			s.YRange = parseFormula(decoder)
			return true
		}
		return false
	})

	return s
}

// parseSeriesName reads the name formula (f) and its cached value (v).
func parseSeriesName(decoder *xml.Decoder) (name, nameRange string) {
	_ = walkChildren(decoder, func(se xml.StartElement, _ int) bool {
		switch se.Name.Local {
		case "f":
			if txt, err := readElementText(decoder); err == nil {
				nameRange = strings.TrimSpace(txt)
			}
			return true
		case "v":
			if txt, err := readElementText(decoder); err == nil && name == "" {
				name = strings.TrimSpace(txt)
			}
			return true
		}
		return false
	})
	return
}

// parseFormula returns the first formula (f) below the current element.
func parseFormula(decoder *xml.Decoder) string {
	var formula string

	_ = walkChildren(decoder, func(se xml.StartElement, _ int) bool {
		if se.Name.Local == "f" && formula == "" {
			if txt, err := readElementText(decoder); err == nil {
				formula = strings.TrimSpace(txt)
			}
			return true
		}
		return false
	})

	return formula
}

func parseValueAxis(decoder *xml.Decoder) (title string, axisRange []float64) {
	var lo, hi *float64

	_ = walkChildren(decoder, func(se xml.StartElement, _ int) bool {
		switch se.Name.Local {
		case "title":
			title = parseTitle(decoder)
			return true
		case "min", "max":
			v, err := strconv.ParseFloat(attrValue(se, "val"), 64)
			if err != nil {
				return false
			}
			if se.Name.Local == "min" {
				lo = &v
			} else {
				hi = &v
			}
		}
		return false
	})

	if lo != nil && hi != nil {
		axisRange = []float64{*lo, *hi}
	}
	return
}
