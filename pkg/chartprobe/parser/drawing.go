package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Anchor element names of a SpreadsheetML drawing.
const (
	AnchorTwoCell  = "twoCellAnchor"
	AnchorOneCell  = "oneCellAnchor"
	AnchorAbsolute = "absoluteAnchor"
)

// Chart part families referenced from a graphic frame.
const (
	ChartKindChart   = "chart"
	ChartKindChartEx = "chartEx"
)

// Frame is a graphic frame in a drawing whose graphic data references a chart.
type Frame struct {
	// ID is cNvPr/@id. It is nil when the attribute is missing or not a number.
	ID     *int
	Name   string
	Descr  string
	Hidden bool
	// CreationID is a16:creationId/@id as written, usually "{GUID}".
	CreationID string
	ChartRelID string
	ChartKind  string
	// ChartPath is filled by ResolveChartParts.
	ChartPath string

	Anchor  string
	From    string
	To      string
	Grouped bool
	// Position and size in pixels, from the frame transform or the anchor.
	Left   int
	Top    int
	Width  int
	Height int
}

// anchorGeometry holds the placement recorded directly on an anchor element.
type anchorGeometry struct {
	from, to                 string
	left, top, width, height int
}

// SheetDrawingPath returns the drawing part of a sheet part, or "" when the
// sheet has no drawing.
func SheetDrawingPath(pkg *Package, sheetPath string) (string, error) {
	rels, err := ReadRelationships(pkg, sheetPath)
	if err != nil {
		if errors.Is(err, ErrPartNotFound) {
			return "", nil
		}
		return "", err
	}
	rel, ok := findRelationship(rels, "drawing")
	if !ok {
		return "", nil
	}
	return ResolveTarget(sheetPath, rel.Target), nil
}

// ResolveChartParts sets ChartPath on each frame from the drawing's
// relationships. Frames whose relationship is missing keep an empty path.
func ResolveChartParts(pkg *Package, drawingPath string, frames []Frame) error {
	rels, err := ReadRelationships(pkg, drawingPath)
	if err != nil {
		if errors.Is(err, ErrPartNotFound) {
			return nil
		}
		return err
	}

	targets := make(map[string]string)
	for _, rel := range rels {
		if rel.External() {
			continue
		}
		switch rel.Kind() {
		case ChartKindChart, ChartKindChartEx:
			targets[rel.ID] = ResolveTarget(drawingPath, rel.Target)
		}
	}
	for i := range frames {
		frames[i].ChartPath = targets[frames[i].ChartRelID]
	}
	return nil
}

// ParseDrawing returns the chart frames of a drawing part in document order.
// Pictures, shapes and graphic frames without a chart are skipped. Frames
// nested in group shapes or an mc:Choice are included; mc:Fallback content is
// ignored so a frame is never counted twice.
func ParseDrawing(data []byte) ([]Frame, error) {
	var frames []Frame
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return frames, err
		}

		if se, ok := token.(xml.StartElement); ok {
			switch se.Name.Local {
			case AnchorTwoCell, AnchorOneCell, AnchorAbsolute:
				frames = append(frames, parseAnchor(decoder, se)...)
			case "Fallback":
				if err := decoder.Skip(); err != nil {
					return frames, err
				}
			}
		}
	}

	return frames, nil
}

// parseAnchor parses one anchor and applies its placement to the frames in it.
func parseAnchor(decoder *xml.Decoder, start xml.StartElement) []Frame {
	var frames []Frame
	var geo anchorGeometry

	_ = walkChildren(decoder, func(se xml.StartElement, depth int) bool {
		switch se.Name.Local {
		case "from", "to":
			if depth != 1 {
				return false
			}
			cell := parseMarker(decoder)
			if se.Name.Local == "from" {
				geo.from = cell
			} else {
				geo.to = cell
			}
			return true
		case "pos":
			if depth == 1 {
				geo.left = emuAttr(se, "x")
				geo.top = emuAttr(se, "y")
			}
		case "ext":
			if depth == 1 {
				geo.width = emuAttr(se, "cx")
				geo.height = emuAttr(se, "cy")
			}
		case "graphicFrame":
			if f, ok := parseGraphicFrame(decoder); ok {
				frames = append(frames, f)
			}
			return true
		case "grpSp":
			frames = append(frames, parseGroupShape(decoder)...)
			return true
		case "Fallback":
			_ = decoder.Skip()
			return true
		}
		return false
	})

	for i := range frames {
		frames[i].Anchor = start.Name.Local
		frames[i].From = geo.from
		frames[i].To = geo.to
		if frames[i].Width == 0 && frames[i].Height == 0 {
			frames[i].Width, frames[i].Height = geo.width, geo.height
		}
		if frames[i].Left == 0 && frames[i].Top == 0 {
			frames[i].Left, frames[i].Top = geo.left, geo.top
		}
	}
	return frames
}

// parseGroupShape collects chart frames from a group shape, recursively.
func parseGroupShape(decoder *xml.Decoder) []Frame {
	var frames []Frame

	_ = walkChildren(decoder, func(se xml.StartElement, _ int) bool {
		switch se.Name.Local {
		case "graphicFrame":
			if f, ok := parseGraphicFrame(decoder); ok {
				f.Grouped = true
				frames = append(frames, f)
			}
			return true
		case "grpSp":
			frames = append(frames, parseGroupShape(decoder)...)
			return true
		case "Fallback":
			_ = decoder.Skip()
			return true
		}
		return false
	})

	return frames
}

// parseGraphicFrame parses a graphic frame. ok is false when the frame does
// not hold a chart.
func parseGraphicFrame(decoder *xml.Decoder) (f Frame, ok bool) {
	_ = walkChildren(decoder, func(se xml.StartElement, _ int) bool {
		switch se.Name.Local {
		case "cNvPr":
			parseCNvPr(decoder, se, &f)
			return true
		case "xfrm":
			f.Left, f.Top, f.Width, f.Height = parseXfrm(decoder)
			return true
		case "chart":
			f.ChartRelID = attrValue(se, "id")
			f.ChartKind = ChartKindChart
			if strings.Contains(strings.ToLower(se.Name.Space), "chartex") {
				f.ChartKind = ChartKindChartEx
			}
		}
		return false
	})

	return f, f.ChartRelID != ""
}

// parseCNvPr reads the non-visual properties of a frame, including the
// Office 2010+ creation GUID from its extension list.
func parseCNvPr(decoder *xml.Decoder, start xml.StartElement, f *Frame) {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "id":
			// Drawing ids are unsigned 32-bit (ST_DrawingElementId).
			if n, err := strconv.ParseUint(strings.TrimSpace(attr.Value), 10, 32); err == nil {
				id := int(n)
				f.ID = &id
			}
		case "name":
			f.Name = attr.Value
		case "descr":
			f.Descr = attr.Value
		case "hidden":
			f.Hidden = attr.Value == "1" || attr.Value == "true"
		}
	}

	_ = walkChildren(decoder, func(se xml.StartElement, _ int) bool {
		if se.Name.Local == "creationId" {
			f.CreationID = attrValue(se, "id")
		}
		return false
	})
}

// parseMarker reads an xdr:from or xdr:to marker as a cell reference.
func parseMarker(decoder *xml.Decoder) string {
	col, row := -1, -1

	_ = walkChildren(decoder, func(se xml.StartElement, _ int) bool {
		switch se.Name.Local {
		case "col", "row":
			txt, err := readElementText(decoder)
			if err != nil {
				return true
			}
			if v, err := strconv.Atoi(strings.TrimSpace(txt)); err == nil {
				if se.Name.Local == "col" {
					col = v
				} else {
					row = v
				}
			}
			return true
		}
		return false
	})

	if col < 0 || row < 0 {
		return ""
	}
	return MarkerCell(col, row)
}

// parseXfrm parses a frame transform for position and size in pixels.
func parseXfrm(decoder *xml.Decoder) (left, top, width, height int) {
	_ = walkChildren(decoder, func(se xml.StartElement, _ int) bool {
		switch se.Name.Local {
		case "off":
			left, top = emuAttr(se, "x"), emuAttr(se, "y")
		case "ext":
			width, height = emuAttr(se, "cx"), emuAttr(se, "cy")
		}
		return false
	})
	return
}

func emuAttr(se xml.StartElement, local string) int {
	v, err := strconv.ParseInt(attrValue(se, local), 10, 64)
	if err != nil {
		return 0
	}
	return EMUToPixels(v)
}
