// Package fixture assembles small xlsx packages part by part for tests.
// Unlike workbooks authored through excelize, these can carry creation GUIDs,
// group shapes, chartEx parts and broken relationships.
package fixture

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Frame is a drawing object placed on a sheet.
type Frame struct {
	// ID is written as cNvPr/@id.
	ID   int
	Name string
	// CreationID is written verbatim as a16:creationId/@id when set.
	CreationID string
	// Anchor is twoCellAnchor (default), oneCellAnchor or absoluteAnchor.
	Anchor  string
	Grouped bool
	// ChartEx writes a cx:chart wrapped in mc:AlternateContent.
	ChartEx bool
	// Picture writes an xdr:pic instead of a chart frame.
	Picture bool
	// Diagram writes a SmartArt graphic frame instead of a chart frame.
	Diagram bool
	// Title is the chart title; defaults to Name.
	Title string
}

// Sheet is a worksheet or chartsheet.
type Sheet struct {
	Name string
	// ID is the sheetId; defaults to the 1-based position.
	ID         int
	State      string
	Chartsheet bool
	Frames     []Frame
	// MissingDrawing references a drawing part that is not in the package.
	MissingDrawing bool
	// BrokenDrawing writes malformed drawing XML.
	BrokenDrawing bool
}

// Workbook describes a package to build.
type Workbook struct {
	Sheets []Sheet
}

const (
	nsMain   = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRel    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkgRel = "http://schemas.openxmlformats.org/package/2006/relationships"

	relWorksheet  = nsRel + "/worksheet"
	relChartsheet = nsRel + "/chartsheet"
	relDrawing    = nsRel + "/drawing"
	relVML        = nsRel + "/vmlDrawing"
	relChart      = nsRel + "/chart"
	relChartEx    = "http://schemas.microsoft.com/office/2014/relationships/chartEx"
	relOfficeDoc  = nsRel + "/officeDocument"
	xmlHeader     = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// Bytes renders the workbook as an xlsx package.
func (wb Workbook) Bytes() ([]byte, error) {
	parts := wb.parts()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders the workbook into a temporary directory and returns its path.
func Write(tb testing.TB, wb Workbook) string {
	tb.Helper()
	data, err := wb.Bytes()
	if err != nil {
		tb.Fatalf("building fixture: %v", err)
	}
	path := filepath.Join(tb.TempDir(), "fixture.xlsx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("writing fixture: %v", err)
	}
	return path
}

type part struct {
	name string
	body string
}

func (wb Workbook) parts() []part {
	var (
		parts     []part
		overrides []string
		sheets    strings.Builder
		wbRels    strings.Builder
	)

	for i, sh := range wb.Sheets {
		n := i + 1
		id := sh.ID
		if id == 0 {
			id = n
		}
		rID := fmt.Sprintf("rId%d", n)

		dir, relType, root, ctype := "worksheets", relWorksheet, "worksheet", "worksheet"
		if sh.Chartsheet {
			dir, relType, root, ctype = "chartsheets", relChartsheet, "chartsheet", "chartsheet"
		}
		sheetPart := fmt.Sprintf("xl/%s/sheet%d.xml", dir, n)

		state := ""
		if sh.State != "" {
			state = fmt.Sprintf(` state="%s"`, sh.State)
		}
		fmt.Fprintf(&sheets, `<sheet name="%s" sheetId="%d"%s r:id="%s"/>`, sh.Name, id, state, rID)
		fmt.Fprintf(&wbRels, `<Relationship Id="%s" Type="%s" Target="%s/sheet%d.xml"/>`, rID, relType, dir, n)
		overrides = append(overrides, override("/"+sheetPart, "application/vnd.openxmlformats-officedocument.spreadsheetml."+ctype+"+xml"))

		hasDrawing := len(sh.Frames) > 0 || sh.MissingDrawing || sh.BrokenDrawing
		body := `<sheetData/>`
		if sh.Chartsheet {
			body = `<sheetViews><sheetView workbookViewId="0"/></sheetViews>`
		}
		if hasDrawing {
			body += `<drawing r:id="rId2"/>`
		}
		parts = append(parts, part{sheetPart, fmt.Sprintf(`%s<%s xmlns="%s" xmlns:r="%s">%s</%s>`, xmlHeader, root, nsMain, nsRel, body, root)})
		if !hasDrawing {
			continue
		}

		drawingPart := fmt.Sprintf("xl/drawings/drawing%d.xml", n)
		parts = append(parts, part{
			fmt.Sprintf("xl/%s/_rels/sheet%d.xml.rels", dir, n),
			relationships(
				rel("rId1", relVML, fmt.Sprintf("../drawings/vmlDrawing%d.vml", n)),
				rel("rId2", relDrawing, fmt.Sprintf("../drawings/drawing%d.xml", n)),
			),
		})
		if sh.MissingDrawing {
			continue
		}
		if sh.BrokenDrawing {
			parts = append(parts, part{drawingPart, xmlHeader + `<xdr:wsDr xmlns:xdr="x"><xdr:twoCellAnchor>`})
			continue
		}
		overrides = append(overrides, override("/"+drawingPart, "application/vnd.openxmlformats-officedocument.drawing+xml"))

		var anchors strings.Builder
		var drawingRels []string
		for k, fr := range sh.Frames {
			chartRel := fmt.Sprintf("rId%d", k+1)
			anchors.WriteString(fr.anchorXML(k, chartRel))
			if fr.Picture || fr.Diagram {
				continue
			}
			if fr.ChartEx {
				chartPart := fmt.Sprintf("xl/charts/chartEx%d_%d.xml", n, k+1)
				drawingRels = append(drawingRels, rel(chartRel, relChartEx, "../charts/"+filepath.Base(chartPart)))
				parts = append(parts, part{chartPart, chartExXML(fr.title())})
				overrides = append(overrides, override("/"+chartPart, "application/vnd.ms-office.chartex+xml"))
				continue
			}
			chartPart := fmt.Sprintf("xl/charts/chart%d_%d.xml", n, k+1)
			drawingRels = append(drawingRels, rel(chartRel, relChart, "../charts/"+filepath.Base(chartPart)))
			parts = append(parts, part{chartPart, chartXML(fr.title(), sh.Name)})
			overrides = append(overrides, override("/"+chartPart, "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"))
		}
		parts = append(parts,
			part{drawingPart, drawingXML(anchors.String())},
			part{fmt.Sprintf("xl/drawings/_rels/drawing%d.xml.rels", n), relationships(drawingRels...)},
		)
	}

	head := []part{
		{"[Content_Types].xml", contentTypes(overrides)},
		{"_rels/.rels", relationships(rel("rId1", relOfficeDoc, "xl/workbook.xml"))},
		{"xl/workbook.xml", fmt.Sprintf(`%s<workbook xmlns="%s" xmlns:r="%s"><sheets>%s</sheets></workbook>`, xmlHeader, nsMain, nsRel, sheets.String())},
		{"xl/_rels/workbook.xml.rels", fmt.Sprintf(`%s<Relationships xmlns="%s">%s</Relationships>`, xmlHeader, nsPkgRel, wbRels.String())},
	}
	return append(head, parts...)
}

func (fr Frame) title() string {
	if fr.Title != "" {
		return fr.Title
	}
	return fr.Name
}

// anchorXML renders the k-th anchor of a drawing. Two-cell anchors start at
// column B, row 3 + 16k and span 7 columns by 15 rows.
func (fr Frame) anchorXML(k int, chartRel string) string {
	body := fr.bodyXML(chartRel)
	if fr.Grouped {
		body = fmt.Sprintf(`<xdr:grpSp><xdr:nvGrpSpPr><xdr:cNvPr id="%d" name="Group %d"/><xdr:cNvGrpSpPr/></xdr:nvGrpSpPr><xdr:grpSpPr/>%s</xdr:grpSp>`, 1000+fr.ID, fr.ID, body)
	}

	row := 2 + 16*k
	var anchor string
	switch fr.Anchor {
	case "oneCellAnchor":
		anchor = fmt.Sprintf(`<xdr:oneCellAnchor>%s<xdr:ext cx="4572000" cy="2743200"/>%s<xdr:clientData/></xdr:oneCellAnchor>`, marker("from", 1, row), body)
	case "absoluteAnchor":
		anchor = fmt.Sprintf(`<xdr:absoluteAnchor><xdr:pos x="0" y="0"/><xdr:ext cx="8670925" cy="6291263"/>%s<xdr:clientData/></xdr:absoluteAnchor>`, body)
	default:
		anchor = fmt.Sprintf(`<xdr:twoCellAnchor>%s%s%s<xdr:clientData/></xdr:twoCellAnchor>`, marker("from", 1, row), marker("to", 8, row+15), body)
	}

	if !fr.ChartEx {
		return anchor
	}
	fallback := fmt.Sprintf(`<xdr:twoCellAnchor>%s%s<xdr:sp macro="" textlink=""><xdr:nvSpPr><xdr:cNvPr id="%d" name="%s"/><xdr:cNvSpPr><a:spLocks noTextEdit="1"/></xdr:cNvSpPr></xdr:nvSpPr><xdr:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="4572000" cy="2743200"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></xdr:spPr><xdr:txBody><a:bodyPr/><a:p><a:r><a:t>This chart isn't available in your version of Excel.</a:t></a:r></a:p></xdr:txBody></xdr:sp><xdr:clientData/></xdr:twoCellAnchor>`,
		marker("from", 1, row), marker("to", 8, row+15), fr.ID, fr.Name)
	return `<mc:AlternateContent xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"><mc:Choice xmlns:cx1="http://schemas.microsoft.com/office/drawing/2015/9/8/chartex" Requires="cx1">` +
		anchor + `</mc:Choice><mc:Fallback>` + fallback + `</mc:Fallback></mc:AlternateContent>`
}

func (fr Frame) bodyXML(chartRel string) string {
	if fr.Picture {
		return fmt.Sprintf(`<xdr:pic><xdr:nvPicPr><xdr:cNvPr id="%d" name="%s"/><xdr:cNvPicPr><a:picLocks noChangeAspect="1"/></xdr:cNvPicPr></xdr:nvPicPr><xdr:blipFill><a:blip r:embed="rId99"/><a:stretch><a:fillRect/></a:stretch></xdr:blipFill><xdr:spPr><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></xdr:spPr></xdr:pic>`, fr.ID, fr.Name)
	}

	ext := ""
	if fr.CreationID != "" {
		ext = fmt.Sprintf(`<a:extLst><a:ext uri="{FF2B5EF4-FFF2-40B4-BE49-F238E27FC236}"><a16:creationId xmlns:a16="http://schemas.microsoft.com/office/drawing/2014/main" id="%s"/></a:ext></a:extLst>`, fr.CreationID)
	}

	var graphic string
	switch {
	case fr.Diagram:
		graphic = `<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/diagram"><dgm:relIds xmlns:dgm="http://schemas.openxmlformats.org/drawingml/2006/diagram" r:dm="rId90" r:lo="rId91" r:qs="rId92" r:cs="rId93"/></a:graphicData>`
	case fr.ChartEx:
		graphic = fmt.Sprintf(`<a:graphicData uri="http://schemas.microsoft.com/office/drawing/2014/chartex"><cx:chart xmlns:cx="http://schemas.microsoft.com/office/drawing/2014/chartex" r:id="%s"/></a:graphicData>`, chartRel)
	default:
		graphic = fmt.Sprintf(`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/chart"><c:chart xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" r:id="%s"/></a:graphicData>`, chartRel)
	}

	return fmt.Sprintf(`<xdr:graphicFrame macro=""><xdr:nvGraphicFramePr><xdr:cNvPr id="%d" name="%s">%s</xdr:cNvPr><xdr:cNvGraphicFramePr/></xdr:nvGraphicFramePr><xdr:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/></xdr:xfrm><a:graphic>%s</a:graphic></xdr:graphicFrame>`,
		fr.ID, fr.Name, ext, graphic)
}

func marker(name string, col, row int) string {
	return fmt.Sprintf(`<xdr:%s><xdr:col>%d</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>%d</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:%s>`, name, col, row, name)
}

func drawingXML(anchors string) string {
	return xmlHeader + `<xdr:wsDr xmlns:xdr="http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="` + nsRel + `">` +
		anchors + `</xdr:wsDr>`
}

func chartXML(title, sheet string) string {
	return fmt.Sprintf(`%s<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><c:chart><c:title><c:tx><c:rich><a:bodyPr/><a:p><a:r><a:t>%s</a:t></a:r></a:p></c:rich></c:tx></c:title><c:plotArea><c:barChart><c:barDir val="col"/><c:ser><c:idx val="0"/><c:tx><c:strRef><c:f>'%s'!$B$1</c:f><c:strCache><c:pt idx="0"><c:v>Sales</c:v></c:pt></c:strCache></c:strRef></c:tx><c:cat><c:strRef><c:f>'%s'!$A$2:$A$4</c:f></c:strRef></c:cat><c:val><c:numRef><c:f>'%s'!$B$2:$B$4</c:f></c:numRef></c:val></c:ser></c:barChart><c:catAx><c:axId val="1"/></c:catAx><c:valAx><c:axId val="2"/><c:scaling><c:max val="100"/><c:min val="0"/></c:scaling></c:valAx></c:plotArea></c:chart></c:chartSpace>`,
		xmlHeader, title, sheet, sheet, sheet)
}

func chartExXML(title string) string {
	return fmt.Sprintf(`%s<cx:chartSpace xmlns:cx="http://schemas.microsoft.com/office/drawing/2014/chartex" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><cx:chartData><cx:data id="0"><cx:numDim type="val"><cx:f>Sheet1!$B$2:$B$6</cx:f></cx:numDim></cx:data></cx:chartData><cx:chart><cx:title><cx:tx><cx:txData><cx:v>%s</cx:v></cx:txData></cx:tx></cx:title><cx:plotArea><cx:plotAreaRegion><cx:series layoutId="waterfall" uniqueId="{00000000-0001-0000-0000-000000000000}"><cx:tx><cx:txData><cx:f>Sheet1!$B$1</cx:f><cx:v>Cash</cx:v></cx:txData></cx:tx><cx:dataId val="0"/></cx:series></cx:plotAreaRegion></cx:plotArea></cx:chart></cx:chartSpace>`,
		xmlHeader, title)
}

func rel(id, typ, target string) string {
	return fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, id, typ, target)
}

func relationships(rels ...string) string {
	return fmt.Sprintf(`%s<Relationships xmlns="%s">%s</Relationships>`, xmlHeader, nsPkgRel, strings.Join(rels, ""))
}

func override(name, ctype string) string {
	return fmt.Sprintf(`<Override PartName="%s" ContentType="%s"/>`, name, ctype)
}

func contentTypes(overrides []string) string {
	return xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		override("/xl/workbook.xml", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml") +
		strings.Join(overrides, "") + `</Types>`
}
