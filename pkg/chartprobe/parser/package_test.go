package parser

import (
	"bytes"
	"errors"
	"testing"

	"github.com/PetLahev/chartprobe/internal/fixture"
	"github.com/xuri/excelize/v2"
)

func openFixture(t *testing.T, wb fixture.Workbook) *Package {
	t.Helper()
	data, err := wb.Bytes()
	if err != nil {
		t.Fatalf("building fixture: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("opening fixture: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return NewPackage(f)
}

func TestRelsPathFor(t *testing.T) {
	tests := []struct {
		part     string
		expected string
	}{
		{"", "_rels/.rels"},
		{"xl/workbook.xml", "xl/_rels/workbook.xml.rels"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/_rels/sheet1.xml.rels"},
		{"/xl/drawings/drawing2.xml", "xl/drawings/_rels/drawing2.xml.rels"},
	}

	for _, tt := range tests {
		if got := RelsPathFor(tt.part); got != tt.expected {
			t.Errorf("RelsPathFor(%q) = %q, expected %q", tt.part, got, tt.expected)
		}
	}
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		source   string
		target   string
		expected string
	}{
		{"", "xl/workbook.xml", "xl/workbook.xml"},
		{"xl/workbook.xml", "worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/worksheets/sheet1.xml", "../drawings/drawing1.xml", "xl/drawings/drawing1.xml"},
		{"xl/drawings/drawing1.xml", "../charts/chart1.xml", "xl/charts/chart1.xml"},
		{"xl/workbook.xml", "/xl/worksheets/sheet2.xml", "xl/worksheets/sheet2.xml"},
	}

	for _, tt := range tests {
		if got := ResolveTarget(tt.source, tt.target); got != tt.expected {
			t.Errorf("ResolveTarget(%q, %q) = %q, expected %q", tt.source, tt.target, got, tt.expected)
		}
	}
}

func TestParseRelationships(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/vmlDrawing" Target="../drawings/vmlDrawing1.vml"/>
  <Relationship Id="rId2" Type="http://purl.oclc.org/ooxml/officeDocument/relationships/drawing" Target="../drawings/drawing1.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com" TargetMode="External"/>
</Relationships>`)

	rels, err := parseRelationships(data)
	if err != nil {
		t.Fatalf("parseRelationships failed: %v", err)
	}
	if len(rels) != 3 {
		t.Fatalf("Expected 3 relationships, got %d", len(rels))
	}
	if rels[0].Kind() != "vmlDrawing" {
		t.Errorf("Expected vmlDrawing, got %q", rels[0].Kind())
	}
	if rels[1].Kind() != "drawing" {
		t.Errorf("Expected strict drawing type to map to drawing, got %q", rels[1].Kind())
	}
	if !rels[2].External() {
		t.Errorf("Expected hyperlink to be external")
	}

	rel, ok := findRelationship(rels, "drawing")
	if !ok || rel.ID != "rId2" {
		t.Errorf("findRelationship(drawing) = %+v, %v; expected rId2", rel, ok)
	}
	if _, ok := findRelationship(rels, "hyperlink"); ok {
		t.Errorf("External relationships must not be returned")
	}
}

func TestPackageReadPart(t *testing.T) {
	pkg := openFixture(t, fixture.Workbook{Sheets: []fixture.Sheet{{Name: "Sheet1"}}})

	data, err := pkg.ReadPart("xl/workbook.xml")
	if err != nil {
		t.Fatalf("ReadPart failed: %v", err)
	}
	if !bytes.Contains(data, []byte(`name="Sheet1"`)) {
		t.Errorf("Unexpected workbook content: %s", data)
	}

	if _, err := pkg.ReadPart("/XL/Workbook.xml"); err != nil {
		t.Errorf("Expected case-insensitive lookup with leading slash to succeed, got %v", err)
	}

	_, err = pkg.ReadPart("xl/drawings/drawing9.xml")
	if !errors.Is(err, ErrPartNotFound) {
		t.Errorf("Expected ErrPartNotFound, got %v", err)
	}
}
