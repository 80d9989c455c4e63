package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// DefaultWorkbookPath is used when the package relationships do not name the
// main document.
const DefaultWorkbookPath = "xl/workbook.xml"

// SheetEntry describes a <sheet> element of workbook.xml joined with its
// workbook relationship.
type SheetEntry struct {
	Name    string
	SheetID int
	RelID   string
	// State is "", "hidden" or "veryHidden".
	State string
	// Kind is the relationship kind: worksheet, chartsheet, dialogsheet, xlMacrosheet.
	Kind string
	// Path is the resolved part name, empty when the relationship is missing.
	Path string
}

// WorkbookPath returns the main document part named by _rels/.rels.
func WorkbookPath(pkg *Package) string {
	rels, err := ReadRelationships(pkg, "")
	if err != nil {
		return DefaultWorkbookPath
	}
	if rel, ok := findRelationship(rels, "officeDocument"); ok {
		return ResolveTarget("", rel.Target)
	}
	return DefaultWorkbookPath
}

// ReadSheetEntries lists the workbook's sheets in tab order.
func ReadSheetEntries(pkg *Package) ([]SheetEntry, error) {
	wbPath := WorkbookPath(pkg)
	data, err := pkg.ReadPart(wbPath)
	if err != nil {
		return nil, err
	}
	entries, err := parseWorkbookSheets(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", wbPath, err)
	}

	rels, err := ReadRelationships(pkg, wbPath)
	if err != nil {
		if errors.Is(err, ErrPartNotFound) {
			return entries, nil
		}
		return nil, err
	}
	byID := make(map[string]Relationship, len(rels))
	for _, rel := range rels {
		byID[rel.ID] = rel
	}
	for i := range entries {
		rel, ok := byID[entries[i].RelID]
		if !ok || rel.External() {
			continue
		}
		entries[i].Kind = rel.Kind()
		entries[i].Path = ResolveTarget(wbPath, rel.Target)
	}
	return entries, nil
}

func parseWorkbookSheets(data []byte) ([]SheetEntry, error) {
	var entries []SheetEntry
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entries, err
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var entry SheetEntry
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "name":
				entry.Name = attr.Value
			case "sheetId":
				entry.SheetID, _ = strconv.Atoi(attr.Value)
			case "state":
				entry.State = attr.Value
			case "id":
				entry.RelID = attr.Value
			}
		}
		if entry.Name != "" && entry.RelID != "" {
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
