package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrPartNotFound indicates that a package part is not present in the workbook.
var ErrPartNotFound = errors.New("package part not found")

// Package gives read-only access to the raw parts of an opened workbook.
// Parts are served from the excelize package store, so encrypted workbooks
// are read after excelize has decrypted them.
type Package struct {
	file *excelize.File
}

// NewPackage wraps an opened workbook.
func NewPackage(f *excelize.File) *Package {
	return &Package{file: f}
}

// ReadPart returns the bytes of the named part. Part names are matched
// case-insensitively, as OPC requires, after an exact lookup fails.
func (p *Package) ReadPart(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "/")
	if v, ok := p.file.Pkg.Load(name); ok {
		return partBytes(name, v)
	}

	var found any
	p.file.Pkg.Range(func(k, v any) bool {
		if key, ok := k.(string); ok && strings.EqualFold(key, name) {
			found = v
			return false
		}
		return true
	})
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	return partBytes(name, found)
}

func partBytes(name string, v any) ([]byte, error) {
	data, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("part %s: unexpected content type %T", name, v)
	}
	return data, nil
}

// Relationship is a single entry of a .rels part.
type Relationship struct {
	ID         string
	Type       string
	Target     string
	TargetMode string
}

// Kind returns the last segment of the relationship type, e.g. "drawing" or
// "chart". Transitional and strict type URIs share the same last segment.
func (r Relationship) Kind() string {
	return r.Type[strings.LastIndex(r.Type, "/")+1:]
}

// External reports whether the target lives outside the package.
func (r Relationship) External() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

// RelsPathFor returns the relationships part for a source part.
// The package itself (source "") maps to _rels/.rels.
func RelsPathFor(part string) string {
	dir, file := path.Split(strings.TrimPrefix(part, "/"))
	return dir + "_rels/" + file + ".rels"
}

// ResolveTarget resolves a relationship target against its source part.
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Join(path.Dir(strings.TrimPrefix(source, "/")), target)
}

// ReadRelationships reads the relationships of a source part. A missing
// .rels part yields an error wrapping ErrPartNotFound.
func ReadRelationships(pkg *Package, source string) ([]Relationship, error) {
	data, err := pkg.ReadPart(RelsPathFor(source))
	if err != nil {
		return nil, err
	}
	return parseRelationships(data)
}

func parseRelationships(data []byte) ([]Relationship, error) {
	var rels []Relationship
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rels, err
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var rel Relationship
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "Id":
				rel.ID = attr.Value
			case "Type":
				rel.Type = attr.Value
			case "Target":
				rel.Target = attr.Value
			case "TargetMode":
				rel.TargetMode = attr.Value
			}
		}
		if rel.ID != "" {
			rels = append(rels, rel)
		}
	}

	return rels, nil
}

// findRelationship returns the first internal relationship of the given kind.
func findRelationship(rels []Relationship, kind string) (Relationship, bool) {
	for _, rel := range rels {
		if rel.Kind() == kind && !rel.External() {
			return rel, true
		}
	}
	return Relationship{}, false
}

// walkChildren consumes tokens up to the end of the current element and calls
// visit for every nested start element. depth is 1 for direct children. visit
// reports whether it consumed the element's subtree itself.
func walkChildren(decoder *xml.Decoder, visit func(se xml.StartElement, depth int) bool) error {
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if visit != nil && visit(t, depth-1) {
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

func attrValue(se xml.StartElement, local string) string {
	for _, attr := range se.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}
