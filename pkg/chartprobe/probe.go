package chartprobe

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/PetLahev/chartprobe/pkg/chartprobe/models"
	"github.com/PetLahev/chartprobe/pkg/chartprobe/parser"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
)

// Probe is an open workbook that answers chart lookups. A Probe is not safe
// for concurrent use.
type Probe struct {
	bookName string
	file     *excelize.File
	pkg      *parser.Package
	sheets   []parser.SheetEntry
	opts     Options
	log      *slog.Logger
}

// ChartExists opens the workbook at path, reports whether the chart exists on
// the sheet, and closes the workbook.
func ChartExists(path string, sheetID int, chartID string, opts Options) (bool, error) {
	p, err := Open(path, opts)
	if err != nil {
		return false, err
	}
	defer p.Close()
	return p.ChartExists(sheetID, chartID)
}

// Open opens an xlsx workbook read-only.
func Open(path string, opts Options) (*Probe, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: file path was not provided", ErrInvalidArgument)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}

	container, err := DetectFileContainer(path)
	if err != nil {
		return nil, err
	}
	if err := container.admit(opts); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path, excelize.Options{Password: opts.Password})
	if err != nil {
		if f != nil {
			_ = f.Close()
		}
		return nil, openError(err, container)
	}
	return newProbe(f, filepath.Base(path), opts)
}

// OpenReader opens an xlsx workbook from r.
func OpenReader(r io.Reader, opts Options) (*Probe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	container, err := DetectContainer(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := container.admit(opts); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{Password: opts.Password})
	if err != nil {
		if f != nil {
			_ = f.Close()
		}
		return nil, openError(err, container)
	}
	return newProbe(f, "", opts)
}

func openError(err error, container Container) error {
	switch {
	case errors.Is(err, excelize.ErrWorkbookPassword):
		return fmt.Errorf("%w: %v", ErrPassword, err)
	case errors.Is(err, excelize.ErrWorkbookFileFormat), errors.Is(err, zip.ErrFormat):
		// A wrong password leaves undecryptable bytes, which read as a bad format.
		if container == ContainerEncrypted {
			return fmt.Errorf("%w: %v", ErrPassword, err)
		}
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return err
}

func newProbe(f *excelize.File, bookName string, opts Options) (*Probe, error) {
	pkg := parser.NewPackage(f)
	sheets, err := parser.ReadSheetEntries(pkg)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	p := &Probe{
		bookName: bookName,
		file:     f,
		pkg:      pkg,
		sheets:   sheets,
		opts:     opts,
		log:      opts.logger(),
	}
	p.log.Info("file opened", "book", bookName, "sheets", len(sheets))
	return p, nil
}

// Close releases the workbook.
func (p *Probe) Close() error {
	return p.file.Close()
}

// Logger returns the logger progress is reported to.
func (p *Probe) Logger() *slog.Logger {
	return p.log
}

// BookName returns the workbook file name, empty for OpenReader.
func (p *Probe) BookName() string {
	return p.bookName
}

// Sheets lists the workbook's sheets in tab order.
func (p *Probe) Sheets() ([]models.SheetRef, error) {
	names := p.file.GetSheetList()
	refs := make([]models.SheetRef, 0, len(names))
	for _, name := range names {
		entry, ok := p.entryByName(name)
		if !ok {
			continue
		}
		visible, err := p.file.GetSheetVisible(name)
		if err != nil {
			return nil, err
		}
		refs = append(refs, sheetRef(entry, visible))
	}
	return refs, nil
}

// SheetExists reports whether a sheet has the given sheetId.
func (p *Probe) SheetExists(sheetID int) bool {
	_, ok := p.resolveSheet(sheetID)
	return ok
}

// SheetIDByName returns the sheetId of the named sheet. Names are compared
// with Unicode case folding, as Excel does.
func (p *Probe) SheetIDByName(name string) (int, error) {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(name))
	for id, sheetName := range p.file.GetSheetMap() {
		if fold.String(sheetName) == want {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
}

// ListCharts returns the chart frames on a sheet in document order.
func (p *Probe) ListCharts(sheetID int) ([]models.ChartRef, error) {
	if sheetID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSheetID, sheetID)
	}
	entry, ok := p.resolveSheet(sheetID)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrSheetNotFound, sheetID)
	}
	return p.charts(entry, p.opts.ShouldReadChartParts())
}

// ChartExists reports whether the chart exists on the sheet. An unknown
// sheet or a blank chart id yields false without error.
func (p *Probe) ChartExists(sheetID int, chartID string) (bool, error) {
	res, err := p.Check(sheetID, chartID)
	if err != nil {
		return false, err
	}
	return res.Found, nil
}

// Check looks up a chart on a sheet and reports every matching frame.
func (p *Probe) Check(sheetID int, chartID string) (*models.CheckResult, error) {
	if sheetID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSheetID, sheetID)
	}

	mode := p.opts.matchMode()
	result := &models.CheckResult{
		BookName: p.bookName,
		SheetID:  sheetID,
		ChartID:  strings.TrimSpace(chartID),
		Match:    string(mode),
	}
	if result.ChartID == "" {
		p.log.Warn("no chart id provided")
		return result, nil
	}

	id, err := ParseChartID(chartID)
	if err != nil {
		return nil, err
	}
	if err := id.accepts(mode); err != nil {
		return nil, err
	}
	result.ChartIDKind = id.Kind.String()

	entry, ok := p.resolveSheet(sheetID)
	if !ok {
		p.log.Warn("couldn't find the worksheet", "sheet_id", sheetID)
		return result, nil
	}
	result.SheetFound = true
	result.SheetName = entry.Name
	p.log.Info("sheet found", "name", entry.Name, "rel_id", entry.RelID)

	charts, err := p.charts(entry, false)
	if err != nil {
		return nil, err
	}
	for _, ref := range charts {
		if id.Matches(ref, mode) {
			result.Matches = append(result.Matches, ref)
		}
	}
	result.Found = len(result.Matches) > 0
	if len(result.Matches) > 1 {
		result.Ambiguous = true
		p.log.Warn("chart id matched more than one chart; drawing ids are not unique, prefer the creation GUID",
			"chart_id", id.Raw, "matches", len(result.Matches))
	}
	return result, nil
}

// resolveSheet maps a sheetId to its workbook entry. excelize is the
// authority for id to name; the entry supplies the part path.
func (p *Probe) resolveSheet(sheetID int) (parser.SheetEntry, bool) {
	name, ok := p.file.GetSheetMap()[sheetID]
	if !ok {
		return parser.SheetEntry{}, false
	}
	for _, e := range p.sheets {
		if e.SheetID == sheetID && e.Name == name {
			return e, true
		}
	}
	return parser.SheetEntry{}, false
}

func (p *Probe) entryByName(name string) (parser.SheetEntry, bool) {
	for _, e := range p.sheets {
		if e.Name == name {
			return e, true
		}
	}
	return parser.SheetEntry{}, false
}

// charts walks sheet → drawing → anchors and returns the chart frames.
func (p *Probe) charts(entry parser.SheetEntry, withDetails bool) ([]models.ChartRef, error) {
	if entry.Path == "" {
		return nil, NewProbeError(entry.SheetID, "relationships", fmt.Errorf("no part for relationship %s", entry.RelID))
	}

	drawingPath, err := parser.SheetDrawingPath(p.pkg, entry.Path)
	if err != nil {
		return nil, NewProbeError(entry.SheetID, "relationships", err)
	}
	if drawingPath == "" {
		p.log.Info("no drawing on sheet", "sheet", entry.Name)
		return nil, nil
	}

	data, err := p.pkg.ReadPart(drawingPath)
	if err != nil {
		return nil, NewProbeError(entry.SheetID, "drawing", err)
	}
	p.log.Info("drawing part found, checking chart ids", "sheet", entry.Name, "part", drawingPath)

	frames, err := parser.ParseDrawing(data)
	if err != nil {
		return nil, NewProbeError(entry.SheetID, "drawing", err)
	}
	if err := parser.ResolveChartParts(p.pkg, drawingPath, frames); err != nil {
		return nil, NewProbeError(entry.SheetID, "relationships", err)
	}

	refs := make([]models.ChartRef, 0, len(frames))
	for _, fr := range frames {
		ref := chartRef(fr, p.opts.ShouldIncludeDimensions())
		if withDetails {
			ref.Chart = p.readChart(entry, fr)
		}
		p.log.Debug("chart frame", "sheet", entry.Name, "id", fr.ID, "name", fr.Name, "creation_id", fr.CreationID)
		refs = append(refs, ref)
	}
	return refs, nil
}

// readChart parses a frame's chart part. Failures are logged, not returned.
func (p *Probe) readChart(entry parser.SheetEntry, fr parser.Frame) *models.Chart {
	if fr.ChartPath == "" {
		p.log.Warn("chart relationship not found", "sheet", entry.Name, "rel_id", fr.ChartRelID)
		return nil
	}
	data, err := p.pkg.ReadPart(fr.ChartPath)
	if err != nil {
		p.log.Warn("chart part unreadable", "sheet", entry.Name, "part", fr.ChartPath, "error", err)
		return nil
	}
	chart, err := parser.ParseChart(data)
	if err != nil {
		p.log.Warn("chart part malformed", "sheet", entry.Name, "part", fr.ChartPath, "error", err)
		return nil
	}
	return chart
}

func chartRef(fr parser.Frame, withDimensions bool) models.ChartRef {
	ref := models.ChartRef{
		ID:         fr.ID,
		CreationID: fr.CreationID,
		Name:       fr.Name,
		Descr:      fr.Descr,
		Hidden:     fr.Hidden,
		Kind:       fr.ChartKind,
		Anchor:     fr.Anchor,
		From:       fr.From,
		To:         fr.To,
		Grouped:    fr.Grouped,
		Part:       fr.ChartPath,
		L:          fr.Left,
		T:          fr.Top,
	}
	if withDimensions {
		w := fr.Width
		h := fr.Height
		ref.W = &w
		ref.H = &h
	}
	return ref
}

func sheetRef(e parser.SheetEntry, visible bool) models.SheetRef {
	return models.SheetRef{
		SheetID: e.SheetID,
		Name:    e.Name,
		Kind:    e.Kind,
		State:   e.State,
		Visible: visible,
		Part:    e.Path,
	}
}
