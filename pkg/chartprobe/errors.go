package chartprobe

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound indicates the input file does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidFormat indicates the input is not a readable xlsx package.
	ErrInvalidFormat = errors.New("invalid xlsx format")
	// ErrPassword indicates an encrypted workbook could not be opened with the
	// supplied password.
	ErrPassword = errors.New("wrong or missing workbook password")
	// ErrInvalidArgument indicates a missing or malformed argument.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidSheetID indicates a sheet id that is not a positive integer.
	ErrInvalidSheetID = errors.New("invalid sheet id")
	// ErrInvalidChartID indicates a chart id that is neither a drawing id nor a
	// GUID, or one the match mode does not accept.
	ErrInvalidChartID = errors.New("invalid chart id")
	// ErrSheetNotFound indicates no sheet has the requested id or name.
	ErrSheetNotFound = errors.New("sheet not found")
)

// ProbeError represents a failure reading a sheet's drawing parts.
type ProbeError struct {
	SheetID   int
	Component string // "relationships", "drawing"
	Err       error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe error in sheet %d (%s): %v", e.SheetID, e.Component, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// NewProbeError creates a new ProbeError.
func NewProbeError(sheetID int, component string, err error) *ProbeError {
	return &ProbeError{
		SheetID:   sheetID,
		Component: component,
		Err:       err,
	}
}
