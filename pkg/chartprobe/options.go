// Package chartprobe reports whether a chart exists on a worksheet of an
// xlsx workbook, identified by its drawing id or its creation GUID.
package chartprobe

import (
	"fmt"
	"log/slog"
	"strings"
)

// Mode represents how much detail is read for each chart.
type Mode string

const (
	// ModeLight reads drawing frames only (ids, names, anchors).
	ModeLight Mode = "light"
	// ModeStandard also reads each chart part (type, title, series).
	ModeStandard Mode = "standard"
	// ModeVerbose also reports frame dimensions.
	ModeVerbose Mode = "verbose"
)

// MatchMode selects which identifier of a chart frame a chart id is compared with.
type MatchMode string

const (
	// MatchAuto compares GUID ids with the creation GUID and numeric ids with
	// the drawing id.
	MatchAuto MatchMode = "auto"
	// MatchNumeric accepts numeric drawing ids only.
	MatchNumeric MatchMode = "numeric"
	// MatchGUID accepts creation GUIDs only.
	MatchGUID MatchMode = "guid"
	// MatchPreferGUID matches frames that carry a creation GUID by GUID only,
	// and other frames by drawing id.
	MatchPreferGUID MatchMode = "prefer-guid"
)

// ParseMode parses a detail mode name. An empty string yields ModeStandard.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeStandard:
		return ModeStandard, nil
	case ModeLight:
		return ModeLight, nil
	case ModeVerbose:
		return ModeVerbose, nil
	}
	return "", fmt.Errorf("%w: invalid mode %q (must be light, standard, or verbose)", ErrInvalidArgument, s)
}

// ParseMatchMode parses a match mode name. An empty string yields MatchAuto.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchAuto:
		return MatchAuto, nil
	case MatchNumeric, "simple":
		return MatchNumeric, nil
	case MatchGUID:
		return MatchGUID, nil
	case MatchPreferGUID:
		return MatchPreferGUID, nil
	}
	return "", fmt.Errorf("%w: invalid match mode %q (must be auto, numeric, guid, or prefer-guid)", ErrInvalidArgument, s)
}

// Options configures a Probe.
type Options struct {
	// Mode specifies how much chart detail ListCharts reads.
	Mode Mode
	// Match specifies how chart ids are compared. Defaults to MatchAuto.
	Match MatchMode
	// Password opens encrypted workbooks.
	Password string
	// Logger receives progress messages. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns default probe options.
func DefaultOptions() Options {
	return Options{
		Mode:  ModeStandard,
		Match: MatchAuto,
	}
}

// ShouldReadChartParts returns whether chart parts are parsed for details.
func (o Options) ShouldReadChartParts() bool {
	return o.Mode != ModeLight
}

// ShouldIncludeDimensions returns whether frame sizes are reported.
func (o Options) ShouldIncludeDimensions() bool {
	return o.Mode == ModeVerbose
}

func (o Options) matchMode() MatchMode {
	if o.Match == "" {
		return MatchAuto
	}
	return o.Match
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
