package chartprobe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PetLahev/chartprobe/pkg/chartprobe/models"
	"github.com/google/uuid"
)

// ChartIDKind tells which frame identifier a ChartID refers to.
type ChartIDKind int

const (
	// ChartIDNumeric is a drawing object id (cNvPr/@id).
	ChartIDNumeric ChartIDKind = iota + 1
	// ChartIDGUID is a creation GUID (a16:creationId/@id).
	ChartIDGUID
)

func (k ChartIDKind) String() string {
	switch k {
	case ChartIDNumeric:
		return "numeric"
	case ChartIDGUID:
		return "guid"
	}
	return ""
}

// ChartID is a parsed chart identifier.
type ChartID struct {
	Raw    string
	Kind   ChartIDKind
	Number int
	GUID   uuid.UUID
}

// ParseChartID parses a drawing id ("3") or a GUID. GUIDs may be braced,
// prefixed with urn:uuid: or written without hyphens, in any case.
func ParseChartID(s string) (ChartID, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return ChartID{}, fmt.Errorf("%w: empty", ErrInvalidChartID)
	}
	if n, err := strconv.ParseUint(raw, 10, 32); err == nil {
		return ChartID{Raw: raw, Kind: ChartIDNumeric, Number: int(n)}, nil
	}
	if g, err := uuid.Parse(raw); err == nil {
		return ChartID{Raw: raw, Kind: ChartIDGUID, GUID: g}, nil
	}
	return ChartID{}, fmt.Errorf("%w: %q is neither a drawing id nor a GUID", ErrInvalidChartID, raw)
}

// accepts reports an error when the match mode cannot compare this id.
func (id ChartID) accepts(mode MatchMode) error {
	switch {
	case mode == MatchNumeric && id.Kind != ChartIDNumeric:
		return fmt.Errorf("%w: %q is not a numeric drawing id", ErrInvalidChartID, id.Raw)
	case mode == MatchGUID && id.Kind != ChartIDGUID:
		return fmt.Errorf("%w: %q is not a GUID", ErrInvalidChartID, id.Raw)
	}
	return nil
}

// Matches reports whether the chart frame carries this id under mode.
func (id ChartID) Matches(ref models.ChartRef, mode MatchMode) bool {
	refGUID, hasGUID := creationGUID(ref)

	if mode == MatchPreferGUID && hasGUID {
		return id.Kind == ChartIDGUID && id.GUID == refGUID
	}

	switch id.Kind {
	case ChartIDGUID:
		if mode == MatchNumeric || mode == MatchPreferGUID {
			return false
		}
		return hasGUID && id.GUID == refGUID
	case ChartIDNumeric:
		if mode == MatchGUID {
			return false
		}
		return ref.ID != nil && *ref.ID == id.Number
	}
	return false
}

func creationGUID(ref models.ChartRef) (uuid.UUID, bool) {
	if ref.CreationID == "" {
		return uuid.Nil, false
	}
	g, err := uuid.Parse(strings.TrimSpace(ref.CreationID))
	if err != nil {
		return uuid.Nil, false
	}
	return g, true
}
