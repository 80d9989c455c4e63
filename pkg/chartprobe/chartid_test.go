package chartprobe

import (
	"errors"
	"testing"

	"github.com/PetLahev/chartprobe/pkg/chartprobe/models"
)

func TestParseChartID(t *testing.T) {
	tests := []struct {
		input  string
		kind   ChartIDKind
		number int
		guid   string
	}{
		{"0", ChartIDNumeric, 0, ""},
		{"3", ChartIDNumeric, 3, ""},
		{" 42\t", ChartIDNumeric, 42, ""},
		{"4294967295", ChartIDNumeric, 4294967295, ""},
		{"{6F1E7C2A-3B4D-4E5F-8A9B-0C1D2E3F4A5B}", ChartIDGUID, 0, "6f1e7c2a-3b4d-4e5f-8a9b-0c1d2e3f4a5b"},
		{"6f1e7c2a-3b4d-4e5f-8a9b-0c1d2e3f4a5b", ChartIDGUID, 0, "6f1e7c2a-3b4d-4e5f-8a9b-0c1d2e3f4a5b"},
		{"urn:uuid:6f1e7c2a-3b4d-4e5f-8a9b-0c1d2e3f4a5b", ChartIDGUID, 0, "6f1e7c2a-3b4d-4e5f-8a9b-0c1d2e3f4a5b"},
		{"6F1E7C2A3B4D4E5F8A9B0C1D2E3F4A5B", ChartIDGUID, 0, "6f1e7c2a-3b4d-4e5f-8a9b-0c1d2e3f4a5b"},
	}

	for _, tt := range tests {
		id, err := ParseChartID(tt.input)
		if err != nil {
			t.Errorf("ParseChartID(%q) error: %v", tt.input, err)
			continue
		}
		if id.Kind != tt.kind || id.Number != tt.number {
			t.Errorf("ParseChartID(%q) = %v %d, expected %v %d", tt.input, id.Kind, id.Number, tt.kind, tt.number)
		}
		if tt.guid != "" && id.GUID.String() != tt.guid {
			t.Errorf("ParseChartID(%q).GUID = %s, expected %s", tt.input, id.GUID, tt.guid)
		}
	}
}

func TestParseChartIDInvalid(t *testing.T) {
	for _, input := range []string{"", "  ", "-1", "4294967296", "1.5", "Chart 1", "{6F1E7C2A-3B4D}", "0x10"} {
		if _, err := ParseChartID(input); !errors.Is(err, ErrInvalidChartID) {
			t.Errorf("ParseChartID(%q) error = %v, expected ErrInvalidChartID", input, err)
		}
	}
}

func TestChartIDMatches(t *testing.T) {
	two, three := 2, 3
	withGUID := models.ChartRef{ID: &two, CreationID: "{6F1E7C2A-3B4D-4E5F-8A9B-0C1D2E3F4A5B}"}
	withoutGUID := models.ChartRef{ID: &three}
	badGUID := models.ChartRef{ID: &three, CreationID: "not-a-guid"}
	noID := models.ChartRef{}

	guid := "{6f1e7c2a-3b4d-4e5f-8a9b-0c1d2e3f4a5b}"
	tests := []struct {
		chartID  string
		ref      models.ChartRef
		mode     MatchMode
		expected bool
	}{
		{"2", withGUID, MatchAuto, true},
		{guid, withGUID, MatchAuto, true},
		{"3", withoutGUID, MatchAuto, true},
		{guid, withoutGUID, MatchAuto, false},
		{"3", badGUID, MatchAuto, true},
		{"0", noID, MatchAuto, false},

		{"2", withGUID, MatchNumeric, true},
		{guid, withGUID, MatchNumeric, false},

		{guid, withGUID, MatchGUID, true},
		{"2", withGUID, MatchGUID, false},

		{"2", withGUID, MatchPreferGUID, false},
		{guid, withGUID, MatchPreferGUID, true},
		{"3", withoutGUID, MatchPreferGUID, true},
		{guid, withoutGUID, MatchPreferGUID, false},
		{"3", badGUID, MatchPreferGUID, true},
	}

	for _, tt := range tests {
		id, err := ParseChartID(tt.chartID)
		if err != nil {
			t.Fatalf("ParseChartID(%q): %v", tt.chartID, err)
		}
		if got := id.Matches(tt.ref, tt.mode); got != tt.expected {
			t.Errorf("ParseChartID(%q).Matches(%+v, %s) = %v, expected %v", tt.chartID, tt.ref, tt.mode, got, tt.expected)
		}
	}
}

func TestChartIDAccepts(t *testing.T) {
	num, _ := ParseChartID("2")
	guid, _ := ParseChartID("{6F1E7C2A-3B4D-4E5F-8A9B-0C1D2E3F4A5B}")

	tests := []struct {
		id      ChartID
		mode    MatchMode
		wantErr bool
	}{
		{num, MatchAuto, false},
		{guid, MatchAuto, false},
		{num, MatchNumeric, false},
		{guid, MatchNumeric, true},
		{num, MatchGUID, true},
		{guid, MatchGUID, false},
		{num, MatchPreferGUID, false},
		{guid, MatchPreferGUID, false},
	}
	for _, tt := range tests {
		err := tt.id.accepts(tt.mode)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q.accepts(%s) error = %v, wantErr %v", tt.id.Raw, tt.mode, err, tt.wantErr)
		}
	}
}
