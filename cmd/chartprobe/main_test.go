package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PetLahev/chartprobe/internal/fixture"
	"github.com/PetLahev/chartprobe/pkg/chartprobe"
	"github.com/PetLahev/chartprobe/pkg/chartprobe/models"
	"github.com/xuri/excelize/v2"
)

const testGUID = "{6F1E7C2A-3B4D-4E5F-8A9B-0C1D2E3F4A5B}"

var cliWorkbook = fixture.Workbook{Sheets: []fixture.Sheet{
	{Name: "Data", ID: 1, Frames: []fixture.Frame{
		{ID: 2, Name: "Chart 1", CreationID: testGUID},
		{ID: 3, Name: "Chart 2"},
	}},
	{Name: "Report", ID: 4},
	{Name: "Broken", ID: 5, BrokenDrawing: true},
}}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func TestCheckCommand(t *testing.T) {
	t.Setenv(envMatch, "")
	path := fixture.Write(t, cliWorkbook)

	tests := []struct {
		name     string
		args     []string
		code     int
		expected string
	}{
		{"found by id", []string{"--sheet-id", "1", "--chart-id", "3"}, 0, "The chart was FOUND"},
		{"found by GUID", []string{"--sheet-id", "1", "--chart-id", testGUID}, 0, "The chart was FOUND"},
		{"found by sheet name", []string{"--sheet", "data", "--chart-id", "2"}, 0, "sheet: Data (id 1)"},
		{"not found", []string{"--sheet-id", "1", "--chart-id", "9"}, 2, "The chart was NOT FOUND"},
		{"empty sheet", []string{"--sheet-id", "4", "--chart-id", "2"}, 2, "The chart was NOT FOUND"},
		{"unknown sheet id", []string{"--sheet-id", "7", "--chart-id", "2"}, 2, "sheet id 7 not found"},
		{"blank chart id", []string{"--sheet-id", "1", "--chart-id", ""}, 2, "no chart id given"},
		{"prefer-guid", []string{"--sheet-id", "1", "--chart-id", "2", "--match", "prefer-guid"}, 2, "The chart was NOT FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, append([]string{"check", path}, tt.args...)...)
			if got := exitCode(err); got != tt.code {
				t.Fatalf("exit code = %d (%v), expected %d", got, err, tt.code)
			}
			if !strings.Contains(stdout, tt.expected) {
				t.Errorf("expected %q in output:\n%s", tt.expected, stdout)
			}
		})
	}
}

func TestCheckCommandErrors(t *testing.T) {
	t.Setenv(envMatch, "")
	path := fixture.Write(t, cliWorkbook)

	tests := []struct {
		name     string
		args     []string
		expected error
	}{
		{"no sheet", []string{"check", path, "--chart-id", "2"}, chartprobe.ErrInvalidArgument},
		{"both sheet flags", []string{"check", path, "--sheet-id", "1", "--sheet", "Data", "--chart-id", "2"}, chartprobe.ErrInvalidArgument},
		{"unknown sheet name", []string{"check", path, "--sheet", "Nope", "--chart-id", "2"}, chartprobe.ErrSheetNotFound},
		{"zero sheet id", []string{"check", path, "--sheet-id", "0", "--chart-id", "2"}, chartprobe.ErrInvalidSheetID},
		{"bad chart id", []string{"check", path, "--sheet-id", "1", "--chart-id", "Chart 1"}, chartprobe.ErrInvalidChartID},
		{"bad match mode", []string{"check", path, "--sheet-id", "1", "--chart-id", "2", "--match", "exact"}, chartprobe.ErrInvalidArgument},
		{"missing file", []string{"check", path + ".missing", "--sheet-id", "1", "--chart-id", "2"}, chartprobe.ErrFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if !errors.Is(err, tt.expected) {
				t.Errorf("error = %v, expected %v", err, tt.expected)
			}
			if exitCode(err) != 1 {
				t.Errorf("exit code = %d, expected 1", exitCode(err))
			}
		})
	}

	var perr *chartprobe.ProbeError
	_, _, err := execute(t, "check", path, "--sheet-id", "5", "--chart-id", "2")
	if !errors.As(err, &perr) {
		t.Errorf("broken drawing error = %v, expected *ProbeError", err)
	}
}

func TestCheckCommandMatchFromEnv(t *testing.T) {
	t.Setenv(envMatch, "prefer-guid")
	path := fixture.Write(t, cliWorkbook)

	_, _, err := execute(t, "check", path, "--sheet-id", "1", "--chart-id", "2")
	if exitCode(err) != 2 {
		t.Errorf("exit code = %d (%v), expected 2 under prefer-guid", exitCode(err), err)
	}

	// The flag wins over the environment.
	_, _, err = execute(t, "check", path, "--sheet-id", "1", "--chart-id", "2", "--match", "numeric")
	if exitCode(err) != 0 {
		t.Errorf("exit code = %d (%v), expected 0 with --match numeric", exitCode(err), err)
	}
}

func TestCheckCommandJSON(t *testing.T) {
	t.Setenv(envMatch, "")
	path := fixture.Write(t, cliWorkbook)

	stdout, _, err := execute(t, "check", path, "--sheet-id", "1", "--chart-id", testGUID, "--json")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	var res models.CheckResult
	if err := json.Unmarshal([]byte(stdout), &res); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if !res.Found || res.ChartIDKind != "guid" || res.SheetName != "Data" || len(res.Matches) != 1 {
		t.Errorf("result = %+v", res)
	}
	if res.BookName != "fixture.xlsx" {
		t.Errorf("BookName = %q, expected fixture.xlsx", res.BookName)
	}
}

func TestCheckCommandVerbose(t *testing.T) {
	t.Setenv(envMatch, "")
	path := fixture.Write(t, cliWorkbook)

	_, stderr, err := execute(t, "check", path, "--sheet-id", "1", "--chart-id", "2", "-v")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{"file opened", "sheet found", "drawing part found"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("expected %q in stderr:\n%s", want, stderr)
		}
	}

	_, stderr, _ = execute(t, "check", path, "--sheet-id", "1", "--chart-id", "2")
	if stderr != "" {
		t.Errorf("expected no progress without -v, got:\n%s", stderr)
	}
}

func TestListCommand(t *testing.T) {
	path := fixture.Write(t, cliWorkbook)

	stdout, _, err := execute(t, "list", path, "--sheet-id", "1", "--mode", "light")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var charts []models.ChartRef
	if err := json.Unmarshal([]byte(stdout), &charts); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if len(charts) != 2 || charts[0].CreationID != testGUID || charts[1].Name != "Chart 2" {
		t.Errorf("charts = %+v", charts)
	}

	stdout, _, err = execute(t, "list", path, "--sheet", "Report")
	if err != nil {
		t.Fatalf("list Report: %v", err)
	}
	if strings.TrimSpace(stdout) != "[]" {
		t.Errorf("expected empty array, got %q", stdout)
	}

	if _, _, err := execute(t, "list", path, "--mode", "full"); !errors.Is(err, chartprobe.ErrInvalidArgument) {
		t.Errorf("bad mode error = %v, expected ErrInvalidArgument", err)
	}
}

func TestListCommandAllSheets(t *testing.T) {
	path := fixture.Write(t, cliWorkbook)

	stdout, stderr, err := execute(t, "list", path)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var all []models.SheetCharts
	if err := json.Unmarshal([]byte(stdout), &all); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sheets, got %d", len(all))
	}
	if len(all[0].Charts) != 2 || all[0].Charts[0].Chart == nil {
		t.Errorf("Data charts = %+v, expected 2 with details", all[0].Charts)
	}
	if all[2].Sheet.Name != "Broken" || len(all[2].Charts) != 0 {
		t.Errorf("Broken sheet = %+v, expected no charts", all[2])
	}
	if !strings.Contains(stderr, "skipping sheet") {
		t.Errorf("expected a warning for the broken sheet, got:\n%s", stderr)
	}
}

func TestSheetsCommand(t *testing.T) {
	path := fixture.Write(t, cliWorkbook)

	stdout, _, err := execute(t, "sheets", path, "--pretty")
	if err != nil {
		t.Fatalf("sheets: %v", err)
	}
	var info models.WorkbookInfo
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if info.BookName != "fixture.xlsx" || len(info.Sheets) != 3 {
		t.Fatalf("info = %+v", info)
	}
	if info.Sheets[1].Name != "Report" || info.Sheets[1].SheetID != 4 {
		t.Errorf("Sheets[1] = %+v, expected Report with id 4", info.Sheets[1])
	}
}

func TestResolvePassword(t *testing.T) {
	t.Setenv(envPassword, "from-env")

	if got := resolvePassword(&rootOptions{}); got != "from-env" {
		t.Errorf("resolvePassword = %q, expected from-env", got)
	}
	if got := resolvePassword(&rootOptions{password: "from-flag"}); got != "from-flag" {
		t.Errorf("resolvePassword = %q, expected from-flag", got)
	}
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(stdout, Version) {
		t.Errorf("expected version %q in %q", Version, stdout)
	}
}

func TestCheckCommandContainers(t *testing.T) {
	t.Setenv(envMatch, "")
	t.Setenv(envPassword, "")
	dir := t.TempDir()

	legacy := filepath.Join(dir, "legacy.xls")
	if err := os.WriteFile(legacy, fixture.LegacyWorkbook(), 0o644); err != nil {
		t.Fatal(err)
	}
	secret := filepath.Join(dir, "secret.xlsx")
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SaveAs(secret, excelize.Options{Password: "hunter2"}); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	_, _, err := execute(t, "check", legacy, "--sheet-id", "1", "--chart-id", "2")
	if !errors.Is(err, chartprobe.ErrInvalidFormat) || !strings.Contains(err.Error(), "legacy .xls") {
		t.Errorf("legacy error = %v, expected ErrInvalidFormat naming legacy .xls", err)
	}

	_, _, err = execute(t, "check", secret, "--sheet-id", "1", "--chart-id", "2")
	if !errors.Is(err, chartprobe.ErrPassword) {
		t.Errorf("encrypted error = %v, expected ErrPassword", err)
	}

	_, _, err = execute(t, "check", secret, "--sheet-id", "1", "--chart-id", "2", "--password", "hunter2")
	if exitCode(err) != 2 {
		t.Errorf("exit code = %d (%v), expected 2 for a workbook without charts", exitCode(err), err)
	}

	t.Setenv(envPassword, "hunter2")
	_, _, err = execute(t, "check", secret, "--sheet-id", "1", "--chart-id", "2")
	if exitCode(err) != 2 {
		t.Errorf("exit code = %d (%v), expected 2 with the password from %s", exitCode(err), err, envPassword)
	}
}
