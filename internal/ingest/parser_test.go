package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/oregondata/orschooldata/internal/app/models"
	"github.com/oregondata/orschooldata/internal/pkg/apperrors"
)

func TestYearFromFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "plain", input: "fall_membership_2024.csv", want: 2024},
		{name: "with_path", input: "/data/extracts/fall_membership_2013.csv", want: 2013},
		{name: "wrong_prefix", input: "membership_2024.csv", wantErr: true},
		{name: "no_year", input: "fall_membership_.csv", wantErr: true},
		{name: "short_year", input: "fall_membership_24.csv", wantErr: true},
		{name: "wrong_extension", input: "fall_membership_2024.xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := YearFromFilename(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got year %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("YearFromFilename(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("YearFromFilename(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Fixture(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "fall_membership_2024.csv"))
	if err != nil {
		t.Fatalf("opening fixture: %v", err)
	}
	defer f.Close()

	rows, err := Parse(f, 2024)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if len(rows) != 9 {
		t.Fatalf("expected 9 rows, got %d", len(rows))
	}

	byKey := make(map[string]*models.EnrollmentRecord)
	for _, row := range rows {
		if row.EndYear != 2024 {
			t.Fatalf("row with end_year %d", row.EndYear)
		}
		if !row.IsDistrict || row.IsState {
			t.Fatalf("parsed row should be district-level: %+v", row)
		}
		byKey[row.DistrictID+"/"+row.GradeLevel] = row
	}

	// "K" normalizes to KG, single digits zero-pad.
	if _, ok := byKey["2180/KG"]; !ok {
		t.Fatalf("expected grade K to normalize to KG")
	}
	if _, ok := byKey["2180/01"]; !ok {
		t.Fatalf("expected grade 1 to normalize to 01")
	}

	// Thousands separators are tolerated.
	if got := byKey["2180/12"].NStudents; got != 3410 {
		t.Fatalf("expected 3410 students, got %d", got)
	}

	// Suppression markers count as zero.
	if got := byKey["2113/KG"].NStudents; got != 0 {
		t.Fatalf("expected suppressed count to parse as 0, got %d", got)
	}
	if got := byKey["2113/12"].NStudents; got != 0 {
		t.Fatalf("expected suppressed count to parse as 0, got %d", got)
	}

	// Subgroups normalize to snake_case.
	for _, row := range rows {
		if row.Subgroup != models.SubgroupTotalEnrollment {
			t.Fatalf("unexpected subgroup %q", row.Subgroup)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	header := "district_id,district_name,county,grade_level,subgroup,n_students\n"

	tests := []struct {
		name  string
		input string
	}{
		{name: "bad_header", input: "id,name,county,grade,subgroup,count\n2180,Portland SD 1J,Multnomah,K,Total Enrollment,10\n"},
		{name: "no_rows", input: header},
		{name: "negative_count", input: header + "2180,Portland SD 1J,Multnomah,K,Total Enrollment,-5\n"},
		{name: "textual_count", input: header + "2180,Portland SD 1J,Multnomah,K,Total Enrollment,many\n"},
		{name: "state_sentinel_district", input: header + "0000,State,,K,Total Enrollment,10\n"},
		{name: "total_grade_in_source", input: header + "2180,Portland SD 1J,Multnomah,TOTAL,Total Enrollment,10\n"},
		{name: "unknown_grade", input: header + "2180,Portland SD 1J,Multnomah,14,Total Enrollment,10\n"},
		{name: "empty_name", input: header + "2180,,Multnomah,K,Total Enrollment,10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), 2024)
			if !errors.Is(err, apperrors.ErrMalformedSource) {
				t.Fatalf("expected ErrMalformedSource, got %v", err)
			}
		})
	}
}

func TestBuildTable_DerivesAggregates(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "fall_membership_2024.csv"))
	if err != nil {
		t.Fatalf("opening fixture: %v", err)
	}
	defer f.Close()

	rows, err := Parse(f, 2024)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	table, err := BuildTable(2024, rows)
	if err != nil {
		t.Fatalf("BuildTable returned error: %v", err)
	}

	find := func(districtID, grade string) *models.EnrollmentRecord {
		t.Helper()
		for _, rec := range table {
			if rec.DistrictID == districtID && rec.GradeLevel == grade && rec.Subgroup == models.SubgroupTotalEnrollment {
				return rec
			}
		}
		t.Fatalf("row (%s, %s) not found", districtID, grade)
		return nil
	}

	// District TOTAL = sum of its grades.
	portlandTotal := find("2180", models.GradeTotal)
	if portlandTotal.NStudents != 3102+3055+3410 {
		t.Fatalf("Portland TOTAL = %d, want %d", portlandTotal.NStudents, 3102+3055+3410)
	}
	if !portlandTotal.IsDistrict || portlandTotal.IsState {
		t.Fatalf("district TOTAL row misflagged: %+v", portlandTotal)
	}

	// State grade cell = sum over districts.
	stateKG := find(models.StateDistrictID, "KG")
	if stateKG.NStudents != 3102+2988+0 {
		t.Fatalf("state KG = %d, want %d", stateKG.NStudents, 3102+2988)
	}
	if !stateKG.IsState || stateKG.IsDistrict {
		t.Fatalf("state row misflagged: %+v", stateKG)
	}
	if stateKG.DistrictName != models.StateDistrictName {
		t.Fatalf("state row name %q", stateKG.DistrictName)
	}

	// State TOTAL = sum of everything.
	wantStateTotal := 3102 + 3055 + 3410 + 2988 + 3020 + 3150 + 0 + 4 + 0
	stateTotal := find(models.StateDistrictID, models.GradeTotal)
	if stateTotal.NStudents != wantStateTotal {
		t.Fatalf("state TOTAL = %d, want %d", stateTotal.NStudents, wantStateTotal)
	}

	// Exactly one state row per (grade, subgroup) cell.
	stateCells := make(map[string]int)
	for _, rec := range table {
		if rec.IsState {
			stateCells[rec.GradeLevel+"/"+rec.Subgroup]++
		}
	}
	for cell, n := range stateCells {
		if n != 1 {
			t.Fatalf("state cell %s appears %d times", cell, n)
		}
	}
}

// buildFullExtract generates a realistic statewide extract in memory: one
// row per district and grade under the total_enrollment subgroup, with
// counts in a plausible per-grade range.
func buildFullExtract(t *testing.T, endYear, nDistricts int) []*models.EnrollmentRecord {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("district_id,district_name,county,grade_level,subgroup,n_students\n")

	for i := 0; i < nDistricts; i++ {
		id := 1000 + i
		name := "District " + strings.Repeat("X", i%3+1) + " SD"
		if i == 0 {
			name = "Portland SD 1J"
		}
		for g, grade := range models.GradeLevels {
			n := 80 + (i*13+g*7)%320
			sb.WriteString(strings.Join([]string{
				strconv.Itoa(id), name, "SomeCounty", grade, "Total Enrollment", strconv.Itoa(n),
			}, ","))
			sb.WriteString("\n")
		}
	}

	rows, err := Parse(strings.NewReader(sb.String()), endYear)
	if err != nil {
		t.Fatalf("Parse of generated extract returned error: %v", err)
	}
	return rows
}

func TestBuildTable_StatewideScale(t *testing.T) {
	const nDistricts = 197

	rows := buildFullExtract(t, 2024, nDistricts)
	table, err := BuildTable(2024, rows)
	if err != nil {
		t.Fatalf("BuildTable returned error: %v", err)
	}

	var districtTotalRows, stateTotal int
	portlandPresent := false
	for _, rec := range table {
		if rec.IsDistrict && rec.GradeLevel == models.GradeTotal && rec.Subgroup == models.SubgroupTotalEnrollment {
			districtTotalRows++
		}
		if rec.IsState && rec.GradeLevel == models.GradeTotal && rec.Subgroup == models.SubgroupTotalEnrollment {
			stateTotal = rec.NStudents
		}
		if rec.DistrictName == "Portland SD 1J" {
			portlandPresent = true
		}
	}

	if districtTotalRows <= 150 || districtTotalRows >= 250 {
		t.Fatalf("district TOTAL row count %d outside (150, 250)", districtTotalRows)
	}
	if stateTotal <= 400000 || stateTotal >= 800000 {
		t.Fatalf("state total enrollment %d outside (400000, 800000)", stateTotal)
	}
	if !portlandPresent {
		t.Fatalf("Portland SD 1J missing from generated extract")
	}
}

func TestBuildTable_RejectsMixedYears(t *testing.T) {
	rows := []*models.EnrollmentRecord{
		{EndYear: 2023, DistrictID: "2180", DistrictName: "Portland SD 1J", GradeLevel: "KG", Subgroup: models.SubgroupTotalEnrollment, NStudents: 10, IsDistrict: true},
	}
	if _, err := BuildTable(2024, rows); !errors.Is(err, apperrors.ErrMalformedSource) {
		t.Fatalf("expected ErrMalformedSource, got %v", err)
	}
}
