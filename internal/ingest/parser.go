package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/oregondata/orschooldata/internal/app/models"
	"github.com/oregondata/orschooldata/internal/pkg/apperrors"
)

// Expected header of an ODE fall-membership extract. Column order is fixed.
var extractHeader = []string{"district_id", "district_name", "county", "grade_level", "subgroup", "n_students"}

var filenamePattern = regexp.MustCompile(`^fall_membership_(\d{4})\.csv$`)

// YearFromFilename extracts the end-year from an extract filename of the
// form fall_membership_<year>.csv.
func YearFromFilename(name string) (int, error) {
	m := filenamePattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return 0, fmt.Errorf("%w: filename %q does not match fall_membership_<year>.csv", apperrors.ErrMalformedSource, name)
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrMalformedSource, err)
	}
	return year, nil
}

// Parse reads one extract and returns the district-level, per-grade rows.
// Counts suppressed in the source ("*" or "-") are recorded as zero.
// Synthetic aggregates are not derived here, see BuildTable.
func Parse(r io.Reader, endYear int) ([]*models.EnrollmentRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", apperrors.ErrMalformedSource, err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var records []*models.EnrollmentRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", apperrors.ErrMalformedSource, line, err)
		}

		record, err := parseRow(row, endYear)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: extract has no data rows", apperrors.ErrMalformedSource)
	}

	return records, nil
}

func checkHeader(header []string) error {
	if len(header) != len(extractHeader) {
		return fmt.Errorf("%w: expected %d columns, got %d", apperrors.ErrMalformedSource, len(extractHeader), len(header))
	}
	for i, want := range extractHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return fmt.Errorf("%w: column %d is %q, want %q", apperrors.ErrMalformedSource, i, header[i], want)
		}
	}
	return nil
}

func parseRow(row []string, endYear int) (*models.EnrollmentRecord, error) {
	districtID := strings.TrimSpace(row[0])
	if districtID == "" || districtID == models.StateDistrictID {
		return nil, fmt.Errorf("%w: invalid district ID %q", apperrors.ErrMalformedSource, districtID)
	}

	name := strings.TrimSpace(row[1])
	if name == "" {
		return nil, fmt.Errorf("%w: district %s has empty name", apperrors.ErrMalformedSource, districtID)
	}

	grade := normalizeGrade(row[3])
	if !models.IsValidGradeLevel(grade) || grade == models.GradeTotal {
		return nil, fmt.Errorf("%w: invalid grade level %q", apperrors.ErrMalformedSource, row[3])
	}

	subgroup := normalizeSubgroup(row[4])
	if subgroup == "" {
		return nil, fmt.Errorf("%w: empty subgroup for district %s", apperrors.ErrMalformedSource, districtID)
	}

	n, err := parseCount(row[5])
	if err != nil {
		return nil, err
	}

	return &models.EnrollmentRecord{
		EndYear:      endYear,
		DistrictID:   districtID,
		DistrictName: name,
		County:       strings.TrimSpace(row[2]),
		GradeLevel:   grade,
		Subgroup:     subgroup,
		NStudents:    n,
		IsDistrict:   true,
	}, nil
}

// normalizeGrade maps source grade spellings onto the canonical categories.
// Single-digit grades get zero-padded; kindergarten variants become KG.
func normalizeGrade(s string) string {
	g := strings.ToUpper(strings.TrimSpace(s))
	switch g {
	case "K", "KG", "KINDERGARTEN":
		return "KG"
	}
	if len(g) == 1 && g >= "1" && g <= "9" {
		return "0" + g
	}
	return g
}

// normalizeSubgroup lowercases and snake_cases a subgroup label.
func normalizeSubgroup(s string) string {
	sub := strings.ToLower(strings.TrimSpace(s))
	sub = strings.ReplaceAll(sub, " ", "_")
	sub = strings.ReplaceAll(sub, "/", "_")
	return sub
}

// parseCount parses a student count. Thousands separators are tolerated;
// suppression markers count as zero; anything negative is rejected.
func parseCount(s string) (int, error) {
	v := strings.TrimSpace(s)
	if v == "" || v == "*" || v == "-" {
		return 0, nil
	}
	v = strings.ReplaceAll(v, ",", "")

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid student count %q", apperrors.ErrMalformedSource, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative student count %d", apperrors.ErrMalformedSource, n)
	}
	return n, nil
}
