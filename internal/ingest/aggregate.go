package ingest

import (
	"fmt"
	"sort"

	"github.com/oregondata/orschooldata/internal/app/models"
	"github.com/oregondata/orschooldata/internal/pkg/apperrors"
)

// BuildTable derives the synthetic aggregates for one year's parsed rows:
// a TOTAL grade row per (district, subgroup) and statewide rows for every
// (grade, subgroup) cell including TOTAL. Input rows must be district-level
// per-grade rows for a single end-year.
func BuildTable(endYear int, rows []*models.EnrollmentRecord) ([]*models.EnrollmentRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows for year %d", apperrors.ErrMalformedSource, endYear)
	}

	type key struct {
		districtID string
		subgroup   string
	}

	districtNames := make(map[string]string)
	districtTotals := make(map[key]int)
	stateCells := make(map[string]map[string]int) // subgroup -> grade -> n

	for _, row := range rows {
		if row.EndYear != endYear {
			return nil, fmt.Errorf("%w: row for year %d in extract for %d", apperrors.ErrMalformedSource, row.EndYear, endYear)
		}
		districtNames[row.DistrictID] = row.DistrictName
		districtTotals[key{row.DistrictID, row.Subgroup}] += row.NStudents

		if stateCells[row.Subgroup] == nil {
			stateCells[row.Subgroup] = make(map[string]int)
		}
		stateCells[row.Subgroup][row.GradeLevel] += row.NStudents
		stateCells[row.Subgroup][models.GradeTotal] += row.NStudents
	}

	table := make([]*models.EnrollmentRecord, 0, len(rows)+len(districtTotals)+len(stateCells)*(len(models.GradeLevels)+1))
	table = append(table, rows...)

	// District TOTAL rows, in deterministic order.
	totalKeys := make([]key, 0, len(districtTotals))
	for k := range districtTotals {
		totalKeys = append(totalKeys, k)
	}
	sort.Slice(totalKeys, func(i, j int) bool {
		if totalKeys[i].districtID != totalKeys[j].districtID {
			return totalKeys[i].districtID < totalKeys[j].districtID
		}
		return totalKeys[i].subgroup < totalKeys[j].subgroup
	})
	for _, k := range totalKeys {
		table = append(table, &models.EnrollmentRecord{
			EndYear:      endYear,
			DistrictID:   k.districtID,
			DistrictName: districtNames[k.districtID],
			GradeLevel:   models.GradeTotal,
			Subgroup:     k.subgroup,
			NStudents:    districtTotals[k],
			IsDistrict:   true,
		})
	}

	// Statewide rows, one per (subgroup, grade) cell.
	subgroups := make([]string, 0, len(stateCells))
	for sub := range stateCells {
		subgroups = append(subgroups, sub)
	}
	sort.Strings(subgroups)
	for _, sub := range subgroups {
		grades := make([]string, 0, len(stateCells[sub]))
		for grade := range stateCells[sub] {
			grades = append(grades, grade)
		}
		sort.Strings(grades)
		for _, grade := range grades {
			table = append(table, &models.EnrollmentRecord{
				EndYear:      endYear,
				DistrictID:   models.StateDistrictID,
				DistrictName: models.StateDistrictName,
				GradeLevel:   grade,
				Subgroup:     sub,
				NStudents:    stateCells[sub][grade],
				IsState:      true,
			})
		}
	}

	return table, nil
}
