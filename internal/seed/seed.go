package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/oregondata/orschooldata/internal/app/models"
	appRepos "github.com/oregondata/orschooldata/internal/app/repositories"
	"github.com/oregondata/orschooldata/internal/ingest"
	"github.com/oregondata/orschooldata/internal/pkg/apperrors"
)

// sampleDistricts is a small slice of real Oregon districts used to make a
// fresh development database queryable without running an ingest.
var sampleDistricts = []struct {
	id     string
	name   string
	counts map[string]int
}{
	{id: "2180", name: "Portland SD 1J", counts: map[string]int{"KG": 3102, "01": 3055, "12": 3410}},
	{id: "2243", name: "Salem-Keizer SD 24J", counts: map[string]int{"KG": 2988, "01": 3020, "12": 3150}},
	{id: "2113", name: "Ashwood SD 8", counts: map[string]int{"KG": 3, "01": 4, "12": 2}},
}

const seedYear = 2024

// CreateDefaultData loads a small sample enrollment year when the database
// is empty. Intended for development mode only; a real ingest replaces it.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	repos := appRepos.NewRepositories(dbPool)

	_, err := repos.EnrollmentRepository.YearBounds(ctx)
	if err == nil {
		lgr.Debug().Msg("Enrollment data already present, skipping seed")
		return nil
	}
	if !errors.Is(err, apperrors.ErrNoData) {
		return err
	}

	lgr.Info().Int("year", seedYear).Msg("Seeding sample enrollment data")

	var rows []*models.EnrollmentRecord
	for _, d := range sampleDistricts {
		for grade, n := range d.counts {
			rows = append(rows, &models.EnrollmentRecord{
				EndYear:      seedYear,
				DistrictID:   d.id,
				DistrictName: d.name,
				GradeLevel:   grade,
				Subgroup:     models.SubgroupTotalEnrollment,
				NStudents:    n,
				IsDistrict:   true,
			})
		}
	}

	table, err := ingest.BuildTable(seedYear, rows)
	if err != nil {
		return err
	}

	if err := repos.EnrollmentRepository.ReplaceYear(ctx, seedYear, table); err != nil {
		return err
	}

	lgr.Info().Int("rows", len(table)).Msg("Sample enrollment data seeded")
	return nil
}
