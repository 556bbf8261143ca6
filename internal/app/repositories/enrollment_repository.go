package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oregondata/orschooldata/internal/app/models"
	"github.com/oregondata/orschooldata/internal/app/models/dto"
	"github.com/oregondata/orschooldata/internal/pkg/apperrors"
	"github.com/oregondata/orschooldata/internal/pkg/dberrors"
)

// EnrollmentRepository handles database operations for enrollment records
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
	}
}

// YearBounds returns the inclusive range of end-years present in the table.
// Returns apperrors.ErrNoData when no enrollment data has been loaded.
func (r *EnrollmentRepository) YearBounds(ctx context.Context) (*models.YearBounds, error) {
	query := `
		SELECT MIN(end_year), MAX(end_year)
		FROM enrollment
	`

	var minYear, maxYear *int
	err := r.db.QueryRow(ctx, query).Scan(&minYear, &maxYear)
	if err != nil {
		return nil, fmt.Errorf("error retrieving year bounds: %w", err)
	}

	// MIN/MAX over an empty table scan as NULL.
	if minYear == nil || maxYear == nil {
		return nil, apperrors.ErrNoData
	}

	return &models.YearBounds{MinYear: *minYear, MaxYear: *maxYear}, nil
}

// GetByYear retrieves all enrollment records for one end-year, joined with
// the district registry for display names. Returns apperrors.ErrYearNotFound
// when the year has no rows.
func (r *EnrollmentRepository) GetByYear(ctx context.Context, year int, filter dto.EnrollmentFilter) ([]*models.EnrollmentRecord, error) {
	query := `
		SELECT e.end_year, e.district_id, d.name, e.grade_level, e.subgroup,
		       e.n_students, e.is_state, e.is_district
		FROM enrollment e
		JOIN districts d ON d.district_id = e.district_id
		WHERE e.end_year = $1
		  AND ($2 = '' OR e.grade_level = $2)
		  AND ($3 = '' OR e.subgroup = $3)
		  AND ($4 = '' OR e.district_id = $4)
		ORDER BY e.district_id, e.subgroup, e.grade_level
	`

	rows, err := r.db.Query(ctx, query, year, filter.GradeLevel, filter.Subgroup, filter.DistrictID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrollment for year %d: %w", year, err)
	}
	defer rows.Close()

	var records []*models.EnrollmentRecord
	for rows.Next() {
		var record models.EnrollmentRecord
		if err := rows.Scan(
			&record.EndYear,
			&record.DistrictID,
			&record.DistrictName,
			&record.GradeLevel,
			&record.Subgroup,
			&record.NStudents,
			&record.IsState,
			&record.IsDistrict,
		); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(records) == 0 && filter == (dto.EnrollmentFilter{}) {
		return nil, apperrors.ErrYearNotFound
	}

	return records, nil
}

// ReplaceYear atomically replaces all enrollment rows for one end-year.
// Districts referenced by the new rows are upserted first to satisfy the
// foreign key, then the year's rows are deleted and bulk-inserted via COPY.
func (r *EnrollmentRepository) ReplaceYear(ctx context.Context, year int, records []*models.EnrollmentRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := upsertDistrictsForYear(ctx, tx, year, records); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM enrollment WHERE end_year = $1`, year); err != nil {
		return fmt.Errorf("error deleting enrollment for year %d: %w", year, err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"enrollment"},
		[]string{"end_year", "district_id", "grade_level", "subgroup", "n_students", "is_state", "is_district"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			if rec.NStudents < 0 {
				return nil, fmt.Errorf("negative student count for district %s: %d", rec.DistrictID, rec.NStudents)
			}
			return []any{rec.EndYear, rec.DistrictID, rec.GradeLevel, rec.Subgroup, rec.NStudents, rec.IsState, rec.IsDistrict}, nil
		}),
	)
	if err != nil {
		// A unique violation means the built table carries the same
		// (district, grade, subgroup) cell twice.
		if dberrors.IsUniqueViolation(err) {
			return fmt.Errorf("%w: duplicate enrollment cell in year %d", apperrors.ErrMalformedSource, year)
		}
		return fmt.Errorf("error bulk inserting enrollment for year %d: %w", year, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// upsertDistrictsForYear registers every district appearing in records,
// widening its first/last year range as needed.
func upsertDistrictsForYear(ctx context.Context, tx pgx.Tx, year int, records []*models.EnrollmentRecord) error {
	query := `
		INSERT INTO districts (district_id, name, county, first_year, last_year)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (district_id) DO UPDATE
		SET name = EXCLUDED.name,
		    county = EXCLUDED.county,
		    first_year = LEAST(districts.first_year, EXCLUDED.first_year),
		    last_year = GREATEST(districts.last_year, EXCLUDED.last_year)
	`

	seen := make(map[string]struct{})
	for _, rec := range records {
		if _, ok := seen[rec.DistrictID]; ok {
			continue
		}
		seen[rec.DistrictID] = struct{}{}

		if _, err := tx.Exec(ctx, query, rec.DistrictID, rec.DistrictName, rec.County, year); err != nil {
			return fmt.Errorf("error upserting district %s: %w", rec.DistrictID, err)
		}
	}
	return nil
}
