package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oregondata/orschooldata/internal/app/models"
	"github.com/oregondata/orschooldata/internal/pkg/apperrors"
)

// DistrictRepository handles database operations for the district registry
type DistrictRepository struct {
	db *pgxpool.Pool
}

// NewDistrictRepository creates a new district repository
func NewDistrictRepository(db *pgxpool.Pool) *DistrictRepository {
	return &DistrictRepository{
		db: db,
	}
}

// GetByID retrieves a district by its institution ID
func (r *DistrictRepository) GetByID(ctx context.Context, districtID string) (*models.District, error) {
	query := `
		SELECT district_id, name, county, first_year, last_year
		FROM districts
		WHERE district_id = $1
	`

	var district models.District
	err := r.db.QueryRow(ctx, query, districtID).Scan(
		&district.DistrictID,
		&district.Name,
		&district.County,
		&district.FirstYear,
		&district.LastYear,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDistrictNotFound
		}
		return nil, fmt.Errorf("error retrieving district: %w", err)
	}

	return &district, nil
}

// List retrieves a page of real districts (the statewide sentinel row is
// excluded), ordered by name.
func (r *DistrictRepository) List(ctx context.Context, offset uint64, limit int) ([]*models.District, error) {
	query := `
		SELECT district_id, name, county, first_year, last_year
		FROM districts
		WHERE district_id != $1
		ORDER BY name
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, models.StateDistrictID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing districts: %w", err)
	}
	defer rows.Close()

	var districts []*models.District
	for rows.Next() {
		var district models.District
		if err := rows.Scan(
			&district.DistrictID,
			&district.Name,
			&district.County,
			&district.FirstYear,
			&district.LastYear,
		); err != nil {
			return nil, err
		}
		districts = append(districts, &district)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return districts, nil
}

// Count returns the number of real districts in the registry.
func (r *DistrictRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM districts WHERE district_id != $1`, models.StateDistrictID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting districts: %w", err)
	}
	return count, nil
}
