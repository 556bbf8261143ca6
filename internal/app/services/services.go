package services

import (
	"context"

	"github.com/oregondata/orschooldata/internal/app/models"
	"github.com/oregondata/orschooldata/internal/app/models/dto"
)

// EnrollmentProvider is the data-source boundary of the enrollment facade.
// The Postgres repository is the production implementation; tests supply
// an in-memory fake.
type EnrollmentProvider interface {
	YearBounds(ctx context.Context) (*models.YearBounds, error)
	GetByYear(ctx context.Context, year int, filter dto.EnrollmentFilter) ([]*models.EnrollmentRecord, error)
}

// EnrollmentService exposes enrollment tables by year
type EnrollmentService interface {
	GetAvailableYears(ctx context.Context) (*models.YearBounds, error)
	FetchEnrollment(ctx context.Context, year int) ([]*models.EnrollmentRecord, error)
	FetchEnrollmentFiltered(ctx context.Context, year int, filter dto.EnrollmentFilter) ([]*models.EnrollmentRecord, error)
	FetchEnrollmentMulti(ctx context.Context, years []int) ([]*models.EnrollmentRecord, error)
}

// DistrictService exposes the district registry
type DistrictService interface {
	GetDistrictByID(ctx context.Context, districtID string) (*models.District, error)
	ListDistricts(ctx context.Context, page, size int) ([]*models.District, int64, error)
}
