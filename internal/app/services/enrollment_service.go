package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/oregondata/orschooldata/internal/app/models"
	"github.com/oregondata/orschooldata/internal/app/models/dto"
	"github.com/oregondata/orschooldata/internal/pkg/apperrors"
)

// Common enrollment errors
var (
	ErrInvalidGradeLevel = fmt.Errorf("%w: invalid grade level filter", apperrors.ErrValidationFailed)
)

// enrollmentService is the facade over the enrollment data provider. It
// shapes provider output into per-year tables and multi-year
// concatenations; provider failures propagate unchanged, with no retry.
type enrollmentService struct {
	provider EnrollmentProvider
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(provider EnrollmentProvider) EnrollmentService {
	return &enrollmentService{
		provider: provider,
	}
}

// GetAvailableYears returns the inclusive range of fetchable end-years.
func (s *enrollmentService) GetAvailableYears(ctx context.Context) (*models.YearBounds, error) {
	bounds, err := s.provider.YearBounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving available years: %w", err)
	}
	return bounds, nil
}

// FetchEnrollment returns the full enrollment table for one end-year.
func (s *enrollmentService) FetchEnrollment(ctx context.Context, year int) ([]*models.EnrollmentRecord, error) {
	return s.FetchEnrollmentFiltered(ctx, year, dto.EnrollmentFilter{})
}

// FetchEnrollmentFiltered returns one year's table narrowed by the given
// filter. Filter values are validated; the year itself is not range-checked
// here, the provider decides what years exist.
func (s *enrollmentService) FetchEnrollmentFiltered(ctx context.Context, year int, filter dto.EnrollmentFilter) ([]*models.EnrollmentRecord, error) {
	if filter.GradeLevel != "" && !models.IsValidGradeLevel(filter.GradeLevel) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGradeLevel, filter.GradeLevel)
	}

	records, err := s.provider.GetByYear(ctx, year, filter)
	if err != nil {
		if errors.Is(err, apperrors.ErrYearNotFound) {
			return nil, apperrors.ErrYearNotFound
		}
		return nil, fmt.Errorf("error fetching enrollment for year %d: %w", year, err)
	}

	return records, nil
}

// FetchEnrollmentMulti returns the concatenation of per-year tables for the
// given years, in input order, each year's rows contiguous. Duplicate input
// years produce duplicate blocks. An empty input yields an empty table
// rather than an error.
func (s *enrollmentService) FetchEnrollmentMulti(ctx context.Context, years []int) ([]*models.EnrollmentRecord, error) {
	records := make([]*models.EnrollmentRecord, 0)

	for _, year := range years {
		yearRecords, err := s.FetchEnrollment(ctx, year)
		if err != nil {
			if errors.Is(err, apperrors.ErrYearNotFound) {
				return nil, fmt.Errorf("year %d: %w", year, err)
			}
			return nil, err
		}
		records = append(records, yearRecords...)
	}

	return records, nil
}
