package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oregondata/orschooldata/internal/app/models"
	"github.com/oregondata/orschooldata/internal/app/repositories"
	"github.com/oregondata/orschooldata/internal/pkg/apperrors"
	"github.com/oregondata/orschooldata/internal/pkg/helpers"
)

// Common district errors
var (
	ErrDistrictValidation = fmt.Errorf("%w: district validation failed", apperrors.ErrValidationFailed)
)

// districtService handles district registry lookups
type districtService struct {
	districtRepo *repositories.DistrictRepository
}

// NewDistrictService creates a new district service instance
func NewDistrictService(districtRepo *repositories.DistrictRepository) DistrictService {
	return &districtService{
		districtRepo: districtRepo,
	}
}

// GetDistrictByID retrieves a district by its institution ID
func (s *districtService) GetDistrictByID(ctx context.Context, districtID string) (*models.District, error) {
	districtID = strings.TrimSpace(districtID)
	if districtID == "" {
		return nil, fmt.Errorf("%w: district ID cannot be empty", ErrDistrictValidation)
	}

	district, err := s.districtRepo.GetByID(ctx, districtID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDistrictNotFound) {
			return nil, apperrors.ErrDistrictNotFound
		}
		return nil, fmt.Errorf("error retrieving district: %w", err)
	}

	return district, nil
}

// ListDistricts retrieves one page of districts plus the total count.
func (s *districtService) ListDistricts(ctx context.Context, page, size int) ([]*models.District, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	districts, err := s.districtRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing districts: %w", err)
	}

	total, err := s.districtRepo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting districts: %w", err)
	}

	return districts, total, nil
}
