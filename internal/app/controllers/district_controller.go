package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oregondata/orschooldata/internal/app/models/dto"
	"github.com/oregondata/orschooldata/internal/app/services"
	"github.com/oregondata/orschooldata/internal/middleware"
	"github.com/oregondata/orschooldata/internal/pkg/helpers"
)

// DistrictController handles district registry lookups
type DistrictController struct {
	districtService services.DistrictService
}

// NewDistrictController creates a new DistrictController
func NewDistrictController(districtService services.DistrictService) *DistrictController {
	return &DistrictController{
		districtService: districtService,
	}
}

// ListDistricts retrieves one page of the district registry
// @Summary List districts
// @Description Retrieves a paginated list of school districts
// @Tags districts
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Districts retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /districts [get]
func (c *DistrictController) ListDistricts(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	districts, total, err := c.districtService.ListDistricts(ctx, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PaginatedResponse{
			Items:      districts,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// GetDistrictByID retrieves a district by institution ID
// @Summary Get district by ID
// @Description Retrieves a single district by its institution ID
// @Tags districts
// @Produce json
// @Param id path string true "District institution ID, e.g. 2180"
// @Success 200 {object} dto.APIResponse{data=models.District} "District retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid district ID"
// @Failure 404 {object} dto.ErrorResponse "District not found"
// @Router /districts/{id} [get]
func (c *DistrictController) GetDistrictByID(ctx *gin.Context) {
	district, err := c.districtService.GetDistrictByID(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      district,
		Timestamp: time.Now(),
	})
}
