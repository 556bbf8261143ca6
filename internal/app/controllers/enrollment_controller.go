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

// EnrollmentController handles enrollment data queries
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// GetAvailableYears returns the range of fetchable end-years
// @Summary Get available years
// @Description Returns the minimum and maximum end-years with enrollment data
// @Tags enrollment
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.YearBoundsResponse} "Available year range"
// @Failure 404 {object} dto.ErrorResponse "No enrollment data loaded"
// @Router /enrollment/years [get]
func (c *EnrollmentController) GetAvailableYears(ctx *gin.Context) {
	bounds, err := c.enrollmentService.GetAvailableYears(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.YearBoundsResponse{
			MinYear: bounds.MinYear,
			MaxYear: bounds.MaxYear,
		},
		Timestamp: time.Now(),
	})
}

// GetEnrollment returns one year's enrollment table
// @Summary Get enrollment for a year
// @Description Returns the full enrollment table for one school end-year, optionally filtered
// @Tags enrollment
// @Produce json
// @Param year path int true "School end-year, e.g. 2024"
// @Param grade query string false "Grade level filter (KG, 01..12, TOTAL)"
// @Param subgroup query string false "Subgroup filter, e.g. total_enrollment"
// @Param district query string false "District institution ID filter"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentTableResponse} "Enrollment table"
// @Failure 400 {object} dto.ErrorResponse "Year is not an integer or filter invalid"
// @Failure 404 {object} dto.ErrorResponse "No data for requested year"
// @Router /enrollment/{year} [get]
func (c *EnrollmentController) GetEnrollment(ctx *gin.Context) {
	year, err := helpers.ParseEndYear(ctx.Param("year"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid year")
		errorDetail = errorDetail.WithDetails("Year must be an integer").WithField("year")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var filter dto.EnrollmentFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid filter parameters")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	records, err := c.enrollmentService.FetchEnrollmentFiltered(ctx, year, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewEnrollmentTableResponse([]int{year}, records),
		Timestamp: time.Now(),
	})
}

// GetEnrollmentMulti returns the concatenated tables for several years
// @Summary Get enrollment for multiple years
// @Description Returns the concatenation of per-year enrollment tables, in the order requested
// @Tags enrollment
// @Produce json
// @Param years query string true "Comma-separated end-years, e.g. 2022,2023,2024"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentTableResponse} "Concatenated enrollment table"
// @Failure 400 {object} dto.ErrorResponse "Years parameter malformed"
// @Failure 404 {object} dto.ErrorResponse "No data for one of the requested years"
// @Router /enrollment [get]
func (c *EnrollmentController) GetEnrollmentMulti(ctx *gin.Context) {
	years, err := helpers.ParseYearList(ctx.Query("years"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid years parameter")
		errorDetail = errorDetail.WithDetails("years must be a comma-separated list of integers").WithField("years")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	records, err := c.enrollmentService.FetchEnrollmentMulti(ctx, years)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewEnrollmentTableResponse(helpers.DistinctYears(years), records),
		Timestamp: time.Now(),
	})
}
