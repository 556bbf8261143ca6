package controllers

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oregondata/orschooldata/internal/app/models/dto"
	"github.com/oregondata/orschooldata/internal/ingest"
	"github.com/oregondata/orschooldata/internal/middleware"
)

// IngestController triggers data loads on the admin surface
type IngestController struct {
	loader  *ingest.Loader
	dataDir string
}

// NewIngestController creates a new IngestController
func NewIngestController(loader *ingest.Loader, dataDir string) *IngestController {
	return &IngestController{
		loader:  loader,
		dataDir: dataDir,
	}
}

// TriggerIngest runs an ingest over the configured data directory
// @Summary Trigger ingest
// @Description Parses fall-membership extracts and replaces the stored years they cover
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.IngestRequest false "Optional directory and year filter"
// @Success 200 {object} dto.APIResponse{data=dto.IngestResponse} "Ingest completed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Ingest failed"
// @Router /admin/ingest [post]
func (c *IngestController) TriggerIngest(ctx *gin.Context) {
	var req dto.IngestRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ingest request")
			errorDetail = errorDetail.WithDetails(err.Error())
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
	}

	dir := c.dataDir
	if req.Dir != "" {
		if filepath.IsAbs(req.Dir) {
			dir = req.Dir
		} else {
			dir = filepath.Join(c.dataDir, req.Dir)
		}
	}

	result, err := c.loader.LoadDirectory(ctx, dir, req.Years)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.IngestResponse{
			YearsLoaded: result.YearsLoaded,
			RowsLoaded:  result.RowsLoaded,
		},
		Timestamp: time.Now(),
	})
}
