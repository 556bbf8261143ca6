package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oregondata/orschooldata/internal/app/controllers"
	"github.com/oregondata/orschooldata/internal/app/models/dto"
	"github.com/oregondata/orschooldata/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	enrollmentController *controllers.EnrollmentController,
	districtController *controllers.DistrictController,
	ingestController *controllers.IngestController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public enrollment routes ---
	enrollment := v1.Group("/enrollment")
	{
		enrollment.GET("", enrollmentController.GetEnrollmentMulti)
		enrollment.GET("/years", enrollmentController.GetAvailableYears)
		enrollment.GET("/:year", enrollmentController.GetEnrollment)
	}

	// --- Public district routes ---
	districts := v1.Group("/districts")
	{
		districts.GET("", districtController.ListDistricts)
		districts.GET("/:id", districtController.GetDistrictByID)
	}

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Admin routes ---
	admin := v1.Group("/admin")
	admin.Use(authMiddleware.JWTAuth())
	{
		admin.POST("/ingest", ingestController.TriggerIngest)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})
}
