package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oregondata/orschooldata/internal/app/models/dto"
	"github.com/oregondata/orschooldata/internal/middleware"
	"github.com/oregondata/orschooldata/internal/pkg/apperrors"
	"github.com/oregondata/orschooldata/internal/pkg/auth"
)

// AuthController handles admin authentication
type AuthController struct {
	jwtService        *auth.JWTService
	adminUsername     string
	adminPasswordHash string
}

// NewAuthController creates a new AuthController
func NewAuthController(jwtService *auth.JWTService, adminUsername, adminPasswordHash string) *AuthController {
	return &AuthController{
		jwtService:        jwtService,
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
	}
}

// Login authenticates the admin and issues an access token
// @Summary Admin login
// @Description Authenticates the configured admin account and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Admin credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Token issued"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid login data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if req.Username != c.adminUsername || !auth.CheckPassword(c.adminPasswordHash, req.Password) {
		middleware.HandleAPIError(ctx, apperrors.ErrInvalidCredentials)
		return
	}

	token, expiresIn, err := c.jwtService.GenerateToken(req.Username)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.LoginResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		Timestamp: time.Now(),
	})
}
