package dto

import "github.com/oregondata/orschooldata/internal/app/models"

// YearBoundsResponse mirrors models.YearBounds for the years endpoint.
type YearBoundsResponse struct {
	MinYear int `json:"min_year" example:"2013"`
	MaxYear int `json:"max_year" example:"2024"`
}

// EnrollmentTableResponse wraps a fetched enrollment table together with the
// years it covers and its row count, so multi-year responses are
// self-describing.
type EnrollmentTableResponse struct {
	Years    []int                      `json:"years"`
	RowCount int                        `json:"row_count"`
	Rows     []*models.EnrollmentRecord `json:"rows"`
}

// NewEnrollmentTableResponse builds the response wrapper around fetched rows.
func NewEnrollmentTableResponse(years []int, rows []*models.EnrollmentRecord) EnrollmentTableResponse {
	if rows == nil {
		rows = []*models.EnrollmentRecord{}
	}
	return EnrollmentTableResponse{
		Years:    years,
		RowCount: len(rows),
		Rows:     rows,
	}
}

// EnrollmentFilter carries the optional query filters of the single-year
// endpoint. Zero values mean "no filter".
type EnrollmentFilter struct {
	GradeLevel string `form:"grade"`
	Subgroup   string `form:"subgroup"`
	DistrictID string `form:"district"`
}

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn" example:"3600"`
}

// IngestRequest is the admin ingest trigger payload. Dir is resolved
// against the server's configured data directory when relative.
type IngestRequest struct {
	Dir   string `json:"dir"`
	Years []int  `json:"years"`
}

// IngestResponse summarizes a completed ingest run.
type IngestResponse struct {
	YearsLoaded []int `json:"years_loaded"`
	RowsLoaded  int   `json:"rows_loaded"`
}
