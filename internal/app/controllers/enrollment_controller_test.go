package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oregondata/orschooldata/internal/app/models"
	"github.com/oregondata/orschooldata/internal/app/models/dto"
	"github.com/oregondata/orschooldata/internal/pkg/apperrors"
)

type fakeEnrollmentService struct {
	tables map[int][]*models.EnrollmentRecord
	bounds *models.YearBounds
}

func (f *fakeEnrollmentService) GetAvailableYears(ctx context.Context) (*models.YearBounds, error) {
	if f.bounds == nil {
		return nil, apperrors.ErrNoData
	}
	return f.bounds, nil
}

func (f *fakeEnrollmentService) FetchEnrollment(ctx context.Context, year int) ([]*models.EnrollmentRecord, error) {
	return f.FetchEnrollmentFiltered(ctx, year, dto.EnrollmentFilter{})
}

func (f *fakeEnrollmentService) FetchEnrollmentFiltered(ctx context.Context, year int, filter dto.EnrollmentFilter) ([]*models.EnrollmentRecord, error) {
	table, ok := f.tables[year]
	if !ok {
		return nil, apperrors.ErrYearNotFound
	}
	return table, nil
}

func (f *fakeEnrollmentService) FetchEnrollmentMulti(ctx context.Context, years []int) ([]*models.EnrollmentRecord, error) {
	records := make([]*models.EnrollmentRecord, 0)
	for _, year := range years {
		table, err := f.FetchEnrollment(ctx, year)
		if err != nil {
			return nil, err
		}
		records = append(records, table...)
	}
	return records, nil
}

func sampleRow(year int) *models.EnrollmentRecord {
	return &models.EnrollmentRecord{
		EndYear:      year,
		DistrictID:   "2180",
		DistrictName: "Portland SD 1J",
		GradeLevel:   "KG",
		Subgroup:     models.SubgroupTotalEnrollment,
		NStudents:    3102,
		IsDistrict:   true,
	}
}

func newTestRouter(svc *fakeEnrollmentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewEnrollmentController(svc)
	router.GET("/api/v1/enrollment/years", controller.GetAvailableYears)
	router.GET("/api/v1/enrollment", controller.GetEnrollmentMulti)
	router.GET("/api/v1/enrollment/:year", controller.GetEnrollment)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetAvailableYears(t *testing.T) {
	svc := &fakeEnrollmentService{bounds: &models.YearBounds{MinYear: 2013, MaxYear: 2024}}
	router := newTestRouter(svc)

	w := doRequest(t, router, "/api/v1/enrollment/years")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data dto.YearBoundsResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Data.MinYear != 2013 || resp.Data.MaxYear != 2024 {
		t.Fatalf("bounds = %+v, want 2013..2024", resp.Data)
	}
}

func TestGetAvailableYears_NoData(t *testing.T) {
	router := newTestRouter(&fakeEnrollmentService{})

	w := doRequest(t, router, "/api/v1/enrollment/years")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetEnrollment(t *testing.T) {
	svc := &fakeEnrollmentService{tables: map[int][]*models.EnrollmentRecord{
		2024: {sampleRow(2024)},
	}}
	router := newTestRouter(svc)

	w := doRequest(t, router, "/api/v1/enrollment/2024")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data dto.EnrollmentTableResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Data.RowCount != 1 || len(resp.Data.Rows) != 1 {
		t.Fatalf("row count = %d, rows = %d", resp.Data.RowCount, len(resp.Data.Rows))
	}
	if resp.Data.Rows[0].DistrictID != "2180" {
		t.Fatalf("district ID = %q", resp.Data.Rows[0].DistrictID)
	}
}

func TestGetEnrollment_TextualYear(t *testing.T) {
	router := newTestRouter(&fakeEnrollmentService{})

	w := doRequest(t, router, "/api/v1/enrollment/banana")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != dto.ErrorCodeValidationFailed {
		t.Fatalf("error = %+v, want code VAL_001", resp.Error)
	}
}

func TestGetEnrollment_UnknownYear(t *testing.T) {
	svc := &fakeEnrollmentService{tables: map[int][]*models.EnrollmentRecord{
		2024: {sampleRow(2024)},
	}}
	router := newTestRouter(svc)

	w := doRequest(t, router, "/api/v1/enrollment/1999")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetEnrollmentMulti(t *testing.T) {
	svc := &fakeEnrollmentService{tables: map[int][]*models.EnrollmentRecord{
		2023: {sampleRow(2023)},
		2024: {sampleRow(2024), sampleRow(2024)},
	}}
	router := newTestRouter(svc)

	w := doRequest(t, router, "/api/v1/enrollment?years=2023,2024")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data dto.EnrollmentTableResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Data.RowCount != 3 {
		t.Fatalf("row count = %d, want 3", resp.Data.RowCount)
	}
	if len(resp.Data.Years) != 2 || resp.Data.Years[0] != 2023 || resp.Data.Years[1] != 2024 {
		t.Fatalf("years = %v, want [2023 2024]", resp.Data.Years)
	}
	// Per-year blocks stay contiguous and in request order.
	if resp.Data.Rows[0].EndYear != 2023 || resp.Data.Rows[1].EndYear != 2024 || resp.Data.Rows[2].EndYear != 2024 {
		t.Fatalf("rows out of order: %d %d %d", resp.Data.Rows[0].EndYear, resp.Data.Rows[1].EndYear, resp.Data.Rows[2].EndYear)
	}
}

func TestGetEnrollmentMulti_EmptyYears(t *testing.T) {
	router := newTestRouter(&fakeEnrollmentService{tables: map[int][]*models.EnrollmentRecord{}})

	w := doRequest(t, router, "/api/v1/enrollment?years=")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data dto.EnrollmentTableResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Data.RowCount != 0 || resp.Data.Rows == nil {
		t.Fatalf("expected empty row list, got %+v", resp.Data)
	}
}

func TestGetEnrollmentMulti_MalformedYears(t *testing.T) {
	router := newTestRouter(&fakeEnrollmentService{})

	w := doRequest(t, router, "/api/v1/enrollment?years=2023,banana")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
