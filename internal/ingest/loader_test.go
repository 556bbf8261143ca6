package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/oregondata/orschooldata/internal/app/models"
	"github.com/oregondata/orschooldata/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

type fakeStore struct {
	replaced []int
	rows     map[int]int
	err      error
}

func (s *fakeStore) ReplaceYear(ctx context.Context, year int, records []*models.EnrollmentRecord) error {
	if s.err != nil {
		return s.err
	}
	if s.rows == nil {
		s.rows = make(map[int]int)
	}
	s.replaced = append(s.replaced, year)
	s.rows[year] = len(records)
	return nil
}

func writeExtract(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func extractBody(district, name, county string) string {
	return "district_id,district_name,county,grade_level,subgroup,n_students\n" +
		district + "," + name + "," + county + ",K,Total Enrollment,100\n" +
		district + "," + name + "," + county + ",1,Total Enrollment,110\n"
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeExtract(t, dir, "fall_membership_2024.csv", extractBody("2180", "Portland SD 1J", "Multnomah"))
	writeExtract(t, dir, "fall_membership_2022.csv", extractBody("2243", "Salem-Keizer SD 24J", "Marion"))
	writeExtract(t, dir, "fall_membership_2023.csv", extractBody("2180", "Portland SD 1J", "Multnomah"))
	writeExtract(t, dir, "readme.txt", "not an extract")

	store := &fakeStore{}
	loader := NewLoader(store, zerolog.Nop())

	result, err := loader.LoadDirectory(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}

	// Years load sequentially in ascending order, non-extract files ignored.
	wantYears := []int{2022, 2023, 2024}
	if len(store.replaced) != len(wantYears) {
		t.Fatalf("replaced years %v, want %v", store.replaced, wantYears)
	}
	for i, y := range wantYears {
		if store.replaced[i] != y {
			t.Fatalf("replaced years %v, want %v", store.replaced, wantYears)
		}
	}

	// Each year's table holds the 2 source rows plus derived aggregates:
	// 1 district TOTAL and 3 state rows (K, 01, TOTAL).
	for _, y := range wantYears {
		if store.rows[y] != 6 {
			t.Fatalf("year %d loaded %d rows, want 6", y, store.rows[y])
		}
	}
	if result.RowsLoaded != 18 {
		t.Fatalf("RowsLoaded = %d, want 18", result.RowsLoaded)
	}
}

func TestLoadDirectory_YearFilter(t *testing.T) {
	dir := t.TempDir()
	writeExtract(t, dir, "fall_membership_2023.csv", extractBody("2180", "Portland SD 1J", "Multnomah"))
	writeExtract(t, dir, "fall_membership_2024.csv", extractBody("2180", "Portland SD 1J", "Multnomah"))

	store := &fakeStore{}
	loader := NewLoader(store, zerolog.Nop())

	result, err := loader.LoadDirectory(context.Background(), dir, []int{2024})
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}
	if len(result.YearsLoaded) != 1 || result.YearsLoaded[0] != 2024 {
		t.Fatalf("YearsLoaded = %v, want [2024]", result.YearsLoaded)
	}
}

func TestLoadDirectory_NoExtracts(t *testing.T) {
	store := &fakeStore{}
	loader := NewLoader(store, zerolog.Nop())

	if _, err := loader.LoadDirectory(context.Background(), t.TempDir(), nil); !errors.Is(err, apperrors.ErrIngestFailed) {
		t.Fatalf("expected ErrIngestFailed, got %v", err)
	}
}

func TestLoadDirectory_MalformedExtractFails(t *testing.T) {
	dir := t.TempDir()
	writeExtract(t, dir, "fall_membership_2024.csv", "wrong,header\n1,2\n")

	store := &fakeStore{}
	loader := NewLoader(store, zerolog.Nop())

	if _, err := loader.LoadDirectory(context.Background(), dir, nil); !errors.Is(err, apperrors.ErrIngestFailed) {
		t.Fatalf("expected ErrIngestFailed, got %v", err)
	}
	if len(store.replaced) != 0 {
		t.Fatalf("store should not be written on parse failure, got %v", store.replaced)
	}
}

func TestLoadDirectory_StoreError(t *testing.T) {
	dir := t.TempDir()
	writeExtract(t, dir, "fall_membership_2024.csv", extractBody("2180", "Portland SD 1J", "Multnomah"))

	store := &fakeStore{err: errors.New("connection refused")}
	loader := NewLoader(store, zerolog.Nop())

	if _, err := loader.LoadDirectory(context.Background(), dir, nil); !errors.Is(err, apperrors.ErrIngestFailed) {
		t.Fatalf("expected ErrIngestFailed, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	writeExtract(t, dir, "fall_membership_2021.csv", extractBody("2113", "Ashwood SD 8", "Jefferson"))

	store := &fakeStore{}
	loader := NewLoader(store, zerolog.Nop())

	result, err := loader.LoadFile(context.Background(), filepath.Join(dir, "fall_membership_2021.csv"))
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if len(result.YearsLoaded) != 1 || result.YearsLoaded[0] != 2021 {
		t.Fatalf("YearsLoaded = %v, want [2021]", result.YearsLoaded)
	}
	if result.RowsLoaded != 6 {
		t.Fatalf("RowsLoaded = %d, want 6", result.RowsLoaded)
	}
}
