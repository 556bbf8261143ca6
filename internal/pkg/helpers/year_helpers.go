package helpers

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseEndYear parses a school end-year from its textual form. Anything
// that is not a plain base-10 integer is rejected; values are never
// coerced.
func ParseEndYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("year must be an integer, got %q", s)
	}
	return year, nil
}

// ParseYearList parses a comma-separated list of end-years, preserving
// order and duplicates. An empty string yields an empty slice.
func ParseYearList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}

	parts := strings.Split(s, ",")
	years := make([]int, 0, len(parts))
	for _, part := range parts {
		year, err := ParseEndYear(part)
		if err != nil {
			return nil, err
		}
		years = append(years, year)
	}
	return years, nil
}

// DistinctYears returns the distinct values of years in first-seen order.
func DistinctYears(years []int) []int {
	seen := make(map[int]struct{}, len(years))
	distinct := make([]int, 0, len(years))
	for _, y := range years {
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		distinct = append(distinct, y)
	}
	return distinct
}
