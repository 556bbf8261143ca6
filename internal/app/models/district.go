package models

// District is a registry entry for a reporting school district. The
// registry is derived from ingested enrollment extracts; FirstYear and
// LastYear bound the end-years for which the district reported data.
type District struct {
	DistrictID string `json:"district_id"`
	Name       string `json:"name"`
	County     string `json:"county,omitempty"`
	FirstYear  int    `json:"first_year"`
	LastYear   int    `json:"last_year"`
}
