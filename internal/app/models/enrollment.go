package models

// Sentinel identity of the statewide aggregate rows. The Oregon Department
// of Education assigns four-digit institution IDs to real districts; "0000"
// is never one of them.
const (
	StateDistrictID   = "0000"
	StateDistrictName = "State"
)

// GradeTotal is the synthetic grade level aggregating all grades for a
// given district and subgroup.
const GradeTotal = "TOTAL"

// SubgroupTotalEnrollment is the synthetic subgroup holding the
// unpartitioned enrollment count.
const SubgroupTotalEnrollment = "total_enrollment"

// GradeLevels lists the reportable grade categories in school order,
// excluding the synthetic TOTAL.
var GradeLevels = []string{
	"KG", "01", "02", "03", "04", "05", "06",
	"07", "08", "09", "10", "11", "12",
}

// EnrollmentRecord is one row of an enrollment table: the student count for
// a (year, district, grade, subgroup) cell. Statewide aggregates appear as
// rows carrying the sentinel district identity with IsState set.
type EnrollmentRecord struct {
	EndYear      int    `json:"end_year"`
	DistrictID   string `json:"district_id"`
	DistrictName string `json:"district_name"`
	County       string `json:"-"`
	GradeLevel   string `json:"grade_level"`
	Subgroup     string `json:"subgroup"`
	NStudents    int    `json:"n_students"`
	IsState      bool   `json:"is_state"`
	IsDistrict   bool   `json:"is_district"`
}

// YearBounds describes the inclusive range of end-years for which
// enrollment data can be fetched.
type YearBounds struct {
	MinYear int `json:"min_year"`
	MaxYear int `json:"max_year"`
}

// IsValidGradeLevel reports whether g is a reportable grade or the
// synthetic TOTAL.
func IsValidGradeLevel(g string) bool {
	if g == GradeTotal {
		return true
	}
	for _, grade := range GradeLevels {
		if g == grade {
			return true
		}
	}
	return false
}
