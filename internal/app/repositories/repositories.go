package repositories

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories holds all repository instances
type Repositories struct {
	EnrollmentRepository *EnrollmentRepository
	DistrictRepository   *DistrictRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		EnrollmentRepository: NewEnrollmentRepository(db),
		DistrictRepository:   NewDistrictRepository(db),
	}
}
