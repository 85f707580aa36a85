package services

import (
	"time"

	"github.com/jmoiron/sqlx"

	"expyra/internal/repos"
)

// SeedService loads or clears the demo catalog. Both operations run in a
// single transaction, so a failure leaves no partial state behind.
type SeedService struct {
	DB  *sqlx.DB
	Now func() time.Time
}

func NewSeedService(db *sqlx.DB) *SeedService {
	return &SeedService{DB: db, Now: time.Now}
}

func (s *SeedService) Seed() error {
	return repos.Seed(s.DB, s.Now().UTC())
}

func (s *SeedService) Clear() error {
	return repos.Clear(s.DB)
}
