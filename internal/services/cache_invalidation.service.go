package services

import (
	"context"
	"fmt"
	"strconv"

	"oshalog/internal/database"
	"oshalog/internal/logger"
)

// CacheInvalidationService keeps cached annual summaries coherent with the
// store. Summaries live in one hash per establishment (field = year), so a
// mutation anywhere under an establishment drops every cached year at once.
type CacheInvalidationService struct {
	db  database.DB
	log logger.Logger
}

func NewCacheInvalidationService(db database.DB) *CacheInvalidationService {
	return &CacheInvalidationService{
		db:  db,
		log: logger.New("CacheInvalidationService"),
	}
}

func summaryKey(establishmentID int) string {
	return fmt.Sprintf("osha:summary:%d", establishmentID)
}

func (s *CacheInvalidationService) builder(ctx context.Context, establishmentID int) *database.CacheBuilder {
	return database.NewCacheBuilder(s.db.Cache.Reports, summaryKey(establishmentID)).
		WithContext(ctx).
		WithTTL(s.db.CacheTTL)
}

// CachedAnnualSummary fills dest and reports true on a cache hit. Cache
// failures count as a miss.
func (s *CacheInvalidationService) CachedAnnualSummary(ctx context.Context, establishmentID, year int, dest any) bool {
	log := s.log.Function("CachedAnnualSummary")

	found, err := s.builder(ctx, establishmentID).WithHashField(strconv.Itoa(year)).Get(dest)
	if err != nil {
		log.Warn("report cache read failed", "establishmentID", establishmentID, "year", year, "error", err)
		return false
	}
	return found
}

func (s *CacheInvalidationService) StoreAnnualSummary(ctx context.Context, establishmentID, year int, summary any) {
	log := s.log.Function("StoreAnnualSummary")

	if err := s.builder(ctx, establishmentID).WithHashField(strconv.Itoa(year)).Set(summary); err != nil {
		log.Warn("report cache write failed", "establishmentID", establishmentID, "year", year, "error", err)
	}
}

// InvalidateEstablishment must run inside the mutating operation so the
// write and the invalidation happen under the same lock hold.
func (s *CacheInvalidationService) InvalidateEstablishment(ctx context.Context, establishmentID int) error {
	log := s.log.Function("InvalidateEstablishment")

	if err := s.builder(ctx, establishmentID).Delete(); err != nil {
		return log.Err("failed to invalidate report cache", err, "establishmentID", establishmentID)
	}
	return nil
}
