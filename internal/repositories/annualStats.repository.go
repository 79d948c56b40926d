package repositories

import (
	"context"
	"errors"
	"time"

	"oshalog/internal/apperrors"
	"oshalog/internal/database"
	"oshalog/internal/logger"
	. "oshalog/internal/models"
	"oshalog/internal/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnnualStatsRepository interface {
	Upsert(ctx context.Context, stats *AnnualStats) (*AnnualStats, error)
	Get(ctx context.Context, establishmentID, year int) (*AnnualStats, error)
}

type annualStatsRepository struct {
	db  database.DB
	log logger.Logger
	now func() time.Time
}

func NewAnnualStats(db database.DB) AnnualStatsRepository {
	return &annualStatsRepository{
		db:  db,
		log: logger.New("annualStatsRepository"),
		now: time.Now,
	}
}

func (r *annualStatsRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

var annualStatsUpsertColumns = []string{
	"average_employees",
	"total_hours_worked",
	"certifier_name",
	"certifier_title",
	"certifier_phone",
	"certification_date",
	"updated_at",
}

// Upsert replaces every stats field of the (establishment, year) row,
// creating it when absent. created_at survives the update.
func (r *annualStatsRepository) Upsert(ctx context.Context, stats *AnnualStats) (*AnnualStats, error) {
	log := r.log.Function("Upsert")

	now := r.now().UTC()
	stats.ID = 0
	stats.CreatedAt = now
	stats.UpdatedAt = now

	err := r.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "establishment_id"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns(annualStatsUpsertColumns),
	}).Create(stats).Error
	if err != nil {
		return nil, log.Err("failed to upsert annual stats", apperrors.Storage(err),
			"establishmentID", stats.EstablishmentID, "year", stats.Year)
	}

	stored, err := r.Get(ctx, stats.EstablishmentID, stats.Year)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, log.Error("annual stats missing after upsert",
			"establishmentID", stats.EstablishmentID, "year", stats.Year)
	}

	return stored, nil
}

// Get returns nil without error when no stats were recorded for the year.
func (r *annualStatsRepository) Get(ctx context.Context, establishmentID, year int) (*AnnualStats, error) {
	log := r.log.Function("Get")

	var stats AnnualStats
	err := r.getDB(ctx).
		Where("establishment_id = ? AND year = ?", establishmentID, year).
		First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, log.Err("failed to get annual stats", apperrors.Storage(err),
			"establishmentID", establishmentID, "year", year)
	}

	return &stats, nil
}
