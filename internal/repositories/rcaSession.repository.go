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
)

type RcaSessionRepository interface {
	Create(ctx context.Context, session *RcaSession) error
	GetByID(ctx context.Context, id int) (*RcaSession, error)
	ListByIncident(ctx context.Context, incidentID int) ([]*RcaSession, error)
	Complete(ctx context.Context, id int, summary string) (*RcaSession, error)
	Delete(ctx context.Context, id int) error
}

type rcaSessionRepository struct {
	db  database.DB
	log logger.Logger
	now func() time.Time
}

func NewRcaSession(db database.DB) RcaSessionRepository {
	return &rcaSessionRepository{
		db:  db,
		log: logger.New("rcaSessionRepository"),
		now: time.Now,
	}
}

func (r *rcaSessionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *rcaSessionRepository) Create(ctx context.Context, session *RcaSession) error {
	log := r.log.Function("Create")

	now := r.now().UTC()
	session.ID = 0
	session.Status = RcaInProgress
	session.RootCauseSummary = nil
	session.CreatedAt = now
	session.UpdatedAt = now

	if err := r.getDB(ctx).Create(session).Error; err != nil {
		return log.Err("failed to create RCA session", apperrors.Storage(err),
			"incidentID", session.IncidentID)
	}

	return nil
}

func (r *rcaSessionRepository) GetByID(ctx context.Context, id int) (*RcaSession, error) {
	log := r.log.Function("GetByID")

	var session RcaSession
	err := r.getDB(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("RCA session", id)
	}
	if err != nil {
		return nil, log.Err("failed to get RCA session", apperrors.Storage(err), "id", id)
	}

	return &session, nil
}

// ListByIncident returns the newest session first.
func (r *rcaSessionRepository) ListByIncident(ctx context.Context, incidentID int) ([]*RcaSession, error) {
	log := r.log.Function("ListByIncident")

	var sessions []*RcaSession
	err := r.getDB(ctx).
		Where("incident_id = ?", incidentID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, log.Err("failed to list RCA sessions", apperrors.Storage(err), "incidentID", incidentID)
	}

	return sessions, nil
}

func (r *rcaSessionRepository) Complete(ctx context.Context, id int, summary string) (*RcaSession, error) {
	log := r.log.Function("Complete")

	result := r.getDB(ctx).Model(&RcaSession{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":             RcaCompleted,
			"root_cause_summary": summary,
			"updated_at":         r.now().UTC(),
		})
	if result.Error != nil {
		return nil, log.Err("failed to complete RCA session", apperrors.Storage(result.Error), "id", id)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("RCA session", id)
	}

	return r.GetByID(ctx, id)
}

// Delete cascades to the worksheet rows and unlinks corrective actions.
func (r *rcaSessionRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	result := r.getDB(ctx).Delete(&RcaSession{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete RCA session", apperrors.Storage(result.Error), "id", id)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("RCA session", id)
	}

	return nil
}
