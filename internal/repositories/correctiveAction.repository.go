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

type CorrectiveActionRepository interface {
	Create(ctx context.Context, action *CorrectiveAction) error
	GetByID(ctx context.Context, id int) (*CorrectiveAction, error)
	ListByIncident(ctx context.Context, incidentID int) ([]*CorrectiveAction, error)
	Update(ctx context.Context, id int, patch *CorrectiveActionPatch) (*CorrectiveAction, error)
	Delete(ctx context.Context, id int) error
}

type correctiveActionRepository struct {
	db  database.DB
	log logger.Logger
	now func() time.Time
}

func NewCorrectiveAction(db database.DB) CorrectiveActionRepository {
	return &correctiveActionRepository{
		db:  db,
		log: logger.New("correctiveActionRepository"),
		now: time.Now,
	}
}

func (r *correctiveActionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *correctiveActionRepository) Create(ctx context.Context, action *CorrectiveAction) error {
	log := r.log.Function("Create")

	now := r.now().UTC()
	action.ID = 0
	action.CreatedAt = now
	action.UpdatedAt = now

	if err := r.getDB(ctx).Create(action).Error; err != nil {
		return log.Err("failed to create corrective action", apperrors.Storage(err),
			"incidentID", action.IncidentID)
	}

	return nil
}

func (r *correctiveActionRepository) GetByID(ctx context.Context, id int) (*CorrectiveAction, error) {
	log := r.log.Function("GetByID")

	var action CorrectiveAction
	err := r.getDB(ctx).First(&action, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Corrective action", id)
	}
	if err != nil {
		return nil, log.Err("failed to get corrective action", apperrors.Storage(err), "id", id)
	}

	return &action, nil
}

func (r *correctiveActionRepository) ListByIncident(
	ctx context.Context,
	incidentID int,
) ([]*CorrectiveAction, error) {
	log := r.log.Function("ListByIncident")

	var actions []*CorrectiveAction
	err := r.getDB(ctx).
		Where("incident_id = ?", incidentID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&actions).Error
	if err != nil {
		return nil, log.Err("failed to list corrective actions", apperrors.Storage(err),
			"incidentID", incidentID)
	}

	return actions, nil
}

func (r *correctiveActionRepository) Update(
	ctx context.Context,
	id int,
	patch *CorrectiveActionPatch,
) (*CorrectiveAction, error) {
	log := r.log.Function("Update")

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p := newPatchBuilder()
	if patch != nil {
		patchNullable(p, "rca_session_id", patch.RcaSessionID, current.RcaSessionID)
		patchValue(p, "description", patch.Description, current.Description)
		patchOptional(p, "assigned_to", patch.AssignedTo, current.AssignedTo)
		patchOptional(p, "due_date", patch.DueDate, current.DueDate)
		patchValue(p, "status", patch.Status, current.Status)
		patchOptional(p, "completed_date", patch.CompletedDate, current.CompletedDate)
		patchOptional(p, "notes", patch.Notes, current.Notes)
	}
	if p.empty() {
		return current, nil
	}

	err = r.getDB(ctx).Model(&CorrectiveAction{}).
		Where("id = ?", id).
		Updates(p.assignments(r.now().UTC())).Error
	if err != nil {
		return nil, log.Err("failed to update corrective action", apperrors.Storage(err), "id", id)
	}

	return r.GetByID(ctx, id)
}

func (r *correctiveActionRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	result := r.getDB(ctx).Delete(&CorrectiveAction{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete corrective action", apperrors.Storage(result.Error), "id", id)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Corrective action", id)
	}

	return nil
}
