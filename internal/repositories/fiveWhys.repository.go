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

type FiveWhysRepository interface {
	Create(ctx context.Context, step *FiveWhysStep) error
	GetByID(ctx context.Context, id int) (*FiveWhysStep, error)
	ListBySession(ctx context.Context, sessionID int) ([]*FiveWhysStep, error)
	Update(ctx context.Context, id int, patch *FiveWhysStepPatch) (*FiveWhysStep, error)
}

type fiveWhysRepository struct {
	db  database.DB
	log logger.Logger
	now func() time.Time
}

func NewFiveWhys(db database.DB) FiveWhysRepository {
	return &fiveWhysRepository{
		db:  db,
		log: logger.New("fiveWhysRepository"),
		now: time.Now,
	}
}

func (r *fiveWhysRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *fiveWhysRepository) Create(ctx context.Context, step *FiveWhysStep) error {
	log := r.log.Function("Create")

	now := r.now().UTC()
	step.ID = 0
	step.CreatedAt = now
	step.UpdatedAt = now

	if err := r.getDB(ctx).Create(step).Error; err != nil {
		return log.Err("failed to create five whys step", apperrors.Storage(err),
			"sessionID", step.RcaSessionID, "stepNumber", step.StepNumber)
	}

	return nil
}

func (r *fiveWhysRepository) GetByID(ctx context.Context, id int) (*FiveWhysStep, error) {
	log := r.log.Function("GetByID")

	var step FiveWhysStep
	err := r.getDB(ctx).First(&step, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Five Whys step", id)
	}
	if err != nil {
		return nil, log.Err("failed to get five whys step", apperrors.Storage(err), "id", id)
	}

	return &step, nil
}

func (r *fiveWhysRepository) ListBySession(ctx context.Context, sessionID int) ([]*FiveWhysStep, error) {
	log := r.log.Function("ListBySession")

	var steps []*FiveWhysStep
	err := r.getDB(ctx).
		Where("rca_session_id = ?", sessionID).
		Order("step_number ASC").
		Find(&steps).Error
	if err != nil {
		return nil, log.Err("failed to list five whys steps", apperrors.Storage(err), "sessionID", sessionID)
	}

	return steps, nil
}

func (r *fiveWhysRepository) Update(
	ctx context.Context,
	id int,
	patch *FiveWhysStepPatch,
) (*FiveWhysStep, error) {
	log := r.log.Function("Update")

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p := newPatchBuilder()
	if patch != nil {
		patchValue(p, "question", patch.Question, current.Question)
		patchNullable(p, "answer", patch.Answer, current.Answer)
	}
	if p.empty() {
		return current, nil
	}

	err = r.getDB(ctx).Model(&FiveWhysStep{}).
		Where("id = ?", id).
		Updates(p.assignments(r.now().UTC())).Error
	if err != nil {
		return nil, log.Err("failed to update five whys step", apperrors.Storage(err), "id", id)
	}

	return r.GetByID(ctx, id)
}
