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

type FishboneRepository interface {
	CreateCategory(ctx context.Context, category *FishboneCategory) error
	GetCategory(ctx context.Context, id int) (*FishboneCategory, error)
	ListCategories(ctx context.Context, sessionID int) ([]*FishboneCategory, error)
	CreateCause(ctx context.Context, cause *FishboneCause) error
	GetCause(ctx context.Context, id int) (*FishboneCause, error)
	UpdateCause(ctx context.Context, id int, patch *FishboneCausePatch) (*FishboneCause, error)
	DeleteCause(ctx context.Context, id int) error
}

type fishboneRepository struct {
	db  database.DB
	log logger.Logger
	now func() time.Time
}

func NewFishbone(db database.DB) FishboneRepository {
	return &fishboneRepository{
		db:  db,
		log: logger.New("fishboneRepository"),
		now: time.Now,
	}
}

func (r *fishboneRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *fishboneRepository) CreateCategory(ctx context.Context, category *FishboneCategory) error {
	log := r.log.Function("CreateCategory")

	now := r.now().UTC()
	category.ID = 0
	category.CreatedAt = now
	category.UpdatedAt = now

	if err := r.getDB(ctx).Create(category).Error; err != nil {
		return log.Err("failed to create fishbone category", apperrors.Storage(err),
			"sessionID", category.RcaSessionID, "category", category.Category)
	}
	category.Causes = []*FishboneCause{}

	return nil
}

func (r *fishboneRepository) GetCategory(ctx context.Context, id int) (*FishboneCategory, error) {
	log := r.log.Function("GetCategory")

	var category FishboneCategory
	err := r.getDB(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Fishbone category", id)
	}
	if err != nil {
		return nil, log.Err("failed to get fishbone category", apperrors.Storage(err), "id", id)
	}

	return &category, nil
}

// ListCategories returns the session's bones by sort order, each carrying
// its causes in sort order.
func (r *fishboneRepository) ListCategories(ctx context.Context, sessionID int) ([]*FishboneCategory, error) {
	log := r.log.Function("ListCategories")

	var categories []*FishboneCategory
	err := r.getDB(ctx).
		Where("rca_session_id = ?", sessionID).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, log.Err("failed to list fishbone categories", apperrors.Storage(err), "sessionID", sessionID)
	}
	if len(categories) == 0 {
		return categories, nil
	}

	ids := make([]int, len(categories))
	byID := make(map[int]*FishboneCategory, len(categories))
	for i, category := range categories {
		category.Causes = []*FishboneCause{}
		ids[i] = category.ID
		byID[category.ID] = category
	}

	var causes []*FishboneCause
	err = r.getDB(ctx).
		Where("category_id IN ?", ids).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&causes).Error
	if err != nil {
		return nil, log.Err("failed to list fishbone causes", apperrors.Storage(err), "sessionID", sessionID)
	}
	for _, cause := range causes {
		category := byID[cause.CategoryID]
		category.Causes = append(category.Causes, cause)
	}

	return categories, nil
}

func (r *fishboneRepository) CreateCause(ctx context.Context, cause *FishboneCause) error {
	log := r.log.Function("CreateCause")

	now := r.now().UTC()
	cause.ID = 0
	cause.CreatedAt = now
	cause.UpdatedAt = now

	if err := r.getDB(ctx).Create(cause).Error; err != nil {
		return log.Err("failed to create fishbone cause", apperrors.Storage(err), "categoryID", cause.CategoryID)
	}

	return nil
}

func (r *fishboneRepository) GetCause(ctx context.Context, id int) (*FishboneCause, error) {
	log := r.log.Function("GetCause")

	var cause FishboneCause
	err := r.getDB(ctx).First(&cause, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Fishbone cause", id)
	}
	if err != nil {
		return nil, log.Err("failed to get fishbone cause", apperrors.Storage(err), "id", id)
	}

	return &cause, nil
}

func (r *fishboneRepository) UpdateCause(
	ctx context.Context,
	id int,
	patch *FishboneCausePatch,
) (*FishboneCause, error) {
	log := r.log.Function("UpdateCause")

	current, err := r.GetCause(ctx, id)
	if err != nil {
		return nil, err
	}

	p := newPatchBuilder()
	if patch != nil {
		patchValue(p, "cause_text", patch.CauseText, current.CauseText)
		patchValue(p, "is_root_cause", patch.IsRootCause, current.IsRootCause)
		patchValue(p, "sort_order", patch.SortOrder, current.SortOrder)
	}
	if p.empty() {
		return current, nil
	}

	err = r.getDB(ctx).Model(&FishboneCause{}).
		Where("id = ?", id).
		Updates(p.assignments(r.now().UTC())).Error
	if err != nil {
		return nil, log.Err("failed to update fishbone cause", apperrors.Storage(err), "id", id)
	}

	return r.GetCause(ctx, id)
}

func (r *fishboneRepository) DeleteCause(ctx context.Context, id int) error {
	log := r.log.Function("DeleteCause")

	result := r.getDB(ctx).Delete(&FishboneCause{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete fishbone cause", apperrors.Storage(result.Error), "id", id)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Fishbone cause", id)
	}

	return nil
}
