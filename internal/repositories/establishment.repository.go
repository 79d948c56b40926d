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

type EstablishmentRepository interface {
	Create(ctx context.Context, establishment *Establishment) error
	GetByID(ctx context.Context, id int) (*Establishment, error)
	List(ctx context.Context) ([]*Establishment, error)
	Update(ctx context.Context, id int, patch *EstablishmentPatch) (*Establishment, error)
	Delete(ctx context.Context, id int) error
}

type establishmentRepository struct {
	db  database.DB
	log logger.Logger
	now func() time.Time
}

func NewEstablishment(db database.DB) EstablishmentRepository {
	return &establishmentRepository{
		db:  db,
		log: logger.New("establishmentRepository"),
		now: time.Now,
	}
}

func (r *establishmentRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *establishmentRepository) Create(ctx context.Context, establishment *Establishment) error {
	log := r.log.Function("Create")

	now := r.now().UTC()
	establishment.ID = 0
	establishment.CreatedAt = now
	establishment.UpdatedAt = now

	if err := r.getDB(ctx).Create(establishment).Error; err != nil {
		return log.Err("failed to create establishment", apperrors.Storage(err), "name", establishment.Name)
	}

	return nil
}

func (r *establishmentRepository) GetByID(ctx context.Context, id int) (*Establishment, error) {
	log := r.log.Function("GetByID")

	var establishment Establishment
	err := r.getDB(ctx).First(&establishment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Establishment", id)
	}
	if err != nil {
		return nil, log.Err("failed to get establishment", apperrors.Storage(err), "id", id)
	}

	return &establishment, nil
}

func (r *establishmentRepository) List(ctx context.Context) ([]*Establishment, error) {
	log := r.log.Function("List")

	var establishments []*Establishment
	if err := r.getDB(ctx).Order("name ASC").Order("id ASC").Find(&establishments).Error; err != nil {
		return nil, log.Err("failed to list establishments", apperrors.Storage(err))
	}

	return establishments, nil
}

func (r *establishmentRepository) Update(
	ctx context.Context,
	id int,
	patch *EstablishmentPatch,
) (*Establishment, error) {
	log := r.log.Function("Update")

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p := newPatchBuilder()
	if patch != nil {
		patchValue(p, "name", patch.Name, current.Name)
		patchOptional(p, "street_address", patch.StreetAddress, current.StreetAddress)
		patchOptional(p, "city", patch.City, current.City)
		patchOptional(p, "state", patch.State, current.State)
		patchOptional(p, "zip_code", patch.ZipCode, current.ZipCode)
		patchOptional(p, "industry_description", patch.IndustryDescription, current.IndustryDescription)
		patchOptional(p, "naics_code", patch.NaicsCode, current.NaicsCode)
	}
	if p.empty() {
		return current, nil
	}

	err = r.getDB(ctx).Model(&Establishment{}).
		Where("id = ?", id).
		Updates(p.assignments(r.now().UTC())).Error
	if err != nil {
		return nil, log.Err("failed to update establishment", apperrors.Storage(err), "id", id)
	}

	return r.GetByID(ctx, id)
}

// Delete cascades to locations, incidents, attachments, corrective actions
// and annual stats through the schema's foreign keys.
func (r *establishmentRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	result := r.getDB(ctx).Delete(&Establishment{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete establishment", apperrors.Storage(result.Error), "id", id)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Establishment", id)
	}

	return nil
}
