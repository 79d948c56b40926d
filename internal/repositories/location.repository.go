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

type LocationRepository interface {
	Create(ctx context.Context, location *Location) error
	GetByID(ctx context.Context, id int) (*Location, error)
	ListByEstablishment(ctx context.Context, establishmentID int) ([]*Location, error)
	Update(ctx context.Context, id int, patch *LocationPatch) (*Location, error)
	Delete(ctx context.Context, id int) error
}

type locationRepository struct {
	db  database.DB
	log logger.Logger
	now func() time.Time
}

func NewLocation(db database.DB) LocationRepository {
	return &locationRepository{
		db:  db,
		log: logger.New("locationRepository"),
		now: time.Now,
	}
}

func (r *locationRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *locationRepository) Create(ctx context.Context, location *Location) error {
	log := r.log.Function("Create")

	now := r.now().UTC()
	location.ID = 0
	location.CreatedAt = now
	location.UpdatedAt = now

	if err := r.getDB(ctx).Create(location).Error; err != nil {
		return log.Err("failed to create location", apperrors.Storage(err),
			"establishmentID", location.EstablishmentID)
	}

	return nil
}

func (r *locationRepository) GetByID(ctx context.Context, id int) (*Location, error) {
	log := r.log.Function("GetByID")

	var location Location
	err := r.getDB(ctx).First(&location, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Location", id)
	}
	if err != nil {
		return nil, log.Err("failed to get location", apperrors.Storage(err), "id", id)
	}

	return &location, nil
}

func (r *locationRepository) ListByEstablishment(ctx context.Context, establishmentID int) ([]*Location, error) {
	log := r.log.Function("ListByEstablishment")

	var locations []*Location
	err := r.getDB(ctx).
		Where("establishment_id = ?", establishmentID).
		Order("name ASC").
		Order("id ASC").
		Find(&locations).Error
	if err != nil {
		return nil, log.Err("failed to list locations", apperrors.Storage(err),
			"establishmentID", establishmentID)
	}

	return locations, nil
}

func (r *locationRepository) Update(ctx context.Context, id int, patch *LocationPatch) (*Location, error) {
	log := r.log.Function("Update")

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p := newPatchBuilder()
	if patch != nil {
		patchValue(p, "name", patch.Name, current.Name)
		patchOptional(p, "address", patch.Address, current.Address)
		patchOptional(p, "city", patch.City, current.City)
		patchOptional(p, "state", patch.State, current.State)
		patchValue(p, "is_active", patch.IsActive, current.IsActive)
	}
	if p.empty() {
		return current, nil
	}

	err = r.getDB(ctx).Model(&Location{}).
		Where("id = ?", id).
		Updates(p.assignments(r.now().UTC())).Error
	if err != nil {
		return nil, log.Err("failed to update location", apperrors.Storage(err), "id", id)
	}

	return r.GetByID(ctx, id)
}

// Delete leaves incidents in place with their location cleared.
func (r *locationRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	result := r.getDB(ctx).Delete(&Location{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete location", apperrors.Storage(result.Error), "id", id)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Location", id)
	}

	return nil
}
