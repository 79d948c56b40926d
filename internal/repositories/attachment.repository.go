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

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *Attachment) error
	GetByID(ctx context.Context, id int) (*Attachment, error)
	ListByIncident(ctx context.Context, incidentID int) ([]*Attachment, error)
	Delete(ctx context.Context, id int) error
}

type attachmentRepository struct {
	db  database.DB
	log logger.Logger
	now func() time.Time
}

func NewAttachment(db database.DB) AttachmentRepository {
	return &attachmentRepository{
		db:  db,
		log: logger.New("attachmentRepository"),
		now: time.Now,
	}
}

func (r *attachmentRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *Attachment) error {
	log := r.log.Function("Create")

	attachment.ID = 0
	attachment.CreatedAt = r.now().UTC()

	if err := r.getDB(ctx).Create(attachment).Error; err != nil {
		return log.Err("failed to create attachment", apperrors.Storage(err),
			"incidentID", attachment.IncidentID)
	}

	return nil
}

func (r *attachmentRepository) GetByID(ctx context.Context, id int) (*Attachment, error) {
	log := r.log.Function("GetByID")

	var attachment Attachment
	err := r.getDB(ctx).First(&attachment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Attachment", id)
	}
	if err != nil {
		return nil, log.Err("failed to get attachment", apperrors.Storage(err), "id", id)
	}

	return &attachment, nil
}

func (r *attachmentRepository) ListByIncident(ctx context.Context, incidentID int) ([]*Attachment, error) {
	log := r.log.Function("ListByIncident")

	var attachments []*Attachment
	err := r.getDB(ctx).
		Where("incident_id = ?", incidentID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, log.Err("failed to list attachments", apperrors.Storage(err), "incidentID", incidentID)
	}

	return attachments, nil
}

func (r *attachmentRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	result := r.getDB(ctx).Delete(&Attachment{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete attachment", apperrors.Storage(result.Error), "id", id)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Attachment", id)
	}

	return nil
}
