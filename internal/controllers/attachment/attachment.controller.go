package attachmentController

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"

	"oshalog/internal/apperrors"
	"oshalog/internal/blob"
	"oshalog/internal/logger"
	. "oshalog/internal/models"
	"oshalog/internal/repositories"
	"oshalog/internal/services"
	"oshalog/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

const MaxUploadBytes = 50 << 20

type AttachmentController struct {
	incidentRepo       repositories.IncidentRepository
	attachmentRepo     repositories.AttachmentRepository
	blobs              blob.Store
	transactionService *services.TransactionService
	log                logger.Logger
}

func New(
	incidentRepo repositories.IncidentRepository,
	attachmentRepo repositories.AttachmentRepository,
	blobs blob.Store,
	transactionService *services.TransactionService,
) *AttachmentController {
	return &AttachmentController{
		incidentRepo:       incidentRepo,
		attachmentRepo:     attachmentRepo,
		blobs:              blobs,
		transactionService: transactionService,
		log:                logger.New("AttachmentController"),
	}
}

func validateMetadata(req *CreateAttachmentRequest) error {
	if err := utils.ValidateNotEmpty(req.FileName, "file name"); err != nil {
		return err
	}
	if err := utils.ValidateLength(req.FileName, "file name", utils.MaxNameLength); err != nil {
		return err
	}
	if err := utils.ValidateNotEmpty(req.FilePath, "file path"); err != nil {
		return err
	}
	fileType, err := ParseAttachmentType(string(req.FileType))
	if err != nil {
		return apperrors.Validation("invalid file type %q", string(req.FileType))
	}
	req.FileType = fileType
	if req.FileSize != nil && (*req.FileSize < 0 || *req.FileSize > MaxUploadBytes) {
		return apperrors.Validation("file size must be between 0 and %d bytes", MaxUploadBytes)
	}
	return nil
}

// Create records metadata for bytes already stored under req.FilePath.
func (ac *AttachmentController) Create(ctx context.Context, req CreateAttachmentRequest) (*Attachment, error) {
	if err := validateMetadata(&req); err != nil {
		return nil, err
	}

	attachment := &Attachment{
		IncidentID: req.IncidentID,
		FileName:   req.FileName,
		FilePath:   req.FilePath,
		FileType:   req.FileType,
		FileSize:   req.FileSize,
		Checksum:   req.Checksum,
	}

	err := ac.transactionService.Execute(ctx, "attachment.create", func(ctx context.Context) error {
		if _, err := ac.incidentRepo.GetByID(ctx, req.IncidentID); err != nil {
			return err
		}
		return ac.attachmentRepo.Create(ctx, attachment)
	})
	if err != nil {
		return nil, err
	}

	return attachment, nil
}

// readLimited reads at most MaxUploadBytes and hashes what it read.
func readLimited(r io.Reader) ([]byte, string, error) {
	hasher, err := blake2b.New256(nil)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	n, err := io.Copy(io.MultiWriter(&buf, hasher), io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, "", apperrors.Storage(err)
	}
	if n > MaxUploadBytes {
		return nil, "", apperrors.Validation("file exceeds maximum size of %d bytes", MaxUploadBytes)
	}

	return buf.Bytes(), hex.EncodeToString(hasher.Sum(nil)), nil
}

// Upload stores the bytes in the blob store under a fresh key and records
// the attachment. The blob is removed again when the record cannot be
// written.
func (ac *AttachmentController) Upload(
	ctx context.Context,
	incidentID int,
	fileName string,
	fileType AttachmentType,
	contentType string,
	r io.Reader,
) (*Attachment, error) {
	log := ac.log.Function("Upload")

	safeName := utils.SanitizeFilename(fileName)
	if safeName == "" {
		return nil, apperrors.Validation("file name is empty after sanitization")
	}
	parsedType, err := ParseAttachmentType(string(fileType))
	if err != nil {
		return nil, apperrors.Validation("invalid file type %q", string(fileType))
	}

	data, checksum, err := readLimited(r)
	if err != nil {
		return nil, err
	}

	size := int64(len(data))
	key := fmt.Sprintf("incidents/%d/%s-%s", incidentID, uuid.NewString(), safeName)
	attachment := &Attachment{
		IncidentID: incidentID,
		FileName:   safeName,
		FilePath:   key,
		FileType:   parsedType,
		FileSize:   &size,
		Checksum:   &checksum,
	}

	stored := false
	err = ac.transactionService.Execute(ctx, "attachment.upload", func(ctx context.Context) error {
		if _, err := ac.incidentRepo.GetByID(ctx, incidentID); err != nil {
			return err
		}

		if _, err := ac.blobs.Put(ctx, key, bytes.NewReader(data), contentType); err != nil {
			return log.Err("failed to store attachment bytes", apperrors.Storage(err), "key", key)
		}
		stored = true

		return ac.attachmentRepo.Create(ctx, attachment)
	})
	if err != nil {
		// Covers a failed insert as well as a failed commit.
		if stored {
			if delErr := ac.blobs.Delete(context.WithoutCancel(ctx), key); delErr != nil {
				log.Er("failed to remove orphaned blob", delErr, "key", key)
			}
		}
		return nil, err
	}

	log.Info("Stored attachment", "id", attachment.ID, "incidentID", incidentID, "size", size)
	return attachment, nil
}

func (ac *AttachmentController) Get(ctx context.Context, id int) (*Attachment, error) {
	var attachment *Attachment
	err := ac.transactionService.Read(ctx, "attachment.get", func(ctx context.Context) error {
		var err error
		attachment, err = ac.attachmentRepo.GetByID(ctx, id)
		return err
	})
	return attachment, err
}

func (ac *AttachmentController) List(ctx context.Context, incidentID int) ([]*Attachment, error) {
	var attachments []*Attachment
	err := ac.transactionService.Read(ctx, "attachment.list", func(ctx context.Context) error {
		var err error
		attachments, err = ac.attachmentRepo.ListByIncident(ctx, incidentID)
		return err
	})
	return attachments, err
}

// Open returns the attachment record and a reader over its bytes. The
// caller closes the reader.
func (ac *AttachmentController) Open(ctx context.Context, id int) (*Attachment, io.ReadCloser, error) {
	var (
		attachment *Attachment
		body       io.ReadCloser
	)
	err := ac.transactionService.Read(ctx, "attachment.open", func(ctx context.Context) error {
		var err error
		attachment, err = ac.attachmentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		body, err = ac.blobs.Get(ctx, attachment.FilePath)
		if err != nil {
			return apperrors.Storage(err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return attachment, body, nil
}

// Delete removes the record first; a blob that cannot be removed afterwards
// is only logged.
func (ac *AttachmentController) Delete(ctx context.Context, id int) error {
	log := ac.log.Function("Delete")

	var attachment *Attachment
	err := ac.transactionService.Execute(ctx, "attachment.delete", func(ctx context.Context) error {
		var err error
		attachment, err = ac.attachmentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return ac.attachmentRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if err := ac.blobs.Delete(ctx, attachment.FilePath); err != nil {
		log.Warn("failed to remove attachment bytes", "id", id, "key", attachment.FilePath, "error", err)
	}
	return nil
}
