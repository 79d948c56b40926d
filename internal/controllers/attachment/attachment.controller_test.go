package attachmentController

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"oshalog/config"
	"oshalog/internal/apperrors"
	"oshalog/internal/blob"
	"oshalog/internal/database"
	. "oshalog/internal/models"
	"oshalog/internal/repositories"
	"oshalog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	controller   *AttachmentController
	blobs        blob.Store
	incident     *Incident
	incidentRepo repositories.IncidentRepository
	attachments  repositories.AttachmentRepository
	tx           *services.TransactionService
}

func newFixture(t *testing.T, blobs blob.Store) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.New(config.Config{DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tx := services.NewTransactionService(db, nil)
	establishmentRepo := repositories.NewEstablishment(db)
	incidentRepo := repositories.NewIncident(db)

	establishment := &Establishment{Name: "Acme Plant"}
	require.NoError(t, establishmentRepo.Create(ctx, establishment))

	incident := &Incident{
		EstablishmentID:   establishment.ID,
		EmployeeName:      "Jane Doe",
		IncidentDate:      "2024-04-02",
		Description:       "Twisted ankle on stairs",
		OutcomeSeverity:   SeverityOtherRecordable,
		InjuryIllnessType: TypeInjury,
		IsRecordable:      true,
		Status:            StatusOpen,
	}
	require.NoError(t, tx.Execute(ctx, "test.createIncident", func(ctx context.Context) error {
		return incidentRepo.Create(ctx, incident)
	}))

	attachments := repositories.NewAttachment(db)
	return &fixture{
		controller:   New(incidentRepo, attachments, blobs, tx),
		blobs:        blobs,
		incident:     incident,
		incidentRepo: incidentRepo,
		attachments:  attachments,
		tx:           tx,
	}
}

type failingStore struct {
	blob.Store
}

func (failingStore) Put(context.Context, string, io.Reader, string) (blob.Info, error) {
	return blob.Info{}, errors.New("bucket unavailable")
}

// recordingStore remembers every key it accepted.
type recordingStore struct {
	blob.Store
	keys []string
}

func (s *recordingStore) Put(ctx context.Context, key string, r io.Reader, contentType string) (blob.Info, error) {
	info, err := s.Store.Put(ctx, key, r, contentType)
	if err == nil {
		s.keys = append(s.keys, key)
	}
	return info, err
}

type failingAttachments struct {
	repositories.AttachmentRepository
}

func (failingAttachments) Create(context.Context, *Attachment) error {
	return apperrors.Storage(errors.New("disk I/O error"))
}

// danglingAttachments inserts against a missing incident with foreign key
// checks deferred, so the insert succeeds and the commit fails.
type danglingAttachments struct {
	repositories.AttachmentRepository
}

func (r danglingAttachments) Create(ctx context.Context, attachment *Attachment) error {
	tx, ok := services.GetTransaction(ctx)
	if !ok {
		return errors.New("no transaction")
	}
	if err := tx.Exec("PRAGMA defer_foreign_keys = ON").Error; err != nil {
		return err
	}
	attachment.IncidentID = 999
	return r.AttachmentRepository.Create(ctx, attachment)
}

func TestUploadOpenDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, blob.NewMemory())

	attachment, err := f.controller.Upload(ctx, f.incident.ID, "../scene photo.jpg", "Photo", "image/jpeg",
		strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "scene photo.jpg", attachment.FileName)
	assert.Equal(t, AttachmentPhoto, attachment.FileType)
	assert.True(t, strings.HasPrefix(attachment.FilePath, "incidents/"))
	assert.True(t, strings.HasSuffix(attachment.FilePath, "-scene photo.jpg"))
	require.NotNil(t, attachment.FileSize)
	assert.Equal(t, int64(10), *attachment.FileSize)
	require.NotNil(t, attachment.Checksum)
	assert.Len(t, *attachment.Checksum, 64)

	listed, err := f.controller.List(ctx, f.incident.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, attachment.ID, listed[0].ID)

	opened, body, err := f.controller.Open(ctx, attachment.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, "jpeg-bytes", string(data))
	assert.Equal(t, attachment.FilePath, opened.FilePath)

	require.NoError(t, f.controller.Delete(ctx, attachment.ID))

	_, err = f.blobs.Get(ctx, attachment.FilePath)
	assert.ErrorIs(t, err, blob.ErrNotFound)

	_, err = f.controller.Get(ctx, attachment.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, f.controller.Delete(ctx, attachment.ID), apperrors.ErrNotFound)
}

func TestUpload_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, blob.NewMemory())

	tests := []struct {
		name       string
		incidentID int
		fileName   string
		fileType   AttachmentType
		want       error
	}{
		{"unknown incident", f.incident.ID + 1, "a.pdf", AttachmentDocument, apperrors.ErrNotFound},
		{"name sanitizes to empty", f.incident.ID, "../..", AttachmentDocument, apperrors.ErrValidation},
		{"unknown type", f.incident.ID, "a.mp4", AttachmentType("video"), apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.controller.Upload(ctx, tt.incidentID, tt.fileName, tt.fileType, "", strings.NewReader("x"))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpload_StoreFailureLeavesNoRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, failingStore{Store: blob.NewMemory()})

	_, err := f.controller.Upload(ctx, f.incident.ID, "a.pdf", AttachmentDocument, "application/pdf",
		strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, apperrors.ErrStorage)

	attachments, err := f.controller.List(ctx, f.incident.ID)
	require.NoError(t, err)
	assert.Empty(t, attachments)
}

func TestUpload_FailedInsertRemovesBlob(t *testing.T) {
	ctx := context.Background()
	store := &recordingStore{Store: blob.NewMemory()}
	f := newFixture(t, store)
	controller := New(f.incidentRepo, failingAttachments{f.attachments}, store, f.tx)

	_, err := controller.Upload(ctx, f.incident.ID, "scene.jpg", AttachmentPhoto, "image/jpeg",
		strings.NewReader("jpeg-bytes"))
	require.ErrorIs(t, err, apperrors.ErrStorage)

	require.Len(t, store.keys, 1)
	_, err = store.Get(ctx, store.keys[0])
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestUpload_FailedCommitRemovesBlob(t *testing.T) {
	ctx := context.Background()
	store := &recordingStore{Store: blob.NewMemory()}
	f := newFixture(t, store)
	controller := New(f.incidentRepo, danglingAttachments{f.attachments}, store, f.tx)

	_, err := controller.Upload(ctx, f.incident.ID, "scene.jpg", AttachmentPhoto, "image/jpeg",
		strings.NewReader("jpeg-bytes"))
	require.Error(t, err)

	require.Len(t, store.keys, 1)
	_, err = store.Get(ctx, store.keys[0])
	assert.ErrorIs(t, err, blob.ErrNotFound)

	listed, err := f.controller.List(ctx, f.incident.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCreate_Metadata(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, blob.NewMemory())
	size := int64(2048)

	attachment, err := f.controller.Create(ctx, CreateAttachmentRequest{
		IncidentID: f.incident.ID,
		FileName:   "statement.m4a",
		FilePath:   "imported/statement.m4a",
		FileType:   "AUDIO",
		FileSize:   &size,
	})
	require.NoError(t, err)
	assert.Equal(t, AttachmentAudio, attachment.FileType)

	negative := int64(-1)
	tests := []struct {
		name string
		req  CreateAttachmentRequest
		want error
	}{
		{"empty name", CreateAttachmentRequest{IncidentID: f.incident.ID, FilePath: "p", FileType: AttachmentPhoto}, apperrors.ErrValidation},
		{"empty path", CreateAttachmentRequest{IncidentID: f.incident.ID, FileName: "n", FileType: AttachmentPhoto}, apperrors.ErrValidation},
		{"bad type", CreateAttachmentRequest{IncidentID: f.incident.ID, FileName: "n", FilePath: "p", FileType: "video"}, apperrors.ErrValidation},
		{"negative size", CreateAttachmentRequest{IncidentID: f.incident.ID, FileName: "n", FilePath: "p", FileType: AttachmentPhoto, FileSize: &negative}, apperrors.ErrValidation},
		{"unknown incident", CreateAttachmentRequest{IncidentID: 999, FileName: "n", FilePath: "p", FileType: AttachmentPhoto}, apperrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.controller.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
