package establishmentController

import (
	"context"
	"strings"
	"testing"

	"oshalog/config"
	"oshalog/internal/apperrors"
	"oshalog/internal/database"
	. "oshalog/internal/models"
	"oshalog/internal/repositories"
	"oshalog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T) *EstablishmentController {
	t.Helper()
	db, err := database.New(config.Config{DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return New(
		repositories.NewEstablishment(db),
		services.NewTransactionService(db, nil),
		services.NewCacheInvalidationService(db),
	)
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	controller := newController(t)

	naics := "332710"
	for _, name := range []string{"Zenith Foundry", "Acme Plant"} {
		_, err := controller.Create(ctx, CreateEstablishmentRequest{Name: name, NaicsCode: &naics})
		require.NoError(t, err)
	}

	establishments, err := controller.List(ctx)
	require.NoError(t, err)
	require.Len(t, establishments, 2)
	assert.Equal(t, "Acme Plant", establishments[0].Name)
	assert.Equal(t, "Zenith Foundry", establishments[1].Name)
	assert.Equal(t, "332710", *establishments[0].NaicsCode)
}

func TestCreate_Validation(t *testing.T) {
	controller := newController(t)
	longCity := strings.Repeat("c", 256)

	tests := []struct {
		name string
		req  CreateEstablishmentRequest
	}{
		{"empty name", CreateEstablishmentRequest{Name: ""}},
		{"whitespace name", CreateEstablishmentRequest{Name: " \t"}},
		{"long name", CreateEstablishmentRequest{Name: strings.Repeat("n", 256)}},
		{"long city", CreateEstablishmentRequest{Name: "Acme", City: &longCity}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := controller.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	controller := newController(t)

	establishment, err := controller.Create(ctx, CreateEstablishmentRequest{Name: "Acme Plant"})
	require.NoError(t, err)

	city := "Toledo"
	updated, err := controller.Update(ctx, establishment.ID, EstablishmentPatch{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Acme Plant", updated.Name)
	assert.Equal(t, "Toledo", *updated.City)

	empty := ""
	_, err = controller.Update(ctx, establishment.ID, EstablishmentPatch{Name: &empty})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = controller.Update(ctx, establishment.ID+1, EstablishmentPatch{City: &city})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	controller := newController(t)

	establishment, err := controller.Create(ctx, CreateEstablishmentRequest{Name: "Acme Plant"})
	require.NoError(t, err)

	require.NoError(t, controller.Delete(ctx, establishment.ID))

	_, err = controller.Get(ctx, establishment.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = controller.Delete(ctx, establishment.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
