package locationController

import (
	"context"
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

func newController(t *testing.T) (*LocationController, *Establishment) {
	t.Helper()
	db, err := database.New(config.Config{DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	establishmentRepo := repositories.NewEstablishment(db)
	establishment := &Establishment{Name: "Acme Plant"}
	require.NoError(t, establishmentRepo.Create(context.Background(), establishment))

	controller := New(establishmentRepo, repositories.NewLocation(db), services.NewTransactionService(db, nil))
	return controller, establishment
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	controller, establishment := newController(t)

	location, err := controller.Create(ctx, CreateLocationRequest{EstablishmentID: establishment.ID, Name: "Dock"})
	require.NoError(t, err)
	assert.True(t, location.IsActive)

	inactive := false
	location, err = controller.Create(ctx, CreateLocationRequest{
		EstablishmentID: establishment.ID,
		Name:            "Annex",
		IsActive:        &inactive,
	})
	require.NoError(t, err)
	assert.False(t, location.IsActive)

	locations, err := controller.List(ctx, establishment.ID)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "Annex", locations[0].Name)
	assert.False(t, locations[0].IsActive)
}

func TestCreate_Errors(t *testing.T) {
	ctx := context.Background()
	controller, establishment := newController(t)

	_, err := controller.Create(ctx, CreateLocationRequest{EstablishmentID: establishment.ID, Name: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = controller.Create(ctx, CreateLocationRequest{EstablishmentID: establishment.ID + 1, Name: "Dock"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	controller, establishment := newController(t)

	location, err := controller.Create(ctx, CreateLocationRequest{EstablishmentID: establishment.ID, Name: "Dock"})
	require.NoError(t, err)

	name := "Loading Dock"
	inactive := false
	updated, err := controller.Update(ctx, location.ID, LocationPatch{Name: &name, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Loading Dock", updated.Name)
	assert.False(t, updated.IsActive)

	require.NoError(t, controller.Delete(ctx, location.ID))

	_, err = controller.Get(ctx, location.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, controller.Delete(ctx, location.ID), apperrors.ErrNotFound)
}
