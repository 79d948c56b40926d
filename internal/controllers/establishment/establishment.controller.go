package establishmentController

import (
	"context"

	"oshalog/internal/logger"
	. "oshalog/internal/models"
	"oshalog/internal/repositories"
	"oshalog/internal/services"
	"oshalog/internal/utils"
)

type EstablishmentController struct {
	establishmentRepo  repositories.EstablishmentRepository
	transactionService *services.TransactionService
	cacheInvalidation  *services.CacheInvalidationService
	log                logger.Logger
}

func New(
	establishmentRepo repositories.EstablishmentRepository,
	transactionService *services.TransactionService,
	cacheInvalidation *services.CacheInvalidationService,
) *EstablishmentController {
	return &EstablishmentController{
		establishmentRepo:  establishmentRepo,
		transactionService: transactionService,
		cacheInvalidation:  cacheInvalidation,
		log:                logger.New("EstablishmentController"),
	}
}

func validateAddress(streetAddress, city, state, zipCode, industry, naics *string) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"street address", streetAddress},
		{"city", city},
		{"state", state},
		{"zip code", zipCode},
		{"industry description", industry},
		{"NAICS code", naics},
	}
	for _, field := range fields {
		if err := utils.ValidateOptionalLength(field.value, field.name, utils.MaxNameLength); err != nil {
			return err
		}
	}
	return nil
}

func (ec *EstablishmentController) Create(
	ctx context.Context,
	req CreateEstablishmentRequest,
) (*Establishment, error) {
	log := ec.log.Function("Create")

	if err := utils.ValidateNotEmpty(req.Name, "establishment name"); err != nil {
		return nil, err
	}
	if err := utils.ValidateLength(req.Name, "establishment name", utils.MaxNameLength); err != nil {
		return nil, err
	}
	if err := validateAddress(req.StreetAddress, req.City, req.State, req.ZipCode,
		req.IndustryDescription, req.NaicsCode); err != nil {
		return nil, err
	}

	establishment := &Establishment{
		Name:                req.Name,
		StreetAddress:       req.StreetAddress,
		City:                req.City,
		State:               req.State,
		ZipCode:             req.ZipCode,
		IndustryDescription: req.IndustryDescription,
		NaicsCode:           req.NaicsCode,
	}

	err := ec.transactionService.Execute(ctx, "establishment.create", func(ctx context.Context) error {
		return ec.establishmentRepo.Create(ctx, establishment)
	})
	if err != nil {
		return nil, log.Err("failed to create establishment", err, "name", req.Name)
	}

	log.Info("Created establishment", "id", establishment.ID, "name", establishment.Name)
	return establishment, nil
}

func (ec *EstablishmentController) Get(ctx context.Context, id int) (*Establishment, error) {
	var establishment *Establishment
	err := ec.transactionService.Read(ctx, "establishment.get", func(ctx context.Context) error {
		var err error
		establishment, err = ec.establishmentRepo.GetByID(ctx, id)
		return err
	})
	return establishment, err
}

func (ec *EstablishmentController) List(ctx context.Context) ([]*Establishment, error) {
	var establishments []*Establishment
	err := ec.transactionService.Read(ctx, "establishment.list", func(ctx context.Context) error {
		var err error
		establishments, err = ec.establishmentRepo.List(ctx)
		return err
	})
	return establishments, err
}

func (ec *EstablishmentController) Update(
	ctx context.Context,
	id int,
	patch EstablishmentPatch,
) (*Establishment, error) {
	if patch.Name != nil {
		if err := utils.ValidateNotEmpty(*patch.Name, "establishment name"); err != nil {
			return nil, err
		}
		if err := utils.ValidateLength(*patch.Name, "establishment name", utils.MaxNameLength); err != nil {
			return nil, err
		}
	}
	if err := validateAddress(patch.StreetAddress, patch.City, patch.State, patch.ZipCode,
		patch.IndustryDescription, patch.NaicsCode); err != nil {
		return nil, err
	}

	var establishment *Establishment
	err := ec.transactionService.Execute(ctx, "establishment.update", func(ctx context.Context) error {
		var err error
		establishment, err = ec.establishmentRepo.Update(ctx, id, &patch)
		if err != nil {
			return err
		}
		return ec.cacheInvalidation.InvalidateEstablishment(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	return establishment, nil
}

func (ec *EstablishmentController) Delete(ctx context.Context, id int) error {
	log := ec.log.Function("Delete")

	err := ec.transactionService.Execute(ctx, "establishment.delete", func(ctx context.Context) error {
		if err := ec.establishmentRepo.Delete(ctx, id); err != nil {
			return err
		}
		return ec.cacheInvalidation.InvalidateEstablishment(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Info("Deleted establishment", "id", id)
	return nil
}
