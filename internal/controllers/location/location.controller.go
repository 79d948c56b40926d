package locationController

import (
	"context"

	"oshalog/internal/logger"
	. "oshalog/internal/models"
	"oshalog/internal/repositories"
	"oshalog/internal/services"
	"oshalog/internal/utils"
)

type LocationController struct {
	establishmentRepo  repositories.EstablishmentRepository
	locationRepo       repositories.LocationRepository
	transactionService *services.TransactionService
	log                logger.Logger
}

func New(
	establishmentRepo repositories.EstablishmentRepository,
	locationRepo repositories.LocationRepository,
	transactionService *services.TransactionService,
) *LocationController {
	return &LocationController{
		establishmentRepo:  establishmentRepo,
		locationRepo:       locationRepo,
		transactionService: transactionService,
		log:                logger.New("LocationController"),
	}
}

func validateLocationFields(address, city, state *string) error {
	if err := utils.ValidateOptionalLength(address, "address", utils.MaxNameLength); err != nil {
		return err
	}
	if err := utils.ValidateOptionalLength(city, "city", utils.MaxNameLength); err != nil {
		return err
	}
	return utils.ValidateOptionalLength(state, "state", utils.MaxNameLength)
}

func validateLocationName(name string) error {
	if err := utils.ValidateNotEmpty(name, "location name"); err != nil {
		return err
	}
	return utils.ValidateLength(name, "location name", utils.MaxNameLength)
}

func (lc *LocationController) Create(ctx context.Context, req CreateLocationRequest) (*Location, error) {
	log := lc.log.Function("Create")

	if err := validateLocationName(req.Name); err != nil {
		return nil, err
	}
	if err := validateLocationFields(req.Address, req.City, req.State); err != nil {
		return nil, err
	}

	location := &Location{
		EstablishmentID: req.EstablishmentID,
		Name:            req.Name,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		IsActive:        true,
	}
	if req.IsActive != nil {
		location.IsActive = *req.IsActive
	}

	err := lc.transactionService.Execute(ctx, "location.create", func(ctx context.Context) error {
		if _, err := lc.establishmentRepo.GetByID(ctx, req.EstablishmentID); err != nil {
			return err
		}
		return lc.locationRepo.Create(ctx, location)
	})
	if err != nil {
		return nil, log.Err("failed to create location", err, "establishmentID", req.EstablishmentID)
	}

	return location, nil
}

func (lc *LocationController) Get(ctx context.Context, id int) (*Location, error) {
	var location *Location
	err := lc.transactionService.Read(ctx, "location.get", func(ctx context.Context) error {
		var err error
		location, err = lc.locationRepo.GetByID(ctx, id)
		return err
	})
	return location, err
}

func (lc *LocationController) List(ctx context.Context, establishmentID int) ([]*Location, error) {
	var locations []*Location
	err := lc.transactionService.Read(ctx, "location.list", func(ctx context.Context) error {
		var err error
		locations, err = lc.locationRepo.ListByEstablishment(ctx, establishmentID)
		return err
	})
	return locations, err
}

func (lc *LocationController) Update(ctx context.Context, id int, patch LocationPatch) (*Location, error) {
	if patch.Name != nil {
		if err := validateLocationName(*patch.Name); err != nil {
			return nil, err
		}
	}
	if err := validateLocationFields(patch.Address, patch.City, patch.State); err != nil {
		return nil, err
	}

	var location *Location
	err := lc.transactionService.Execute(ctx, "location.update", func(ctx context.Context) error {
		var err error
		location, err = lc.locationRepo.Update(ctx, id, &patch)
		return err
	})
	return location, err
}

// Delete keeps the location's incidents; they become Unassigned.
func (lc *LocationController) Delete(ctx context.Context, id int) error {
	return lc.transactionService.Execute(ctx, "location.delete", func(ctx context.Context) error {
		return lc.locationRepo.Delete(ctx, id)
	})
}
