package correctiveActionController

import (
	"context"

	"oshalog/internal/apperrors"
	"oshalog/internal/logger"
	. "oshalog/internal/models"
	"oshalog/internal/repositories"
	"oshalog/internal/services"
	"oshalog/internal/utils"
)

type CorrectiveActionController struct {
	incidentRepo       repositories.IncidentRepository
	sessionRepo        repositories.RcaSessionRepository
	actionRepo         repositories.CorrectiveActionRepository
	transactionService *services.TransactionService
	log                logger.Logger
}

func New(
	incidentRepo repositories.IncidentRepository,
	sessionRepo repositories.RcaSessionRepository,
	actionRepo repositories.CorrectiveActionRepository,
	transactionService *services.TransactionService,
) *CorrectiveActionController {
	return &CorrectiveActionController{
		incidentRepo:       incidentRepo,
		sessionRepo:        sessionRepo,
		actionRepo:         actionRepo,
		transactionService: transactionService,
		log:                logger.New("CorrectiveActionController"),
	}
}

func validateDescription(description string) error {
	if err := utils.ValidateNotEmpty(description, "description"); err != nil {
		return err
	}
	return utils.ValidateLength(description, "description", utils.MaxDescriptionLength)
}

func validateStatus(status *CorrectiveActionStatus) error {
	if status != nil && !status.Valid() {
		return apperrors.Validation("invalid corrective action status %q", string(*status))
	}
	return nil
}

// checkSession rejects a link to an analysis of a different incident.
func (cc *CorrectiveActionController) checkSession(ctx context.Context, incidentID int, sessionID *int) error {
	if sessionID == nil {
		return nil
	}
	session, err := cc.sessionRepo.GetByID(ctx, *sessionID)
	if err != nil {
		return err
	}
	if session.IncidentID != incidentID {
		return apperrors.Validation("RCA session %d belongs to another incident", *sessionID)
	}
	return nil
}

func (cc *CorrectiveActionController) Create(
	ctx context.Context,
	req CreateCorrectiveActionRequest,
) (*CorrectiveAction, error) {
	log := cc.log.Function("Create")

	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}
	if err := utils.ValidateOptionalLength(req.AssignedTo, "assigned to", utils.MaxNameLength); err != nil {
		return nil, err
	}
	if err := utils.ValidateOptionalDate(req.DueDate, "due date"); err != nil {
		return nil, err
	}
	if err := utils.ValidateOptionalLength(req.Notes, "notes", utils.MaxDescriptionLength); err != nil {
		return nil, err
	}
	if err := validateStatus(req.Status); err != nil {
		return nil, err
	}

	action := &CorrectiveAction{
		IncidentID:   req.IncidentID,
		RcaSessionID: req.RcaSessionID,
		Description:  req.Description,
		AssignedTo:   req.AssignedTo,
		DueDate:      req.DueDate,
		Status:       ActionOpen,
		Notes:        req.Notes,
	}
	if req.Status != nil {
		action.Status = *req.Status
	}

	err := cc.transactionService.Execute(ctx, "correctiveAction.create", func(ctx context.Context) error {
		if _, err := cc.incidentRepo.GetByID(ctx, req.IncidentID); err != nil {
			return err
		}
		if err := cc.checkSession(ctx, req.IncidentID, req.RcaSessionID); err != nil {
			return err
		}
		return cc.actionRepo.Create(ctx, action)
	})
	if err != nil {
		return nil, log.Err("failed to create corrective action", err, "incidentID", req.IncidentID)
	}

	return action, nil
}

func (cc *CorrectiveActionController) Get(ctx context.Context, id int) (*CorrectiveAction, error) {
	var action *CorrectiveAction
	err := cc.transactionService.Read(ctx, "correctiveAction.get", func(ctx context.Context) error {
		var err error
		action, err = cc.actionRepo.GetByID(ctx, id)
		return err
	})
	return action, err
}

func (cc *CorrectiveActionController) List(ctx context.Context, incidentID int) ([]*CorrectiveAction, error) {
	var actions []*CorrectiveAction
	err := cc.transactionService.Read(ctx, "correctiveAction.list", func(ctx context.Context) error {
		var err error
		actions, err = cc.actionRepo.ListByIncident(ctx, incidentID)
		return err
	})
	return actions, err
}

func (cc *CorrectiveActionController) Update(
	ctx context.Context,
	id int,
	patch CorrectiveActionPatch,
) (*CorrectiveAction, error) {
	if patch.Description != nil {
		if err := validateDescription(*patch.Description); err != nil {
			return nil, err
		}
	}
	if err := utils.ValidateOptionalLength(patch.AssignedTo, "assigned to", utils.MaxNameLength); err != nil {
		return nil, err
	}
	if err := utils.ValidateOptionalDate(patch.DueDate, "due date"); err != nil {
		return nil, err
	}
	if err := utils.ValidateOptionalDate(patch.CompletedDate, "completed date"); err != nil {
		return nil, err
	}
	if err := utils.ValidateOptionalLength(patch.Notes, "notes", utils.MaxDescriptionLength); err != nil {
		return nil, err
	}
	if err := validateStatus(patch.Status); err != nil {
		return nil, err
	}

	var action *CorrectiveAction
	err := cc.transactionService.Execute(ctx, "correctiveAction.update", func(ctx context.Context) error {
		current, err := cc.actionRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := cc.checkSession(ctx, current.IncidentID, patch.RcaSessionID.Ptr()); err != nil {
			return err
		}
		action, err = cc.actionRepo.Update(ctx, id, &patch)
		return err
	})
	return action, err
}

func (cc *CorrectiveActionController) Delete(ctx context.Context, id int) error {
	return cc.transactionService.Execute(ctx, "correctiveAction.delete", func(ctx context.Context) error {
		return cc.actionRepo.Delete(ctx, id)
	})
}
