package rcaController

import (
	"context"

	"oshalog/internal/apperrors"
	"oshalog/internal/logger"
	. "oshalog/internal/models"
	"oshalog/internal/repositories"
	"oshalog/internal/services"
	"oshalog/internal/utils"
)

// MaxWhys caps a Five Whys worksheet.
const MaxWhys = 5

type RcaController struct {
	incidentRepo       repositories.IncidentRepository
	sessionRepo        repositories.RcaSessionRepository
	fiveWhysRepo       repositories.FiveWhysRepository
	fishboneRepo       repositories.FishboneRepository
	transactionService *services.TransactionService
	log                logger.Logger
}

func New(
	incidentRepo repositories.IncidentRepository,
	sessionRepo repositories.RcaSessionRepository,
	fiveWhysRepo repositories.FiveWhysRepository,
	fishboneRepo repositories.FishboneRepository,
	transactionService *services.TransactionService,
) *RcaController {
	return &RcaController{
		incidentRepo:       incidentRepo,
		sessionRepo:        sessionRepo,
		fiveWhysRepo:       fiveWhysRepo,
		fishboneRepo:       fishboneRepo,
		transactionService: transactionService,
		log:                logger.New("RcaController"),
	}
}

func validateText(value, field string) error {
	if err := utils.ValidateNotEmpty(value, field); err != nil {
		return err
	}
	return utils.ValidateLength(value, field, utils.MaxDescriptionLength)
}

// openSession loads a session that still accepts worksheet changes.
func (rc *RcaController) openSession(ctx context.Context, id int, method RcaMethod) (*RcaSession, error) {
	session, err := rc.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == RcaCompleted {
		return nil, apperrors.Validation("RCA session %d is already completed", id)
	}
	if session.Method != method {
		return nil, apperrors.Validation("RCA session %d uses the %s method", id, session.Method)
	}
	return session, nil
}

func (rc *RcaController) CreateSession(ctx context.Context, req CreateRcaSessionRequest) (*RcaSession, error) {
	log := rc.log.Function("CreateSession")

	if !req.Method.Valid() {
		return nil, apperrors.Validation("invalid RCA method %q", string(req.Method))
	}

	session := &RcaSession{IncidentID: req.IncidentID, Method: req.Method}
	err := rc.transactionService.Execute(ctx, "rca.createSession", func(ctx context.Context) error {
		if _, err := rc.incidentRepo.GetByID(ctx, req.IncidentID); err != nil {
			return err
		}
		return rc.sessionRepo.Create(ctx, session)
	})
	if err != nil {
		return nil, log.Err("failed to create RCA session", err, "incidentID", req.IncidentID)
	}

	return session, nil
}

func (rc *RcaController) GetSession(ctx context.Context, id int) (*RcaSession, error) {
	var session *RcaSession
	err := rc.transactionService.Read(ctx, "rca.getSession", func(ctx context.Context) error {
		var err error
		session, err = rc.sessionRepo.GetByID(ctx, id)
		return err
	})
	return session, err
}

func (rc *RcaController) ListSessions(ctx context.Context, incidentID int) ([]*RcaSession, error) {
	var sessions []*RcaSession
	err := rc.transactionService.Read(ctx, "rca.listSessions", func(ctx context.Context) error {
		var err error
		sessions, err = rc.sessionRepo.ListByIncident(ctx, incidentID)
		return err
	})
	return sessions, err
}

// GetAnalysis returns the session together with its worksheet.
func (rc *RcaController) GetAnalysis(ctx context.Context, id int) (*RcaAnalysis, error) {
	var analysis *RcaAnalysis
	err := rc.transactionService.Read(ctx, "rca.getAnalysis", func(ctx context.Context) error {
		session, err := rc.sessionRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		analysis = &RcaAnalysis{RcaSession: session}

		switch session.Method {
		case RcaFiveWhys:
			analysis.Steps, err = rc.fiveWhysRepo.ListBySession(ctx, id)
		case RcaFishbone:
			analysis.Categories, err = rc.fishboneRepo.ListCategories(ctx, id)
		}
		return err
	})
	return analysis, err
}

func (rc *RcaController) CompleteSession(ctx context.Context, id int, summary string) (*RcaSession, error) {
	if err := validateText(summary, "root cause summary"); err != nil {
		return nil, err
	}

	var session *RcaSession
	err := rc.transactionService.Execute(ctx, "rca.completeSession", func(ctx context.Context) error {
		current, err := rc.sessionRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Status == RcaCompleted {
			return apperrors.Validation("RCA session %d is already completed", id)
		}
		session, err = rc.sessionRepo.Complete(ctx, id, summary)
		return err
	})
	return session, err
}

func (rc *RcaController) DeleteSession(ctx context.Context, id int) error {
	return rc.transactionService.Execute(ctx, "rca.deleteSession", func(ctx context.Context) error {
		return rc.sessionRepo.Delete(ctx, id)
	})
}

func (rc *RcaController) AddStep(
	ctx context.Context,
	sessionID int,
	req AddFiveWhysStepRequest,
) (*FiveWhysStep, error) {
	log := rc.log.Function("AddStep")

	if req.StepNumber < 1 || req.StepNumber > MaxWhys {
		return nil, apperrors.Validation("step number must be between 1 and %d", MaxWhys)
	}
	if err := validateText(req.Question, "question"); err != nil {
		return nil, err
	}
	if err := utils.ValidateOptionalLength(req.Answer, "answer", utils.MaxDescriptionLength); err != nil {
		return nil, err
	}

	step := &FiveWhysStep{
		RcaSessionID: sessionID,
		StepNumber:   req.StepNumber,
		Question:     req.Question,
		Answer:       req.Answer,
	}
	err := rc.transactionService.Execute(ctx, "rca.addStep", func(ctx context.Context) error {
		if _, err := rc.openSession(ctx, sessionID, RcaFiveWhys); err != nil {
			return err
		}
		steps, err := rc.fiveWhysRepo.ListBySession(ctx, sessionID)
		if err != nil {
			return err
		}
		for _, existing := range steps {
			if existing.StepNumber == req.StepNumber {
				return apperrors.Validation("step %d already exists", req.StepNumber)
			}
		}
		return rc.fiveWhysRepo.Create(ctx, step)
	})
	if err != nil {
		return nil, log.Err("failed to add five whys step", err, "sessionID", sessionID)
	}

	return step, nil
}

func (rc *RcaController) ListSteps(ctx context.Context, sessionID int) ([]*FiveWhysStep, error) {
	var steps []*FiveWhysStep
	err := rc.transactionService.Read(ctx, "rca.listSteps", func(ctx context.Context) error {
		var err error
		steps, err = rc.fiveWhysRepo.ListBySession(ctx, sessionID)
		return err
	})
	return steps, err
}

func (rc *RcaController) UpdateStep(ctx context.Context, id int, patch FiveWhysStepPatch) (*FiveWhysStep, error) {
	if patch.Question != nil {
		if err := validateText(*patch.Question, "question"); err != nil {
			return nil, err
		}
	}
	if err := utils.ValidateOptionalLength(patch.Answer.Ptr(), "answer", utils.MaxDescriptionLength); err != nil {
		return nil, err
	}

	var step *FiveWhysStep
	err := rc.transactionService.Execute(ctx, "rca.updateStep", func(ctx context.Context) error {
		current, err := rc.fiveWhysRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := rc.openSession(ctx, current.RcaSessionID, RcaFiveWhys); err != nil {
			return err
		}
		step, err = rc.fiveWhysRepo.Update(ctx, id, &patch)
		return err
	})
	return step, err
}

// AddCategory places a new bone at its canonical position unless the
// request orders it explicitly.
func (rc *RcaController) AddCategory(
	ctx context.Context,
	sessionID int,
	req AddFishboneCategoryRequest,
) (*FishboneCategory, error) {
	log := rc.log.Function("AddCategory")

	if !req.Category.Valid() {
		return nil, apperrors.Validation("invalid fishbone category %q", string(req.Category))
	}

	category := &FishboneCategory{RcaSessionID: sessionID, Category: req.Category}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	} else {
		for i, name := range FishboneCategoryNames {
			if name == req.Category {
				category.SortOrder = i
			}
		}
	}

	err := rc.transactionService.Execute(ctx, "rca.addCategory", func(ctx context.Context) error {
		if _, err := rc.openSession(ctx, sessionID, RcaFishbone); err != nil {
			return err
		}
		categories, err := rc.fishboneRepo.ListCategories(ctx, sessionID)
		if err != nil {
			return err
		}
		for _, existing := range categories {
			if existing.Category == req.Category {
				return apperrors.Validation("category %s already exists", req.Category)
			}
		}
		return rc.fishboneRepo.CreateCategory(ctx, category)
	})
	if err != nil {
		return nil, log.Err("failed to add fishbone category", err, "sessionID", sessionID)
	}

	return category, nil
}

func (rc *RcaController) ListCategories(ctx context.Context, sessionID int) ([]*FishboneCategory, error) {
	var categories []*FishboneCategory
	err := rc.transactionService.Read(ctx, "rca.listCategories", func(ctx context.Context) error {
		var err error
		categories, err = rc.fishboneRepo.ListCategories(ctx, sessionID)
		return err
	})
	return categories, err
}

// causeSession checks that the category's session still accepts changes.
func (rc *RcaController) causeSession(ctx context.Context, categoryID int) error {
	category, err := rc.fishboneRepo.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	_, err = rc.openSession(ctx, category.RcaSessionID, RcaFishbone)
	return err
}

func (rc *RcaController) AddCause(
	ctx context.Context,
	categoryID int,
	req AddFishboneCauseRequest,
) (*FishboneCause, error) {
	log := rc.log.Function("AddCause")

	if err := validateText(req.CauseText, "cause"); err != nil {
		return nil, err
	}

	cause := &FishboneCause{CategoryID: categoryID, CauseText: req.CauseText, IsRootCause: req.IsRootCause}
	if req.SortOrder != nil {
		cause.SortOrder = *req.SortOrder
	}

	err := rc.transactionService.Execute(ctx, "rca.addCause", func(ctx context.Context) error {
		if err := rc.causeSession(ctx, categoryID); err != nil {
			return err
		}
		return rc.fishboneRepo.CreateCause(ctx, cause)
	})
	if err != nil {
		return nil, log.Err("failed to add fishbone cause", err, "categoryID", categoryID)
	}

	return cause, nil
}

func (rc *RcaController) UpdateCause(ctx context.Context, id int, patch FishboneCausePatch) (*FishboneCause, error) {
	if patch.CauseText != nil {
		if err := validateText(*patch.CauseText, "cause"); err != nil {
			return nil, err
		}
	}

	var cause *FishboneCause
	err := rc.transactionService.Execute(ctx, "rca.updateCause", func(ctx context.Context) error {
		current, err := rc.fishboneRepo.GetCause(ctx, id)
		if err != nil {
			return err
		}
		if err := rc.causeSession(ctx, current.CategoryID); err != nil {
			return err
		}
		cause, err = rc.fishboneRepo.UpdateCause(ctx, id, &patch)
		return err
	})
	return cause, err
}

func (rc *RcaController) DeleteCause(ctx context.Context, id int) error {
	return rc.transactionService.Execute(ctx, "rca.deleteCause", func(ctx context.Context) error {
		current, err := rc.fishboneRepo.GetCause(ctx, id)
		if err != nil {
			return err
		}
		if err := rc.causeSession(ctx, current.CategoryID); err != nil {
			return err
		}
		return rc.fishboneRepo.DeleteCause(ctx, id)
	})
}
