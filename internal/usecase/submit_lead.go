package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xavierca1/nexmart-api/internal/entity"
)

type SubmitLeadUseCase struct {
	Repo      entity.LeadRepositoryInterface
	Publisher LeadEventPublisher
	Logger    *zap.Logger
}

func NewSubmitLeadUseCase(repo entity.LeadRepositoryInterface, publisher LeadEventPublisher, logger *zap.Logger) *SubmitLeadUseCase {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmitLeadUseCase{
		Repo:      repo,
		Publisher: publisher,
		Logger:    logger,
	}
}

func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*SubmitLeadOutput, error) {
	// Bot signals first: a tripped honeypot rejects whatever the email looks like.
	if verr := CheckBotSignals(input); verr != nil {
		uc.Logger.Info("lead rejected by bot heuristics", zap.String("field", verr.Field))
		return nil, &DomainError{Code: CodeSuspicious, Message: "Suspicious submission"}
	}

	email := NormalizeEmail(input.Email)
	if verr := ValidateEmail(email); verr != nil {
		return nil, &DomainError{Code: CodeInvalidEmail, Message: "Invalid email"}
	}

	lead := entity.NewLead(email, NormalizeSource(input.Source), NormalizeMetadata(input.Metadata))

	if err := uc.Repo.Insert(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrLeadAlreadyExists) {
			return nil, &DomainError{Code: CodeDuplicateLead, Message: "Email already registered"}
		}
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "failed to insert lead", Err: err}
	}

	// The row is committed at this point, so a publish failure must not fail the request.
	if err := uc.Publisher.PublishLeadCaptured(ctx, entity.NewLeadCapturedEvent(lead)); err != nil {
		uc.Logger.Warn("lead stored but event publish failed",
			zap.String("lead_id", lead.ID),
			zap.Error(err),
		)
	}

	return &SubmitLeadOutput{Success: true, ID: lead.ID}, nil
}
