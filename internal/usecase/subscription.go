package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/xavierca1/nexmart-api/internal/entity"
)

const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

func IsSubscriptionEvent(eventType string) bool {
	switch eventType {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		return true
	}
	return false
}

type SyncSubscriptionUseCase struct {
	Repo entity.SubscriptionRepository
}

func NewSyncSubscriptionUseCase(repo entity.SubscriptionRepository) *SyncSubscriptionUseCase {
	return &SyncSubscriptionUseCase{Repo: repo}
}

func (uc *SyncSubscriptionUseCase) Execute(ctx context.Context, change SubscriptionChange) error {
	if change.SubscriptionID == "" || change.CustomerID == "" {
		return &DomainError{Code: CodeInvalidEvent, Message: "subscription event without id or customer"}
	}

	status := change.Status
	if change.EventType == EventSubscriptionDeleted {
		status = entity.SubscriptionStatusCanceled
	}

	sub := &entity.Subscription{
		ID:               change.SubscriptionID,
		CustomerID:       change.CustomerID,
		Status:           status,
		PriceID:          change.PriceID,
		CurrentPeriodEnd: change.CurrentPeriodEnd,
		UpdatedAt:        time.Now().UTC(),
	}

	if err := uc.Repo.Upsert(ctx, sub); err != nil {
		return &TechnicalError{Code: CodeDatabaseError, Message: "failed to store subscription", Err: err}
	}
	return nil
}

type GetSubscriptionStatusUseCase struct {
	Customers     entity.BillingCustomerRepositoryInterface
	Subscriptions entity.SubscriptionRepository
}

func NewGetSubscriptionStatusUseCase(customers entity.BillingCustomerRepositoryInterface, subs entity.SubscriptionRepository) *GetSubscriptionStatusUseCase {
	return &GetSubscriptionStatusUseCase{Customers: customers, Subscriptions: subs}
}

func (uc *GetSubscriptionStatusUseCase) Execute(ctx context.Context, userID string) (*SubscriptionStatusOutput, error) {
	none := &SubscriptionStatusOutput{Status: entity.SubscriptionStatusNone}

	customer, err := uc.Customers.FindByUserID(ctx, userID)
	if errors.Is(err, entity.ErrBillingCustomerNotFound) {
		return none, nil
	}
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "failed to load billing customer", Err: err}
	}
	if !customer.HasProcessorCustomer() {
		return none, nil
	}

	status, err := uc.Subscriptions.GetStatusByCustomerID(ctx, customer.StripeCustomerID)
	if errors.Is(err, entity.ErrSubscriptionNotFound) {
		return none, nil
	}
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "failed to load subscription", Err: err}
	}
	return &SubscriptionStatusOutput{Status: status}, nil
}
