package usecase

import (
	"context"

	"github.com/xavierca1/nexmart-api/internal/entity"
)

type LeadEventPublisher interface {
	PublishLeadCaptured(ctx context.Context, event entity.LeadCapturedEvent) error
}

// BillingPortal opens a hosted billing-management session for a processor customer.
type BillingPortal interface {
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

type NoopPublisher struct{}

func (NoopPublisher) PublishLeadCaptured(context.Context, entity.LeadCapturedEvent) error {
	return nil
}
