package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/nexmart-api/internal/entity"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLeadCaptured(ctx context.Context, event entity.LeadCapturedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockBillingCustomerRepository struct {
	mock.Mock
}

func (m *MockBillingCustomerRepository) FindByUserID(ctx context.Context, userID string) (*entity.BillingCustomer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BillingCustomer), args.Error(1)
}

type MockBillingPortal struct {
	mock.Mock
}

func (m *MockBillingPortal) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	args := m.Called(ctx, customerID, returnURL)
	return args.String(0), args.Error(1)
}

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Upsert(ctx context.Context, sub *entity.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetStatusByCustomerID(ctx context.Context, customerID string) (string, error) {
	args := m.Called(ctx, customerID)
	return args.String(0), args.Error(1)
}
