package handlers_test

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/nexmart-api/internal/entity"
	"github.com/xavierca1/nexmart-api/internal/ratelimit"
)

// memoryLeadRepo mimics the UNIQUE(email) constraint of the leads table.
type memoryLeadRepo struct {
	mu      sync.Mutex
	byEmail map[string]*entity.Lead
	err     error
}

func newMemoryLeadRepo() *memoryLeadRepo {
	return &memoryLeadRepo{byEmail: make(map[string]*entity.Lead)}
}

func (r *memoryLeadRepo) Insert(_ context.Context, lead *entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.byEmail[lead.Email]; ok {
		return entity.ErrLeadAlreadyExists
	}
	r.byEmail[lead.Email] = lead
	return nil
}

func (r *memoryLeadRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEmail)
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("redis: connection refused")
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
