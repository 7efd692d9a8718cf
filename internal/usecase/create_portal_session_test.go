package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/nexmart-api/internal/entity"
)

func TestCreatePortalSessionSuccess(t *testing.T) {
	customers := new(MockBillingCustomerRepository)
	billing := new(MockBillingPortal)

	customers.On("FindByUserID", mock.Anything, "user-1").
		Return(&entity.BillingCustomer{UserID: "user-1", StripeCustomerID: "cus_123"}, nil)
	billing.On("CreatePortalSession", mock.Anything, "cus_123", "https://app.nexmart.io/settings/billing").
		Return("https://billing.stripe.com/p/session/abc", nil)

	uc := NewCreatePortalSessionUseCase(customers, billing, "https://app.nexmart.io/")

	out, err := uc.Execute(context.Background(), CreatePortalSessionInput{UserID: "user-1"})

	require.NoError(t, err)
	assert.Equal(t, "https://billing.stripe.com/p/session/abc", out.URL)
	billing.AssertExpectations(t)
}

func TestCreatePortalSessionReturnURL(t *testing.T) {
	uc := NewCreatePortalSessionUseCase(nil, nil, "https://app.nexmart.io")

	assert.Equal(t, "https://app.nexmart.io/settings/billing", uc.returnURL(""))
	assert.Equal(t, "https://app.nexmart.io/dashboard?tab=plan", uc.returnURL("https://app.nexmart.io/dashboard?tab=plan"))
	assert.Equal(t, "https://app.nexmart.io/settings/billing", uc.returnURL("https://app.nexmart.io.evil.com/x"))
	assert.Equal(t, "https://app.nexmart.io/settings/billing", uc.returnURL("http://app.nexmart.io/x"))
	assert.Equal(t, "https://app.nexmart.io/settings/billing", uc.returnURL("::not a url"))
}

func TestCreatePortalSessionReturnURLUnderAppPath(t *testing.T) {
	uc := NewCreatePortalSessionUseCase(new(MockBillingCustomerRepository), new(MockBillingPortal), "https://nexmart.io/app/")
	fallback := "https://nexmart.io/app/settings/billing"

	assert.Equal(t, "https://nexmart.io/app", uc.returnURL("https://nexmart.io/app"))
	assert.Equal(t, "https://nexmart.io/app/dashboard", uc.returnURL("https://nexmart.io/app/dashboard"))
	assert.Equal(t, fallback, uc.returnURL("https://nexmart.io/other"))
	assert.Equal(t, fallback, uc.returnURL("https://nexmart.io/apple"))
	assert.Equal(t, fallback, uc.returnURL("https://nexmart.io/"))
	assert.Equal(t, fallback, uc.returnURL("https://nexmart.io/app/../admin"))
}

func TestCreatePortalSessionNoCustomerRow(t *testing.T) {
	customers := new(MockBillingCustomerRepository)
	customers.On("FindByUserID", mock.Anything, "user-1").Return(nil, entity.ErrBillingCustomerNotFound)

	uc := NewCreatePortalSessionUseCase(customers, new(MockBillingPortal), "https://app.nexmart.io")

	_, err := uc.Execute(context.Background(), CreatePortalSessionInput{UserID: "user-1"})
	assert.Equal(t, CodeNoBillingCustomer, ErrorCode(err))
}

func TestCreatePortalSessionCustomerWithoutProcessorID(t *testing.T) {
	customers := new(MockBillingCustomerRepository)
	customers.On("FindByUserID", mock.Anything, "user-1").Return(&entity.BillingCustomer{UserID: "user-1"}, nil)
	billing := new(MockBillingPortal)

	uc := NewCreatePortalSessionUseCase(customers, billing, "https://app.nexmart.io")

	_, err := uc.Execute(context.Background(), CreatePortalSessionInput{UserID: "user-1"})
	assert.Equal(t, CodeNoBillingCustomer, ErrorCode(err))
	billing.AssertNotCalled(t, "CreatePortalSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePortalSessionMisconfigured(t *testing.T) {
	customers := new(MockBillingCustomerRepository)

	_, err := NewCreatePortalSessionUseCase(customers, nil, "https://app.nexmart.io").
		Execute(context.Background(), CreatePortalSessionInput{UserID: "user-1"})
	assert.Equal(t, CodeMisconfigured, ErrorCode(err))

	_, err = NewCreatePortalSessionUseCase(customers, new(MockBillingPortal), "").
		Execute(context.Background(), CreatePortalSessionInput{UserID: "user-1"})
	assert.Equal(t, CodeMisconfigured, ErrorCode(err))

	customers.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
}

func TestCreatePortalSessionProcessorFailure(t *testing.T) {
	customers := new(MockBillingCustomerRepository)
	customers.On("FindByUserID", mock.Anything, "user-1").
		Return(&entity.BillingCustomer{UserID: "user-1", StripeCustomerID: "cus_123"}, nil)
	billing := new(MockBillingPortal)
	billing.On("CreatePortalSession", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("503"))

	_, err := NewCreatePortalSessionUseCase(customers, billing, "https://app.nexmart.io").
		Execute(context.Background(), CreatePortalSessionInput{UserID: "user-1"})

	assert.Equal(t, CodeBillingError, ErrorCode(err))
	assert.True(t, IsTechnicalError(err))
}
