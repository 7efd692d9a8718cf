package usecase

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/xavierca1/nexmart-api/internal/entity"
)

const billingSettingsPath = "/settings/billing"

type CreatePortalSessionUseCase struct {
	Customers entity.BillingCustomerRepositoryInterface
	Billing   BillingPortal
	AppURL    string
}

// NewCreatePortalSessionUseCase accepts a nil billing portal; Execute then reports a misconfiguration.
func NewCreatePortalSessionUseCase(customers entity.BillingCustomerRepositoryInterface, billing BillingPortal, appURL string) *CreatePortalSessionUseCase {
	return &CreatePortalSessionUseCase{
		Customers: customers,
		Billing:   billing,
		AppURL:    strings.TrimRight(appURL, "/"),
	}
}

func (uc *CreatePortalSessionUseCase) Execute(ctx context.Context, input CreatePortalSessionInput) (*CreatePortalSessionOutput, error) {
	if uc.Billing == nil || uc.AppURL == "" {
		return nil, &TechnicalError{Code: CodeMisconfigured, Message: "billing portal is not configured"}
	}

	customer, err := uc.Customers.FindByUserID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrBillingCustomerNotFound) {
			return nil, &DomainError{Code: CodeNoBillingCustomer, Message: "No billing customer linked to this account"}
		}
		return nil, &TechnicalError{Code: CodeDatabaseError, Message: "failed to load billing customer", Err: err}
	}
	if !customer.HasProcessorCustomer() {
		return nil, &DomainError{Code: CodeNoBillingCustomer, Message: "No billing customer linked to this account"}
	}

	portalURL, err := uc.Billing.CreatePortalSession(ctx, customer.StripeCustomerID, uc.returnURL(input.ReturnURL))
	if err != nil {
		return nil, &TechnicalError{Code: CodeBillingError, Message: "failed to create portal session", Err: err}
	}

	return &CreatePortalSessionOutput{URL: portalURL}, nil
}

// returnURL only honors requested URLs under APP_URL: same scheme and host, and a path equal to or
// below APP_URL's path on a segment boundary.
func (uc *CreatePortalSessionUseCase) returnURL(requested string) string {
	fallback := uc.AppURL + billingSettingsPath
	if requested == "" {
		return fallback
	}

	app, err := url.Parse(uc.AppURL)
	if err != nil {
		return fallback
	}
	req, err := url.Parse(requested)
	if err != nil || req.Scheme != app.Scheme || req.Host != app.Host || req.User != nil {
		return fallback
	}

	base := strings.TrimRight(app.Path, "/")
	clean := path.Clean(req.Path)
	if base != "" && clean != base && !strings.HasPrefix(clean, base+"/") {
		return fallback
	}
	return req.String()
}
