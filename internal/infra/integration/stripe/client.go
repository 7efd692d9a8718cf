package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	stripeapi "github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	"go.uber.org/zap"
)

const DefaultBaseURL = stripeapi.APIURL

// Client adapts stripe-go's billing portal sessions to usecase.BillingPortal.
type Client struct {
	baseURL  string
	sessions portalsession.Client
	logger   *zap.Logger
}

func NewClient(secretKey, baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if logger == nil {
		logger = zap.NewNop()
	}

	backend := stripeapi.GetBackendWithConfig(stripeapi.APIBackend, &stripeapi.BackendConfig{
		URL:               stripeapi.String(baseURL),
		HTTPClient:        &http.Client{Timeout: 10 * time.Second},
		MaxNetworkRetries: stripeapi.Int64(0),
		LeveledLogger:     logger.Sugar(),
	})

	return &Client{
		baseURL:  baseURL,
		sessions: portalsession.Client{B: backend, Key: secretKey},
		logger:   logger,
	}
}

// CreatePortalSession opens a hosted billing portal session and returns its URL.
func (c *Client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripeapi.BillingPortalSessionParams{
		Customer: stripeapi.String(customerID),
	}
	if returnURL != "" {
		params.ReturnURL = stripeapi.String(returnURL)
	}
	params.Context = ctx

	session, err := c.sessions.New(params)
	if err != nil {
		var apiErr *stripeapi.Error
		if errors.As(err, &apiErr) {
			c.logger.Error("stripe portal session rejected",
				zap.Int("status", apiErr.HTTPStatusCode),
				zap.String("type", string(apiErr.Type)),
				zap.String("code", string(apiErr.Code)),
				zap.String("message", apiErr.Msg),
			)
		}
		return "", fmt.Errorf("stripe portal session: %w", err)
	}
	if session.URL == "" {
		return "", fmt.Errorf("stripe portal session %s without url", session.ID)
	}

	return session.URL, nil
}
