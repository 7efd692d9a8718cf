package entity

import (
	"context"
	"errors"
	"time"
)

var ErrBillingCustomerNotFound = errors.New("billing customer not found")

// BillingCustomer links a dashboard user to the payment processor customer.
type BillingCustomer struct {
	UserID           string    `json:"user_id"`
	StripeCustomerID string    `json:"stripe_customer_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (c *BillingCustomer) HasProcessorCustomer() bool {
	return c != nil && c.StripeCustomerID != ""
}

type BillingCustomerRepositoryInterface interface {
	FindByUserID(ctx context.Context, userID string) (*BillingCustomer, error)
}
