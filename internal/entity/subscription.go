package entity

import (
	"context"
	"errors"
	"time"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

const (
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusNone     = "none"
)

// Subscription mirrors the payment processor's subscription state.
type Subscription struct {
	ID               string    `json:"id"`
	CustomerID       string    `json:"customer_id"` // processor customer id
	Status           string    `json:"status"`      // trialing, active, past_due, canceled...
	PriceID          string    `json:"price_id"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub *Subscription) error
	GetStatusByCustomerID(ctx context.Context, customerID string) (string, error)
}
