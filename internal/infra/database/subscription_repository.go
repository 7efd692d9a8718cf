package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/nexmart-api/internal/entity"
)

type SubscriptionRepository struct {
	DB *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db}
}

func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, customer_id, status, price_id, current_period_end, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			status = EXCLUDED.status,
			price_id = COALESCE(EXCLUDED.price_id, subscriptions.price_id),
			current_period_end = COALESCE(EXCLUDED.current_period_end, subscriptions.current_period_end),
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.DB.ExecContext(ctx, query,
		sub.ID,
		sub.CustomerID,
		sub.Status,
		nullString(sub.PriceID),
		nullTime(sub.CurrentPeriodEnd),
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) GetStatusByCustomerID(ctx context.Context, customerID string) (string, error) {
	query := `SELECT status FROM subscriptions WHERE customer_id = $1 ORDER BY updated_at DESC LIMIT 1`

	var status string
	err := r.DB.QueryRowContext(ctx, query, customerID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", entity.ErrSubscriptionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("subscription status: %w", err)
	}
	return status, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
