package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/nexmart-api/internal/entity"
)

type BillingCustomerRepository struct {
	DB *sql.DB
}

func NewBillingCustomerRepository(db *sql.DB) *BillingCustomerRepository {
	return &BillingCustomerRepository{DB: db}
}

func (r *BillingCustomerRepository) FindByUserID(ctx context.Context, userID string) (*entity.BillingCustomer, error) {
	query := `
		SELECT user_id, COALESCE(stripe_customer_id, ''), created_at, updated_at
		FROM billing_customers
		WHERE user_id = $1
	`

	var c entity.BillingCustomer
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&c.UserID,
		&c.StripeCustomerID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrBillingCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find billing customer: %w", err)
	}

	return &c, nil
}
