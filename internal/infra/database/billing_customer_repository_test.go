package database

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/nexmart-api/internal/entity"
)

var selectBillingCustomerSQL = regexp.QuoteMeta(`FROM billing_customers`)

func TestBillingCustomerRepositoryFindByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(selectBillingCustomerSQL).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "stripe_customer_id", "created_at", "updated_at"}).
			AddRow("user-1", "cus_123", now, now))

	c, err := NewBillingCustomerRepository(db).FindByUserID(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "cus_123", c.StripeCustomerID)
	assert.True(t, c.HasProcessorCustomer())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingCustomerRepositoryNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(selectBillingCustomerSQL).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err = NewBillingCustomerRepository(db).FindByUserID(context.Background(), "ghost")

	assert.ErrorIs(t, err, entity.ErrBillingCustomerNotFound)
}

func TestBillingCustomerRepositoryQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(selectBillingCustomerSQL).WillReturnError(errors.New("timeout"))

	_, err = NewBillingCustomerRepository(db).FindByUserID(context.Background(), "user-1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrBillingCustomerNotFound)
}
