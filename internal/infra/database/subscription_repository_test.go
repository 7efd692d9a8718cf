package database

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/nexmart-api/internal/entity"
)

func TestSubscriptionRepositoryUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO subscriptions`)).
		WithArgs("sub_1", "cus_1", "active", "price_basic", sqlmock.AnyArg(), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewSubscriptionRepository(db).Upsert(context.Background(), &entity.Subscription{
		ID:               "sub_1",
		CustomerID:       "cus_1",
		Status:           "active",
		PriceID:          "price_basic",
		CurrentPeriodEnd: now.AddDate(0, 1, 0),
		UpdatedAt:        now,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepositoryStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM subscriptions`)).
		WithArgs("cus_1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("trialing"))

	status, err := NewSubscriptionRepository(db).GetStatusByCustomerID(context.Background(), "cus_1")

	require.NoError(t, err)
	assert.Equal(t, "trialing", status)
}

func TestSubscriptionRepositoryStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM subscriptions`)).
		WithArgs("cus_9").
		WillReturnError(sql.ErrNoRows)

	_, err = NewSubscriptionRepository(db).GetStatusByCustomerID(context.Background(), "cus_9")

	assert.ErrorIs(t, err, entity.ErrSubscriptionNotFound)
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	for range schema {
		mock.ExpectExec(`CREATE`).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
