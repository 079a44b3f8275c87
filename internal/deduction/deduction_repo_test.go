package deduction_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"crewpay/internal/deduction"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDeductionRepoTest(t *testing.T) (deduction.Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	return deduction.NewRepository(gormDB), mock, db
}

func TestDeductionRepository_ActiveForPayroll(t *testing.T) {
	ctx := context.Background()
	workerID := uuid.New()
	periodStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	t.Run("selects recurring and same-period one-time rows", func(t *testing.T) {
		repo, mock, db := setupDeductionRepoTest(t)
		defer db.Close()

		recurringID := uuid.New()
		consumedHereID := uuid.New()
		rows := sqlmock.NewRows([]string{
			"id", "worker_id", "deduction_type", "amount", "frequency", "status", "is_active", "applied_count",
		}).
			AddRow(recurringID.String(), workerID.String(), deduction.TypeLoan, "500.00",
				deduction.FrequencyPerPayroll, deduction.StatusApplied, true, 3).
			AddRow(consumedHereID.String(), workerID.String(), deduction.TypeUniform, "300.00",
				deduction.FrequencyOneTime, deduction.StatusApplied, true, 1)

		mock.ExpectQuery(`applied_count = 0 OR \(consumed_period_start = \$5 AND consumed_period_end = \$6\)`).
			WithArgs(
				workerID.String(), deduction.StatusApplied,
				deduction.FrequencyPerPayroll, deduction.FrequencyOneTime,
				"2026-08-01", "2026-08-15",
			).
			WillReturnRows(rows)

		got, err := repo.ActiveForPayroll(ctx, workerID.String(), periodStart, periodEnd)

		assert.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, recurringID, got[0].ID)
		assert.Equal(t, "500.00", got[0].Amount.StringFixed(2))
		assert.Equal(t, consumedHereID, got[1].ID)
		assert.Equal(t, "300.00", got[1].Amount.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeductionRepository_ConsumeOneTime(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	t.Run("fresh row is consumed", func(t *testing.T) {
		repo, mock, db := setupDeductionRepoTest(t)
		defer db.Close()

		mock.ExpectExec(`UPDATE deductions[\s\S]*applied_count = 0`).
			WithArgs(id, "2026-08-01", "2026-08-15", deduction.FrequencyOneTime).
			WillReturnResult(sqlmock.NewResult(0, 1))

		consumed, err := repo.ConsumeOneTime(ctx, id,
			time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		)

		assert.NoError(t, err)
		assert.True(t, consumed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row owned by another period is refused", func(t *testing.T) {
		repo, mock, db := setupDeductionRepoTest(t)
		defer db.Close()

		mock.ExpectExec(`UPDATE deductions[\s\S]*applied_count = 0`).
			WithArgs(id, "2026-08-16", "2026-08-31", deduction.FrequencyOneTime).
			WillReturnResult(sqlmock.NewResult(0, 0))

		consumed, err := repo.ConsumeOneTime(ctx, id,
			time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		)

		assert.NoError(t, err)
		assert.False(t, consumed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
