package deduction

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=deduction_repo.go -destination=mock/deduction_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, d *Deduction) error
	FindByID(ctx context.Context, id string) (*Deduction, error)
	FindAllByWorker(ctx context.Context, workerID string) ([]Deduction, error)
	ActiveForPayroll(ctx context.Context, workerID string, periodStart, periodEnd time.Time) ([]Deduction, error)
	ConsumeOneTime(ctx context.Context, id string, periodStart, periodEnd time.Time) (bool, error)
	SetActive(ctx context.Context, id string, active bool) (bool, error)
	SoftDelete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// Create goes through the bound transaction so cash advance approval
// stays atomic with the deduction it generates.
func (r *repository) Create(ctx context.Context, d *Deduction) error {
	query := `
		INSERT INTO deductions (
			id, worker_id, cash_advance_id, deduction_type, amount, description,
			frequency, status, is_active, applied_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
	`
	_, err := r.execer().ExecContext(
		ctx, query,
		d.ID, d.WorkerID, d.CashAdvanceID, d.DeductionType, d.Amount.StringFixed(2),
		d.Description, d.Frequency, d.Status, d.IsActive, d.AppliedCount,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Deduction, error) {
	var d Deduction
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *repository) FindAllByWorker(ctx context.Context, workerID string) ([]Deduction, error) {
	var rows []Deduction
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// ActiveForPayroll implements the contribution rule. One-time rows
// already consumed by this exact period stay included so regenerating
// the same period reproduces identical totals.
func (r *repository) ActiveForPayroll(ctx context.Context, workerID string, periodStart, periodEnd time.Time) ([]Deduction, error) {
	var rows []Deduction
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Where("is_active = true").
		Where("status = ?", StatusApplied).
		Where(`(frequency = ? OR (frequency = ? AND (applied_count = 0 OR (consumed_period_start = ? AND consumed_period_end = ?))))`,
			FrequencyPerPayroll, FrequencyOneTime,
			periodStart.Format("2006-01-02"), periodEnd.Format("2006-01-02"),
		).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// ConsumeOneTime marks a one-time deduction as used by the given
// period. The guarded WHERE makes re-runs for the same period no-ops
// and refuses a second consumption by a different period.
func (r *repository) ConsumeOneTime(ctx context.Context, id string, periodStart, periodEnd time.Time) (bool, error) {
	query := `
		UPDATE deductions
		SET applied_count = applied_count + 1,
			consumed_period_start = $2,
			consumed_period_end = $3,
			updated_at = now()
		WHERE id = $1
			AND frequency = $4
			AND applied_count = 0
			AND deleted_at IS NULL
	`
	res, err := r.execer().ExecContext(
		ctx, query,
		id, periodStart.Format("2006-01-02"), periodEnd.Format("2006-01-02"), FrequencyOneTime,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SetActive flips is_active under the row lock the UPDATE itself takes,
// serializing manual toggles against advance-driven deactivation.
func (r *repository) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	query := `
		UPDATE deductions
		SET is_active = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`
	res, err := r.execer().ExecContext(ctx, query, id, active)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SoftDelete stamps deleted_at through the bound transaction so the
// delete commits or rolls back together with its audit entry.
func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE deductions
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.execer().ExecContext(ctx, query, id)
	return err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	if db, err := r.db.DB(); err == nil {
		return db
	}
	return noopExecer{}
}

type noopExecer struct{}

func (noopExecer) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, sql.ErrConnDone
}
