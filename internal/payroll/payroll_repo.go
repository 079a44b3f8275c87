package payroll

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByID(ctx context.Context, id string) (*PayrollRecord, error)
	FindByWorkerAndPeriod(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (*PayrollRecord, error)
	FindAllByPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]PayrollRecord, error)
	LockByWorkerAndPeriod(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (*PayrollRecord, error)
	Upsert(ctx context.Context, rec *PayrollRecord) error
	MarkPaidIfUnpaid(ctx context.Context, id string, paymentDate time.Time) (bool, error)
	SetArchived(ctx context.Context, id string, archived bool) (bool, error)
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

func (r *repository) FindByID(ctx context.Context, id string) (*PayrollRecord, error) {
	var rec PayrollRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *repository) FindByWorkerAndPeriod(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (*PayrollRecord, error) {
	var rec PayrollRecord
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Where("period_start = ?", periodStart.Format("2006-01-02")).
		Where("period_end = ?", periodEnd.Format("2006-01-02")).
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindAllByPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]PayrollRecord, error) {
	var rows []PayrollRecord
	err := r.db.WithContext(ctx).
		Where("period_start = ?", periodStart.Format("2006-01-02")).
		Where("period_end = ?", periodEnd.Format("2006-01-02")).
		Where("is_archived = false").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// LockByWorkerAndPeriod reads the (worker, period) row under FOR UPDATE
// through the bound transaction so concurrent generation runs serialize
// on the same key.
func (r *repository) LockByWorkerAndPeriod(ctx context.Context, workerID string, periodStart, periodEnd time.Time) (*PayrollRecord, error) {
	query := `
		SELECT id, payment_status, is_archived
		FROM payroll_records
		WHERE worker_id = $1 AND period_start = $2 AND period_end = $3 AND deleted_at IS NULL
		FOR UPDATE
	`

	var rec PayrollRecord
	err := r.queryer().QueryRowContext(
		ctx, query,
		workerID, periodStart.Format("2006-01-02"), periodEnd.Format("2006-01-02"),
	).Scan(&rec.ID, &rec.PaymentStatus, &rec.IsArchived)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Upsert inserts the record or overwrites the computed columns of the
// existing (worker, period) row. Payment status, payment date and the
// archive flag are never touched on conflict; recomputation must not
// unpay or unarchive a record.
func (r *repository) Upsert(ctx context.Context, rec *PayrollRecord) error {
	query := `
		INSERT INTO payroll_records (
			id, worker_id, period_start, period_end, batch_ref,
			days_worked, total_hours, overtime_hours, hourly_rate,
			gross_pay, total_deductions, net_pay, payment_status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
		ON CONFLICT (worker_id, period_start, period_end) DO UPDATE
		SET batch_ref = EXCLUDED.batch_ref,
			days_worked = EXCLUDED.days_worked,
			total_hours = EXCLUDED.total_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			hourly_rate = EXCLUDED.hourly_rate,
			gross_pay = EXCLUDED.gross_pay,
			total_deductions = EXCLUDED.total_deductions,
			net_pay = EXCLUDED.net_pay,
			updated_at = now()
		WHERE payroll_records.is_archived = false
	`
	_, err := r.execer().ExecContext(
		ctx, query,
		rec.ID, rec.WorkerID,
		rec.PeriodStart.Format("2006-01-02"), rec.PeriodEnd.Format("2006-01-02"),
		rec.BatchRef, rec.DaysWorked,
		rec.TotalHours.StringFixed(2), rec.OvertimeHours.StringFixed(2),
		rec.HourlyRate.StringFixed(4), rec.GrossPay.StringFixed(2),
		rec.TotalDeductions.StringFixed(2), rec.NetPay.StringFixed(2),
		rec.PaymentStatus,
	)
	return err
}

// MarkPaidIfUnpaid performs the guarded transition to PAID. Zero rows
// affected means the record is already paid or archived.
func (r *repository) MarkPaidIfUnpaid(ctx context.Context, id string, paymentDate time.Time) (bool, error) {
	query := `
		UPDATE payroll_records
		SET payment_status = $2, payment_date = $3, updated_at = now()
		WHERE id = $1
			AND payment_status <> $2
			AND is_archived = false
			AND deleted_at IS NULL
	`
	res, err := r.execer().ExecContext(ctx, query, id, PaymentStatusPaid, paymentDate)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) SetArchived(ctx context.Context, id string, archived bool) (bool, error) {
	query := `
		UPDATE payroll_records
		SET is_archived = $2, updated_at = now()
		WHERE id = $1 AND is_archived <> $2 AND deleted_at IS NULL
	`
	res, err := r.execer().ExecContext(ctx, query, id, archived)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
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
	return failingExecer{}
}

func (r *repository) queryer() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	if db, err := r.db.DB(); err == nil {
		return db
	}
	return failingExecer{}
}

type failingExecer struct{}

func (failingExecer) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, sql.ErrConnDone
}

func (failingExecer) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}
