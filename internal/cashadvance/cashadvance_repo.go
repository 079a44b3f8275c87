package cashadvance

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=cashadvance_repo.go -destination=mock/cashadvance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *CashAdvance) error
	FindByID(ctx context.Context, id string) (*CashAdvance, error)
	FindByIDForUpdate(ctx context.Context, id string) (*CashAdvance, error)
	FindAll(ctx context.Context) ([]CashAdvance, error)
	FindAllByWorker(ctx context.Context, workerID string) ([]CashAdvance, error)
	ApproveIfPending(ctx context.Context, a *CashAdvance) (bool, error)
	RejectIfPending(ctx context.Context, id string, notes string) (bool, error)
	UpdateRepaymentState(ctx context.Context, a *CashAdvance) error
	CreateRepayment(ctx context.Context, r *Repayment) error
	ListRepayments(ctx context.Context, advanceID string) ([]Repayment, error)
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

func (r *repository) Create(ctx context.Context, a *CashAdvance) error {
	query := `
		INSERT INTO cash_advances (
			id, worker_id, amount, reason, status, installments,
			installment_amount, balance, repayment_amount, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
	`
	_, err := r.execer().ExecContext(
		ctx, query,
		a.ID, a.WorkerID, a.Amount.StringFixed(2), a.Reason, a.Status,
		a.Installments, a.InstallmentAmount.StringFixed(2),
		a.Balance.StringFixed(2), a.RepaymentAmount.StringFixed(2),
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*CashAdvance, error) {
	var a CashAdvance
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

// FindByIDForUpdate reads through the bound transaction with a row
// lock so concurrent payment recordings serialize.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*CashAdvance, error) {
	query := `
		SELECT id, worker_id, amount, status, installments, installment_amount,
			balance, repayment_amount, deduction_id
		FROM cash_advances
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`

	var (
		a                 CashAdvance
		amount            string
		installmentAmount string
		balance           string
		repaymentAmount   string
	)
	err := r.queryer().QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.WorkerID, &amount, &a.Status, &a.Installments,
		&installmentAmount, &balance, &repaymentAmount, &a.DeductionID,
	)
	if err != nil {
		return nil, err
	}

	if a.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}
	if a.InstallmentAmount, err = decimal.NewFromString(installmentAmount); err != nil {
		return nil, err
	}
	if a.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, err
	}
	if a.RepaymentAmount, err = decimal.NewFromString(repaymentAmount); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindAll(ctx context.Context) ([]CashAdvance, error) {
	var rows []CashAdvance
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByWorker(ctx context.Context, workerID string) ([]CashAdvance, error) {
	var rows []CashAdvance
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// ApproveIfPending performs the guarded PENDING -> APPROVED transition.
// Zero rows affected means the advance was not pending (or missing);
// the caller distinguishes which.
func (r *repository) ApproveIfPending(ctx context.Context, a *CashAdvance) (bool, error) {
	query := `
		UPDATE cash_advances
		SET status = $2,
			installments = $3,
			installment_amount = $4,
			deduction_id = $5,
			approved_by = $6,
			approval_date = $7,
			updated_at = now()
		WHERE id = $1 AND status = $8 AND deleted_at IS NULL
	`
	res, err := r.execer().ExecContext(
		ctx, query,
		a.ID, StatusApproved, a.Installments, a.InstallmentAmount.StringFixed(2),
		a.DeductionID, a.ApprovedBy, a.ApprovalDate, StatusPending,
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

func (r *repository) RejectIfPending(ctx context.Context, id string, notes string) (bool, error) {
	query := `
		UPDATE cash_advances
		SET status = $2, notes = $3, updated_at = now()
		WHERE id = $1 AND status = $4 AND deleted_at IS NULL
	`
	res, err := r.execer().ExecContext(ctx, query, id, StatusRejected, notes, StatusPending)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) UpdateRepaymentState(ctx context.Context, a *CashAdvance) error {
	query := `
		UPDATE cash_advances
		SET balance = $2,
			repayment_amount = $3,
			status = $4,
			completed_at = $5,
			updated_at = now()
		WHERE id = $1
	`
	_, err := r.execer().ExecContext(
		ctx, query,
		a.ID, a.Balance.StringFixed(2), a.RepaymentAmount.StringFixed(2),
		a.Status, a.CompletedAt,
	)
	return err
}

func (r *repository) CreateRepayment(ctx context.Context, p *Repayment) error {
	query := `
		INSERT INTO cash_advance_repayments (
			id, cash_advance_id, repayment_date, amount, payment_method, processed_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, now())
	`
	_, err := r.execer().ExecContext(
		ctx, query,
		p.ID, p.CashAdvanceID, p.RepaymentDate.Format("2006-01-02"),
		p.Amount.StringFixed(2), p.PaymentMethod, p.ProcessedBy,
	)
	return err
}

func (r *repository) ListRepayments(ctx context.Context, advanceID string) ([]Repayment, error) {
	var rows []Repayment
	err := r.db.WithContext(ctx).
		Where("cash_advance_id = ?", advanceID).
		Order("repayment_date ASC, created_at ASC").
		Find(&rows).Error
	return rows, err
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
	return failingDB{}
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
	return failingDB{}
}

type failingDB struct{}

func (failingDB) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, sql.ErrConnDone
}

func (failingDB) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}
