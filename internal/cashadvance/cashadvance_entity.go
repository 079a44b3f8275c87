package cashadvance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusRepaying  = "REPAYING"
	StatusCompleted = "COMPLETED"
)

// CompletionTolerance absorbs residue from amounts that do not divide
// evenly across installments. Arithmetic is decimal throughout, so this
// is a business rounding allowance, not a float repair.
var CompletionTolerance = decimal.NewFromFloat(0.01)

// CashAdvance holds `balance + repayment_amount == amount` at all
// times. REJECTED and COMPLETED are terminal.
type CashAdvance struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	WorkerID          uuid.UUID       `gorm:"column:worker_id;type:uuid;not null;index"`
	Amount            decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Reason            string          `gorm:"column:reason;type:text"`
	Status            string          `gorm:"column:status;type:varchar(20);not null;default:PENDING"`
	Installments      int             `gorm:"column:installments;not null;default:1"`
	InstallmentAmount decimal.Decimal `gorm:"column:installment_amount;type:numeric(14,2);not null;default:0"`
	Balance           decimal.Decimal `gorm:"column:balance;type:numeric(14,2);not null"`
	RepaymentAmount   decimal.Decimal `gorm:"column:repayment_amount;type:numeric(14,2);not null;default:0"`
	DeductionID       *uuid.UUID      `gorm:"column:deduction_id;type:uuid"`
	ApprovedBy        *uuid.UUID      `gorm:"column:approved_by;type:uuid"`
	ApprovalDate      *time.Time      `gorm:"column:approval_date;type:timestamptz"`
	Notes             *string         `gorm:"column:notes;type:text"`
	CompletedAt       *time.Time      `gorm:"column:completed_at;type:timestamptz"`
	CreatedAt         time.Time       `gorm:"column:created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (CashAdvance) TableName() string {
	return "cash_advances"
}

// Repayment is append-only: the sole source of truth for repayment
// history.
type Repayment struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CashAdvanceID uuid.UUID       `gorm:"column:cash_advance_id;type:uuid;not null;index"`
	RepaymentDate time.Time       `gorm:"column:repayment_date;type:date;not null"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	PaymentMethod string          `gorm:"column:payment_method;type:varchar(30);not null"`
	ProcessedBy   uuid.UUID       `gorm:"column:processed_by;type:uuid;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
}

func (Repayment) TableName() string {
	return "cash_advance_repayments"
}
