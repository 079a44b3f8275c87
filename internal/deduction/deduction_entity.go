package deduction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	FrequencyPerPayroll = "PER_PAYROLL"
	FrequencyOneTime    = "ONE_TIME"

	StatusPending   = "PENDING"
	StatusApplied   = "APPLIED"
	StatusCancelled = "CANCELLED"

	TypeSSS         = "SSS"
	TypePhilHealth  = "PHILHEALTH"
	TypePagIbig     = "PAGIBIG"
	TypeTax         = "TAX"
	TypeLoan        = "LOAN"
	TypeCashAdvance = "CASH_ADVANCE"
	TypeUniform     = "UNIFORM"
	TypeTools       = "TOOLS"
	TypeDamage      = "DAMAGE"
	TypeAbsence     = "ABSENCE"
	TypeOther       = "OTHER"
)

var validTypes = map[string]bool{
	TypeSSS:         true,
	TypePhilHealth:  true,
	TypePagIbig:     true,
	TypeTax:         true,
	TypeLoan:        true,
	TypeCashAdvance: true,
	TypeUniform:     true,
	TypeTools:       true,
	TypeDamage:      true,
	TypeAbsence:     true,
	TypeOther:       true,
}

func IsValidType(t string) bool {
	return validTypes[t]
}

// Deduction contributes to a payroll run iff is_active, status APPLIED,
// and either recurring or a one-time that this run is entitled to
// consume (applied_count = 0, or already consumed by this same period).
type Deduction struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	WorkerID            uuid.UUID       `gorm:"column:worker_id;type:uuid;not null;index"`
	CashAdvanceID       *uuid.UUID      `gorm:"column:cash_advance_id;type:uuid;index"`
	DeductionType       string          `gorm:"column:deduction_type;type:varchar(30);not null"`
	Amount              decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Description         string          `gorm:"column:description;type:text"`
	Frequency           string          `gorm:"column:frequency;type:varchar(20);not null"`
	Status              string          `gorm:"column:status;type:varchar(20);not null;default:APPLIED"`
	IsActive            bool            `gorm:"column:is_active;not null;default:true"`
	AppliedCount        int             `gorm:"column:applied_count;not null;default:0"`
	ConsumedPeriodStart *time.Time      `gorm:"column:consumed_period_start;type:date"`
	ConsumedPeriodEnd   *time.Time      `gorm:"column:consumed_period_end;type:date"`
	CreatedAt           time.Time       `gorm:"column:created_at"`
	UpdatedAt           time.Time       `gorm:"column:updated_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (Deduction) TableName() string {
	return "deductions"
}
