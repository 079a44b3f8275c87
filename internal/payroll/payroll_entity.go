package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending    = "PENDING"
	PaymentStatusProcessing = "PROCESSING"
	PaymentStatusPaid       = "PAID"

	// PaymentStatusUnpaid is a preview-only placeholder for periods that
	// have no generated record yet. It is never persisted.
	PaymentStatusUnpaid = "UNPAID"
)

// PayrollRecord is keyed by (worker_id, period_start, period_end); a
// unique constraint on that triple backs the upsert in Generate.
type PayrollRecord struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	WorkerID        uuid.UUID       `gorm:"column:worker_id;type:uuid;not null;uniqueIndex:uq_payroll_worker_period"`
	PeriodStart     time.Time       `gorm:"column:period_start;type:date;not null;uniqueIndex:uq_payroll_worker_period"`
	PeriodEnd       time.Time       `gorm:"column:period_end;type:date;not null;uniqueIndex:uq_payroll_worker_period"`
	BatchRef        string          `gorm:"column:batch_ref;type:varchar(30);not null"`
	DaysWorked      int             `gorm:"column:days_worked;not null;default:0"`
	TotalHours      decimal.Decimal `gorm:"column:total_hours;type:numeric(8,2);not null;default:0"`
	OvertimeHours   decimal.Decimal `gorm:"column:overtime_hours;type:numeric(8,2);not null;default:0"`
	HourlyRate      decimal.Decimal `gorm:"column:hourly_rate;type:numeric(14,4);not null"`
	GrossPay        decimal.Decimal `gorm:"column:gross_pay;type:numeric(14,2);not null"`
	TotalDeductions decimal.Decimal `gorm:"column:total_deductions;type:numeric(14,2);not null"`
	NetPay          decimal.Decimal `gorm:"column:net_pay;type:numeric(14,2);not null"`
	PaymentStatus   string          `gorm:"column:payment_status;type:varchar(20);not null;default:PENDING"`
	PaymentDate     *time.Time      `gorm:"column:payment_date;type:timestamptz"`
	IsArchived      bool            `gorm:"column:is_archived;not null;default:false"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (PayrollRecord) TableName() string {
	return "payroll_records"
}
