package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusPresent  = "PRESENT"
	StatusLate     = "LATE"
	StatusAbsent   = "ABSENT"
	StatusOvertime = "OVERTIME"
)

type Record struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkerID       uuid.UUID       `gorm:"column:worker_id;type:uuid;not null;index"`
	AttendanceDate time.Time       `gorm:"column:attendance_date;type:date;not null;index"`
	TimeIn         *time.Time      `gorm:"column:time_in;type:timestamptz"`
	TimeOut        *time.Time      `gorm:"column:time_out;type:timestamptz"`
	Status         string          `gorm:"column:status;type:varchar(20);not null;default:PRESENT"`
	HoursWorked    decimal.Decimal `gorm:"column:hours_worked;type:numeric(5,2);not null;default:0"`
	OvertimeHours  decimal.Decimal `gorm:"column:overtime_hours;type:numeric(5,2);not null;default:0"`
	IsArchived     bool            `gorm:"column:is_archived;not null;default:false"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (Record) TableName() string {
	return "attendance_records"
}

// Aggregates summarizes a worker's non-archived attendance over an
// inclusive date range.
type Aggregates struct {
	DaysWorked    int             `json:"days_worked"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
}
