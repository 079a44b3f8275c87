package schedule

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WeeklySlot is one configured working day for a worker.
type WeeklySlot struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkerID  uuid.UUID       `gorm:"column:worker_id;type:uuid;not null;index"`
	DayOfWeek int             `gorm:"column:day_of_week;not null"` // 0=Sunday .. 6=Saturday
	Hours     decimal.Decimal `gorm:"column:hours;type:numeric(4,2);not null"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (WeeklySlot) TableName() string {
	return "schedule_slots"
}

// Summary is the per-worker view the rate derivation consumes.
type Summary struct {
	HoursPerDay   decimal.Decimal
	DaysScheduled int
}
