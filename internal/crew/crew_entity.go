package crew

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	EmploymentActive   = "ACTIVE"
	EmploymentInactive = "INACTIVE"
)

type Worker struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName         string          `gorm:"column:full_name;type:varchar(150);not null"`
	Position         string          `gorm:"column:position;type:varchar(100)"`
	DailyRate        decimal.Decimal `gorm:"column:daily_rate;type:numeric(14,2);not null"`
	EmploymentStatus string          `gorm:"column:employment_status;type:varchar(20);not null;default:ACTIVE"`
	IsArchived       bool            `gorm:"column:is_archived;not null;default:false"`
	CreatedAt        time.Time       `gorm:"column:created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (Worker) TableName() string {
	return "workers"
}
