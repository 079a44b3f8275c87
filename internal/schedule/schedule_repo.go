package schedule

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=schedule_repo.go -destination=mock/schedule_repo_mock.go -package=mock
type Repository interface {
	SummaryByWorker(ctx context.Context, workerID string) (Summary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SummaryByWorker(ctx context.Context, workerID string) (Summary, error) {
	var row struct {
		HoursPerDay   decimal.Decimal
		DaysScheduled int
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(AVG(hours), 0) AS hours_per_day,
			COUNT(*) AS days_scheduled
		FROM schedule_slots
		WHERE worker_id = ?
			AND is_active = true
			AND deleted_at IS NULL
	`, workerID).Scan(&row).Error
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		HoursPerDay:   row.HoursPerDay,
		DaysScheduled: row.DaysScheduled,
	}, nil
}
