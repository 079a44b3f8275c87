package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	FindAllByWorkerAndRange(ctx context.Context, workerID string, start, end time.Time) ([]Record, error)
	Aggregate(ctx context.Context, workerID string, start, end time.Time) (Aggregates, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAllByWorkerAndRange(ctx context.Context, workerID string, start, end time.Time) ([]Record, error) {
	var rows []Record
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Where("attendance_date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Where("is_archived = false").
		Order("attendance_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Aggregate(ctx context.Context, workerID string, start, end time.Time) (Aggregates, error) {
	var row struct {
		DaysWorked    int
		TotalHours    decimal.Decimal
		OvertimeHours decimal.Decimal
	}

	// Absent rows carry zero hours but still must not count as a day
	// worked, hence the FILTER on status.
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(DISTINCT attendance_date) FILTER (WHERE status IN (?, ?, ?)) AS days_worked,
			COALESCE(SUM(hours_worked), 0) AS total_hours,
			COALESCE(SUM(overtime_hours), 0) AS overtime_hours
		FROM attendance_records
		WHERE worker_id = ?
			AND attendance_date BETWEEN ? AND ?
			AND is_archived = false
			AND deleted_at IS NULL
	`, StatusPresent, StatusLate, StatusOvertime,
		workerID, start.Format("2006-01-02"), end.Format("2006-01-02"),
	).Scan(&row).Error
	if err != nil {
		return Aggregates{}, err
	}

	return Aggregates{
		DaysWorked:    row.DaysWorked,
		TotalHours:    row.TotalHours,
		OvertimeHours: row.OvertimeHours,
	}, nil
}
