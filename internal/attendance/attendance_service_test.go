package attendance_test

import (
	"context"
	"testing"
	"time"

	"crewpay/internal/attendance"
	crewerrors "crewpay/internal/crew/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeAttendanceRepository struct {
	findAllByWorkerAndRangeFn func(ctx context.Context, workerID string, start, end time.Time) ([]attendance.Record, error)
	aggregateFn               func(ctx context.Context, workerID string, start, end time.Time) (attendance.Aggregates, error)
}

func (f *fakeAttendanceRepository) FindAllByWorkerAndRange(ctx context.Context, workerID string, start, end time.Time) ([]attendance.Record, error) {
	if f.findAllByWorkerAndRangeFn != nil {
		return f.findAllByWorkerAndRangeFn(ctx, workerID, start, end)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) Aggregate(ctx context.Context, workerID string, start, end time.Time) (attendance.Aggregates, error) {
	if f.aggregateFn != nil {
		return f.aggregateFn(ctx, workerID, start, end)
	}
	return attendance.Aggregates{}, nil
}

func TestAttendanceService_Aggregate(t *testing.T) {
	ctx := context.Background()
	workerID := uuid.New().String()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	t.Run("passes through repository aggregates", func(t *testing.T) {
		repo := &fakeAttendanceRepository{
			aggregateFn: func(ctx context.Context, id string, s, e time.Time) (attendance.Aggregates, error) {
				return attendance.Aggregates{
					DaysWorked:    10,
					TotalHours:    decimal.NewFromInt(80),
					OvertimeHours: decimal.NewFromInt(4),
				}, nil
			},
		}
		svc := attendance.NewService(repo)

		agg, err := svc.Aggregate(ctx, workerID, start, end)

		assert.NoError(t, err)
		assert.Equal(t, 10, agg.DaysWorked)
		assert.Equal(t, "80.00", agg.TotalHours.StringFixed(2))
		assert.Equal(t, "4.00", agg.OvertimeHours.StringFixed(2))
	})

	t.Run("empty range yields zeros", func(t *testing.T) {
		svc := attendance.NewService(&fakeAttendanceRepository{})

		agg, err := svc.Aggregate(ctx, workerID, start, end)

		assert.NoError(t, err)
		assert.Equal(t, 0, agg.DaysWorked)
		assert.True(t, agg.TotalHours.IsZero())
		assert.True(t, agg.OvertimeHours.IsZero())
	})

	t.Run("invalid worker id", func(t *testing.T) {
		svc := attendance.NewService(&fakeAttendanceRepository{})

		_, err := svc.Aggregate(ctx, "not-a-uuid", start, end)

		assert.ErrorIs(t, err, crewerrors.ErrInvalidWorkerID)
	})
}
