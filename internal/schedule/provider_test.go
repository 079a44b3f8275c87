package schedule_test

import (
	"context"
	"errors"
	"testing"

	"crewpay/internal/schedule"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeScheduleRepository struct {
	summaryByWorkerFn func(ctx context.Context, workerID string) (schedule.Summary, error)
}

func (f *fakeScheduleRepository) SummaryByWorker(ctx context.Context, workerID string) (schedule.Summary, error) {
	if f.summaryByWorkerFn != nil {
		return f.summaryByWorkerFn(ctx, workerID)
	}
	return schedule.Summary{}, nil
}

func TestProvider_HoursPerDay(t *testing.T) {
	ctx := context.Background()
	workerID := uuid.New().String()

	t.Run("uses scheduled hours", func(t *testing.T) {
		repo := &fakeScheduleRepository{
			summaryByWorkerFn: func(ctx context.Context, id string) (schedule.Summary, error) {
				return schedule.Summary{
					HoursPerDay:   decimal.NewFromInt(10),
					DaysScheduled: 5,
				}, nil
			},
		}
		provider := schedule.NewProvider(repo)

		hours, err := provider.HoursPerDay(ctx, workerID)

		assert.NoError(t, err)
		assert.Equal(t, "10.00", hours.StringFixed(2))
	})

	t.Run("falls back to default without a schedule", func(t *testing.T) {
		provider := schedule.NewProvider(&fakeScheduleRepository{})

		hours, err := provider.HoursPerDay(ctx, workerID)

		assert.NoError(t, err)
		assert.True(t, hours.Equal(schedule.DefaultHoursPerDay))
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		repo := &fakeScheduleRepository{
			summaryByWorkerFn: func(ctx context.Context, id string) (schedule.Summary, error) {
				return schedule.Summary{}, errors.New("connection reset")
			},
		}
		provider := schedule.NewProvider(repo)

		_, err := provider.HoursPerDay(ctx, workerID)

		assert.Error(t, err)
	})
}
