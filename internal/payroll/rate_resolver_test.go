package payroll_test

import (
	"context"
	"testing"

	"crewpay/internal/crew"
	crewerrors "crewpay/internal/crew/errors"
	"crewpay/internal/payroll"
	payrollerrors "crewpay/internal/payroll/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeScheduleProvider struct {
	hoursPerDayFn func(ctx context.Context, workerID string) (decimal.Decimal, error)
}

func (f *fakeScheduleProvider) HoursPerDay(ctx context.Context, workerID string) (decimal.Decimal, error) {
	if f.hoursPerDayFn != nil {
		return f.hoursPerDayFn(ctx, workerID)
	}
	return decimal.NewFromInt(8), nil
}

func TestRateResolver_HourlyRate(t *testing.T) {
	ctx := context.Background()
	workerID := uuid.New()

	t.Run("daily rate 800 over 8 scheduled hours", func(t *testing.T) {
		crewRepo := &fakeCrewRepository{
			findByIDFn: func(ctx context.Context, id string) (*crew.Worker, error) {
				return &crew.Worker{ID: workerID, DailyRate: decimal.NewFromInt(800)}, nil
			},
		}
		resolver := payroll.NewRateResolver(crewRepo, &fakeScheduleProvider{})

		rate, err := resolver.HourlyRate(ctx, workerID.String())

		assert.NoError(t, err)
		assert.Equal(t, "100.0000", rate.StringFixed(4))
	})

	t.Run("uneven division keeps four decimal places", func(t *testing.T) {
		crewRepo := &fakeCrewRepository{
			findByIDFn: func(ctx context.Context, id string) (*crew.Worker, error) {
				return &crew.Worker{ID: workerID, DailyRate: decimal.NewFromInt(700)}, nil
			},
		}
		provider := &fakeScheduleProvider{
			hoursPerDayFn: func(ctx context.Context, id string) (decimal.Decimal, error) {
				return decimal.NewFromInt(6), nil
			},
		}
		resolver := payroll.NewRateResolver(crewRepo, provider)

		rate, err := resolver.HourlyRate(ctx, workerID.String())

		assert.NoError(t, err)
		assert.Equal(t, "116.6667", rate.StringFixed(4))
	})

	t.Run("zero scheduled hours is a configuration error", func(t *testing.T) {
		crewRepo := &fakeCrewRepository{
			findByIDFn: func(ctx context.Context, id string) (*crew.Worker, error) {
				return &crew.Worker{ID: workerID, DailyRate: decimal.NewFromInt(800)}, nil
			},
		}
		provider := &fakeScheduleProvider{
			hoursPerDayFn: func(ctx context.Context, id string) (decimal.Decimal, error) {
				return decimal.Zero, nil
			},
		}
		resolver := payroll.NewRateResolver(crewRepo, provider)

		_, err := resolver.HourlyRate(ctx, workerID.String())

		assert.ErrorIs(t, err, payrollerrors.ErrZeroScheduledHours)
	})

	t.Run("unknown worker", func(t *testing.T) {
		resolver := payroll.NewRateResolver(&fakeCrewRepository{}, &fakeScheduleProvider{})

		_, err := resolver.HourlyRate(ctx, uuid.New().String())

		assert.ErrorIs(t, err, crewerrors.ErrWorkerNotFound)
	})
}
