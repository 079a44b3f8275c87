package payroll

import (
	"context"
	"errors"

	"crewpay/internal/crew"
	crewerrors "crewpay/internal/crew/errors"
	payrollerrors "crewpay/internal/payroll/errors"
	"crewpay/internal/schedule"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=rate_resolver.go -destination=mock/rate_resolver_mock.go -package=mock

// RateResolver derives a worker's effective hourly rate from the daily
// rate and scheduled hours per day.
type RateResolver interface {
	HourlyRate(ctx context.Context, workerID string) (decimal.Decimal, error)
}

type rateResolver struct {
	crewRepo  crew.Repository
	schedules schedule.Provider
}

func NewRateResolver(crewRepo crew.Repository, schedules schedule.Provider) RateResolver {
	return &rateResolver{crewRepo: crewRepo, schedules: schedules}
}

// HourlyRate keeps four decimal places; persistence boundaries round
// derived money values to two.
func (r *rateResolver) HourlyRate(ctx context.Context, workerID string) (decimal.Decimal, error) {
	worker, err := r.crewRepo.FindByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, crewerrors.ErrWorkerNotFound
		}
		return decimal.Zero, err
	}

	hoursPerDay, err := r.schedules.HoursPerDay(ctx, workerID)
	if err != nil {
		return decimal.Zero, err
	}
	if !hoursPerDay.IsPositive() {
		// Refuse to derive a rate from broken schedule data instead of
		// dividing into zero or infinity.
		return decimal.Zero, payrollerrors.ErrZeroScheduledHours
	}

	return worker.DailyRate.DivRound(hoursPerDay, 4), nil
}
