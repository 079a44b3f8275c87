package schedule

import (
	"context"

	"github.com/shopspring/decimal"
)

// DefaultHoursPerDay applies when a worker has no active schedule rows.
// Rate derivation still rejects configured schedules whose hours come
// out zero or negative.
var DefaultHoursPerDay = decimal.NewFromInt(8)

//go:generate mockgen -source=provider.go -destination=mock/provider_mock.go -package=mock

// Provider resolves a worker's scheduled hours per day for hourly rate
// derivation.
type Provider interface {
	HoursPerDay(ctx context.Context, workerID string) (decimal.Decimal, error)
}

type provider struct {
	repo Repository
}

func NewProvider(repo Repository) Provider {
	return &provider{repo: repo}
}

func (p *provider) HoursPerDay(ctx context.Context, workerID string) (decimal.Decimal, error) {
	summary, err := p.repo.SummaryByWorker(ctx, workerID)
	if err != nil {
		return decimal.Zero, err
	}

	if summary.DaysScheduled == 0 {
		return DefaultHoursPerDay, nil
	}

	return summary.HoursPerDay, nil
}
