package crew

import (
	"context"
	"errors"

	crewerrors "crewpay/internal/crew/errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=crew_service.go -destination=mock/crew_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]WorkerResponse, error)
	GetByID(ctx context.Context, id string) (WorkerResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetAll(ctx context.Context) ([]WorkerResponse, error) {
	workers, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]WorkerResponse, len(workers))
	for i, w := range workers {
		resp[i] = mapToResponse(w)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (WorkerResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WorkerResponse{}, crewerrors.ErrWorkerNotFound
		}
		return WorkerResponse{}, err
	}
	return mapToResponse(*w), nil
}

func mapToResponse(w Worker) WorkerResponse {
	return WorkerResponse{
		ID:               w.ID.String(),
		FullName:         w.FullName,
		Position:         w.Position,
		DailyRate:        w.DailyRate.StringFixed(2),
		EmploymentStatus: w.EmploymentStatus,
		IsArchived:       w.IsArchived,
	}
}
