package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"

	crewerrors "crewpay/internal/crew/errors"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Aggregate(ctx context.Context, workerID string, start, end time.Time) (Aggregates, error)
	GetAllByWorker(ctx context.Context, workerID string, start, end time.Time) ([]RecordResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Aggregate returns zeros, not an error, for a worker with no rows in
// the range.
func (s *service) Aggregate(ctx context.Context, workerID string, start, end time.Time) (Aggregates, error) {
	if _, err := uuid.Parse(workerID); err != nil {
		return Aggregates{}, crewerrors.ErrInvalidWorkerID
	}
	return s.repo.Aggregate(ctx, workerID, start, end)
}

func (s *service) GetAllByWorker(ctx context.Context, workerID string, start, end time.Time) ([]RecordResponse, error) {
	if _, err := uuid.Parse(workerID); err != nil {
		return nil, crewerrors.ErrInvalidWorkerID
	}

	rows, err := s.repo.FindAllByWorkerAndRange(ctx, workerID, start, end)
	if err != nil {
		return nil, err
	}

	resp := make([]RecordResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp, nil
}

func mapToResponse(r Record) RecordResponse {
	resp := RecordResponse{
		ID:             r.ID.String(),
		WorkerID:       r.WorkerID.String(),
		AttendanceDate: r.AttendanceDate.Format("2006-01-02"),
		Status:         r.Status,
		HoursWorked:    r.HoursWorked.StringFixed(2),
		OvertimeHours:  r.OvertimeHours.StringFixed(2),
		IsArchived:     r.IsArchived,
	}
	if r.TimeIn != nil {
		v := r.TimeIn.Format(time.RFC3339)
		resp.TimeIn = &v
	}
	if r.TimeOut != nil {
		v := r.TimeOut.Format(time.RFC3339)
		resp.TimeOut = &v
	}
	return resp
}
