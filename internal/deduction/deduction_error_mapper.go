package deduction

import (
	"errors"
	"strings"

	crewerrors "crewpay/internal/crew/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapRepositoryError translates storage violations into domain errors.
// The worker existence check races with worker deletion; the foreign
// key catches what the check missed.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23503" && pgErr.ConstraintName == "fk_deductions_worker" {
			return crewerrors.ErrWorkerNotFound
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "violates foreign key") && strings.Contains(errMsg, "fk_deductions_worker") {
		return crewerrors.ErrWorkerNotFound
	}

	return err
}
