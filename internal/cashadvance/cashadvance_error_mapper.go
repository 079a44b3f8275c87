package cashadvance

import (
	"errors"
	"strings"

	cashadvanceerrors "crewpay/internal/cashadvance/errors"
	crewerrors "crewpay/internal/crew/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23503" && pgErr.ConstraintName == "fk_cash_advances_worker":
			return crewerrors.ErrWorkerNotFound
		case pgErr.Code == "23503" && pgErr.ConstraintName == "fk_repayments_cash_advance":
			return cashadvanceerrors.ErrAdvanceNotFound
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "violates foreign key") && strings.Contains(errMsg, "fk_cash_advances_worker") {
		return crewerrors.ErrWorkerNotFound
	}

	return err
}
