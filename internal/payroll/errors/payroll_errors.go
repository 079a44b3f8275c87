package payrollerrors

import (
	"net/http"

	"crewpay/internal/shared/apperror"
)

var (
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll record not found for that period, generate payroll first",
		http.StatusNotFound,
	)
	ErrInvalidRecordID = apperror.New(
		apperror.CodeValidation,
		"invalid payroll record id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeValidation,
		"period start must not be after period end",
		http.StatusBadRequest,
	)
	ErrRecordArchived = apperror.New(
		apperror.CodeInvalidState,
		"payroll record is archived",
		http.StatusConflict,
	)
	ErrZeroScheduledHours = apperror.New(
		apperror.CodeConfiguration,
		"worker schedule yields zero or negative hours per day",
		http.StatusUnprocessableEntity,
	)
)
