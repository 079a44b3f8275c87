package cashadvanceerrors

import (
	"net/http"

	"crewpay/internal/shared/apperror"
)

var (
	ErrAdvanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"cash advance not found",
		http.StatusNotFound,
	)
	ErrInvalidAdvanceID = apperror.New(
		apperror.CodeValidation,
		"invalid cash advance id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeValidation,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrNonPositiveAmount = apperror.New(
		apperror.CodeValidation,
		"amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidInstallments = apperror.New(
		apperror.CodeValidation,
		"installments must be at least 1",
		http.StatusBadRequest,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"cash advance is not pending",
		http.StatusConflict,
	)
	ErrNotRepayable = apperror.New(
		apperror.CodeInvalidState,
		"cash advance is not approved or repaying",
		http.StatusConflict,
	)
	ErrPaymentExceedsBalance = apperror.New(
		apperror.CodeValidation,
		"payment amount exceeds outstanding balance",
		http.StatusBadRequest,
	)
	ErrInvalidPaymentDate = apperror.New(
		apperror.CodeValidation,
		"payment date must be in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrNotesRequired = apperror.New(
		apperror.CodeValidation,
		"rejection notes are required",
		http.StatusBadRequest,
	)
)
