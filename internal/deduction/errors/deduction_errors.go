package deductionerrors

import (
	"net/http"

	"crewpay/internal/shared/apperror"
)

var (
	ErrDeductionNotFound = apperror.New(
		apperror.CodeNotFound,
		"deduction not found",
		http.StatusNotFound,
	)
	ErrInvalidDeductionID = apperror.New(
		apperror.CodeValidation,
		"invalid deduction id",
		http.StatusBadRequest,
	)
	ErrInvalidDeductionType = apperror.New(
		apperror.CodeValidation,
		"invalid deduction type",
		http.StatusBadRequest,
	)
	ErrInvalidFrequency = apperror.New(
		apperror.CodeValidation,
		"frequency must be PER_PAYROLL or ONE_TIME",
		http.StatusBadRequest,
	)
	ErrNonPositiveAmount = apperror.New(
		apperror.CodeValidation,
		"amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrAlreadyConsumed = apperror.New(
		apperror.CodeInvalidState,
		"one-time deduction was already consumed by another payroll period",
		http.StatusConflict,
	)
	ErrLinkedToCashAdvance = apperror.New(
		apperror.CodeInvalidState,
		"deduction is managed by a cash advance and cannot be deleted",
		http.StatusConflict,
	)
)
