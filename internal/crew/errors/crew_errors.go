package crewerrors

import (
	"net/http"

	"crewpay/internal/shared/apperror"
)

var (
	ErrWorkerNotFound = apperror.New(
		apperror.CodeNotFound,
		"worker not found",
		http.StatusNotFound,
	)
	ErrInvalidWorkerID = apperror.New(
		apperror.CodeValidation,
		"invalid worker id",
		http.StatusBadRequest,
	)
)
