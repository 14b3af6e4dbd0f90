package http

import (
	"errors"
	"net/http"

	"printflow/internal/core/domain/model/csvimport"
	"printflow/internal/core/domain/model/order"
	"printflow/internal/core/domain/model/quota"
	"printflow/internal/core/domain/model/user"
	"printflow/internal/core/domain/services"
	"printflow/internal/core/ports"
	"printflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFromError maps application and domain errors to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, user.ErrRoleMismatch):
		return http.StatusForbidden
	case errors.Is(err, quota.ErrQuotaExceeded),
		errors.Is(err, ports.ErrDuplicateExternalOrderID),
		errors.Is(err, services.ErrAgentLimitExceeded),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, csvimport.ErrBatchAlreadySettled):
		return http.StatusConflict
	case errors.Is(err, quota.ErrTopupBelowMinimum),
		errors.Is(err, csvimport.ErrNoValidRows),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func problemJSON(ctx echo.Context, err error) error {
	status := statusFromError(err)
	return ctx.JSON(status, Error{
		Code:    status,
		Message: err.Error(),
	})
}

func badRequestJSON(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
