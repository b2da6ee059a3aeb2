package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
)

const internalErrorMessage = "internal server error"

var badRequestErrs = []error{
	errs.ErrUnavailable,
	errs.ErrDuplicateBorrow,
	errs.ErrNoActiveLoan,
	errs.ErrDuplicateISBN,
	errs.ErrDuplicateUser,
	errs.ErrBookHasOpenLoans,
	errs.ErrCopiesBelowBorrowed,
	errs.ErrInvalidYear,
	errs.ErrMissingBookFields,
	errs.ErrInvalidUsername,
}

// httpError maps a domain error onto its status. Anything unrecognised is logged and hidden behind a 500.
func (h *Handler) httpError(op string, err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if errors.Is(err, errs.ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	for _, target := range badRequestErrs {
		if errors.Is(err, target) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	h.log.Error(op, zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, internalErrorMessage).SetInternal(err)
}
