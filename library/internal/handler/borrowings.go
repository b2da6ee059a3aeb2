package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
)

func principal(c echo.Context, req auth.Requirement) (auth.Principal, error) {
	p, err := auth.Authorize(c.Request().Context(), req)
	if err != nil {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return p, nil
}

// Borrow godoc
// @Summary borrow one copy for 14 days
// @Tags borrowings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.BorrowRequest true "book"
// @Success 201 {object} model.BorrowResponse
// @Failure 400 {object} model.MessageResponse
// @Failure 404 {object} model.MessageResponse
// @Router /api/borrow [post]
func (h *Handler) Borrow(c echo.Context) error {
	p, err := principal(c, auth.Authenticated)
	if err != nil {
		return err
	}
	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	borrowing, err := h.borrowingSvc.Borrow(c.Request().Context(), p.ID, req.BookID)
	if err != nil {
		return h.httpError("Borrow", err)
	}
	return c.JSON(http.StatusCreated, model.BorrowResponse{
		Message:     "Book borrowed successfully",
		BorrowingID: borrowing.ID,
		DueDate:     borrowing.DueDate,
	})
}

// Return godoc
// @Summary return a borrowed copy
// @Tags borrowings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.BorrowRequest true "book"
// @Success 200 {object} model.MessageResponse
// @Failure 400 {object} model.MessageResponse
// @Router /api/return [post]
func (h *Handler) Return(c echo.Context) error {
	p, err := principal(c, auth.Authenticated)
	if err != nil {
		return err
	}
	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if _, err := h.borrowingSvc.Return(c.Request().Context(), p.ID, req.BookID); err != nil {
		return h.httpError("Return", err)
	}
	return c.JSON(http.StatusOK, model.MessageResponse{Message: "Book returned successfully"})
}

// ListBorrowings godoc
// @Summary the caller's borrowings, newest first
// @Tags borrowings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Borrowing
// @Router /api/borrowings [get]
func (h *Handler) ListBorrowings(c echo.Context) error {
	p, err := principal(c, auth.Authenticated)
	if err != nil {
		return err
	}
	items, err := h.borrowingSvc.ListUserBorrowings(c.Request().Context(), p.ID)
	if err != nil {
		return h.httpError("ListBorrowings", err)
	}
	return c.JSON(http.StatusOK, items)
}

// ListAllBorrowings godoc
// @Summary every borrowing with the borrower's username
// @Tags borrowings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Borrowing
// @Failure 403 {object} model.MessageResponse
// @Router /api/all-borrowings [get]
func (h *Handler) ListAllBorrowings(c echo.Context) error {
	items, err := h.borrowingSvc.ListAllBorrowings(c.Request().Context())
	if err != nil {
		return h.httpError("ListAllBorrowings", err)
	}
	return c.JSON(http.StatusOK, items)
}

// DashboardStats godoc
// @Summary librarian dashboard counters
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Stats
// @Failure 403 {object} model.MessageResponse
// @Router /api/dashboard-stats [get]
func (h *Handler) DashboardStats(c echo.Context) error {
	stats, err := h.statsSvc.DashboardStats(c.Request().Context())
	if err != nil {
		return h.httpError("DashboardStats", err)
	}
	return c.JSON(http.StatusOK, stats)
}
