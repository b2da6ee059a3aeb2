package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/model"
)

func bookID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is invalid")
	}
	return id, nil
}

// ListBooks godoc
// @Summary catalog ordered by title
// @Tags books
// @Produce json
// @Success 200 {array} model.Book
// @Router /api/books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	books, err := h.bookSvc.ListBooks(c.Request().Context())
	if err != nil {
		return h.httpError("ListBooks", err)
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook godoc
// @Summary single book
// @Tags books
// @Produce json
// @Param id path int true "book id"
// @Success 200 {object} model.Book
// @Failure 404 {object} model.MessageResponse
// @Router /api/books/{id} [get]
func (h *Handler) GetBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}
	book, err := h.bookSvc.GetBook(c.Request().Context(), id)
	if err != nil {
		return h.httpError("GetBook", err)
	}
	return c.JSON(http.StatusOK, book)
}

// AddBook godoc
// @Summary add a title to the catalog
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param book body model.BookRequest true "book"
// @Success 201 {object} model.CreatedResponse
// @Failure 400 {object} validate.ValidationErrorResponse
// @Failure 403 {object} model.MessageResponse
// @Router /api/books [post]
func (h *Handler) AddBook(c echo.Context) error {
	var req model.BookRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	id, err := h.bookSvc.AddBook(c.Request().Context(), req)
	if err != nil {
		return h.httpError("AddBook", err)
	}
	return c.JSON(http.StatusCreated, model.CreatedResponse{Message: "Book added successfully", BookID: id})
}

// UpdateBook godoc
// @Summary edit a book; available copies follow the change in total copies
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "book id"
// @Param book body model.BookRequest true "book"
// @Success 200 {object} model.MessageResponse
// @Failure 404 {object} model.MessageResponse
// @Router /api/books/{id} [put]
func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}
	var req model.BookRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.bookSvc.UpdateBook(c.Request().Context(), id, req); err != nil {
		return h.httpError("UpdateBook", err)
	}
	return c.JSON(http.StatusOK, model.MessageResponse{Message: "Book updated successfully"})
}

// DeleteBook godoc
// @Summary remove a book with no copies on loan
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "book id"
// @Success 200 {object} model.MessageResponse
// @Failure 404 {object} model.MessageResponse
// @Router /api/books/{id} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}
	if err := h.bookSvc.DeleteBook(c.Request().Context(), id); err != nil {
		return h.httpError("DeleteBook", err)
	}
	return c.JSON(http.StatusOK, model.MessageResponse{Message: "Book deleted successfully"})
}
