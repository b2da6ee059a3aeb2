package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/library-management/library/internal/model"
)

// Register godoc
// @Summary create a borrower account
// @Tags auth
// @Accept json
// @Produce json
// @Param user body model.RegisterRequest true "account"
// @Success 201 {object} model.CreatedResponse
// @Failure 400 {object} validate.ValidationErrorResponse
// @Router /api/register [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}
	id, err := h.authSvc.Register(c.Request().Context(), req)
	if err != nil {
		return h.httpError("Register", err)
	}
	return c.JSON(http.StatusCreated, model.CreatedResponse{Message: "User registered successfully", UserID: id})
}

// Login godoc
// @Summary exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body model.LoginRequest true "credentials"
// @Success 200 {object} model.LoginResponse
// @Failure 401 {object} model.MessageResponse
// @Router /api/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return err
	}
	resp, err := h.authSvc.Login(c.Request().Context(), req)
	if err != nil {
		return h.httpError("Login", err)
	}
	return c.JSON(http.StatusOK, resp)
}
