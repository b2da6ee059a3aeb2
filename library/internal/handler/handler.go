package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
	md "github.com/Astemirdum/library-management/pkg/middleware"
	"github.com/Astemirdum/library-management/pkg/serializer"
	"github.com/Astemirdum/library-management/pkg/validate"
	_ "github.com/Astemirdum/library-management/swagger"
)

type Services struct {
	Books     BookService
	Auth      AuthService
	Borrowing BorrowingService
	Stats     StatsService
}

type Handler struct {
	bookSvc      BookService
	authSvc      AuthService
	borrowingSvc BorrowingService
	statsSvc     StatsService
	tokens       md.TokenParser
	corsOrigins  []string
	log          *zap.Logger
}

type Option func(*Handler)

// WithCORSOrigins restricts cross-origin requests to origins. Empty means any origin.
func WithCORSOrigins(origins []string) Option {
	return func(h *Handler) {
		if len(origins) > 0 {
			h.corsOrigins = origins
		}
	}
}

func New(svc Services, tokens md.TokenParser, log *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		bookSvc:      svc.Books,
		authSvc:      svc.Auth,
		borrowingSvc: svc.Borrowing,
		statsSvc:     svc.Stats,
		tokens:       tokens,
		corsOrigins:  []string{"*"},
		log:          log.Named("handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HideBanner = true
	e.JSONSerializer = serializer.JSONSerializer{}
	e.Validator = validate.NewCustomValidator()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     h.corsOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	// the web client calls /api/..., older tooling the bare paths
	for _, prefix := range []string{"", "/api"} {
		api := e.Group(prefix,
			middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
			middleware.RequestID(),
			md.NewRateLimiter(apiRPS),
		)
		h.register(api)
	}
	return e
}

func (h *Handler) register(api *echo.Group) {
	authed := md.JwtAuthentication(h.tokens)
	librarian := md.Require(auth.Librarian)

	api.GET("/test", h.Test)

	api.POST("/register", h.Register)
	api.POST("/login", h.Login)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)
	api.POST("/books", h.AddBook, authed, librarian)
	api.PUT("/books/:id", h.UpdateBook, authed, librarian)
	api.DELETE("/books/:id", h.DeleteBook, authed, librarian)

	api.POST("/borrow", h.Borrow, authed)
	api.POST("/return", h.Return, authed)
	api.GET("/borrowings", h.ListBorrowings, authed)
	api.GET("/all-borrowings", h.ListAllBorrowings, authed, librarian)

	api.GET("/dashboard-stats", h.DashboardStats, authed, librarian)
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Test godoc
// @Summary liveness probe
// @Tags manage
// @Produce json
// @Success 200 {object} model.MessageResponse
// @Router /api/test [get]
func (h *Handler) Test(c echo.Context) error {
	return c.JSON(http.StatusOK, model.MessageResponse{Message: "Server is running!"})
}
