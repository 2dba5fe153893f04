package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"campusconnect/internal/config"
	"campusconnect/internal/errors"
	"campusconnect/internal/handler"
	"campusconnect/internal/service"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	eventHandler *handler.EventHandler,
	meHandler *handler.MeHandler,
	adminHandler *handler.AdminHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Validator = NewValidator()

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ClaimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authService.ParseAccessToken(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			httpErr := errors.MapErrorToHTTP(errors.ErrInvalidToken)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	}))

	secured.GET("/me", authHandler.Me)
	secured.GET("/venues", eventHandler.ListVenues)

	// Event routes
	secured.GET("/events", eventHandler.ListEvents)
	secured.GET("/events/:id", eventHandler.GetEvent)
	secured.POST("/events/:id/register", eventHandler.Register)
	secured.DELETE("/events/:id/register", eventHandler.Unregister)
	secured.POST("/events/:id/reminder", eventHandler.ToggleReminder)
	secured.POST("/events/:id/check-in", eventHandler.CheckIn)
	secured.POST("/events/:id/ask", eventHandler.Ask)

	// Inbox, certificates and personal data
	secured.GET("/me/notifications", meHandler.ListNotifications)
	secured.POST("/me/notifications/scan", meHandler.ScanReminders)
	secured.POST("/notifications/:id/read", meHandler.MarkRead)
	secured.GET("/me/certificates", meHandler.ListCertificates)
	secured.DELETE("/me/data", meHandler.ClearData)

	// Admin routes
	admin := secured.Group("/admin", RequireAdmin)
	admin.POST("/events", adminHandler.CreateEvent)
	admin.PUT("/events/:id", adminHandler.UpdateEvent)
	admin.DELETE("/events/:id", adminHandler.DeleteEvent)
	admin.POST("/events/delete", adminHandler.DeleteEvents)
	admin.POST("/events/:id/check-in/:userId", adminHandler.ToggleCheckIn)
	admin.POST("/reset", adminHandler.Reset)
	admin.GET("/stats", adminHandler.Stats)
	admin.POST("/notifications", adminHandler.Announce)
	admin.POST("/content/description", adminHandler.GenerateDescription)
	admin.POST("/content/summary", adminHandler.GenerateSummary)
	admin.POST("/content/poster", adminHandler.GeneratePoster)
	admin.GET("/users", userHandler.ListUsers)
	admin.GET("/users/:id", userHandler.GetUser)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates the request validator used by all handlers.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
