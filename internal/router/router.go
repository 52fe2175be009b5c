package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"planify/internal/auth"
	"planify/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	users auth.UserResolver,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	taskHandler *handler.TaskHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/users/register", authHandler.Register)
	api.POST("/users/login", authHandler.Login)

	// Secured routes: echo-jwt checks the signature, ResolveUser loads the
	// account behind the token.
	secured := api.Group("",
		echojwt.WithConfig(auth.JWTConfig(jwtService)),
		auth.ResolveUser(users),
	)

	secured.GET("/users/me", userHandler.Me)
	secured.PUT("/users/profile", userHandler.UpdateProfile)
	secured.PUT("/users/password", userHandler.ChangePassword)

	secured.GET("/task/gp", taskHandler.List)
	secured.POST("/task/gp", taskHandler.Create)
	secured.GET("/task/gp/:id", taskHandler.Get)
	secured.PUT("/task/gp/:id", taskHandler.Update)
	secured.DELETE("/task/gp/:id", taskHandler.Delete)
	secured.POST("/task/bulk", taskHandler.BulkCreate)
	secured.GET("/task/stats", taskHandler.Stats)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
