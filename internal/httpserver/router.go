package httpserver

import (
	"log/slog"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/wine_catalog/internal/metrics"
	middleware "github.com/Skotchmaster/wine_catalog/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/wine_catalog/pkg/middleware/logging"
)

const bodyLimit = "10M"

type Deps struct {
	Auth        *AuthHTTP
	Products    *ProductHTTP
	Ingredients *IngredientHTTP
	Uploads     *UploadHTTP
	Health      *HealthHTTP
	Verifier    middleware.Verifier

	AllowedOrigins []string
}

// New builds the echo instance with the full middleware stack and routes.
func New(logger *slog.Logger, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(metrics.Middleware())
	e.Use(echomw.Secure())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     d.AllowedOrigins,
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
		},
	}))
	e.Use(echomw.BodyLimit(bodyLimit))

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", d.Health.Live)
	e.GET("/health/ready", d.Health.Ready)
	e.GET("/metrics", metrics.Handler())
	e.GET("/uploads/:name", d.Uploads.Serve)

	api := e.Group("/api")
	api.GET("/health", d.Health.Health)

	requireAuth := middleware.RequireAuth(d.Verifier)

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.GET("/profile", d.Auth.Profile, requireAuth)
	auth.POST("/logout", d.Auth.Logout, requireAuth)

	products := api.Group("/products", requireAuth)
	products.GET("", d.Products.GetProducts)
	products.GET("/export/excel", d.Products.ExportExcel)
	products.POST("/import/excel", d.Products.ImportExcel)
	products.POST("/upload/image", d.Uploads.UploadImage)
	products.GET("/:id", d.Products.GetProduct)
	products.POST("", d.Products.CreateProduct)
	products.PUT("/:id", d.Products.UpdateProduct)
	products.DELETE("/:id", d.Products.DeleteProduct)
	products.POST("/:id/duplicate", d.Products.DuplicateProduct)

	ingredients := api.Group("/ingredients", requireAuth)
	ingredients.GET("", d.Ingredients.GetIngredients)
	ingredients.GET("/categories", d.Ingredients.GetCategories)
	ingredients.GET("/category/:category", d.Ingredients.GetByCategory)
	ingredients.GET("/export/excel", d.Ingredients.ExportExcel)
	ingredients.POST("/import/excel", d.Ingredients.ImportExcel)
	ingredients.POST("/upload/image", d.Uploads.UploadImage)
	ingredients.GET("/:id", d.Ingredients.GetIngredient)
	ingredients.POST("", d.Ingredients.CreateIngredient)
	ingredients.PUT("/:id", d.Ingredients.UpdateIngredient)
	ingredients.DELETE("/:id", d.Ingredients.DeleteIngredient)
	ingredients.POST("/:id/duplicate", d.Ingredients.DuplicateIngredient)

	api.Any("/*", func(c echo.Context) error { return echo.ErrNotFound })
}
