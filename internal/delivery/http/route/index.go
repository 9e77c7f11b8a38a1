package route

import (
	"context"
	"net/http"
	"time"

	_ "market-catalog/docs"
	"market-catalog/internal/config"
	httpHandler "market-catalog/internal/delivery/http/handler"
	"market-catalog/internal/delivery/http/middleware"
	"market-catalog/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Dependencies struct {
	Offers  *service.OfferService
	Catalog *service.CatalogService
	Users   middleware.UserFinder
	JWT     config.JWTConfig
	Health  map[string]HealthCheck
	Metrics http.Handler
}

func SetupRoute(app *gin.Engine, deps Dependencies) {
	offerHandler := httpHandler.NewOfferHandler(deps.Offers, deps.Catalog)
	authHandler := httpHandler.NewAuthHandler()
	auth := middleware.AuthRequired(deps.JWT, deps.Users)

	app.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"),
		ginSwagger.DefaultModelsExpandDepth(0),
	))
	app.GET("/healthz", healthz(deps.Health))
	if deps.Metrics != nil {
		app.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	// --- Offer lifecycle (owner only) ---
	app.POST("/offer/publish", auth, offerHandler.Publish)
	app.PUT("/offer/modify/:id", auth, offerHandler.Modify)
	app.DELETE("/offer/delete/:id", auth, offerHandler.Delete)

	// --- Catalog (public) ---
	app.GET("/offers", offerHandler.List)
	app.GET("/offer/:id", offerHandler.Get)

	app.GET("/user/profile", auth, authHandler.Profile)
}

func healthz(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		report := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				report[name] = err.Error()
				continue
			}
			report[name] = "ok"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": report})
	}
}
