package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stemsi/contact-backend/internal/config"
	"github.com/stemsi/contact-backend/internal/handler"
	"github.com/stemsi/contact-backend/internal/middleware"
	"github.com/stemsi/contact-backend/internal/observability"
	"github.com/stemsi/contact-backend/internal/response"
	"github.com/stemsi/contact-backend/internal/service"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Contact-form limiter message, distinct from the general API limit.
const contactLimitMessage = "Too many contact form submissions. Please try again later."

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Message *handler.MessageHandler
	Feed    *handler.FeedHandler
}

// Deps carries the shared services and infrastructure the router wires
// into middleware.
type Deps struct {
	AuthService  *service.AuthService
	AdminService *service.AdminService

	// APILimiter guards every /api route; ContactLimiter additionally
	// guards POST /api/messages.
	APILimiter     middleware.Limiter
	ContactLimiter middleware.Limiter

	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Log      zerolog.Logger
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(cfg *config.Config, deps Deps, handlers *Handlers) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.HandleMethodNotAllowed = false

	router.Use(middleware.Recovery(deps.Log, cfg.IsDevelopment()))
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(deps.Log))
	if deps.Prom != nil {
		router.Use(deps.Prom.GinHandleMiddleware())
	}

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*).
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.MaxBodyBytes(cfg.MaxBodyBytes))
	router.Use(middleware.Brotli())

	var onReject func(string)
	if deps.Prom != nil {
		onReject = deps.Prom.ObserveRateLimited
	}
	requireAdmin := middleware.RequireAdminJWT(deps.AuthService, deps.AdminService)

	// ─── API (general rate limit) ──────────────────────────────────────
	api := router.Group("/api")
	api.Use(
		middleware.RateLimit(deps.APILimiter, "api", "", deps.Log, onReject),
		middleware.NoStore(),
	)
	{
		api.GET("/health", handler.Health)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Auth.Register)
			auth.POST("/login", handlers.Auth.Login)
			auth.GET("/me", requireAdmin, handlers.Auth.Me)
		}

		messages := api.Group("/messages")
		{
			messages.POST("",
				middleware.RateLimit(deps.ContactLimiter, "contact", contactLimitMessage, deps.Log, onReject),
				handlers.Message.Submit,
			)

			admin := messages.Group("")
			admin.Use(requireAdmin)
			{
				admin.GET("", handlers.Message.List)
				admin.POST("/bulk/delete", handlers.Message.BulkDelete)
				admin.GET("/:id", handlers.Message.Get)
				admin.PATCH("/:id/read", handlers.Message.UpdateReadStatus)
				admin.PATCH("/:id/spam", handlers.Message.MarkSpam)
				admin.DELETE("/:id", handlers.Message.Delete)
			}
		}
	}

	// ─── Live feed (token in query) ────────────────────────────────────
	router.GET("/ws/messages",
		middleware.RequireAdminWSAuth(deps.AuthService, deps.AdminService),
		handlers.Feed.Stream,
	)

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	router.NoRoute(handler.NotFound)

	return router
}
