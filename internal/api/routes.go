package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yorudev/gw2-loot-tracker/internal/api/handlers"
	"github.com/yorudev/gw2-loot-tracker/internal/services"
)

func SetupRouter(
	engine *services.SessionEngine,
	poller *services.Poller,
	client *services.GW2Client,
	history *services.HistoryService,
	filter *services.TrackingFilter,
	identity *services.IdentityService,
	settings *services.Settings,
	corsOrigins []string,
) *gin.Engine {
	router := gin.Default()

	// CORS configuration
	config := cors.DefaultConfig()
	config.AllowOrigins = corsOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false
	router.Use(cors.New(config))

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(engine, poller, filter)
	historyHandler := handlers.NewHistoryHandler(history)
	profileHandler := handlers.NewProfileHandler(filter)
	accountHandler := handlers.NewAccountHandler(client, settings, identity)

	// API routes
	api := router.Group("/api")
	{
		// Session routes
		session := api.Group("/session")
		{
			session.POST("/start", sessionHandler.StartSession)
			session.POST("/stop", sessionHandler.StopSession)
			session.GET("/status", sessionHandler.GetStatus)
			session.GET("/items", sessionHandler.GetItemDeltas)
			session.GET("/currencies", sessionHandler.GetCurrencyDeltas)
		}

		// Known reference data (for the profile editor)
		known := api.Group("/known")
		{
			known.GET("/items", sessionHandler.GetKnownItems)
			known.GET("/currencies", sessionHandler.GetKnownCurrencies)
		}

		// History routes
		historyGroup := api.Group("/history")
		{
			historyGroup.GET("", historyHandler.GetHistory)
			historyGroup.DELETE("/:id", historyHandler.DeleteSession)
		}

		// Tracking profile routes
		profiles := api.Group("/profiles")
		{
			profiles.GET("", profileHandler.GetProfiles)
			profiles.POST("", profileHandler.CreateProfile)
			profiles.PUT("/:id", profileHandler.UpdateProfile)
			profiles.DELETE("/:id", profileHandler.DeleteProfile)
			profiles.POST("/:id/activate", profileHandler.ActivateProfile)
		}

		// Account routes
		account := api.Group("/account")
		{
			account.POST("/validate", accountHandler.ValidateKey)
			account.PUT("/key", accountHandler.SetKey)
			account.GET("/settings", accountHandler.GetSettings)
			account.PUT("/settings", accountHandler.UpdateSettings)
		}

		api.POST("/identity", accountHandler.UpdateIdentity)
		api.POST("/poll", sessionHandler.PollNow)
	}

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}
