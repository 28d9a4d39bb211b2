package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/feedplanner/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted on the engine. Webhook may be nil
// when WhatsApp is not configured.
type Handlers struct {
	FeedPlans   *handlers.FeedPlanHandler
	Ingredients *handlers.IngredientHandler
	Webhook     *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.GET("/bird-types", h.FeedPlans.BirdTypes)

		api.GET("/ingredients", h.Ingredients.List)
		api.POST("/ingredients", h.Ingredients.Upsert)
		api.DELETE("/ingredients/:name", h.Ingredients.Delete)

		api.GET("/feed-plans", h.FeedPlans.List)
		api.POST("/feed-plans/calculate", h.FeedPlans.Calculate)
		api.POST("/feed-plans/optimize", h.FeedPlans.Optimize)
		api.POST("/feed-plans/export", h.FeedPlans.Export)

		api.POST("/prices/refresh", h.FeedPlans.RefreshPrices)
	}

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		r.POST("/send-message", h.Webhook.SendMessage)
	}

	if logger != nil {
		logger.Info("router initialized", zap.Bool("whatsapp", h.Webhook != nil))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
