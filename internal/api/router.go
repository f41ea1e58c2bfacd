package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sms-gateway/internal/config"
	"sms-gateway/internal/logging"
)

func NewRouter(logger *logging.Logger, cfg config.Config, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	// The source IP is the authorization input; it must be the peer
	// address, never a forwarded header a caller can set.
	_ = r.SetTrustedProxies(nil)

	api := r.Group(cfg.API.BasePath)
	{
		api.POST("/sms/send", h.SendSMS)

		// Delivery receipts (served only when the receipt log is enabled)
		api.GET("/deliveries/request/:request_id", h.GetDeliveriesByRequestID)
		api.GET("/deliveries/user/:user_id", h.GetDeliveriesByUserID)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
