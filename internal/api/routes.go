package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.GET("/frames", h.framesHandler)
		api.GET("/frames/:id/examples/:n/qr", h.qrHandler)
		api.POST("/compose", h.composeHandler)
		api.POST("/batch", h.batchHandler)
	}
}
