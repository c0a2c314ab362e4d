package routes

import (
	"courtflow/internal/handlers"

	"github.com/gin-gonic/gin"
)

func Routes(r *gin.Engine, handler *handlers.Handler) {
	r.GET("/ping", handler.PingHandler)

	// Session state for a full render, and the live feed for everything after
	r.GET("/state", handler.GetState)
	r.GET("/ws", handler.WsHandler)

	// Roster and configuration
	r.POST("/players", handler.AddPlayers)
	r.PUT("/config/autofill", handler.SetAutoFill)

	// Court operations
	r.POST("/courts/:index/resolve", handler.ResolveCourt)
	r.POST("/courts/resolve", handler.ResolveAll)
	r.POST("/courts/fill", handler.FillCourts)
	r.POST("/courts/:index/reset", handler.ResetCourt)
	r.POST("/courts/reset", handler.ResetAllCourts)

	// Start the whole session over
	r.POST("/reset", handler.ResetAll)
}
