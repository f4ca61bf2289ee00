package handlers

import (
	"net/http"

	"domotica/internal/logger"
	"domotica/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler wires the HTTP facade to the services and logging. Every route is
// a thin adapter over one registry operation.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs the HTTP handler with its dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
// Reads mirror the no-auth protocol commands; mutations require a bearer
// token obtained from /auth/sign-in.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", h.index)
	router.GET("/health", h.health)

	auth := router.Group("/auth")
	{
		auth.POST("/sign-in", h.signIn)
	}

	api := router.Group("/api/v1")
	{
		api.GET("/status", h.getStatus)
		api.GET("/device/:id", h.getDevice)
		api.GET("/logs", h.getLogs)

		protected := api.Group("", h.authMiddleware)
		{
			protected.POST("/control", h.control)
			protected.POST("/auto_off", h.autoOff)
			protected.POST("/brightness", h.setBrightness)
			protected.POST("/color", h.setColor)
			protected.POST("/curtains", h.setCurtains)
			protected.POST("/temperature", h.setTemperature)
		}
	}

	// Telemetry mirror over websocket, same payload as the UDP broadcast.
	router.GET("/ws", h.wsConnect)

	return router
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      API index
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       / [get]
func (h *Handler) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "Sistema Domótico - API REST",
		"version": "2.0",
		"endpoints": gin.H{
			"GET /api/v1/status":       "Estado de todos los dispositivos",
			"GET /api/v1/device/:id":   "Estado de un dispositivo",
			"GET /api/v1/logs":         "Historial de eventos",
			"POST /api/v1/control":     "Controlar dispositivo (ON/OFF)",
			"POST /api/v1/auto_off":    "Configurar autoapagado",
			"POST /api/v1/brightness":  "Ajustar brillo de luz",
			"POST /api/v1/color":       "Ajustar color de luz",
			"POST /api/v1/curtains":    "Ajustar posición de cortinas",
			"POST /api/v1/temperature": "Ajustar temperatura objetivo",
			"POST /auth/sign-in":       "Obtener token de acceso",
			"GET /ws":                  "Telemetría por websocket",
		},
	})
}
