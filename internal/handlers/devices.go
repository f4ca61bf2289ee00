package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"domotica/internal/models"
	"domotica/internal/service"

	"github.com/gin-gonic/gin"
)

// defaultLogLimit matches the LOG command of the text protocol.
const defaultLogLimit = 20

// respondError maps a service error to the facade's status codes.
func (h *Handler) respondError(c *gin.Context, err error, logKey string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Dispositivo no encontrado"})
	case errors.Is(err, service.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	default:
		if h.log != nil {
			h.log.Errorw(logKey, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "error interno"})
	}
}

// @Summary      All device states
// @Tags         devices
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/status [get]
func (h *Handler) getStatus(c *gin.Context) {
	devices := h.services.List()
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"timestamp": time.Now(),
		"devices":   devices,
		"total":     len(devices),
	})
}

// @Summary      One device state
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "Device id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/device/{id} [get]
func (h *Handler) getDevice(c *gin.Context) {
	d, err := h.services.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get_device_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "device": d})
}

// @Summary      Recent event log
// @Tags         devices
// @Produce      json
// @Param        limit  query     int  false  "Max entries (default 20)"
// @Success      200    {object}  map[string]interface{}
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	limit := defaultLogLimit
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	entries := h.services.Recent(limit)
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.String())
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "logs": lines, "count": len(lines)})
}

type controlRequest struct {
	ID     string `json:"id" binding:"required"`
	Action string `json:"action" binding:"required"` // ON | OFF
}

// @Summary      Switch a device ON or OFF
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body      controlRequest  true  "Control payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/control [post]
// @Security     BearerAuth
func (h *Handler) control(c *gin.Context) {
	var req controlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Formato inválido"})
		return
	}
	action := req.Action
	if action != models.StateOn && action != models.StateOff {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Acción debe ser ON u OFF"})
		return
	}
	if err := h.services.SetPower(req.ID, action); err != nil {
		h.respondError(c, err, "control_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "device_id": req.ID, "new_state": action})
}

type autoOffRequest struct {
	ID      string `json:"id" binding:"required"`
	Seconds *int   `json:"seconds" binding:"required"`
}

// @Summary      Configure auto power-off
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body      autoOffRequest  true  "Auto-off payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/auto_off [post]
// @Security     BearerAuth
func (h *Handler) autoOff(c *gin.Context) {
	var req autoOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Formato inválido"})
		return
	}
	if err := h.services.SetAutoOff(req.ID, *req.Seconds); err != nil {
		h.respondError(c, err, "auto_off_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "device_id": req.ID, "auto_off_seconds": *req.Seconds})
}

type brightnessRequest struct {
	ID         string `json:"id" binding:"required"`
	Brightness *int   `json:"brightness" binding:"required"`
}

// @Summary      Set light brightness
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body      brightnessRequest  true  "Brightness payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/brightness [post]
// @Security     BearerAuth
func (h *Handler) setBrightness(c *gin.Context) {
	var req brightnessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Formato inválido"})
		return
	}
	if err := h.services.SetBrightness(req.ID, *req.Brightness); err != nil {
		h.respondError(c, err, "brightness_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "device_id": req.ID, "brightness": *req.Brightness})
}

type colorRequest struct {
	ID    string `json:"id" binding:"required"`
	Color string `json:"color" binding:"required"`
}

// @Summary      Set light color
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body      colorRequest  true  "Color payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/color [post]
// @Security     BearerAuth
func (h *Handler) setColor(c *gin.Context) {
	var req colorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Formato inválido"})
		return
	}
	if err := h.services.SetColor(req.ID, req.Color); err != nil {
		h.respondError(c, err, "color_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "device_id": req.ID, "color": req.Color})
}

type curtainsRequest struct {
	Position *int `json:"position" binding:"required"`
}

// @Summary      Set curtain position
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body      curtainsRequest  true  "Position payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/curtains [post]
// @Security     BearerAuth
func (h *Handler) setCurtains(c *gin.Context) {
	var req curtainsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Formato inválido"})
		return
	}
	if err := h.services.SetCurtainPosition(*req.Position); err != nil {
		h.respondError(c, err, "curtains_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "position": *req.Position})
}

type temperatureRequest struct {
	Temperature *float64 `json:"temperature" binding:"required"`
}

// @Summary      Set thermostat target temperature
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body      temperatureRequest  true  "Temperature payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/temperature [post]
// @Security     BearerAuth
func (h *Handler) setTemperature(c *gin.Context) {
	var req temperatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Formato inválido"})
		return
	}
	if err := h.services.SetTargetTemperature(*req.Temperature); err != nil {
		h.respondError(c, err, "temperature_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "temperature": *req.Temperature})
}
