package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ivplatonov/stackd/internal/device"
	"github.com/ivplatonov/stackd/internal/gate"
	"github.com/ivplatonov/stackd/internal/logging"
	"github.com/ivplatonov/stackd/internal/service"
	"github.com/ivplatonov/stackd/internal/stack"
	"github.com/ivplatonov/stackd/internal/types"
)

// Version reported by the root endpoint.
const Version = "1.0.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	dev      *device.Device
	registry *service.Registry
	log      *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(dev *device.Device, registry *service.Registry, log *logging.Logger) *Handlers {
	return &Handlers{
		dev:      dev,
		registry: registry,
		log:      log,
	}
}

// Root handles the basic liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "stackd",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	health := gin.H{
		"status":           "healthy",
		"presence":         gin.H{"present": h.dev.Present(), "state": h.dev.State()},
		"service_registry": h.registry.Stats(),
	}

	if capacity, err := h.dev.Capacity(); err == nil {
		usage, _ := h.dev.Usage()
		health["stack"] = gin.H{"capacity": capacity, "usage": usage}
	}

	c.JSON(http.StatusOK, health)
}

// Push stores one value on the stack
func (h *Handlers) Push(c *gin.Context) {
	var req types.PushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be a 32-bit signed integer"})
		return
	}

	if err := h.dev.Push(req.Value); err != nil {
		h.deviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pushed": req.Value})
}

// Pop removes and returns the top value. An empty stack answers 204, the
// end-of-data signal.
func (h *Handlers) Pop(c *gin.Context) {
	v, ok, err := h.dev.Pop()
	if err != nil {
		h.deviceError(c, err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": v})
}

// Drain pops every stored value in LIFO order
func (h *Handlers) Drain(c *gin.Context) {
	values, err := h.dev.Drain()
	if err != nil {
		h.deviceError(c, err)
		return
	}
	if values == nil {
		values = []int32{}
	}

	c.JSON(http.StatusOK, gin.H{
		"values": values,
		"count":  len(values),
	})
}

// SetCapacity reconfigures the stack capacity
func (h *Handlers) SetCapacity(c *gin.Context) {
	var req types.CapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "capacity must be an integer"})
		return
	}
	if req.Capacity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "capacity must be non-negative"})
		return
	}

	if err := h.dev.Resize(uint(req.Capacity)); err != nil {
		h.deviceError(c, err)
		return
	}

	h.log.Info("capacity reconfigured", zap.Int64("capacity", req.Capacity))
	c.JSON(http.StatusOK, gin.H{"capacity": req.Capacity})
}

// GetCapacity reports the current capacity
func (h *Handlers) GetCapacity(c *gin.Context) {
	n, err := h.dev.Capacity()
	if err != nil {
		h.deviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"capacity": n})
}

// GetUsage reports the current occupied count
func (h *Handlers) GetUsage(c *gin.Context) {
	n, err := h.dev.Usage()
	if err != nil {
		h.deviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": n})
}

// GetStats reports the usage counters
func (h *Handlers) GetStats(c *gin.Context) {
	s, err := h.dev.Stats()
	if err != nil {
		h.deviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pushes":     s.Pushes,
		"pops":       s.Pops,
		"overflows":  s.Overflows,
		"underflows": s.Underflows,
	})
}

// Clear resets the occupied count
func (h *Handlers) Clear(c *gin.Context) {
	if err := h.dev.Clear(); err != nil {
		h.deviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// Presence reports the current availability state
func (h *Handlers) Presence(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"present": h.dev.Present(),
		"state":   h.dev.State(),
	})
}

// Attach forces the device available, the manual stand-in for a key plug
func (h *Handlers) Attach(c *gin.Context) {
	h.dev.Attach()
	c.JSON(http.StatusOK, gin.H{"state": h.dev.State()})
}

// Detach forces the device unavailable
func (h *Handlers) Detach(c *gin.Context) {
	h.dev.Detach()
	c.JSON(http.StatusOK, gin.H{"state": h.dev.State()})
}

// ListServices lists all registered services
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if categoryStr := c.Query("category"); categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// ExecuteService runs a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reqCtx := &types.Context{ClientID: req.ClientID}
	if id, ok := c.Get("request_id"); ok {
		if s, ok := id.(string); ok {
			reqCtx.RequestID = &s
		}
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, reqCtx)
	if err != nil && result == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handlers) deviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gate.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "device not present"})
	case errors.Is(err, stack.ErrOverflow):
		c.JSON(http.StatusConflict, gin.H{"error": "stack is full"})
	case errors.Is(err, stack.ErrExhausted):
		c.JSON(http.StatusInsufficientStorage, gin.H{"error": "stack storage exhausted"})
	default:
		h.log.Error("stack operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
