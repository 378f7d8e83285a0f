package server

import (
	"context"
	"errors"
	"net/http"

	"checkbox-fiscalizer/internal/checkbox"
	"checkbox-fiscalizer/internal/config"
	"checkbox-fiscalizer/internal/fiscal"
	"checkbox-fiscalizer/internal/orders"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Fiscalizer is the orchestrator surface the handlers call.
type Fiscalizer interface {
	Fiscalize(ctx context.Context, order orders.Order) (checkbox.Receipt, error)
	ShiftSweep(ctx context.Context) (fiscal.SweepResult, error)
}

type webhookRequest struct {
	Order   *orders.Order `json:"order"`
	OrderID string        `json:"orderId"`
}

type Handler struct {
	cfg        config.Config
	fiscalizer Fiscalizer
	orders     *orders.Client
	logger     *zap.Logger
}

func NewHandler(cfg config.Config, fiscalizer Fiscalizer, ordersClient *orders.Client, logger *zap.Logger) *Handler {
	return &Handler{
		cfg:        cfg,
		fiscalizer: fiscalizer,
		orders:     ordersClient,
		logger:     logger.Named("server"),
	}
}

// Fiscalize handles the storefront webhook: one order, one receipt.
func (h *Handler) Fiscalize(c *gin.Context) {
	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, ok := h.resolveOrder(c, req)
	if !ok {
		return
	}

	rcpt, err := h.fiscalizer.Fiscalize(c.Request.Context(), order)
	if err != nil {
		h.logger.Error("fiscalization failed",
			zap.String("order_number", order.Number.String()),
			zap.Error(err),
		)
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "receiptId": rcpt.ID})
}

// CloseShift handles the scheduled sweep that closes a forgotten shift.
func (h *Handler) CloseShift(c *gin.Context) {
	if h.cfg.CronSecret != "" {
		if c.GetHeader("Authorization") != "Bearer "+h.cfg.CronSecret {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
	}

	result, err := h.fiscalizer.ShiftSweep(c.Request.Context())
	if err != nil {
		h.logger.Error("shift sweep failed", zap.Error(err))
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "closed": result.Closed, "message": result.Message})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// resolveOrder takes the order embedded in the webhook body, or fetches it
// from the commerce platform when only an id was sent. Writes the error
// response itself and returns ok=false on failure.
func (h *Handler) resolveOrder(c *gin.Context, req webhookRequest) (orders.Order, bool) {
	if req.Order != nil {
		return *req.Order, true
	}
	if req.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing order data in request body"})
		return orders.Order{}, false
	}

	order, err := h.orders.Fetch(c.Request.Context(), req.OrderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotConfigured) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order lookup by id is not configured"})
			return orders.Order{}, false
		}
		h.logger.Error("order lookup failed", zap.String("order_id", req.OrderID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return orders.Order{}, false
	}
	return order, true
}

// errorStatus maps orchestrator failures onto response codes: upstream API
// rejections surface as bad gateway, everything else (missing credentials,
// transport failures) as internal error.
func errorStatus(err error) int {
	var apiErr *checkbox.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
