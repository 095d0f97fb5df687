package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nader-rabadi/AWSmicroservices/internal/domain"
	"github.com/nader-rabadi/AWSmicroservices/internal/service"
	"github.com/nader-rabadi/AWSmicroservices/internal/workflow"
	"go.uber.org/zap"
)

const maxSubmissionBytes = 1 << 20

// OrderHandler accepts order submissions and serves order lookups.
type OrderHandler struct {
	coordinator *workflow.Coordinator
	orders      service.OrderStore
	logger      *zap.Logger
}

func NewOrderHandler(coordinator *workflow.Coordinator, orders service.OrderStore, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		coordinator: coordinator,
		orders:      orders,
		logger:      logger,
	}
}

// SubmitOrder starts a fulfillment execution for the raw payload and
// returns 202 with the execution identifier; completion is polled separately.
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSubmissionBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return
	}
	if !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body is not valid JSON"})
		return
	}

	executionARN, err := h.coordinator.Start(c.Request.Context(), body)
	if err != nil {
		h.logger.Error("failed to start fulfillment",
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"executionArn": executionARN})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id := c.Param("id")

	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order " + id + " not found"})
			return
		}
		h.logger.Error("order lookup failed", zap.String("order_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}
