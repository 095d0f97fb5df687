package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nader-rabadi/AWSmicroservices/internal/workflow"
	"go.uber.org/zap"
)

// ExecutionHandler translates coordinator execution state into the
// client-facing status/result payloads. Workflow failure is still a 200 with
// a status field; only transport and lookup errors produce non-200.
type ExecutionHandler struct {
	coordinator *workflow.Coordinator
	logger      *zap.Logger
}

func NewExecutionHandler(coordinator *workflow.Coordinator, logger *zap.Logger) *ExecutionHandler {
	return &ExecutionHandler{coordinator: coordinator, logger: logger}
}

func (h *ExecutionHandler) GetStatus(c *gin.Context) {
	arn := c.Param("executionArn")

	exec, err := h.coordinator.Describe(c.Request.Context(), arn)
	if err != nil {
		h.logger.Error("status lookup failed",
			zap.String("execution_arn", arn),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": exec.Status})
}

func (h *ExecutionHandler) GetResult(c *gin.Context) {
	arn := c.Param("executionArn")

	output, err := h.coordinator.Result(c.Request.Context(), arn)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"urloutputs": string(output)})
	case errors.Is(err, workflow.ErrNotReady):
		// Not an error to the polling client: the report simply is not
		// finished yet.
		c.JSON(http.StatusOK, gin.H{"urloutputs": ""})
	default:
		h.logger.Error("result lookup failed",
			zap.String("execution_arn", arn),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
