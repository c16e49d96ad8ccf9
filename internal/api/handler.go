// internal/api/handler.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"crbi-workers/internal/common/logger"
	"crbi-workers/internal/common/metrics"
	"crbi-workers/internal/matching"
	"crbi-workers/internal/models"
)

// QualificationService computes the ranked program qualification for one
// client. Satisfied by matching.Service.
type QualificationService interface {
	MatchProgramsForClient(ctx context.Context, clientID string) (*models.ClientQualification, error)
}

type Handler struct {
	service QualificationService
	logger  logger.Logger
}

func NewHandler(service QualificationService, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/clients/:clientId/qualification", h.GetQualification)
	}
}

func (h *Handler) GetQualification(c *gin.Context) {
	start := time.Now()
	route := "/api/v1/clients/:clientId/qualification"

	clientID := strings.TrimSpace(c.Param("clientId"))
	if clientID == "" {
		metrics.APIRequests.WithLabelValues(route, "400").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "clientId is required"})
		return
	}

	qualification, err := h.service.MatchProgramsForClient(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, matching.ErrClientNotFound) {
			metrics.APIRequests.WithLabelValues(route, "404").Inc()
			c.JSON(http.StatusNotFound, gin.H{
				"error": fmt.Sprintf("client %s not found", clientID),
			})
			return
		}

		h.logger.Error("qualification request failed", map[string]interface{}{
			"clientId": clientID,
			"error":    err.Error(),
		})
		metrics.APIRequests.WithLabelValues(route, "500").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.logger.Info("qualification served", map[string]interface{}{
		"clientId":   clientID,
		"matches":    len(qualification.ProgramMatches),
		"durationMs": time.Since(start).Milliseconds(),
	})
	metrics.APIRequests.WithLabelValues(route, "200").Inc()
	c.JSON(http.StatusOK, qualification)
}
