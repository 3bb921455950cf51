package handlers

import (
	"net/http"

	"github.com/asiatranscargo/cargo-api/internal/models"
	"github.com/asiatranscargo/cargo-api/internal/services"
	"github.com/asiatranscargo/cargo-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LeadHandler struct {
	service services.LeadServiceInterface
}

func NewLeadHandler(service services.LeadServiceInterface) *LeadHandler {
	return &LeadHandler{service: service}
}

// SubmitLead handles POST /api/lead
func (h *LeadHandler) SubmitLead(c *gin.Context) {
	var req models.SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message := models.MsgInvalidRequest
		if isValidationError(err) {
			message = models.MsgRequiredFields
			logger.Debug("Lead request failed validation", zap.Any("errors", ParseValidationErrors(err)))
		}
		respondLeadError(c, http.StatusBadRequest, &models.SubmitLeadResponse{Success: false, Error: message}, err)
		return
	}

	resp, err := h.service.SubmitLead(c.Request.Context(), &req)
	if err != nil {
		respondLeadError(c, errorStatus(err), resp, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
