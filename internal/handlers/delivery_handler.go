package handlers

import (
	"net/http"

	"github.com/asiatranscargo/cargo-api/internal/services"
	"github.com/gin-gonic/gin"
)

type DeliveryHandler struct {
	service services.DeliveryServiceInterface
}

func NewDeliveryHandler(service services.DeliveryServiceInterface) *DeliveryHandler {
	return &DeliveryHandler{service: service}
}

// ListDeliveryOptions handles GET /api/delivery-options?country=
func (h *DeliveryHandler) ListDeliveryOptions(c *gin.Context) {
	options, err := h.service.ListDeliveryOptions(c.Request.Context(), c.Query("country"))
	if err != nil {
		if status := errorStatus(err); status == http.StatusBadRequest {
			respondError(c, status, "Invalid country", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to fetch delivery options", err)
		return
	}

	c.Header("Cache-Control", listCacheControl)
	c.JSON(http.StatusOK, options)
}
