package handlers

import (
	"net/http"

	"github.com/asiatranscargo/cargo-api/internal/models"
	apperrors "github.com/asiatranscargo/cargo-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

// attachError records err on the context. The request log reads c.Errors.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError writes {"error": message}
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails is respondError plus the per-field validation messages
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondLeadError keeps the {success, error} envelope the lead forms parse.
// A nil resp becomes the generic server error message.
func respondLeadError(c *gin.Context, status int, resp *models.SubmitLeadResponse, err error) {
	attachError(c, err)
	if resp == nil {
		resp = &models.SubmitLeadResponse{Success: false, Error: models.MsgServerError}
	}
	c.JSON(status, resp)
}

// errorStatus maps service errors to HTTP statuses. Upstream failures stay 500.
func errorStatus(err error) int {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
