package handlers

import (
	"net/http"
	"strconv"

	"github.com/asiatranscargo/cargo-api/internal/models"
	"github.com/asiatranscargo/cargo-api/internal/services"
	"github.com/gin-gonic/gin"
)

const listCacheControl = "public, s-maxage=60, stale-while-revalidate=120"

type ContentHandler struct {
	service services.ContentServiceInterface
}

func NewContentHandler(service services.ContentServiceInterface) *ContentHandler {
	return &ContentHandler{service: service}
}

// parseListOptions reads ?limit=. An absent limit leaves the service default.
func parseListOptions(c *gin.Context) (models.ListOptions, bool) {
	raw, ok := c.GetQuery("limit")
	if !ok {
		return models.ListOptions{}, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return models.ListOptions{}, false
	}
	return models.ListOptions{Limit: limit}, true
}

func (h *ContentHandler) ListNews(c *gin.Context) {
	opts, ok := parseListOptions(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid limit", nil)
		return
	}

	news, err := h.service.ListNews(c.Request.Context(), opts)
	if err != nil {
		respondContentError(c, err, "Failed to fetch news")
		return
	}

	c.Header("Cache-Control", listCacheControl)
	c.JSON(http.StatusOK, news)
}

func (h *ContentHandler) GetNews(c *gin.Context) {
	article, err := h.service.GetNews(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondContentError(c, err, "Failed to fetch article")
		return
	}
	c.JSON(http.StatusOK, article)
}

func (h *ContentHandler) ListCases(c *gin.Context) {
	opts, ok := parseListOptions(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid limit", nil)
		return
	}

	cases, err := h.service.ListCases(c.Request.Context(), opts)
	if err != nil {
		respondContentError(c, err, "Failed to fetch cases")
		return
	}

	c.Header("Cache-Control", listCacheControl)
	c.JSON(http.StatusOK, cases)
}

func (h *ContentHandler) GetCase(c *gin.Context) {
	cs, err := h.service.GetCase(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondContentError(c, err, "Failed to fetch case")
		return
	}
	c.JSON(http.StatusOK, cs)
}

func respondContentError(c *gin.Context, err error, message string) {
	switch status := errorStatus(err); status {
	case http.StatusNotFound:
		respondError(c, status, "Not found", err)
	case http.StatusBadRequest:
		respondError(c, status, "Invalid limit", err)
	default:
		respondError(c, http.StatusInternalServerError, message, err)
	}
}
