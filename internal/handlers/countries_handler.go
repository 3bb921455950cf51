package handlers

import (
	"net/http"

	"github.com/asiatranscargo/cargo-api/internal/countries"
	"github.com/gin-gonic/gin"
)

type CountriesHandler struct {
	catalog *countries.Catalog
}

func NewCountriesHandler(catalog *countries.Catalog) *CountriesHandler {
	if catalog == nil {
		catalog = countries.Default()
	}
	return &CountriesHandler{catalog: catalog}
}

// ListCountries returns the origin countries offered in the lead forms
func (h *CountriesHandler) ListCountries(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, h.catalog.SortedByName())
}

func (h *CountriesHandler) GetCountry(c *gin.Context) {
	country, ok := h.catalog.Lookup(c.Param("code"))
	if !ok {
		respondError(c, http.StatusNotFound, "Country not found", nil)
		return
	}
	c.JSON(http.StatusOK, country)
}
