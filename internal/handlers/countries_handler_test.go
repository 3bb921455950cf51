package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/asiatranscargo/cargo-api/internal/countries"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countriesRouter() *gin.Engine {
	handler := NewCountriesHandler(nil)
	router := gin.New()
	router.GET("/api/countries", handler.ListCountries)
	router.GET("/api/countries/:code", handler.GetCountry)
	return router
}

func TestCountriesHandler_List(t *testing.T) {
	w := get(countriesRouter(), "/api/countries")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))

	var got []countries.Country
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, len(countries.Default().All()))
}

func TestCountriesHandler_Get(t *testing.T) {
	router := countriesRouter()

	for _, code := range []string{"CN", "cn", "china", "1456"} {
		w := get(router, "/api/countries/"+code)
		require.Equal(t, http.StatusOK, w.Code, code)

		var got countries.Country
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, int64(1456), got.CRMID, code)
	}
}

func TestCountriesHandler_Unknown(t *testing.T) {
	w := get(countriesRouter(), "/api/countries/atlantis")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Country not found"}`, w.Body.String())
}
