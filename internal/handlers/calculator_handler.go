package handlers

import (
	"errors"
	"net/http"

	"github.com/asiatranscargo/cargo-api/internal/calculator"
	"github.com/asiatranscargo/cargo-api/internal/countries"
	"github.com/asiatranscargo/cargo-api/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type CalculatorHandler struct {
	catalog *countries.Catalog
}

func NewCalculatorHandler(catalog *countries.Catalog) *CalculatorHandler {
	if catalog == nil {
		catalog = countries.Default()
	}
	return &CalculatorHandler{catalog: catalog}
}

// CustomsRequest is the body of POST /api/calculate/customs
type CustomsRequest struct {
	Cost        float64  `json:"cost" binding:"required,gt=0"`
	Rate        *float64 `json:"rate" binding:"required"`
	Description string   `json:"description" binding:"omitempty,max=500"`
}

// CustomsResponse carries the estimate and the text a lead form puts into cargo
type CustomsResponse struct {
	*calculator.CustomsEstimate
	Cargo string `json:"cargo"`
}

// DeliveryRequest is the body of POST /api/calculate/delivery
type DeliveryRequest struct {
	Country   string  `json:"country" binding:"required,max=64"`
	Transport string  `json:"transport" binding:"required,oneof=air sea rail auto"`
	WeightKg  float64 `json:"weight" binding:"required,gt=0"`
	VolumeM3  float64 `json:"volume" binding:"omitempty,gt=0"`
}

func (h *CalculatorHandler) Customs(c *gin.Context) {
	var req CustomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.CustomsCalculations.WithLabelValues("invalid").Inc()
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	estimate, err := calculator.Customs(req.Cost, *req.Rate)
	if err != nil {
		metrics.CustomsCalculations.WithLabelValues("invalid").Inc()
		message := "Invalid request"
		if errors.Is(err, calculator.ErrInvalidRate) {
			message = "Unsupported duty rate"
		}
		respondError(c, http.StatusBadRequest, message, err)
		return
	}

	metrics.CustomsCalculations.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, CustomsResponse{
		CustomsEstimate: estimate,
		Cargo: calculator.DescribeCustoms(calculator.CustomsRequest{
			Cost:        req.Cost,
			Rate:        *req.Rate,
			Estimate:    estimate,
			Description: req.Description,
		}),
	})
}

// Tariffs lists the duty rates accepted by Customs
func (h *CalculatorHandler) Tariffs(c *gin.Context) {
	c.JSON(http.StatusOK, calculator.Tariffs())
}

// Delivery describes a delivery calculation request for the lead cargo field
func (h *CalculatorHandler) Delivery(c *gin.Context) {
	var req DeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	name := ""
	if country, ok := h.catalog.Lookup(req.Country); ok {
		name = country.Name
	}

	c.JSON(http.StatusOK, gin.H{
		"cargo": calculator.DescribeDelivery(calculator.DeliveryRequest{
			CountryName: name,
			Transport:   req.Transport,
			WeightKg:    req.WeightKg,
			VolumeM3:    req.VolumeM3,
		}),
	})
}
