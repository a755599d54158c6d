package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/rates"
)

type RateSource interface {
	Latest(ctx context.Context) (*rates.Rates, error)
}

type RatesHandler struct {
	rates RateSource
}

func NewRatesHandler(source RateSource) *RatesHandler {
	return &RatesHandler{rates: source}
}

// ExchangeRates serves the cached USD-based rates for the currencies the
// frontend displays.
func (h *RatesHandler) ExchangeRates(c *gin.Context) {
	result, err := h.rates.Latest(c.Request.Context())
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}
