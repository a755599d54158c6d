package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/payment"
	"github.com/fintrack/fintrack/internal/storage"
)

// PaymentProcessor applies a validated payment and returns the new remaining
// budget.
type PaymentProcessor interface {
	Apply(ctx context.Context, email, paymentType, name string, amount decimal.Decimal) (decimal.Decimal, error)
}

type PaymentHandler struct {
	payments PaymentProcessor
}

func NewPaymentHandler(payments PaymentProcessor) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// MakePaymentRequest keeps the historical wire field names; clients were
// built against them.
type MakePaymentRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	PaymentType string  `json:"odeme_turu" validate:"required"`
	Name        string  `json:"isim" validate:"required"`
	Amount      float64 `json:"odeme_tutari" validate:"required,gt=0"`
}

func (h *PaymentHandler) MakePayment(c *gin.Context) {
	email, _ := middleware.GetUserEmail(c)

	var req MakePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest,
			"All fields are required: email, odeme_turu, isim, odeme_tutari")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	remaining, err := h.payments.Apply(c.Request.Context(), email, req.PaymentType, req.Name, decimal.NewFromFloat(req.Amount))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, storage.ErrBudgetNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Budget not found")
		case errors.Is(err, storage.ErrInsufficientBudget):
			middleware.RespondWithError(c, http.StatusBadRequest, "Payment amount exceeds available budget")
		case errors.Is(err, storage.ErrBillNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Unpaid bill not found")
		case errors.Is(err, storage.ErrCardNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Credit card not found")
		case errors.Is(err, payment.ErrInvalidType):
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid payment type")
		case errors.Is(err, payment.ErrInvalidAmount):
			middleware.RespondWithError(c, http.StatusBadRequest, "Payment amount must be greater than zero")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to process payment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Payment successful",
		"remaining_budget": remaining.InexactFloat64(),
	})
}
