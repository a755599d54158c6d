package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/storage"
)

type BudgetStore interface {
	Upsert(ctx context.Context, email string, amount decimal.Decimal) (bool, error)
}

type BudgetHandler struct {
	users   UserStore
	budgets BudgetStore
}

func NewBudgetHandler(users UserStore, budgets BudgetStore) *BudgetHandler {
	return &BudgetHandler{users: users, budgets: budgets}
}

type SetBudgetRequest struct {
	Email         string  `json:"email" validate:"required,email"`
	InitialBudget float64 `json:"initial_budget" validate:"gte=0"`
}

// SetBudget creates the user's budget or overwrites an existing one.
// Creation answers 201, update 200, mirroring the upsert outcome.
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Email and initial_budget are required")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	if _, err := h.users.GetByEmail(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to set budget")
		return
	}

	created, err := h.budgets.Upsert(c.Request.Context(), req.Email, decimal.NewFromFloat(req.InitialBudget))
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to set budget")
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "Budget created successfully"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Budget updated successfully"})
}
