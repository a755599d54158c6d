package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/models"
	"github.com/fintrack/fintrack/internal/storage"
)

type CardStore interface {
	Create(ctx context.Context, card *models.CreditCard) error
	Update(ctx context.Context, email, bankName string, update storage.CardUpdate) error
	Delete(ctx context.Context, email, bankName string) error
	ListByEmail(ctx context.Context, email string) ([]models.CreditCard, error)
}

type CardHandler struct {
	users UserStore
	cards CardStore
}

func NewCardHandler(users UserStore, cards CardStore) *CardHandler {
	return &CardHandler{users: users, cards: cards}
}

type AddCardRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	BankName       string  `json:"bank_name" validate:"required"`
	CardLimit      float64 `json:"card_limit" validate:"required,gt=0"`
	DueDateStart   string  `json:"due_date_start" validate:"required,datetime=2006-01-02"`
	DueDateEnd     string  `json:"due_date_end" validate:"required,datetime=2006-01-02"`
	CurrentBalance float64 `json:"current_balance" validate:"gte=0"`
}

type UpdateCardRequest struct {
	Email          string   `json:"email" validate:"required,email"`
	BankName       string   `json:"bank_name" validate:"required"`
	CardLimit      *float64 `json:"card_limit" validate:"omitempty,gt=0"`
	DueDateStart   *string  `json:"due_date_start" validate:"omitempty,datetime=2006-01-02"`
	DueDateEnd     *string  `json:"due_date_end" validate:"omitempty,datetime=2006-01-02"`
	CurrentBalance *float64 `json:"current_balance" validate:"omitempty,gte=0"`
}

type DeleteCardRequest struct {
	Email    string `json:"email" validate:"required,email"`
	BankName string `json:"bank_name" validate:"required"`
}

func (h *CardHandler) AddCard(c *gin.Context) {
	var req AddCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest,
			"All fields are required: email, bank_name, card_limit, due_date_start, due_date_end, current_balance")
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
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to add credit card")
		return
	}

	card := &models.CreditCard{
		Email:          req.Email,
		BankName:       req.BankName,
		CardLimit:      decimal.NewFromFloat(req.CardLimit),
		DueDateStart:   req.DueDateStart,
		DueDateEnd:     req.DueDateEnd,
		CurrentBalance: decimal.NewFromFloat(req.CurrentBalance),
	}
	if err := h.cards.Create(c.Request.Context(), card); err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to add credit card")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Credit card added successfully"})
}

func (h *CardHandler) UpdateCard(c *gin.Context) {
	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Email and bank_name are required")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	update := storage.CardUpdate{
		DueDateStart: req.DueDateStart,
		DueDateEnd:   req.DueDateEnd,
	}
	if req.CardLimit != nil {
		limit := decimal.NewFromFloat(*req.CardLimit)
		update.CardLimit = &limit
	}
	if req.CurrentBalance != nil {
		balance := decimal.NewFromFloat(*req.CurrentBalance)
		update.CurrentBalance = &balance
	}

	if err := h.cards.Update(c.Request.Context(), req.Email, req.BankName, update); err != nil {
		if errors.Is(err, storage.ErrCardNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Credit card not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update credit card")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Credit card updated successfully"})
}

func (h *CardHandler) DeleteCard(c *gin.Context) {
	var req DeleteCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Email and bank_name are required")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	if err := h.cards.Delete(c.Request.Context(), req.Email, req.BankName); err != nil {
		if errors.Is(err, storage.ErrCardNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Credit card not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete credit card")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Credit card deleted successfully"})
}

// ListCards returns every card the user holds, balances included.
func (h *CardHandler) ListCards(c *gin.Context) {
	email, _ := middleware.GetUserEmail(c)

	cards, err := h.cards.ListByEmail(c.Request.Context(), email)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list credit cards")
		return
	}
	if cards == nil {
		cards = []models.CreditCard{}
	}

	c.JSON(http.StatusOK, gin.H{"credit_cards": cards})
}
