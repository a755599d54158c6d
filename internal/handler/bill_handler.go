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

type BillStore interface {
	Create(ctx context.Context, bill *models.Bill) error
	Update(ctx context.Context, email, billName string, update storage.BillUpdate) error
	Delete(ctx context.Context, email, billName string) error
	ListUnpaidByEmail(ctx context.Context, email string) ([]models.Bill, error)
}

type BillHandler struct {
	users UserStore
	bills BillStore
}

func NewBillHandler(users UserStore, bills BillStore) *BillHandler {
	return &BillHandler{users: users, bills: bills}
}

type AddBillRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	BillName  string  `json:"bill_name" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Category  string  `json:"category" validate:"required"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	// Pointer so that an explicit false still passes the required check.
	IsPaid                *bool `json:"is_paid" validate:"required"`
	IsNotificationEnabled *bool `json:"is_notification_enabled"`
}

type UpdateBillRequest struct {
	Email                 string   `json:"email" validate:"required,email"`
	BillName              string   `json:"bill_name" validate:"required"`
	Amount                *float64 `json:"amount" validate:"omitempty,gt=0"`
	Category              *string  `json:"category"`
	StartDate             *string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate               *string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IsPaid                *bool    `json:"is_paid"`
	IsNotificationEnabled *bool    `json:"is_notification_enabled"`
}

type DeleteBillRequest struct {
	Email    string `json:"email" validate:"required,email"`
	BillName string `json:"bill_name" validate:"required"`
}

func (h *BillHandler) AddBill(c *gin.Context) {
	var req AddBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest,
			"All fields are required: email, bill_name, amount, category, start_date, end_date, is_paid")
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
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to add bill")
		return
	}

	// Reminders default to on unless the caller opts out.
	notificationEnabled := true
	if req.IsNotificationEnabled != nil {
		notificationEnabled = *req.IsNotificationEnabled
	}

	bill := &models.Bill{
		Email:                 req.Email,
		BillName:              req.BillName,
		Amount:                decimal.NewFromFloat(req.Amount),
		Category:              req.Category,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		IsPaid:                *req.IsPaid,
		IsNotificationEnabled: notificationEnabled,
	}
	if err := h.bills.Create(c.Request.Context(), bill); err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to add bill")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Bill added successfully"})
}

func (h *BillHandler) UpdateBill(c *gin.Context) {
	var req UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Email and bill_name are required")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	update := storage.BillUpdate{
		Category:              req.Category,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		IsPaid:                req.IsPaid,
		IsNotificationEnabled: req.IsNotificationEnabled,
	}
	if req.Amount != nil {
		amount := decimal.NewFromFloat(*req.Amount)
		update.Amount = &amount
	}

	if err := h.bills.Update(c.Request.Context(), req.Email, req.BillName, update); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Bill not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update bill")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bill updated successfully"})
}

func (h *BillHandler) DeleteBill(c *gin.Context) {
	var req DeleteBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Email and bill_name are required")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	if err := h.bills.Delete(c.Request.Context(), req.Email, req.BillName); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Bill not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete bill")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bill deleted successfully"})
}

// ListUnpaidBills returns the caller's open bills.
func (h *BillHandler) ListUnpaidBills(c *gin.Context) {
	email, _ := middleware.GetUserEmail(c)

	bills, err := h.bills.ListUnpaidByEmail(c.Request.Context(), email)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list unpaid bills")
		return
	}
	if bills == nil {
		bills = []models.Bill{}
	}

	c.JSON(http.StatusOK, gin.H{"unpaid_bills": bills})
}
