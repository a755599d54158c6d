package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/events"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/models"
)

type SpendingStore interface {
	Insert(ctx context.Context, email, category string, amount decimal.Decimal, loggedAt time.Time) (*models.SpendingLog, error)
	DeleteByCategory(ctx context.Context, email, category string) (int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

type SpendingHandler struct {
	spending  SpendingStore
	publisher EventPublisher
}

func NewSpendingHandler(spending SpendingStore, publisher EventPublisher) *SpendingHandler {
	return &SpendingHandler{spending: spending, publisher: publisher}
}

type AddSpendingLogRequest struct {
	Category string  `json:"category" validate:"required"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
}

type DeleteSpendingLogsRequest struct {
	Category string `json:"category" validate:"required"`
}

func (h *SpendingHandler) AddSpendingLog(c *gin.Context) {
	email, _ := middleware.GetUserEmail(c)

	var req AddSpendingLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Category and amount are required")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	amount := decimal.NewFromFloat(req.Amount)
	if _, err := h.spending.Insert(c.Request.Context(), email, req.Category, amount, time.Now().UTC()); err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to add spending log")
		return
	}

	if h.publisher != nil {
		if err := h.publisher.Publish(c.Request.Context(), events.FinanceEventsStream, events.SpendingLogRecorded, events.SpendingLogRecordedEvent{
			Email:    email,
			Category: req.Category,
			Amount:   req.Amount,
		}); err != nil {
			log.Printf("Failed to publish spending_log.recorded event: %v", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Spending log added successfully"})
}

// DeleteSpendingLogs removes every log the caller has in the given category.
func (h *SpendingHandler) DeleteSpendingLogs(c *gin.Context) {
	email, _ := middleware.GetUserEmail(c)

	var req DeleteSpendingLogsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Category is required")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	deleted, err := h.spending.DeleteByCategory(c.Request.Context(), email, req.Category)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete spending logs")
		return
	}
	if deleted == 0 {
		middleware.RespondWithError(c, http.StatusNotFound, "No spending logs found for the given category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Successfully deleted %d spending logs", deleted)})
}
