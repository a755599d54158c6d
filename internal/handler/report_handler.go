package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/models"
	"github.com/fintrack/fintrack/internal/report"
	"github.com/fintrack/fintrack/internal/storage"
)

// ReportEngine is the read-only view surface consumed by the GET endpoints
// and /generate_report.
type ReportEngine interface {
	RemainingBudget(ctx context.Context, email string) (*models.BudgetOverview, error)
	CategorySummary(ctx context.Context, email string) ([]models.CategoryTotal, error)
	MonthlyBalance(ctx context.Context, email string, year int) ([]models.MonthlyBalance, error)
	CategorySpending(ctx context.Context, email string, year int) ([]models.CategoryShare, error)
	UpcomingPayments(ctx context.Context, email string) ([]models.UpcomingPayment, error)
	RecentExpenses(ctx context.Context, email string) ([]models.ExpenseEntry, error)
	TotalPayments(ctx context.Context, email string) (float64, error)
	AdvisoryMessages(ctx context.Context, email string) ([]string, error)
}

type ReportHandler struct {
	users   UserStore
	reports ReportEngine
}

func NewReportHandler(users UserStore, reports ReportEngine) *ReportHandler {
	return &ReportHandler{users: users, reports: reports}
}

func (h *ReportHandler) GetBudget(c *gin.Context) {
	email, _ := middleware.GetUserEmail(c)

	overview, err := h.reports.RemainingBudget(c.Request.Context(), email)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get budget")
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *ReportHandler) SpendingSummary(c *gin.Context) {
	email, _ := middleware.GetUserEmail(c)

	summary, err := h.reports.CategorySummary(c.Request.Context(), email)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get spending summary")
		return
	}
	if summary == nil {
		summary = []models.CategoryTotal{}
	}
	c.JSON(http.StatusOK, gin.H{"spending_summary": summary})
}

func (h *ReportHandler) UpcomingPayments(c *gin.Context) {
	email, _ := middleware.GetUserEmail(c)

	payments, err := h.reports.UpcomingPayments(c.Request.Context(), email)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get upcoming payments")
		return
	}
	if payments == nil {
		payments = []models.UpcomingPayment{}
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (h *ReportHandler) RecentExpenses(c *gin.Context) {
	email, _ := middleware.GetUserEmail(c)

	expenses, err := h.reports.RecentExpenses(c.Request.Context(), email)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get recent expenses")
		return
	}
	if expenses == nil {
		expenses = []models.ExpenseEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

func (h *ReportHandler) TotalPayments(c *gin.Context) {
	email, _ := middleware.GetUserEmail(c)

	total, err := h.reports.TotalPayments(c.Request.Context(), email)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get payments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_payments": total})
}

func (h *ReportHandler) HomeMessages(c *gin.Context) {
	email, _ := middleware.GetUserEmail(c)

	messages, err := h.reports.AdvisoryMessages(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrBudgetNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Budget not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type GenerateReportRequest struct {
	ReportType string `json:"report_type" validate:"required,oneof=monthly_balance category_spending"`
	Email      string `json:"email" validate:"required,email"`
	Year       int    `json:"year" validate:"omitempty,gte=1970"`
}

func (h *ReportHandler) GenerateReport(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Report type and email are required")
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
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	year := req.Year
	if year == 0 {
		year = time.Now().Year()
	}

	switch req.ReportType {
	case "monthly_balance":
		data, err := h.reports.MonthlyBalance(c.Request.Context(), req.Email, year)
		if err != nil {
			if errors.Is(err, storage.ErrBudgetNotFound) {
				middleware.RespondWithError(c, http.StatusNotFound, "No data available for the specified period")
				return
			}
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to generate report")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"report_type":  "monthly_balance",
			"year":         year,
			"monthly_data": data,
		})

	case "category_spending":
		data, err := h.reports.CategorySpending(c.Request.Context(), req.Email, year)
		if err != nil {
			if errors.Is(err, report.ErrNoData) {
				middleware.RespondWithError(c, http.StatusNotFound, "No spending data available for the specified period")
				return
			}
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to generate report")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"report_type":   "category_spending",
			"year":          year,
			"category_data": data,
		})
	}
}
