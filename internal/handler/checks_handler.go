package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/mailer"
	"github.com/fintrack/fintrack/internal/middleware"
)

// DailyChecker is the manual-trigger surface of the reminder scheduler.
type DailyChecker interface {
	RunDailyChecks(ctx context.Context) error
}

type Notifier interface {
	Send(to, subject, body string) error
}

type ChecksHandler struct {
	checker  DailyChecker
	notifier Notifier
}

func NewChecksHandler(checker DailyChecker, notifier Notifier) *ChecksHandler {
	return &ChecksHandler{checker: checker, notifier: notifier}
}

// RunDailyChecks runs both scheduler passes on demand. The passes are the
// same functions the background loop runs, so this is safe to call anytime.
func (h *ChecksHandler) RunDailyChecks(c *gin.Context) {
	if err := h.checker.RunDailyChecks(c.Request.Context()); err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Daily checks completed successfully"})
}

type TestMailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// TestMail sends a canned bill reminder so operators can verify the SMTP
// configuration end to end.
func (h *ChecksHandler) TestMail(c *gin.Context) {
	var req TestMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Email is required")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	subject, body := mailer.BillReminder("Test Bill", decimal.NewFromInt(100), time.Now().Format("2006-01-02"))
	if err := h.notifier.Send(req.Email, subject, body); err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to send test email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Test email sent successfully"})
}
