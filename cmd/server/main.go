package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/internal/cache"
	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/events"
	"github.com/fintrack/fintrack/internal/handler"
	"github.com/fintrack/fintrack/internal/mailer"
	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/payment"
	"github.com/fintrack/fintrack/internal/rates"
	"github.com/fintrack/fintrack/internal/report"
	"github.com/fintrack/fintrack/internal/scheduler"
	"github.com/fintrack/fintrack/internal/storage"
)

func main() {
	config.Load(".env")
	cfg := config.FromEnv()

	// Amounts go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis
	redis, err := cache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	publisher := events.NewPublisher(redis.Client)
	mail := mailer.New(cfg.Mail)

	// Repositories
	userRepo := storage.NewUserRepository(db)
	budgetRepo := storage.NewBudgetRepository(db)
	cardRepo := storage.NewCardRepository(db)
	billRepo := storage.NewBillRepository(db)
	spendingRepo := storage.NewSpendingRepository(db)
	paymentStore := storage.NewPaymentStore(db)
	readStore := storage.NewReadStore(db)

	// Services
	paymentSvc := payment.NewService(userRepo, paymentStore, mail, publisher)
	reportSvc := report.NewService(readStore)
	ratesSvc := rates.NewService(redis.Client, cfg.RatesTTL)
	reminders := scheduler.New(billRepo, budgetRepo, mail, publisher,
		cfg.SchedulerInterval, decimal.NewFromFloat(cfg.BudgetAlertThreshold))

	go reminders.Start(ctx)

	// Handlers
	authHandler := handler.NewAuthHandler(userRepo)
	budgetHandler := handler.NewBudgetHandler(userRepo, budgetRepo)
	cardHandler := handler.NewCardHandler(userRepo, cardRepo)
	billHandler := handler.NewBillHandler(userRepo, billRepo)
	spendingHandler := handler.NewSpendingHandler(spendingRepo, publisher)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	reportHandler := handler.NewReportHandler(userRepo, reportSvc)
	checksHandler := handler.NewChecksHandler(reminders, mail)
	ratesHandler := handler.NewRatesHandler(ratesSvc)

	// Router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)

	router.POST("/budget", budgetHandler.SetBudget)
	router.POST("/credit-card", cardHandler.AddCard)
	router.PUT("/credit-card", cardHandler.UpdateCard)
	router.DELETE("/credit-card", cardHandler.DeleteCard)
	router.POST("/bill", billHandler.AddBill)
	router.PUT("/bill", billHandler.UpdateBill)
	router.DELETE("/bill", billHandler.DeleteBill)

	router.POST("/generate_report", reportHandler.GenerateReport)
	router.POST("/run-daily-checks", checksHandler.RunDailyChecks)
	router.POST("/test-mail", checksHandler.TestMail)
	router.GET("/kur", ratesHandler.ExchangeRates)

	// Endpoints that act on behalf of the caller identified by X-User-Email.
	user := router.Group("/", middleware.RequireUser())
	{
		user.POST("/spending-log", spendingHandler.AddSpendingLog)
		user.DELETE("/spending-log", spendingHandler.DeleteSpendingLogs)
		user.GET("/spending-summary", reportHandler.SpendingSummary)
		user.GET("/budget", reportHandler.GetBudget)
		user.GET("/payments", reportHandler.TotalPayments)
		user.GET("/recent-expenses", reportHandler.RecentExpenses)
		user.GET("/upcoming-payments", reportHandler.UpcomingPayments)
		user.GET("/home/messages", reportHandler.HomeMessages)
		user.GET("/unpaid-bills", billHandler.ListUnpaidBills)
		user.GET("/unpaid-cards", cardHandler.ListCards)
		user.POST("/make-payment", paymentHandler.MakePayment)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
