package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/tmasri/hometab/docs"
	"github.com/tmasri/hometab/internal/config"
	"github.com/tmasri/hometab/internal/database"
	"github.com/tmasri/hometab/internal/expense"
	"github.com/tmasri/hometab/internal/household"
	"github.com/tmasri/hometab/internal/notification"
	"github.com/tmasri/hometab/internal/payment"
	"github.com/tmasri/hometab/internal/settlement"
	"github.com/tmasri/hometab/internal/user"
	"github.com/tmasri/hometab/pkg/logging"
	mw "github.com/tmasri/hometab/pkg/middleware"
)

// @title        hometab API
// @version      1.0
// @description  Household expense ledger and settlement service
// @BasePath     /api/v1
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	logging.Setup()
	cfg := config.Load()

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to database")

	txs := database.NewTransactor(db)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Household feature
	householdRepo := household.NewRepository(db)
	householdService := household.NewService(householdRepo)
	householdHandler := household.NewHandler(householdService)

	// Notification feature, doubling as the fire-and-forget event sink
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)
	broadcaster := notification.NewBroadcaster(notificationService)

	// Expense feature
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, householdRepo, txs, broadcaster)
	expenseHandler := expense.NewHandler(expenseService)

	// Settlement feature: derived balances, plans, and direct debts
	paymentRepo := payment.NewRepository(db)
	settlementService := settlement.NewService(expenseRepo, paymentRepo)
	settlementHandler := settlement.NewHandler(settlementService)

	// Payment feature, capped by the settlement service's direct debts
	paymentService := payment.NewService(paymentRepo, userRepo, settlementService, txs, broadcaster)
	paymentHandler := payment.NewHandler(paymentService)

	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(mw.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.DevAuth {
			slog.Warn("DEV_AUTH enabled, identity comes from request headers")
			r.Use(mw.TestIdentityMiddleware)
		} else {
			r.Use(mw.JWTAuth(cfg.JWTSecret))
		}

		r.Mount("/users", userHandler.Routes())
		r.Mount("/households", householdHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/payments", paymentHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
	})

	slog.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
