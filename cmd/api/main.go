package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/finbooks-io/ledger-api/internal/config"
	"github.com/finbooks-io/ledger-api/internal/handler"
	"github.com/finbooks-io/ledger-api/internal/logging"
	"github.com/finbooks-io/ledger-api/internal/middleware"
	"github.com/finbooks-io/ledger-api/internal/repository"
	"github.com/finbooks-io/ledger-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("ledger-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	accountRepo := repository.NewAccountRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	chartSvc := service.NewChartService(accountRepo, auditRepo)
	ledgerSvc := service.NewLedgerService(entryRepo, accountRepo, auditRepo, db)
	calc := service.NewBalanceCalculator(ledgerRepo)
	reportSvc := service.NewReportService(accountRepo, entryRepo, calc)
	agingSvc := service.NewAgingService(invoiceRepo)
	synth := service.NewJournalSynthesizer(ledgerSvc, accountRepo, service.SynthesizerAccounts{
		Cash:               cfg.CashAccountCode,
		AccountsReceivable: cfg.ARAccountCode,
		AccountsPayable:    cfg.APAccountCode,
		Revenue:            cfg.RevenueAccountCode,
		Expense:            cfg.ExpenseAccountCode,
	})
	invoiceSvc := service.NewInvoiceService(invoiceRepo, synth)

	accountHandler := handler.NewAccountHandler(chartSvc)
	entryHandler := handler.NewEntryHandler(ledgerSvc)
	reportHandler := handler.NewReportHandler(reportSvc, agingSvc)
	invoiceHandler := handler.NewInvoiceHandler(invoiceSvc)
	healthHandler := handler.NewHealthHandler(db)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))
	r.Use(middleware.Tracing)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)

	r.Get("/health", healthHandler.Check)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", accountHandler.Create)
			r.Get("/", accountHandler.List)
			r.Get("/{id}", accountHandler.Get)
			r.Put("/{id}", accountHandler.Update)
			r.Delete("/{id}", accountHandler.Delete)
		})

		r.Route("/entries", func(r chi.Router) {
			r.Post("/", entryHandler.Create)
			r.Get("/", entryHandler.List)
			r.Get("/{id}", entryHandler.Get)
			r.Put("/{id}", entryHandler.Update)
			r.Delete("/{id}", entryHandler.Delete)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/trial-balance", reportHandler.TrialBalance)
			r.Get("/balance-sheet", reportHandler.BalanceSheet)
			r.Get("/income-statement", reportHandler.IncomeStatement)
			r.Get("/cash-flow", reportHandler.CashFlow)
			r.Get("/aging", reportHandler.Aging)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Post("/", invoiceHandler.Create)
			r.Get("/", invoiceHandler.List)
			r.Get("/{id}", invoiceHandler.Get)
			r.Post("/{id}/payments", invoiceHandler.RecordPayment)
		})
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
