package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"luminapay/internal/assist"
	"luminapay/internal/auth"
	"luminapay/internal/banking"
	"luminapay/internal/catalog"
	"luminapay/internal/config"
	"luminapay/internal/database"
	"luminapay/internal/flow"
	"luminapay/internal/handlers"
	"luminapay/internal/lending"
	"luminapay/internal/market"
	"luminapay/internal/middleware"
	"luminapay/internal/portfolio"
	"luminapay/internal/wallet"
)

// App holds the application dependencies.
type App struct {
	config           *config.Config
	logger           *zap.Logger
	db               *database.DB
	router           *chi.Mux
	sessionManager   *auth.SessionManager
	authMiddleware   *middleware.AuthMiddleware
	authHandler      *handlers.AuthHandler
	profileHandler   *handlers.ProfileHandler
	walletHandler    *handlers.WalletHandler
	flowHandler      *handlers.FlowHandler
	marketHandler    *handlers.MarketHandler
	portfolioHandler *handlers.PortfolioHandler
	catalogHandler   *handlers.CatalogHandler
	lendingHandler   *handlers.LendingHandler
	intlHandler      *handlers.IntlHandler
	bankingHandler   *handlers.BankingHandler
	assistHandler    *handlers.AssistHandler
}

func main() {
	cfg := config.New()

	logger := newLogger(cfg.IsDevelopment)
	defer logger.Sync()

	db, err := database.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("running migrations", zap.Error(err))
	}
	logger.Info("database migrations completed")

	encryptor, err := auth.NewEncryptor(cfg.SessionSecret)
	if err != nil {
		logger.Fatal("initializing session encryptor", zap.Error(err))
	}
	sessionManager := auth.NewSessionManager(db, encryptor)

	// Seed data: contacts, billers, stocks and the opening ledger.
	cat, err := loadCatalog(cfg)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}

	marketEngine := market.New(cat.StockList(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go marketEngine.Run(ctx, cfg.TickInterval)

	userWallet := wallet.New(cat.OpeningBalance, cat.SeedTransactions(time.Now()))
	holdings := portfolio.NewHoldings()
	flowEngine := flow.New(userWallet, holdings, marketEngine, flow.Delays{
		Payment: cfg.SettleDelay,
		Intl:    cfg.IntlDelay,
		Balance: cfg.BalanceDelay,
	}, logger)

	loginFlow := auth.NewLoginFlow(cfg.OTPDelay)
	lendingService := lending.NewService(cfg.CheckDelay)
	bankingService := banking.NewService(cfg.VerifyDelay)

	// The assistant is optional: without an API key the endpoints
	// answer 502 and everything else works.
	var assistClient *assist.Client
	if cfg.GeminiAPIKey != "" || os.Getenv("GOOGLE_API_KEY") != "" {
		assistClient, err = assist.New(ctx, cfg.GeminiAPIKey, logger)
		if err != nil {
			logger.Warn("assistant disabled", zap.Error(err))
			assistClient = nil
		}
	} else {
		logger.Info("no API key configured, assistant disabled")
	}

	app := &App{
		config:           cfg,
		logger:           logger,
		db:               db,
		sessionManager:   sessionManager,
		authMiddleware:   middleware.NewAuthMiddleware(sessionManager),
		authHandler:      handlers.NewAuthHandler(loginFlow, sessionManager, logger),
		profileHandler:   handlers.NewProfileHandler(sessionManager, logger),
		walletHandler:    handlers.NewWalletHandler(userWallet, logger),
		flowHandler:      handlers.NewFlowHandler(flowEngine, logger),
		marketHandler:    handlers.NewMarketHandler(marketEngine, logger),
		portfolioHandler: handlers.NewPortfolioHandler(holdings, marketEngine, logger),
		catalogHandler:   handlers.NewCatalogHandler(cat, flowEngine, logger),
		lendingHandler:   handlers.NewLendingHandler(lendingService, flowEngine, logger),
		intlHandler:      handlers.NewIntlHandler(flowEngine, logger),
		bankingHandler:   handlers.NewBankingHandler(bankingService, flowEngine, logger),
		assistHandler: handlers.NewAssistHandler(assistClient, flowEngine, userWallet,
			marketEngine, holdings, sessionManager, logger),
	}

	app.setupRouter()

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      app.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newLogger(development bool) *zap.Logger {
	if development {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath != "" {
		return catalog.LoadFile(cfg.CatalogPath)
	}
	return catalog.Load()
}

func (app *App) setupRouter() {
	r := chi.NewRouter()

	// Chi middleware (aliased as chimw to avoid conflict with our middleware package)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Compress(5))

	r.Use(middleware.SecurityHeaders)

	// Health check
	r.Get("/health", app.handleHealth)

	// Login routes, rate limited against OTP brute force
	r.Group(func(r chi.Router) {
		r.Use(middleware.LimitAuth)
		r.Get("/auth/step", app.authHandler.Step)
		r.Post("/auth/phone", app.authHandler.SubmitPhone)
		r.Post("/auth/phone/otp", app.authHandler.VerifyPhoneOTP)
		r.Post("/auth/email", app.authHandler.SubmitEmail)
		r.Post("/auth/email/otp", app.authHandler.VerifyEmailOTP)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(app.authMiddleware.RequireAuth)
		r.Use(middleware.LimitAPI)

		// Profile
		r.Get("/profile", app.profileHandler.Get)
		r.Get("/profile/qr", app.profileHandler.QR)

		// Wallet
		r.Get("/wallet/balance", app.walletHandler.Balance)
		r.Get("/wallet/transactions", app.walletHandler.Transactions)

		// Payment flow
		r.Get("/flow", app.flowHandler.Snapshot)
		r.Post("/flow/start", app.flowHandler.Start)
		r.Post("/flow/amount", app.flowHandler.SetAmount)
		r.Post("/flow/note", app.flowHandler.SetNote)
		r.Post("/flow/search", app.flowHandler.SetSearch)
		r.Post("/flow/proceed", app.flowHandler.Proceed)
		r.Post("/flow/pin", app.flowHandler.PressDigit)
		r.Delete("/flow/pin", app.flowHandler.DeleteDigit)
		r.Post("/flow/submit", app.flowHandler.Submit)
		r.Post("/flow/reset", app.flowHandler.Reset)

		// Market
		r.Get("/market/stocks", app.marketHandler.List)
		r.Get("/market/stocks/{symbol}", app.marketHandler.Get)
		r.Get("/market/status", app.marketHandler.Status)

		// Portfolio
		r.Get("/portfolio", app.portfolioHandler.Get)
		r.Post("/portfolio/import", app.portfolioHandler.Import)

		// Contacts and billers
		r.Get("/contacts", app.catalogHandler.Contacts)
		r.Get("/billers/categories", app.catalogHandler.BillerCategories)
		r.Get("/billers", app.catalogHandler.Billers)
		r.Post("/billers/{id}/pay", app.catalogHandler.PayBiller)

		// Loans
		r.Get("/loans/eligibility", app.lendingHandler.Eligibility)
		r.Post("/loans/quote", app.lendingHandler.Quote)
		r.Post("/loans/accept", app.lendingHandler.Accept)

		// International transfers
		r.Get("/intl/currencies", app.intlHandler.Currencies)
		r.Post("/intl/quote", app.intlHandler.Quote)
		r.Post("/intl/book", app.intlHandler.Book)

		// Bank transfers and balance check
		r.Post("/bank/verify-ifsc", app.bankingHandler.VerifyIFSC)
		r.Post("/bank/transfer", app.bankingHandler.Transfer)
		r.Post("/bank/balance-check", app.bankingHandler.BalanceCheck)

		// Assistant, rate limited harder since it fans out to a paid API
		r.Group(func(r chi.Router) {
			r.Use(middleware.LimitAssist)
			r.Post("/assist/intent", app.assistHandler.ParseIntent)
			r.Post("/assist/chat", app.assistHandler.Chat)
		})

		r.Post("/logout", app.authHandler.Logout)
	})

	app.router = r
}

// handleHealth returns the server health status.
func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
