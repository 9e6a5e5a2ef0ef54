package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docgate/internal/adapter/gateway"
	adapterhandler "docgate/internal/adapter/handler"
	"docgate/internal/domain"
	infracache "docgate/internal/infrastructure/cache"
	"docgate/internal/infrastructure/monitor"
	infraredis "docgate/internal/infrastructure/redis"
	infratoken "docgate/internal/infrastructure/token"
	"docgate/internal/usecase"

	"docgate/config"
	appmiddleware "docgate/middleware"
	"docgate/utils/logger"
	"docgate/utils/otel"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Local development: .env is optional, ignore a missing file
	_ = godotenv.Load()

	// Initialize OpenTelemetry
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
	}

	// Initialize structured logger
	logger.Init(otelCfg.Enabled)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"kratos_url", cfg.KratosURL,
		"port", cfg.Port,
		"cache_ttl", cfg.CacheTTL,
		"redirect_domains", len(cfg.AllowedRedirectDomains))

	// Infrastructure
	sessionCache := infracache.NewSessionCache(cfg.CacheTTL)
	kratosGateway := gateway.NewKratosGateway(cfg.KratosURL, cfg.KratosAdminURL, 5*time.Second)
	csrfGenerator := infratoken.NewHMACCSRFGenerator(cfg.CSRFSecret)
	docsMinter := infratoken.NewDocsTokenMinter(map[string]infratoken.Template{
		cfg.DocsTokenAudience: {
			Secret: cfg.DocsTokenSecret,
			TTL:    cfg.DocsTokenTTL,
		},
	})

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()
	profileStore := infraredis.NewProfileStore(redisClient)
	requestStore := infraredis.NewAccessRequestStore(redisClient)

	notifier := gateway.NewWebhookNotifier(cfg.AccessRequestWebhookURL, cfg.AdminEmail, 10*time.Second)
	sessionMonitor := monitor.NewSessionMonitor(kratosGateway, cfg.SessionPollInterval, slog.Default())

	// Authorization policy and redirect allowlist
	rules := domain.AuthorizationRules{
		Emails:            cfg.AllowedEmails,
		EmailDomains:      cfg.AllowedEmailDomains,
		AllowAllWhenEmpty: cfg.AllowAllWhenEmpty,
	}
	redirectAllowlist := domain.NewAllowedDomainList(cfg.AllowedRedirectDomains)

	// Usecases
	accessGate := usecase.NewAccessGate(rules, kratosGateway, sessionMonitor, slog.Default())
	defer accessGate.Close()

	sessionUC := usecase.NewGetSession(kratosGateway, sessionCache, accessGate, slog.Default())
	validateUC := usecase.NewValidateAccess(kratosGateway, sessionCache, rules, slog.Default())
	signOutUC := usecase.NewSignOut(kratosGateway, sessionCache, slog.Default())
	redirectUC := usecase.NewRedirectDocs(redirectAllowlist, docsMinter, slog.Default())
	profileUC := usecase.NewProfile(profileStore, slog.Default())
	requestUC := usecase.NewRequestAccess(requestStore, notifier, slog.Default())
	csrfUC := usecase.NewGenerateCSRF(kratosGateway, csrfGenerator, slog.Default())
	systemUserUC := usecase.NewGetSystemUser(kratosGateway, slog.Default())

	// Handlers
	sessionHandler := adapterhandler.NewSessionHandler(sessionUC, cfg.AuthSharedSecret)
	validateHandler := adapterhandler.NewValidateHandler(validateUC)
	logoutHandler := adapterhandler.NewLogoutHandler(signOutUC)
	redirectHandler := adapterhandler.NewRedirectHandler(validateUC, redirectUC, cfg.DocsBaseURL, cfg.DocsTokenAudience)
	watchHandler := adapterhandler.NewWatchHandler(accessGate)
	profileHandler := adapterhandler.NewProfileHandler(validateUC, profileUC, csrfGenerator)
	accessRequestHandler := adapterhandler.NewAccessRequestHandler(requestUC)
	csrfHandler := adapterhandler.NewCSRFHandler(csrfUC)
	healthHandler := adapterhandler.NewHealthHandler()
	internalHandler := adapterhandler.NewInternalHandler(systemUserUC)

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Security middleware
	e.Use(appmiddleware.SecurityHeaders())

	// OpenTelemetry tracing
	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
		e.Use(appmiddleware.OTelStatusMiddleware())
	}

	// Request logging
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	// Rate limiters per endpoint group
	validateRL := appmiddleware.NewRateLimiter(100.0/60.0, 10)   // 100 req/min
	sessionRL := appmiddleware.NewRateLimiter(30.0/60.0, 5)      // 30 req/min
	redirectRL := appmiddleware.NewRateLimiter(10.0/60.0, 3)     // 10 req/min
	csrfRL := appmiddleware.NewRateLimiter(10.0/60.0, 3)         // 10 req/min
	profileRL := appmiddleware.NewRateLimiter(30.0/60.0, 5)      // 30 req/min
	accessRequestRL := appmiddleware.NewRateLimiter(5.0/60.0, 2) // 5 req/min
	internalRL := appmiddleware.NewRateLimiter(10.0/60.0, 3)     // 10 req/min

	// Public routes
	e.GET("/validate", validateHandler.Handle, validateRL.Middleware())
	e.GET("/session", sessionHandler.Handle, sessionRL.Middleware())
	e.GET("/session/watch", watchHandler.Handle, sessionRL.Middleware())
	e.POST("/logout", logoutHandler.Handle, sessionRL.Middleware())
	e.GET("/docs/redirect", redirectHandler.Handle, redirectRL.Middleware())
	e.GET("/profile", profileHandler.HandleGet, profileRL.Middleware())
	e.PUT("/profile", profileHandler.HandleUpdate, profileRL.Middleware())
	e.POST("/access-request", accessRequestHandler.Handle, accessRequestRL.Middleware())
	e.POST("/csrf", csrfHandler.Handle, csrfRL.Middleware())
	e.GET("/health", healthHandler.Handle)

	// Internal routes (protected by shared secret)
	internalGroup := e.Group("/internal",
		internalRL.Middleware(),
	)
	if cfg.AuthSharedSecret != "" {
		internalGroup.Use(appmiddleware.InternalAuth(cfg.AuthSharedSecret))
	}
	internalGroup.GET("/system-user", internalHandler.HandleSystemUser)

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting docgate server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8888"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
