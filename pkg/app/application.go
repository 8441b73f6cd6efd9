package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"

	healthhandler "reservio/internal/health/handler"
	identitymiddleware "reservio/internal/identity/middleware"
	identityservice "reservio/internal/identity/service"
	"reservio/pkg/config"
	"reservio/pkg/middleware"
)

// RouteRegistrar is anything that can attach its endpoints to the router.
type RouteRegistrar interface {
	RegisterRoutes(router *httprouter.Router)
}

// Application assembles the HTTP surface: probe endpoints behind a
// minimal middleware stack, API endpoints behind the full one.
type Application struct {
	cfg         *config.Config
	server      *http.Server
	replayCache *middleware.ReplayCache
	rateLimiter *middleware.CallerRateLimiter
}

func NewApplication(
	cfg *config.Config,
	version string,
	auth identityservice.AuthService,
	mongoClient *mongo.Client,
	registrars ...RouteRegistrar,
) *Application {
	a := &Application{cfg: cfg}

	healthRouter := httprouter.New()
	healthhandler.NewHealthHandler("reservio", version, mongoClient, cfg.Log).RegisterRoutes(healthRouter)

	var probeHandler http.Handler = healthRouter
	probeHandler = middleware.RequestLogging(cfg.Log)(probeHandler)
	probeHandler = middleware.Recovery(cfg.Log)(probeHandler)

	apiRouter := httprouter.New()
	for _, registrar := range registrars {
		registrar.RegisterRoutes(apiRouter)
	}

	a.replayCache = middleware.NewReplayCache(cfg.IdempotencyTTL)
	a.rateLimiter = middleware.NewCallerRateLimiter(
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
		middleware.RemoteAddrExtractor,
		cfg.Log,
	)

	var apiHandler http.Handler = apiRouter
	apiHandler = identitymiddleware.Authentication(auth, cfg.Log)(apiHandler)
	apiHandler = middleware.Idempotency(a.replayCache, "Idempotency-Key")(apiHandler)
	apiHandler = middleware.RequestTimeout(cfg.RequestTimeout)(apiHandler)
	apiHandler = middleware.RateLimit(a.rateLimiter)(apiHandler)
	apiHandler = cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
	}).Handler(apiHandler)
	apiHandler = middleware.ContentTypeValidation(cfg.Log)(apiHandler)
	apiHandler = middleware.MaxRequestSize(int64(cfg.MaxRequestSize))(apiHandler)
	apiHandler = middleware.RequestLogging(cfg.Log)(apiHandler)
	apiHandler = middleware.Recovery(cfg.Log)(apiHandler)

	mux := http.NewServeMux()
	mux.Handle("/health", probeHandler)
	mux.Handle("/ready", probeHandler)
	mux.Handle("/version", probeHandler)
	mux.Handle("/", apiHandler)

	a.server = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	cfg.Log.Info("HTTP server configured", "port", cfg.Port)
	return a
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.cfg.Log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	a.replayCache.Stop()
	a.rateLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Server stopped gracefully")
}
