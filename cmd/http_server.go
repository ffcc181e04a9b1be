package cmd

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

	"github.com/frahmantamala/people-console/api"
	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/auth"
	"github.com/frahmantamala/people-console/internal/candidate"
	"github.com/frahmantamala/people-console/internal/employee"
	"github.com/frahmantamala/people-console/internal/navigation"
	"github.com/frahmantamala/people-console/internal/permission"
	"github.com/frahmantamala/people-console/internal/scheduling"
	"github.com/frahmantamala/people-console/internal/transport"
	"github.com/frahmantamala/people-console/internal/transport/rest"
	"github.com/frahmantamala/people-console/internal/transport/swagger"
	"github.com/frahmantamala/people-console/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server that backs the People Console`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	App    *application
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		deps.App.Close()
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.Env)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.App.Close()
			os.Exit(1)
		}
	}

	deps.App.Close()
	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	app := deps.App
	base := transport.NewBaseHandler(deps.Logger)

	doc, err := loadOpenAPI(context.Background(), deps.Config.Server.OpenAPIPath)
	if err != nil {
		return err
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Auth:       auth.NewHandler(app.Auth, deps.Logger),
		Candidate:  candidate.NewHandler(base, app.Candidate),
		Employee:   employee.NewHandler(base, app.Employee),
		Scheduling: scheduling.NewHandler(base, app.Scheduling),
		Permission: permission.NewHandler(base, app.Permission),
		Navigation: navigation.NewHandler(base),
		Health:     rest.NewHealthHandler(app.healthComponents()),
		OpenAPI:    doc,
	}, rest.RouterConfig{AllowedOrigins: deps.Config.Server.AllowedOrigins}, deps.Logger)
	return nil
}

// loadOpenAPI prefers a document on disk and falls back to the embedded one.
func loadOpenAPI(ctx context.Context, path string) (*swagger.Document, error) {
	raw := api.OpenAPI
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			raw = b
		}
	}
	doc, err := swagger.Load(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	return doc, nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(logger.Options{
		Env:    config.Env,
		Level:  config.Observability.Logging.Level,
		Format: config.Observability.Logging.Format,
	})
	lg := logger.LoggerWrapper()

	app, err := newApplication(context.Background(), config, lg)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Config: config,
		App:    app,
		Router: chi.NewRouter(),
		Logger: lg,
	}, nil
}
