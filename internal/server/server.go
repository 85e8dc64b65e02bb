// Package server wires handlers, middleware, and routes, and owns the
// HTTP listener lifecycle.
//
// This is the composition root: the database, the local snippet file,
// the store, and the auth stack are all assembled here, so main.go stays
// minimal and the rest of the codebase only sees its direct dependencies.
package server

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
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tahmid/snippet-explorer/internal/auth"
	"github.com/tahmid/snippet-explorer/internal/executor"
	"github.com/tahmid/snippet-explorer/internal/handler"
	"github.com/tahmid/snippet-explorer/internal/middleware"
	"github.com/tahmid/snippet-explorer/internal/repository/localfile"
	sqliteRepo "github.com/tahmid/snippet-explorer/internal/repository/sqlite"
	"github.com/tahmid/snippet-explorer/internal/service"
	"github.com/tahmid/snippet-explorer/internal/store"
)

// Config holds server configuration.
type Config struct {
	Port           int
	DBPath         string // SQLite file backing account snippets and users
	LocalStorePath string // JSON file backing local-only snippets
	JWTSecret      string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the resources that must be released on
// shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency graph and performs the initial
// snippet load (signed out — sessions arrive per request). exec may be
// nil when no sandbox is available; /api/execute is then not registered.
func New(cfg Config, logger *slog.Logger, exec executor.Executor) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("server: JWT secret is required")
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(exec); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes(exec executor.Executor) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" && s.config.GitHubClientSecret != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	} else {
		s.logger.Warn("GitHub OAuth not configured, only email/password login available")
	}

	authService := service.NewAuthService(s.db, tokens, auth.NewPasswordService(), s.logger)
	authHandler := handler.NewAuthHandler(authService, github, s.logger)

	local := localfile.New(s.config.LocalStorePath)
	snippetStore := store.New(local, s.db, s.logger)
	if err := snippetStore.Load(context.Background(), ""); err != nil {
		return fmt.Errorf("loading snippets: %w", err)
	}
	snippetHandler := handler.NewSnippetHandler(snippetStore, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		r.Get("/github/login", authHandler.HandleGitHubLogin)
		r.Get("/github/callback", authHandler.HandleGitHubCallback)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.With(auth.RequireAuth(tokens)).Get("/me", authHandler.HandleMe)

		r.Route("/snippets", func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Get("/", snippetHandler.HandleList)
			r.Post("/", snippetHandler.HandleCreate)
			r.Get("/status", snippetHandler.HandleStatus)
			r.Post("/migrate", snippetHandler.HandleMigrate)
			r.Put("/{id}", snippetHandler.HandleUpdate)
			r.Delete("/{id}", snippetHandler.HandleDelete)
			r.Put("/{id}/name", snippetHandler.HandleRename)
			r.Post("/{id}/save", snippetHandler.HandleSave)
		})

		if exec != nil {
			executeHandler := handler.NewExecuteHandler(exec, s.logger)
			r.Post("/execute", executeHandler.HandleExecute)
		}
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, close
// the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("localStore", s.config.LocalStorePath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
