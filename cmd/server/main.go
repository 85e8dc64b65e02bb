// Package main is the entry point for the snippet explorer server.
// It reads configuration from the environment, builds the dependencies,
// and hands off to internal/server.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tahmid/snippet-explorer/internal/executor"
	"github.com/tahmid/snippet-explorer/internal/executor/docker"
	"github.com/tahmid/snippet-explorer/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/snippets.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	localStorePath := "data/local-snippets.json"
	if envLocal := os.Getenv("LOCAL_STORE_PATH"); envLocal != "" {
		localStorePath = envLocal
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create data directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// JWT_SECRET must be a long random string, e.g. $(openssl rand -hex 32).
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	githubCallbackURL := os.Getenv("GITHUB_CALLBACK_URL")
	if githubCallbackURL == "" {
		githubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", port)
	}

	// The sandbox is optional: without Docker the server still runs, it
	// just doesn't register /api/execute.
	var exec executor.Executor
	dockerExec, err := docker.New(docker.DefaultConfig(), logger)
	if err != nil {
		logger.Warn("Docker sandbox unavailable, code execution disabled",
			slog.String("error", err.Error()),
		)
	} else {
		defer dockerExec.Close()
		exec = dockerExec
	}

	cfg := server.Config{
		Port:               port,
		DBPath:             dbPath,
		LocalStorePath:     localStorePath,
		JWTSecret:          jwtSecret,
		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  githubCallbackURL,
	}

	srv, err := server.New(cfg, logger, exec)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
