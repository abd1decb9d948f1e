// Package internal provides the App struct that wires all components of
// taskboard together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/taskboard/internal/cli"
	"github.com/valter-silva-au/taskboard/internal/core"
	"github.com/valter-silva-au/taskboard/internal/integration"
	"github.com/valter-silva-au/taskboard/internal/logger"
	"github.com/valter-silva-au/taskboard/internal/observability"
	"github.com/valter-silva-au/taskboard/internal/storage"
	"github.com/valter-silva-au/taskboard/pkg/models"
)

// HomeEnvVar names the environment variable that pins the base path.
const HomeEnvVar = "TB_HOME"

// EventLogFileName is the activity log file inside the base path.
const EventLogFileName = ".tb_events.jsonl"

// App holds all service dependencies for taskboard.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.Config
	Log       logger.Logger

	// Storage layer
	Tokens storage.TokenStore

	// Integration services
	API *integration.APIClient

	// Core services
	TaskSvc core.TaskService

	// Observability
	EventLog   observability.EventLog
	Summarizer observability.Summarizer
}

// NewApp creates and wires all components of taskboard. basePath is the
// directory holding .taskboard.yaml, the token file, and the activity log.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Logging ---
	app.Log = logger.New(logger.Config{
		Level: cfg.Log.Level,
		JSON:  cfg.Log.Format == "json",
	})
	if used := app.ConfigMgr.ConfigFileUsed(); used != "" {
		app.Log.Debug("config loaded", "file", used)
	}

	// --- Storage layer ---
	app.Tokens = storage.NewTokenStore(basePath)

	// --- Integration services ---
	app.API = integration.NewAPIClient(integration.APIClientConfig{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Retries:   cfg.API.Retries,
		LoginPath: cfg.API.LoginPath,
		Headers:   cfg.API.Headers,
		Logger:    app.Log,
	}, app.Tokens)

	// --- Observability (non-fatal) ---
	if err := os.MkdirAll(basePath, 0o700); err == nil {
		if eventLog, err := observability.NewJSONLEventLog(filepath.Join(basePath, EventLogFileName)); err == nil {
			app.EventLog = eventLog
			app.Summarizer = observability.NewSummarizer(eventLog)
		} else {
			app.Log.Warn("activity log disabled", "err", err)
		}
	} else {
		app.Log.Warn("activity log disabled", "err", err)
	}

	// --- Core services ---
	var events core.EventLogger
	if app.EventLog != nil {
		events = app.EventLog
	}
	app.TaskSvc = core.NewTaskService(app.API, app.Tokens, events, app.Log)

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.ConfigMgr = app.ConfigMgr
	cli.Config = app.Config
	cli.Log = app.Log
	cli.TaskSvc = app.TaskSvc
	cli.EventLog = app.EventLog
	cli.Summarizer = app.Summarizer

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the taskboard base directory. TB_HOME wins;
// otherwise the nearest directory at or above the cwd containing
// .taskboard.yaml; otherwise ~/.taskboard.
func ResolveBasePath() string {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return home
	}

	if dir, err := os.Getwd(); err == nil {
		for {
			if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName+".yaml")); err == nil {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".taskboard")
	}
	return "."
}
