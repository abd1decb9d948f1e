package cli

import (
	"github.com/valter-silva-au/taskboard/internal/core"
	"github.com/valter-silva-au/taskboard/internal/logger"
	"github.com/valter-silva-au/taskboard/internal/observability"
	"github.com/valter-silva-au/taskboard/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	TaskSvc    core.TaskService
	ConfigMgr  core.ConfigurationManager
	Config     *models.Config
	EventLog   observability.EventLog
	Summarizer observability.Summarizer
	Log        logger.Logger
	BasePath   string
)

// Clock supplies "now" for due-date labels and --since windows.
var Clock core.Clock = core.SystemClock
