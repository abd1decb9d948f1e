package core

import (
	"context"

	"github.com/valter-silva-au/taskboard/pkg/models"
)

// TaskBackend is the subset of integration.APIClient that TaskService needs.
// Defining it here keeps core independent of the integration package.
type TaskBackend interface {
	GetTasks(ctx context.Context) ([]models.RawTask, error)
	GetProjects(ctx context.Context) ([]models.Project, error)
	CreateTask(ctx context.Context, in models.TaskInput) (*models.RawTask, error)
	UpdateTask(ctx context.Context, id models.ID, in models.TaskInput) (*models.RawTask, error)
	DeleteTask(ctx context.Context, id models.ID) error
	Login(ctx context.Context, email, password string) (string, error)
}

// TokenKeeper is the subset of storage.TokenStore that TaskService needs.
type TokenKeeper interface {
	Save(token string) error
	Clear() error
}
