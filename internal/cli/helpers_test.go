package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/valter-silva-au/taskboard/internal/core"
	"github.com/valter-silva-au/taskboard/pkg/models"
)

// fixedNow is the reference instant for every cli test.
var fixedNow = time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)

// fakeTaskService implements core.TaskService over an in-memory snapshot.
type fakeTaskService struct {
	snap    *core.Snapshot
	loadErr error

	lastSpec    models.FilterSpec
	created     []models.TaskInput
	updated     map[models.ID]models.TaskInput
	deleted     []models.ID
	loginEmail  string
	loginPass   string
	loggedOut   bool
	mutationErr error
}

func newFakeTaskService() *fakeTaskService {
	work := models.ID("1")
	return &fakeTaskService{
		snap: &core.Snapshot{
			Tasks: []models.Task{
				{ID: "1", Title: "Write docs", ProjectID: work, TagIDs: []models.ID{"10"}, DueDate: "2025-02-20", Status: models.StatusTodo},
				{ID: "2", Title: "Fix login", ProjectID: work, TagIDs: []models.ID{"11"}, DueDate: "2025-02-08", Status: models.StatusInProgress},
				{ID: "3", Title: "Ship release", TagIDs: []models.ID{}, DueDate: "2025-02-10", Status: models.StatusDone},
			},
			Projects: []models.Project{{ID: "1", Name: "Work", Color: "#00f"}, {ID: "2", Name: "Home"}},
			Tags:     []models.Tag{{ID: "10", Name: "docs"}, {ID: "11", Name: "bug"}},
		},
		updated: make(map[models.ID]models.TaskInput),
	}
}

func (f *fakeTaskService) Load(_ context.Context) (*core.Snapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.snap, nil
}

func (f *fakeTaskService) List(ctx context.Context, spec models.FilterSpec) ([]models.Task, *core.Snapshot, error) {
	f.lastSpec = spec
	snap, err := f.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return core.Query(snap.Tasks, spec), snap, nil
}

func (f *fakeTaskService) Get(ctx context.Context, id models.ID) (*models.Task, error) {
	snap, err := f.Load(ctx)
	if err != nil {
		return nil, err
	}
	t, ok := core.FindTask(snap.Tasks, id)
	if !ok {
		return nil, core.ErrTaskNotFound
	}
	return &t, nil
}

func (f *fakeTaskService) Create(_ context.Context, in models.TaskInput) (*models.Task, error) {
	if f.mutationErr != nil {
		return nil, f.mutationErr
	}
	f.created = append(f.created, in)
	return &models.Task{ID: "99", Title: in.Title, DueDate: in.DueDate, Status: in.Status, TagIDs: in.TagIDs}, nil
}

func (f *fakeTaskService) Update(_ context.Context, id models.ID, in models.TaskInput) (*models.Task, error) {
	if f.mutationErr != nil {
		return nil, f.mutationErr
	}
	f.updated[id] = in
	return &models.Task{ID: id, Title: in.Title, DueDate: in.DueDate, Status: in.Status}, nil
}

func (f *fakeTaskService) Delete(_ context.Context, id models.ID) error {
	if f.mutationErr != nil {
		return f.mutationErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTaskService) Login(_ context.Context, email, password string) error {
	if f.mutationErr != nil {
		return f.mutationErr
	}
	f.loginEmail = email
	f.loginPass = password
	return nil
}

func (f *fakeTaskService) Logout() error {
	f.loggedOut = true
	return f.mutationErr
}

var errBackendDown = errors.New("backend down")

// useServices installs svc and a fixed clock for the duration of the test.
func useServices(t *testing.T, svc core.TaskService) {
	t.Helper()
	origSvc, origClock, origConfig := TaskSvc, Clock, Config
	t.Cleanup(func() {
		TaskSvc, Clock, Config = origSvc, origClock, origConfig
	})
	TaskSvc = svc
	Clock = func() time.Time { return fixedNow }
	Config = core.DefaultConfig()
}

// runCommand executes the root command with args and returns stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { resetFlags(rootCmd) })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)

	err := Execute()
	return stdout.String(), err
}

// resetFlags restores every flag in the command tree to its default so
// package-level flag variables do not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
