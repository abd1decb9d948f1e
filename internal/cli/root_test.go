package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/valter-silva-au/taskboard/internal/logger"
)

func TestSetVersionInfo(t *testing.T) {
	origVersion, origCommit, origDate := appVersion, appCommit, appDate
	defer func() {
		appVersion, appCommit, appDate = origVersion, origCommit, origDate
	}()

	SetVersionInfo("1.2.3", "abc1234", "2026-02-13")

	if appVersion != "1.2.3" {
		t.Errorf("appVersion = %q, want 1.2.3", appVersion)
	}
	if appCommit != "abc1234" {
		t.Errorf("appCommit = %q, want abc1234", appCommit)
	}
	if appDate != "2026-02-13" {
		t.Errorf("appDate = %q, want 2026-02-13", appDate)
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	_, err := runCommand(t, "nonexistent-command")
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExecute_VersionSubcommand(t *testing.T) {
	origVersion, origCommit, origDate := appVersion, appCommit, appDate
	defer func() {
		appVersion, appCommit, appDate = origVersion, origCommit, origDate
	}()
	SetVersionInfo("test-ver", "test-commit", "test-date")

	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "tb test-ver\ncommit: test-commit\nbuilt:  test-date\n"
	if out != want {
		t.Errorf("version output = %q, want %q", out, want)
	}
}

func TestRootCmd_Registration(t *testing.T) {
	expected := []string{"version", "login", "logout", "task", "project", "stats", "activity", "dashboard", "mcp", "config"}
	subs := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		subs[cmd.Name()] = true
	}
	for _, name := range expected {
		if !subs[name] {
			t.Errorf("expected %q command to be registered on root", name)
		}
	}
}

func TestLogLevelFlag_AppliedBeforeRun(t *testing.T) {
	origLog := Log
	defer func() { Log = origLog }()

	var buf bytes.Buffer
	Log = logger.New(logger.Config{Level: "error", Output: &buf})

	if _, err := runCommand(t, "--log-level", "debug", "version"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Log.Debug("after flag")
	if !strings.Contains(buf.String(), "after flag") {
		t.Errorf("expected debug output after --log-level debug, got %q", buf.String())
	}
}

func TestMCPServe_NilTaskService(t *testing.T) {
	useServices(t, nil)

	err := mcpServeCmd.RunE(mcpServeCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "task service not initialized") {
		t.Errorf("unexpected error: %v", err)
	}
}
