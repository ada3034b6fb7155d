package submit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nd-nuclear-theory/mcscript/config"
	"github.com/nd-nuclear-theory/mcscript/logger"
)

func TestJobEnv(t *testing.T) {
	conf := config.DefaultConfig()
	conf.WorkDir = "/scratch/work"
	conf.LaunchDir = "/scratch/launch"

	opt := options{
		threads: 4,
		pool:    "natorb",
		phase:   1,
		start:   10,
		limit:   2,
		tasks:   []int{12, 14},
		vars:    []string{"MCSCRIPT_RUN_HOME=/home/me/runs", "VERBOSE"},
	}
	env := jobEnv(conf, "run0432", "run0432.sh", "regular", time.Hour, 16, opt, "redo")

	want := map[string]string{
		"MCSCRIPT_RUN":              "run0432",
		"MCSCRIPT_JOB_FILE":         "run0432.sh",
		"MCSCRIPT_RUN_MODE":         "batch",
		"MCSCRIPT_RUN_QUEUE":        "regular",
		"MCSCRIPT_WALL_SEC":         "3600",
		"MCSCRIPT_WORK_DIR":         "/scratch/work",
		"MCSCRIPT_LAUNCH_DIR":       "/scratch/launch",
		"MCSCRIPT_WIDTH":            "16",
		"MCSCRIPT_DEPTH":            "4",
		"MCSCRIPT_TASK_MODE":        "redo",
		"MCSCRIPT_TASK_POOL":        "natorb",
		"MCSCRIPT_TASK_PHASE":       "1",
		"MCSCRIPT_TASK_START_INDEX": "10",
		"MCSCRIPT_TASK_COUNT_LIMIT": "2",
		"MCSCRIPT_TASK_INDICES":     "12,14",
		"MCSCRIPT_RUN_HOME":         "/home/me/runs",
		// bare VAR normalizes to VAR=
		"VERBOSE": "",
	}
	got := map[string]string{}
	for _, kv := range env {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			t.Fatalf("malformed env entry %q", kv)
		}
		got[parts[0]] = parts[1]
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("env %s = %q, want %q", k, got[k], v)
		}
	}
}

func TestJobEnvLocalMode(t *testing.T) {
	conf := config.DefaultConfig()
	env := jobEnv(conf, "run1", "run1.sh", "", 30*time.Minute, 1, options{}, "normal")
	found := false
	for _, kv := range env {
		if kv == "MCSCRIPT_RUN_MODE=local" {
			found = true
		}
	}
	if !found {
		t.Fatalf("empty queue should mean local run mode: %v", env)
	}
}

func TestResolveScript(t *testing.T) {
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	if _, err := resolveScript("run0", ""); err == nil {
		t.Fatal("expected error when no script exists")
	}

	if err := os.WriteFile("run0.sh", []byte("#!/bin/bash\n"), 0755); err != nil {
		t.Fatal(err)
	}
	script, err := resolveScript("run0", "")
	if err != nil {
		t.Fatal(err)
	}
	if script != "run0.sh" {
		t.Fatalf("unexpected script %q", script)
	}

	// an explicit path must exist
	if _, err := resolveScript("run0", "missing.sh"); err == nil {
		t.Fatal("expected error for missing explicit script")
	}
}

func TestRunLocal(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "run7.sh")
	marker := filepath.Join(dir, "ran")
	if err := os.WriteFile(script, []byte("#!/bin/bash\ntouch "+marker+"\n"), 0755); err != nil {
		t.Fatal(err)
	}

	conf := config.DefaultConfig()
	conf.WorkDir = filepath.Join(dir, "work")
	conf.LaunchDir = filepath.Join(dir, "launch")

	log := logger.NewLogger("test", logger.DebugConfig())
	log.Discard()

	err := run(context.Background(), conf, []string{"run7"}, options{
		script: script,
		width:  "s",
	}, log)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Fatal("local submission should execute the script synchronously")
	}
}

func TestRunBadWall(t *testing.T) {
	log := logger.NewLogger("test", logger.DebugConfig())
	log.Discard()
	err := run(context.Background(), config.DefaultConfig(),
		[]string{"run1", "regular", "12:"}, options{width: "1"}, log)
	if err == nil {
		t.Fatal("expected error for malformed wall time")
	}
}
