package worker

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nd-nuclear-theory/mcscript/task"
)

// Options carries the per-job orchestration parameters. The submission
// side exports them as MCSCRIPT_* environment variables; the in-job
// worker reads them back here.
type Options struct {
	Run        string
	RunMode    string
	Queue      string
	WallTime   time.Duration
	WorkDir    string
	LaunchDir  string
	Width      int
	Depth      int
	TaskMode   string
	Pool       string
	Phase      int
	StartIndex int
	CountLimit int
	Indices    []int
}

// Eligible maps the task mode to a status predicate: "redo" retries
// failed tasks, "force" ignores recorded state, anything else selects
// pending tasks only.
func (o Options) Eligible() task.Eligibility {
	switch o.TaskMode {
	case "redo":
		return task.RedoFailed
	case "force":
		return task.Force
	}
	return task.PendingOnly
}

// LoadEnv reads Options from the MCSCRIPT_* environment contract.
func LoadEnv() (Options, error) {
	o := Options{
		Run:       os.Getenv("MCSCRIPT_RUN"),
		RunMode:   os.Getenv("MCSCRIPT_RUN_MODE"),
		Queue:     os.Getenv("MCSCRIPT_RUN_QUEUE"),
		WorkDir:   os.Getenv("MCSCRIPT_WORK_DIR"),
		LaunchDir: os.Getenv("MCSCRIPT_LAUNCH_DIR"),
		TaskMode:  os.Getenv("MCSCRIPT_TASK_MODE"),
		Pool:      os.Getenv("MCSCRIPT_TASK_POOL"),
	}
	if o.Run == "" {
		return o, fmt.Errorf("MCSCRIPT_RUN is not set; not inside a submitted job?")
	}

	var err error
	if o.WallTime, err = envSeconds("MCSCRIPT_WALL_SEC"); err != nil {
		return o, err
	}
	if o.Width, err = envInt("MCSCRIPT_WIDTH", 1); err != nil {
		return o, err
	}
	if o.Depth, err = envInt("MCSCRIPT_DEPTH", 1); err != nil {
		return o, err
	}
	if o.Phase, err = envInt("MCSCRIPT_TASK_PHASE", 0); err != nil {
		return o, err
	}
	if o.StartIndex, err = envInt("MCSCRIPT_TASK_START_INDEX", 0); err != nil {
		return o, err
	}
	if o.CountLimit, err = envInt("MCSCRIPT_TASK_COUNT_LIMIT", 0); err != nil {
		return o, err
	}
	if o.Indices, err = envInts("MCSCRIPT_TASK_INDICES"); err != nil {
		return o, err
	}
	return o, nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("parsing %s=%q: %v", key, v, err)
	}
	return i, nil
}

func envInts(key string) ([]int, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	var out []int
	for _, field := range strings.Split(v, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("parsing %s=%q: %v", key, v, err)
		}
		out = append(out, i)
	}
	return out, nil
}

func envSeconds(key string) (time.Duration, error) {
	sec, err := envInt(key, 0)
	if err != nil {
		return 0, err
	}
	return time.Duration(sec) * time.Second, nil
}
