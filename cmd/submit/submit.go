// Package submit contains the job submission command, the front door
// for dispatching a run's batch jobs to the site scheduler.
package submit

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/units"
	"github.com/spf13/cobra"

	cmdutil "github.com/nd-nuclear-theory/mcscript/cmd/util"
	"github.com/nd-nuclear-theory/mcscript/compute"
	"github.com/nd-nuclear-theory/mcscript/config"
	"github.com/nd-nuclear-theory/mcscript/logger"
	"github.com/nd-nuclear-theory/mcscript/util"
)

type options struct {
	script  string
	width   string
	threads int
	nodes   int
	memory  string
	vars    []string
	pool    string
	phase   int
	start   int
	limit   int
	tasks   []int
	redo    bool
	force   bool
	jobs    int
	opts    []string
}

// NewCommand returns the submit command.
func NewCommand() *cobra.Command {
	var (
		configFile string
		conf       config.Config
		flagConf   config.Config
		opt        options
	)

	cmd := &cobra.Command{
		Use:   "submit RUN [QUEUE [WALL]]",
		Short: "Submit a run's batch job to the cluster scheduler.",
		Long: `Submit dispatches one batch job for a run. QUEUE omitted (or the
literal "RUN") means local execution without a scheduler. WALL is the
wall-time request in [[dd:]hh:]mm form.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			conf, err = cmdutil.MergeConfigFileWithFlags(configFile, flagConf)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}

			log := logger.NewLogger("submit", conf.Logger)
			return run(context.Background(), conf, args, opt, log)
		},
	}
	cmd.SetGlobalNormalizationFunc(cmdutil.NormalizeFlags)

	f := cmd.Flags()
	f.AddFlagSet(cmdutil.ClusterFlags(&flagConf, &configFile))
	f.StringVar(&opt.script, "script", "", "Job script path (default: ./RUN, ./RUN.sh)")
	f.StringVarP(&opt.width, "width", "w", "1", "MPI rank count, or \"s\" for a serial job")
	f.IntVar(&opt.threads, "threads", 1, "Threads per rank (OMP_NUM_THREADS)")
	f.IntVar(&opt.nodes, "nodes", 0, "Node count (default: derived by the scheduler)")
	f.StringVar(&opt.memory, "memory", "", "Memory per node, e.g. 64GB")
	f.StringSliceVar(&opt.vars, "vars", nil, "Environment variables to pass through, VAR or VAR=VAL")
	f.StringVar(&opt.pool, "pool", "", "Restrict task selection to a pool (\"ALL\" for all pools)")
	f.IntVar(&opt.phase, "phase", 0, "Task phase to run")
	f.IntVar(&opt.start, "start", 0, "First eligible task index")
	f.IntVar(&opt.limit, "limit", 0, "Maximum number of tasks to run (0 = unlimited)")
	f.IntSliceVar(&opt.tasks, "tasks", nil, "Restrict selection to these task indices")
	f.BoolVar(&opt.redo, "redo", false, "Make failed tasks eligible again")
	f.BoolVar(&opt.force, "force", false, "Make all tasks eligible, including completed ones")
	f.IntVar(&opt.jobs, "jobs", 1, "Number of identical jobs to submit (job array)")
	f.StringArrayVar(&opt.opts, "opt", nil, "Extra submit-command option, passed through verbatim (repeatable)")

	return cmd
}

func run(ctx context.Context, conf config.Config, args []string, opt options, log *logger.Logger) error {
	runID := args[0]

	// QUEUE omitted or the literal "RUN" selects local execution
	queue := ""
	if len(args) > 1 && args[1] != "RUN" {
		queue = args[1]
	}
	if queue == "" {
		conf.Cluster = "local"
	}

	wallTime := 30 * time.Minute
	if len(args) > 2 {
		var err error
		wallTime, err = util.ParseWallTime(args[2])
		if err != nil {
			return err
		}
	}

	width, serial, err := util.ParseWidth(opt.width)
	if err != nil {
		return err
	}

	var memBytes int64
	if opt.memory != "" {
		mem, err := units.ParseBase2Bytes(opt.memory)
		if err != nil {
			return fmt.Errorf("parsing --memory %q: %v", opt.memory, err)
		}
		memBytes = int64(mem)
	}

	script, err := resolveScript(runID, opt.script)
	if err != nil {
		return err
	}

	cluster, err := cmdutil.NewCluster(conf)
	if err != nil {
		return err
	}

	taskMode := "normal"
	switch {
	case opt.force:
		taskMode = "force"
	case opt.redo:
		taskMode = "redo"
	}

	req := &compute.JobRequest{
		RunID:         runID,
		JobName:       runID,
		JobScript:     script,
		Queue:         queue,
		WallTime:      wallTime,
		Width:         width,
		Depth:         opt.threads,
		Nodes:         opt.nodes,
		Serial:        serial,
		MemoryPerNode: memBytes,
		Jobs:          opt.jobs,
		ExtraArgs:     opt.opts,
		Variables: jobEnv(conf, runID, script, queue, wallTime,
			width, opt, taskMode),
	}

	disp := compute.NewDispatcher(cluster, conf, log)
	jobID, err := disp.Submit(ctx, req)
	if err != nil {
		return err
	}
	log.Info("job submitted", "run", runID, "jobID", jobID, "cluster", cluster.Name())
	fmt.Println(jobID)
	return nil
}

// resolveScript locates the run's job script: an explicit --script
// path, or the first of ./RUN, ./RUN.sh that exists.
func resolveScript(runID, explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("job script %s: %v", explicit, err)
		}
		return explicit, nil
	}
	for _, candidate := range []string{runID, runID + ".sh"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no job script found for run %s (tried %s, %s.sh)", runID, runID, runID)
}

// jobEnv builds the orchestration environment exported into the job.
// The in-job worker reads these variables back to reconstruct the
// submission parameters.
func jobEnv(conf config.Config, runID, script, queue string, wallTime time.Duration,
	width int, opt options, taskMode string) []string {

	runMode := "batch"
	if queue == "" {
		runMode = "local"
	}

	env := []string{
		"MCSCRIPT_RUN=" + runID,
		"MCSCRIPT_JOB_FILE=" + script,
		"MCSCRIPT_RUN_MODE=" + runMode,
		"MCSCRIPT_RUN_QUEUE=" + queue,
		fmt.Sprintf("MCSCRIPT_WALL_SEC=%d", int(wallTime.Seconds())),
		"MCSCRIPT_WORK_DIR=" + conf.WorkDir,
		"MCSCRIPT_LAUNCH_DIR=" + conf.LaunchDir,
		fmt.Sprintf("MCSCRIPT_WIDTH=%d", width),
		fmt.Sprintf("MCSCRIPT_DEPTH=%d", opt.threads),
		"MCSCRIPT_TASK_MODE=" + taskMode,
		"MCSCRIPT_TASK_POOL=" + opt.pool,
		fmt.Sprintf("MCSCRIPT_TASK_PHASE=%d", opt.phase),
		fmt.Sprintf("MCSCRIPT_TASK_START_INDEX=%d", opt.start),
		fmt.Sprintf("MCSCRIPT_TASK_COUNT_LIMIT=%d", opt.limit),
	}

	if len(opt.tasks) > 0 {
		indices := make([]string, len(opt.tasks))
		for i, idx := range opt.tasks {
			indices[i] = fmt.Sprintf("%d", idx)
		}
		env = append(env, "MCSCRIPT_TASK_INDICES="+strings.Join(indices, ","))
	}

	// user variables pass through; a bare VAR normalizes to VAR=
	for _, v := range opt.vars {
		if !strings.Contains(v, "=") {
			v += "="
		}
		env = append(env, v)
	}
	return env
}
