package worker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/nd-nuclear-theory/mcscript/logger"
	"github.com/nd-nuclear-theory/mcscript/util"
)

// Archive packs a run's durable artifacts (table of contents, flags,
// output, results) into a dated tarball under the run's archive
// directory and returns the archive path.
//
// The archive phase runs at the end of a production campaign, often
// from a dedicated single-node job, so it shells out to tar rather
// than streaming in-process; HPC centers tune their tar for the
// parallel filesystem.
func Archive(ctx context.Context, runDir, run string, log *logger.Logger) (string, error) {
	archiveDir := filepath.Join(runDir, "archive")
	if err := util.EnsureDir(archiveDir); err != nil {
		return "", err
	}

	datetag := time.Now().Format("060102")
	archivePath := filepath.Join(archiveDir,
		fmt.Sprintf("%s-archive-%s.tgz", run, datetag))

	var members []string
	for _, m := range []string{run + ".toc", "flags", "output", "results"} {
		if _, err := os.Stat(filepath.Join(runDir, m)); err == nil {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return "", fmt.Errorf("nothing to archive in %s", runDir)
	}

	args := append([]string{"zcf", archivePath}, members...)
	cmd := exec.CommandContext(ctx, "tar", args...)
	cmd.Dir = runDir

	log.Info("archiving run", "run", run, "cmd", shellquote.Join(cmd.Args...))
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("tar failed: %v\n%s", err, out)
	}
	return archivePath, nil
}
