package task

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nd-nuclear-theory/mcscript/util"
)

// TOC renders the run's table of contents: one line per task with its
// per-phase status flags. The table is both the status display and a
// durable artifact written next to the flags directory.
type TOC struct {
	Run    string
	Tasks  []Task
	State  StateStore
	Phases int
}

// Render builds the table of contents text.
func (t *TOC) Render() (string, error) {
	phases := t.Phases
	if phases < 1 {
		phases = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "run %s\n", t.Run)
	fmt.Fprintf(&b, "%-6s %-12s %-*s %s\n", "index", "pool", phases, "ph", "name")

	for _, task := range t.Tasks {
		flags := make([]string, phases)
		for p := 0; p < phases; p++ {
			s, err := t.State.Status(task.Index, p)
			if err != nil {
				return "", err
			}
			flags[p] = Flag(s, task.Masked)
		}
		pool := task.Pool
		if pool == "" {
			pool = "-"
		}
		fmt.Fprintf(&b, "%-6s %-12s %-*s %s\n",
			IndexStr(task.Index), pool, phases, strings.Join(flags, ""), task.Name)
	}
	return b.String(), nil
}

// Write renders the table and atomically writes it to <run>.toc inside
// the run directory.
func (t *TOC) Write(runDir string) error {
	text, err := t.Render()
	if err != nil {
		return err
	}
	path := filepath.Join(runDir, t.Run+".toc")
	return util.AtomicWriteFile(path, []byte(text), 0664)
}
