package task

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-test/deep"
)

func TestFlagMapping(t *testing.T) {
	cases := []struct {
		status Status
		masked bool
		want   string
	}{
		{Pending, false, "-"},
		{Pending, true, "."},
		{Running, false, "L"},
		{Failed, false, "F"},
		{Done, false, "X"},
		// a recorded status wins over the mask
		{Done, true, "X"},
	}
	for _, c := range cases {
		if got := Flag(c.status, c.masked); got != c.want {
			t.Errorf("Flag(%s, %v) = %q, want %q", c.status, c.masked, got, c.want)
		}
	}
}

func TestDurationUnmarshal(t *testing.T) {
	var d Duration

	if err := d.UnmarshalJSON([]byte(`"90m"`)); err != nil {
		t.Fatal(err)
	}
	if time.Duration(d) != 90*time.Minute {
		t.Fatalf("unexpected duration %v", time.Duration(d))
	}

	if err := d.UnmarshalJSON([]byte(`30`)); err != nil {
		t.Fatal(err)
	}
	if time.Duration(d) != 30*time.Second {
		t.Fatalf("unexpected duration %v", time.Duration(d))
	}

	if err := d.UnmarshalJSON([]byte(`"bogus"`)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadList(t *testing.T) {
	yaml := `
- name: Z2-of07
  pool: natorb
  cost: 10m
  width: 16
  depth: 4
  command: [run-xform, Z2-of07]
- pool: natorb
  masked: true
  command: [run-xform, Z2-of09]
- name: Z3-of07
  cost: 300
  command: [run-xform, Z3-of07]
`
	tmp := t.TempDir()
	path := filepath.Join(tmp, "tasks.yml")
	if err := os.WriteFile(path, []byte(yaml), 0664); err != nil {
		t.Fatal(err)
	}

	tasks, err := LoadList(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}

	want := Task{
		Index:   0,
		Name:    "Z2-of07",
		Pool:    "natorb",
		Cost:    Duration(10 * time.Minute),
		Width:   16,
		Depth:   4,
		Command: []string{"run-xform", "Z2-of07"},
	}
	if diff := deep.Equal(tasks[0], want); diff != nil {
		t.Fatal(diff)
	}

	// indices follow declared order; missing names are synthesized
	if tasks[1].Index != 1 || tasks[1].Name != "task-0001" {
		t.Fatalf("unexpected task[1]: %+v", tasks[1])
	}
	if !tasks[1].Masked {
		t.Fatal("expected task[1] masked")
	}
	// bare numeric cost reads as seconds
	if time.Duration(tasks[2].Cost) != 300*time.Second {
		t.Fatalf("unexpected cost %v", time.Duration(tasks[2].Cost))
	}
}

func TestLoadListMissingCommand(t *testing.T) {
	yaml := `
- name: empty
  pool: natorb
`
	path := filepath.Join(t.TempDir(), "tasks.yml")
	if err := os.WriteFile(path, []byte(yaml), 0664); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadList(path); err == nil {
		t.Fatal("expected error for task without command")
	}
}

func TestLoadListMissing(t *testing.T) {
	if _, err := LoadList(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
