package util

import (
	"testing"
	"time"
)

func TestParseWallTime(t *testing.T) {
	cases := []struct {
		spec string
		want time.Duration
	}{
		{"30", 30 * time.Minute},
		{"90", 90 * time.Minute},
		{"0", 0},
		{"1:30", time.Hour + 30*time.Minute},
		{"12:00", 12 * time.Hour},
		{"1:00:00", 24 * time.Hour},
		{"2:12:30", 48*time.Hour + 12*time.Hour + 30*time.Minute},
	}
	for _, c := range cases {
		got, err := ParseWallTime(c.spec)
		if err != nil {
			t.Errorf("ParseWallTime(%q): %v", c.spec, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseWallTime(%q) = %v, want %v", c.spec, got, c.want)
		}
	}
}

func TestParseWallTimeInvalid(t *testing.T) {
	for _, spec := range []string{"", "abc", "1:2:3:4", "-5", "1:", ":30", "1.5"} {
		if _, err := ParseWallTime(spec); err == nil {
			t.Errorf("ParseWallTime(%q) should fail", spec)
		}
	}
}

func TestFormatWallTime(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{90 * time.Second, "00:01:30"},
		{30 * time.Minute, "00:30:00"},
		{25*time.Hour + 5*time.Minute, "25:05:00"},
	}
	for _, c := range cases {
		if got := FormatWallTime(c.d); got != c.want {
			t.Errorf("FormatWallTime(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestParseWidth(t *testing.T) {
	w, serial, err := ParseWidth("16")
	if err != nil || w != 16 || serial {
		t.Fatalf("ParseWidth(16) = %d, %v, %v", w, serial, err)
	}

	w, serial, err = ParseWidth("s")
	if err != nil || w != 1 || !serial {
		t.Fatalf("ParseWidth(s) = %d, %v, %v", w, serial, err)
	}

	for _, spec := range []string{"", "0", "-2", "wide"} {
		if _, _, err := ParseWidth(spec); err == nil {
			t.Errorf("ParseWidth(%q) should fail", spec)
		}
	}
}
