package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseWallTime parses a wall-time spec of the form "[[dd:]hh:]mm"
// into a duration. A bare number is minutes; two fields are hours and
// minutes; three fields are days, hours, and minutes.
func ParseWallTime(spec string) (time.Duration, error) {
	parts := strings.Split(spec, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid wall time %q: expected [[dd:]hh:]mm", spec)
	}

	vals := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid wall time %q: expected [[dd:]hh:]mm", spec)
		}
		vals[i] = v
	}

	var d time.Duration
	switch len(vals) {
	case 1:
		d = time.Duration(vals[0]) * time.Minute
	case 2:
		d = time.Duration(vals[0])*time.Hour + time.Duration(vals[1])*time.Minute
	case 3:
		d = time.Duration(vals[0])*24*time.Hour +
			time.Duration(vals[1])*time.Hour +
			time.Duration(vals[2])*time.Minute
	}
	return d, nil
}

// FormatWallTime renders a duration as "hh:mm:ss" for scheduler flags.
func FormatWallTime(d time.Duration) string {
	sec := int64(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec/60)%60, sec%60)
}

// ParseWidth parses a width spec: an integer core (rank) count, or the
// literal "s" for a serial run.
func ParseWidth(spec string) (width int, serial bool, err error) {
	if spec == "s" {
		return 1, true, nil
	}
	w, perr := strconv.Atoi(spec)
	if perr != nil || w < 1 {
		return 0, false, fmt.Errorf("invalid width %q: expected a positive integer or \"s\"", spec)
	}
	return w, false, nil
}
