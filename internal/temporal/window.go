package temporal

import (
	"fmt"
	"strings"
	"time"
)

// Window is a relative time range ending now
type Window string

const (
	WindowDay       Window = "1d"
	WindowWeek      Window = "7d"
	WindowMonth     Window = "30d"
	WindowSixMonths Window = "6m"
	WindowYear      Window = "1y"
	WindowAll       Window = "all"
)

// Windows lists the supported presets, narrowest first
var Windows = []Window{WindowDay, WindowWeek, WindowMonth, WindowSixMonths, WindowYear, WindowAll}

// ParseWindow accepts the preset names plus "24h" as an alias of "1d".
// Empty means all time.
func ParseWindow(s string) (Window, error) {
	switch w := Window(strings.ToLower(strings.TrimSpace(s))); w {
	case "":
		return WindowAll, nil
	case "24h":
		return WindowDay, nil
	case WindowDay, WindowWeek, WindowMonth, WindowSixMonths, WindowYear, WindowAll:
		return w, nil
	}
	return "", fmt.Errorf("unknown window %q (want one of 1d, 7d, 30d, 6m, 1y, all)", s)
}

// Since returns the inclusive lower bound for w relative to now, or the zero
// time for WindowAll. Month and year windows use calendar arithmetic with
// time.AddDate normalization: Aug 31 minus six months is Mar 2 or 3, and
// Feb 29 minus one year is Mar 1.
func (w Window) Since(now time.Time) time.Time {
	switch w {
	case WindowDay:
		return now.AddDate(0, 0, -1)
	case WindowWeek:
		return now.AddDate(0, 0, -7)
	case WindowMonth:
		return now.AddDate(0, 0, -30)
	case WindowSixMonths:
		return now.AddDate(0, -6, 0)
	case WindowYear:
		return now.AddDate(-1, 0, 0)
	}
	return time.Time{}
}
