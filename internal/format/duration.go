package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration renders replica, batch and elapsed-time durations.
// Sub-second values print as whole µs or ms; longer runs are rounded to the
// millisecond, or to the second past one minute, so the dashboard header
// and the run table stay narrow.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}
