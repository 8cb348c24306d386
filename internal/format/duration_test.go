package format

import (
	"testing"
	"time"
)

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"zero", 0, "0µs"},
		{"microseconds", 500 * time.Microsecond, "500µs"},
		{"milliseconds", 150*time.Millisecond + 400*time.Microsecond, "150ms"},
		{"seconds rounded to ms", 2*time.Second + 345678*time.Microsecond, "2.346s"},
		{"whole seconds", 2 * time.Second, "2s"},
		{"minutes rounded to s", 90*time.Second + 600*time.Millisecond, "1m31s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatExecutionDuration(tt.in); got != tt.want {
				t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
