package display

import (
	"encoding/json"
	"fmt"
	"time"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatRate returns a transfer rate such as "12.5 MiB/s". Durations under
// a millisecond report "n/a".
func FormatRate(bytes int64, elapsed time.Duration) string {
	if elapsed < time.Millisecond {
		return "n/a"
	}
	perSec := int64(float64(bytes) / elapsed.Seconds())
	return FormatBytes(perSec) + "/s"
}

// FormatJSON renders v as indented JSON for dry-run output. Continuation
// lines start with prefix.
func FormatJSON(v any, prefix string) (string, error) {
	b, err := json.MarshalIndent(v, prefix, "  ")
	if err != nil {
		return "", fmt.Errorf("encode %T: %w", v, err)
	}
	return string(b), nil
}
