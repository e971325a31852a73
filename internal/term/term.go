// Package term holds the ANSI color state shared by the logger and the
// banner. [Configure] runs once at startup; with colors off every color
// variable is the empty string and [Wrap] returns its input unchanged.
package term

import (
	"os"
	"strings"

	"github.com/wara-ops/dataportal/internal/config"
)

// ANSI sequences, empty when colors are off.
var (
	Red    = ""
	Green  = ""
	Yellow = ""
	Blue   = ""
	Cyan   = ""
	Bold   = ""
	NC     = "" // Reset.
)

// Configure switches colors on or off for mode. NewLogger calls it.
func Configure(mode config.ColorMode) {
	set(resolve(mode, os.Getenv))
}

func set(on bool) {
	if !on {
		Red, Green, Yellow, Blue, Cyan, Bold, NC = "", "", "", "", "", "", ""
		return
	}
	Red = "\033[1;91m"
	Green = "\033[1;92m"
	Yellow = "\033[1;93m"
	Blue = "\033[1;94m"
	Cyan = "\033[1;96m"
	Bold = "\033[1m"
	NC = "\033[0m"
}

// Enabled reports whether colors are on.
func Enabled() bool { return NC != "" }

// Wrap surrounds s with color and a reset. It returns s as is when colors
// are off or color is empty.
func Wrap(color, s string) string {
	if color == "" || NC == "" {
		return s
	}
	return color + s + NC
}

// resolve applies the mode. Auto means stdout is a TTY, NO_COLOR is unset
// (https://no-color.org) and TERM is not "dumb".
func resolve(mode config.ColorMode, getenv func(string) string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return IsTerminal(os.Stdout) &&
		getenv("NO_COLOR") == "" &&
		!strings.EqualFold(getenv("TERM"), "dumb")
}

// IsTerminal reports whether f is a character device.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
