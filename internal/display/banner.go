package display

import (
	"fmt"
	"io"

	"github.com/wara-ops/dataportal/internal/term"
)

// PrintBanner writes the one-line program banner, bold when colors are on.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprintln(w, term.Wrap(term.Bold, "== dataportal v"+version+" =="))
}
