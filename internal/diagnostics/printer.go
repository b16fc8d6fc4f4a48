package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorRed   = "\x1b[31m"
	colorReset = "\x1b[0m"
)

// Print writes one diagnostic per line to w. Output is colorized when w is
// an *os.File attached to a terminal.
func Print(w io.Writer, errs []*Error) {
	colorize := false
	if f, ok := w.(*os.File); ok {
		colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	for _, err := range errs {
		if colorize {
			fmt.Fprintf(w, "%s%s%s\n", colorRed, err.Error(), colorReset)
		} else {
			fmt.Fprintf(w, "%s\n", err.Error())
		}
	}
}
