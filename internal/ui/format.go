package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"commitnotes/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"
)

var (
	// Check if output supports colors
	supportsColor = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	// Color functions
	ColorSuccess = colorFunc("green")
	ColorError   = colorFunc("red")
	ColorWarning = colorFunc("yellow")
	ColorInfo    = colorFunc("cyan")
	ColorBold    = colorFunc("default+b")
	ColorDim     = colorFunc("default+h")
)

// colorFunc returns a function that colors text if supported
func colorFunc(color string) func(string) string {
	return func(text string) string {
		if supportsColor {
			return ansi.Color(text, color)
		}
		return text
	}
}

// SetColor forces colored output on or off
func SetColor(enabled bool) {
	supportsColor = enabled
}

// ShowError displays a formatted error message. With verbose set the captured
// stack of an AppError is printed as well.
func ShowError(w io.Writer, err error, verbose bool) {
	fmt.Fprintf(w, "%s\n", ColorError("ERROR:"))

	lines := strings.Split(err.Error(), "\n")
	for i, line := range lines {
		if i == 0 {
			fmt.Fprintf(w, "  %s\n", line)
		} else {
			fmt.Fprintf(w, "  %s\n", ColorDim(line))
		}
	}

	var appErr *errors.AppError
	if !verbose || !stderrors.As(err, &appErr) {
		return
	}
	if len(appErr.Context) > 0 {
		fmt.Fprintf(w, "\n  %s\n", ColorInfo("Context:"))
		for key, value := range appErr.Context {
			fmt.Fprintf(w, "    %s=%v\n", key, value)
		}
	}
	if appErr.Stack != "" {
		fmt.Fprintf(w, "\n  %s\n", ColorInfo("Stack:"))
		for _, frame := range strings.Split(strings.TrimSpace(appErr.Stack), "\n") {
			fmt.Fprintf(w, "    %s\n", ColorDim(frame))
		}
	}
}

// ShowSuccess displays a success message
func ShowSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", ColorSuccess("SUCCESS:"), message)
}

// ShowWarning displays a warning message
func ShowWarning(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", ColorWarning("WARNING:"), ColorWarning(message))
}

// ShowInfo displays an info message
func ShowInfo(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", ColorInfo("INFO:"), message)
}
