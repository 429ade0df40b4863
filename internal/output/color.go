package output

import (
	"io"
	"os"

	"golang.org/x/term"

	"logtriage/internal/incident"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shouldColorize determines if output should be colorized based on mode
// and TTY detection.
func shouldColorize(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
	return false
}

// colorizeSeverity colors a severity label for terminal display.
func colorizeSeverity(s incident.Severity, colorize bool) string {
	text := s.String()
	if !colorize {
		return text
	}

	switch s {
	case incident.SeverityLow:
		return colorGray + text + colorReset
	case incident.SeverityMedium:
		return colorYellow + text + colorReset
	case incident.SeverityHigh:
		return colorRed + text + colorReset
	case incident.SeverityCritical:
		return colorBold + colorRed + text + colorReset
	default:
		return text
	}
}

// ColorizeLine applies severity color to an entire line. Used by the
// watch command for live matches.
func ColorizeLine(s incident.Severity, line string, colorize bool) string {
	if !colorize {
		return line
	}

	switch s {
	case incident.SeverityMedium:
		return colorYellow + line + colorReset
	case incident.SeverityHigh:
		return colorRed + line + colorReset
	case incident.SeverityCritical:
		return colorBold + colorRed + line + colorReset
	default:
		return line
	}
}

// ShouldColorize is the exported form for callers outside the package.
func ShouldColorize(mode ColorMode, w io.Writer) bool {
	return shouldColorize(mode, w)
}
