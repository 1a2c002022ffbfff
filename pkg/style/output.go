package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Color modes accepted by the output.color setting
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ConfigureColor applies mode to lipgloss and pterm. In auto mode colors
// are used only when stdout is a terminal and NO_COLOR is unset.
func ConfigureColor(mode string) bool {
	enabled := colorEnabled(mode, os.Stdout)

	if enabled {
		profile := termenv.NewOutput(os.Stdout).EnvColorProfile()
		if profile == termenv.Ascii {
			profile = termenv.ANSI
		}
		lipgloss.SetColorProfile(profile)
		pterm.EnableStyling()
		return true
	}

	lipgloss.SetColorProfile(termenv.Ascii)
	pterm.DisableStyling()
	return false
}

func colorEnabled(mode string, f *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if termenv.EnvNoColor() {
			return false
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
}

// AutoColor reports whether stdout gets colors in auto mode
func AutoColor() bool {
	return colorEnabled(ColorAuto, os.Stdout)
}
