package style

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pterm/pterm"
)

// Verb is the action column of a status line
type Verb string

const (
	VerbCreate    Verb = "create"
	VerbIdentical Verb = "identical"
	VerbConflict  Verb = "conflict"
	VerbForce     Verb = "force"
	VerbRemove    Verb = "remove"
	VerbSkip      Verb = "skip"
	VerbRun       Verb = "run"
	VerbClone     Verb = "clone"
	VerbUpdate    Verb = "update"
	VerbMove      Verb = "move"
	VerbError     Verb = "error"
)

// verbWidth right-aligns verbs in a fixed column
const verbWidth = 12

// VerbStyle returns the pterm style for a verb
func VerbStyle(verb Verb) *pterm.Style {
	switch verb {
	case VerbCreate, VerbClone, VerbMove:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case VerbIdentical, VerbSkip:
		return pterm.NewStyle(pterm.FgBlue, pterm.Bold)
	case VerbConflict, VerbForce:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	case VerbRemove, VerbError:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case VerbRun, VerbUpdate:
		return pterm.NewStyle(pterm.FgCyan, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// RenderStatus formats a single "<verb>  <message>" line. A message that
// is a bare absolute path is rendered as a path.
func RenderStatus(verb Verb, message string) string {
	padded := fmt.Sprintf("%*s", verbWidth, string(verb))
	if filepath.IsAbs(message) && !strings.ContainsRune(message, ' ') {
		message = RenderPath(message)
	}
	return VerbStyle(verb).Sprint(padded) + "  " + message
}

// Reporter prints status lines for user-visible progress
type Reporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewReporter creates a reporter writing to out
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Status prints one status line
func (r *Reporter) Status(verb Verb, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.out, RenderStatus(verb, strings.TrimRight(message, "\n")))
}

// Statusf prints one formatted status line
func (r *Reporter) Statusf(verb Verb, format string, args ...interface{}) {
	r.Status(verb, fmt.Sprintf(format, args...))
}
