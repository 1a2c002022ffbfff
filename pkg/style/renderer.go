package style

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// nameColumn is the width of the repository name column in list output
const nameColumn = 20

// RepositoryLine is one row of the repository list
type RepositoryLine struct {
	Name     string
	URL      string
	Target   bool
	Changes  int
	Unpushed bool
}

// RenderRepositoryList renders the repositories of a profile
func RenderRepositoryList(profile string, lines []RepositoryLine) string {
	var result strings.Builder
	result.WriteString(InfoStyle.Render(fmt.Sprintf("Installed dotty repositories for profile '%s'", profile)))
	result.WriteString("\n\n")

	if len(lines) == 0 {
		result.WriteString(WarningStyle.Render("No repositories here. Use 'create', 'add' or 'import_repos' to get going."))
		return result.String()
	}

	nameStyle := RepositoryStyle.Width(nameColumn).PaddingLeft(2)
	for _, line := range lines {
		name := line.Name
		if line.Target {
			name = "* " + name
		}
		row := LinkStyle.Render(line.URL)
		if line.Changes > 0 {
			row += ErrorStyle.Render(fmt.Sprintf(" [%d uncommitted changes]", line.Changes))
		}
		if line.Unpushed {
			row += ErrorStyle.Render(" [unpushed commits]")
		}
		result.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, nameStyle.Render(name), row))
		result.WriteString("\n")
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderProfiles lists profile names, marking the active one with "* "
func RenderProfiles(names []string, current string) string {
	var result strings.Builder
	result.WriteString(TitleStyle.Render("DOTTY PROFILES"))
	result.WriteString("\n")

	for _, name := range names {
		if name == current {
			result.WriteString("  " + SuccessStyle.Render("* "+name))
		} else {
			result.WriteString("  " + NormalStyle.Render(name))
		}
		result.WriteString("\n")
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderNotice renders secondary information such as an unset value
func RenderNotice(message string) string {
	return MutedStyle.Render(message)
}

// RenderPath renders a filesystem path
func RenderPath(path string) string {
	return PathStyle.Render(path)
}

// RenderHook renders a hook invocation
func RenderHook(file, arg string) string {
	return HookStyle.Render(file) + " " + arg
}

// RenderCurrentProfile renders the "profile" command output
func RenderCurrentProfile(name string) string {
	return "Current dotty profile: " + ProfileStyle.Render(name)
}
