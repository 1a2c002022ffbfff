package cli

import (
	"embed"
	"io/fs"

	"github.com/arthur-debert/dotty/pkg/cobrax/topics"
	"github.com/arthur-debert/dotty/pkg/style"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// helpRenderer picks the glamour style when a topic is shown, since help
// runs without loading configuration
type helpRenderer struct{}

func (helpRenderer) Render(content, format string) string {
	return topics.NewGlamourRenderer(style.AutoColor()).Render(content, format)
}

// initHelpTopics replaces the help command with one that also serves the
// embedded topics
func initHelpTopics(rootCmd *cobra.Command) error {
	source, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		return err
	}
	_, err = topics.InitializeWithOptions(rootCmd, source, topics.Options{
		Extensions: []string{".md"},
		Renderer:   helpRenderer{},
	})
	return err
}
