package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layout.md":       {Data: []byte("# Layout\n\nRepository layout")},
		"option-force.md": {Data: []byte("Replaces conflicting files")},
		"notes.txt":       {Data: []byte("plain notes")},
		"nested/hooks.md": {Data: []byte("# Hooks")},
		"ignore.json":     {Data: []byte("{}")},
	}
}

func TestScanTopics(t *testing.T) {
	t.Run("default extensions", func(t *testing.T) {
		tm := New(testFS())
		require.NoError(t, tm.scanTopics())

		assert.Equal(t, []string{"hooks", "layout", "notes", "option-force"}, tm.ListTopics())

		topic, ok := tm.GetTopic("layout")
		require.True(t, ok)
		assert.Equal(t, "# Layout\n\nRepository layout", topic.Content)
		assert.Equal(t, "layout.md", topic.FilePath)

		_, ok = tm.GetTopic("ignore")
		assert.False(t, ok)
	})

	t.Run("custom extensions", func(t *testing.T) {
		tm := NewWithOptions(testFS(), Options{Extensions: []string{".json"}})
		require.NoError(t, tm.scanTopics())
		assert.Equal(t, []string{"ignore"}, tm.ListTopics())
	})
}

func TestGetTopicFlagStyle(t *testing.T) {
	tm := New(testFS())
	require.NoError(t, tm.scanTopics())

	for _, name := range []string{"force", "--force", "-force", "option-force"} {
		topic, ok := tm.GetTopic(name)
		require.True(t, ok, name)
		assert.Equal(t, "option-force", topic.Name)
	}
}

func TestPlainRenderer(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "# Title", r.Render("# Title", ".md"))
}

func TestGlamourRenderer(t *testing.T) {
	r := NewGlamourRenderer(false)
	assert.Equal(t, "notty", r.Style)

	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))

	rendered := r.Render("# Layout\n\nSome *text*", ".md")
	assert.Contains(t, rendered, "Layout")
	assert.Contains(t, rendered, "text")
}

func newApp(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	root := &cobra.Command{Use: "app"}
	root.AddCommand(&cobra.Command{Use: "sub", Short: "A subcommand", Run: func(*cobra.Command, []string) {}})

	_, err := Initialize(root, testFS())
	require.NoError(t, err)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	return root, &out
}

func TestHelpCommand(t *testing.T) {
	t.Run("topic", func(t *testing.T) {
		root, out := newApp(t)
		root.SetArgs([]string{"help", "notes"})
		require.NoError(t, root.Execute())
		assert.Equal(t, "plain notes", out.String())
	})

	t.Run("topic list", func(t *testing.T) {
		root, out := newApp(t)
		root.SetArgs([]string{"help", "topics"})
		require.NoError(t, root.Execute())

		assert.Contains(t, out.String(), "General topics:\n  hooks\n  layout\n  notes\n")
		assert.Contains(t, out.String(), "Option topics:\n  --force\n")
		assert.Contains(t, out.String(), "Use 'app help <topic>'")
	})

	t.Run("option topic", func(t *testing.T) {
		root, out := newApp(t)
		root.SetArgs([]string{"help", "--force"})
		require.NoError(t, root.Execute())
		assert.Equal(t, "Replaces conflicting files", out.String())
	})

	t.Run("command fallback", func(t *testing.T) {
		root, out := newApp(t)
		root.SetArgs([]string{"help", "sub"})
		require.NoError(t, root.Execute())
		assert.Contains(t, out.String(), "A subcommand")
	})
}
