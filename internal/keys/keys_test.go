package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

var _ help.KeyMap = TreeKeyMap{}

func TestTree_KeyAssignments(t *testing.T) {
	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{"Up uses k and up", Tree.Up, []string{"k", "up"}},
		{"Down uses j and down", Tree.Down, []string{"j", "down"}},
		{"Expand uses l and right", Tree.Expand, []string{"l", "right"}},
		{"Collapse uses h and left", Tree.Collapse, []string{"h", "left"}},
		{"Toggle uses enter and space", Tree.Toggle, []string{"enter", " "}},
		{"ExpandAll uses E", Tree.ExpandAll, []string{"E"}},
		{"CollapseAll uses C", Tree.CollapseAll, []string{"C"}},
		{"Focus uses f", Tree.Focus, []string{"f"}},
		{"Refresh uses r", Tree.Refresh, []string{"r"}},
		{"Quit uses q and ctrl+c", Tree.Quit, []string{"q", "ctrl+c"}},
		{"Help uses ?", Tree.Help, []string{"?"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestTree_NoDuplicateKeys(t *testing.T) {
	seen := map[string]string{}
	for _, column := range Tree.FullHelp() {
		for _, b := range column {
			for _, k := range b.Keys() {
				prev, dup := seen[k]
				require.False(t, dup, "key %q bound to both %q and %q", k, prev, b.Help().Desc)
				seen[k] = b.Help().Desc
			}
		}
	}
}

func TestTree_HelpTextPresent(t *testing.T) {
	for _, b := range Tree.ShortHelp() {
		require.NotEmpty(t, b.Help().Key)
		require.NotEmpty(t, b.Help().Desc)
	}
}
