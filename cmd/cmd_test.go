package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/ringside/internal/config"
	"github.com/zjrosen/ringside/internal/infrastructure/sqlite"
	"github.com/zjrosen/ringside/internal/presentation"
	"github.com/zjrosen/ringside/internal/registration"
	"github.com/zjrosen/ringside/internal/testutil"
)

// seededConfig returns a config pointing at a database file holding the
// shared three-dog scenario.
func seededConfig(t *testing.T) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ringside.db")
	db, err := sqlite.NewDB(path)
	require.NoError(t, err)
	testutil.NewBuilder(t, db.RegistrationRepository()).WithScenario().Build()
	require.NoError(t, db.Close())

	c := config.Defaults()
	c.DBPath = path
	return c
}

func emptyConfig(t *testing.T) config.Config {
	t.Helper()
	c := config.Defaults()
	c.DBPath = filepath.Join(t.TempDir(), "ringside.db")
	return c
}

func TestLoadConfig_WritesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "local", "config.yaml")
	user := filepath.Join(dir, "user", "config.yaml")

	c, used, err := loadConfig(viper.New(), "", []string{local, user})

	require.NoError(t, err)
	require.Equal(t, user, used)
	require.FileExists(t, user)
	require.NoFileExists(t, local)
	require.Equal(t, []string{"class"}, c.Grouping)
	require.Equal(t, "en", c.Locale)
	require.True(t, c.UI.ShowCounts)
	require.Equal(t, 5*time.Minute, c.Cache.TTL)
	require.Equal(t, config.DefaultDBPath(), c.DBPath)
}

func TestLoadConfig_FirstExistingCandidateWins(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "local.yaml")
	user := filepath.Join(dir, "user.yaml")
	require.NoError(t, os.WriteFile(local, []byte("grouping: [breed, class]\ncache:\n  ttl: 30s\nui:\n  start_collapsed: true\n"), 0o600))
	require.NoError(t, os.WriteFile(user, []byte("grouping: [fci_group]\n"), 0o600))

	c, used, err := loadConfig(viper.New(), "", []string{local, user})

	require.NoError(t, err)
	require.Equal(t, local, used)
	require.Equal(t, []string{"breed", "class"}, c.Grouping)
	require.Equal(t, 30*time.Second, c.Cache.TTL)
	require.True(t, c.UI.StartCollapsed)
	require.True(t, c.AutoRefresh, "unset keys keep their defaults")
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "unknown level", content: "grouping: [colour]\n", wantErr: "invalid configuration: grouping"},
		{name: "bad locale", content: "locale: \"not a tag!\"\n", wantErr: "locale"},
		{name: "negative ttl", content: "cache:\n  ttl: -1s\n", wantErr: "cache.ttl must not be negative"},
		{name: "malformed yaml", content: "grouping: [unclosed\n", wantErr: "reading config"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600), "case %d", i)

			_, _, err := loadConfig(viper.New(), path, nil)

			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfig_ExplicitFileMustExist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, _, err := loadConfig(viper.New(), path, []string{filepath.Join(t.TempDir(), "config.yaml")})

	require.ErrorContains(t, err, "reading config")
	require.NoFileExists(t, path)
}

func TestPrintTree(t *testing.T) {
	c := seededConfig(t)
	var buf bytes.Buffer

	require.NoError(t, printTree(context.Background(), &buf, c, treeOptions{}))

	want := strings.Join([]string{
		"▾ junior (1)",
		"└─ Max",
		"▾ open (2)",
		"├─ Rex",
		"└─ Luna",
	}, "\n") + "\n"
	require.Equal(t, want, buf.String())
}

func TestPrintTree_CollapsedWithGrouping(t *testing.T) {
	c := seededConfig(t)
	c.UI.ShowCounts = false
	var buf bytes.Buffer

	err := printTree(context.Background(), &buf, c, treeOptions{collapsed: true, grouping: []string{"fci_group", "breed"}})

	require.NoError(t, err)
	require.Equal(t, "▸ FCI 5\n▸ FCI 6\n", buf.String())
}

func TestPrintTree_JSON(t *testing.T) {
	c := seededConfig(t)
	var buf bytes.Buffer

	require.NoError(t, printTree(context.Background(), &buf, c, treeOptions{format: presentation.FormatJSON}))

	var nodes []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &nodes))
	require.Len(t, nodes, 2)
	require.Equal(t, "junior", nodes[0]["id"])
	require.Equal(t, "group", nodes[0]["kind"])
	require.EqualValues(t, 1, nodes[0]["count"])
	require.Equal(t, "open", nodes[1]["id"])
	require.EqualValues(t, 2, nodes[1]["count"])
}

func TestPrintTree_Errors(t *testing.T) {
	c := seededConfig(t)
	c.ShowID = "ghost"
	err := printTree(context.Background(), &bytes.Buffer{}, c, treeOptions{})
	var notFound *registration.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "ghost", notFound.ID)

	err = printTree(context.Background(), &bytes.Buffer{}, emptyConfig(t), treeOptions{})
	require.ErrorContains(t, err, "no shows in the database")

	err = printTree(context.Background(), &bytes.Buffer{}, seededConfig(t), treeOptions{grouping: []string{"colour"}})
	require.Error(t, err)
}

func TestListShows(t *testing.T) {
	c := seededConfig(t)
	var buf bytes.Buffer

	require.NoError(t, listShows(context.Background(), &buf, c, ""))

	out := buf.String()
	require.Contains(t, out, "NAME")
	require.Contains(t, out, testutil.ScenarioShow)
	require.Contains(t, out, "Spring Classic")
	require.Contains(t, out, "2026-04-12")
}

func TestListShows_JSONAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, listShows(context.Background(), &buf, seededConfig(t), presentation.FormatJSON))

	var shows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &shows))
	require.Len(t, shows, 1)
	require.Equal(t, testutil.ScenarioShow, shows[0]["id"])
	require.EqualValues(t, 3, shows[0]["registrations"])

	buf.Reset()
	require.NoError(t, listShows(context.Background(), &buf, emptyConfig(t), ""))
	require.Equal(t, "No shows\n", buf.String())
}

func TestImportFile(t *testing.T) {
	c := emptyConfig(t)
	file := filepath.Join(t.TempDir(), "autumn.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`shows:
  - id: autumn
    name: Autumn Open
    date: 2026-09-20
registrations:
  - id: a1
    dog: Ace
    class: veteran
    breed: Beagle
  - id: a2
    dog: Bo
    class: open
`), 0o600))
	var buf bytes.Buffer

	require.NoError(t, importFile(context.Background(), &buf, c, file))
	require.Equal(t, "Imported 2 registrations into 1 show\n", buf.String())

	buf.Reset()
	require.NoError(t, printTree(context.Background(), &buf, c, treeOptions{}))
	require.Equal(t, "▾ open (1)\n└─ Bo\n▾ veteran (1)\n└─ Ace\n", buf.String())
}

func TestImportFile_ReimportWithoutIDs(t *testing.T) {
	c := emptyConfig(t)
	file := filepath.Join(t.TempDir(), "winter.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`shows:
  - id: winter
    name: Winter Open
registrations:
  - dog: Ace
    class: open
  - dog: Bo
    class: junior
`), 0o600))

	require.NoError(t, importFile(context.Background(), &bytes.Buffer{}, c, file))
	require.NoError(t, importFile(context.Background(), &bytes.Buffer{}, c, file))

	var buf bytes.Buffer
	require.NoError(t, listShows(context.Background(), &buf, c, presentation.FormatJSON))
	var shows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &shows))
	require.Len(t, shows, 1)
	require.EqualValues(t, 2, shows[0]["registrations"])
}

func TestImportFile_Errors(t *testing.T) {
	c := emptyConfig(t)

	err := importFile(context.Background(), &bytes.Buffer{}, c, filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "opening import file")

	file := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("registrations:\n  - dog: Ace\n    colour: red\n"), 0o600))
	err = importFile(context.Background(), &bytes.Buffer{}, c, file)
	require.ErrorContains(t, err, "decoding import file")
}

func TestPrintTree_YAML(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, printTree(context.Background(), &buf, seededConfig(t), treeOptions{format: presentation.FormatYAML}))

	require.True(t, strings.HasPrefix(buf.String(), "- id: junior\n"), buf.String())
	require.Contains(t, buf.String(), "dog: Max")
}

func TestOutputFormat(t *testing.T) {
	for _, s := range []string{"", "text"} {
		f, err := outputFormat(s)
		require.NoError(t, err)
		require.Empty(t, f)
	}

	f, err := outputFormat("yaml")
	require.NoError(t, err)
	require.Equal(t, presentation.FormatYAML, f)

	_, err = outputFormat("csv")
	require.Error(t, err)
}

func TestPlural(t *testing.T) {
	require.Equal(t, "show", plural(1, "show", "shows"))
	require.Equal(t, "shows", plural(0, "show", "shows"))
	require.Equal(t, "shows", plural(2, "show", "shows"))
}
