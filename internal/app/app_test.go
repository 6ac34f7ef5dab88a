package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/ringside/internal/config"
	"github.com/zjrosen/ringside/internal/hierarchy"
	"github.com/zjrosen/ringside/internal/pubsub"
	"github.com/zjrosen/ringside/internal/registration"
	"github.com/zjrosen/ringside/internal/testutil"
	"github.com/zjrosen/ringside/internal/ui/toast"
	"github.com/zjrosen/ringside/internal/watcher"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	zone.NewGlobal()
	os.Exit(m.Run())
}

type fixture struct {
	repo registration.Repository
	svc  *registration.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := testutil.NewTestDB(t).RegistrationRepository()
	testutil.NewBuilder(t, repo).WithScenario().Build()
	svc, err := registration.NewService(repo, registration.ServiceOptions{
		Locale:   "en",
		CacheTTL: time.Minute,
	})
	require.NoError(t, err)
	return fixture{repo: repo, svc: svc}
}

// drain runs cmd and every command of a batch it yields, returning the
// messages in order. Commands still waiting after a second, such as toast
// timers, are dropped.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(time.Second):
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// step sends msg and feeds the resulting messages back into the model.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for _, out := range drain(cmd) {
		next, _ = m.Update(out)
		m = next.(Model)
	}
	return m
}

func loaded(t *testing.T, opts Options) Model {
	t.Helper()
	m := New(opts)
	next, _ := m.Update(m.load()())
	m = next.(Model)
	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func rowIDs(m Model) []string {
	var out []string
	for _, r := range m.Tree().Rows() {
		out = append(out, r.Node.ID)
	}
	return out
}

func TestApp_LoadsMostRecentShow(t *testing.T) {
	f := newFixture(t)

	m := loaded(t, Options{Source: f.svc, ShowCounts: true})

	require.Equal(t, testutil.ScenarioShow, m.showID)
	require.Equal(t, []string{"junior", "Max", "open", "Rex", "Luna"}, rowIDs(m))

	view := m.View()
	assert.Contains(t, view, "Spring Classic · 2026-04-12 · 3 dogs · grouped by class")
	assert.Contains(t, view, "▾ open (2)")
	assert.Contains(t, view, "├─ Rex Beagle")
	assert.Empty(t, m.status)
}

func TestApp_StartCollapsed(t *testing.T) {
	f := newFixture(t)

	m := loaded(t, Options{Source: f.svc, StartCollapsed: true})
	require.Equal(t, []string{"junior", "open"}, rowIDs(m))

	m = step(t, m, runes("r"))
	require.Equal(t, []string{"junior", "open"}, rowIDs(m), "a reload keeps the collapsed groups")
}

func TestApp_UnknownShow(t *testing.T) {
	f := newFixture(t)

	m := loaded(t, Options{Source: f.svc, ShowID: "ghost"})

	require.Equal(t, "show not found: ghost", m.status)
	require.Contains(t, m.View(), "show not found: ghost")
}

func TestApp_NoShows(t *testing.T) {
	repo := testutil.NewTestDB(t).RegistrationRepository()
	svc, err := registration.NewService(repo, registration.ServiceOptions{})
	require.NoError(t, err)

	m := loaded(t, Options{Source: svc})

	require.True(t, m.loaded)
	require.Contains(t, m.View(), "No registrations")
}

func TestApp_LoadingBeforeFirstResult(t *testing.T) {
	f := newFixture(t)
	m := New(Options{Source: f.svc})

	require.Contains(t, m.View(), "Loading...")
}

func TestApp_RefreshReadsThroughCache(t *testing.T) {
	f := newFixture(t)
	m := loaded(t, Options{Source: f.svc, ShowID: testutil.ScenarioShow})

	err := f.repo.Save(context.Background(), registration.Registration{
		ID: "r9", ShowID: testutil.ScenarioShow, DogID: "Ace", DogName: "Ace",
		DogClass: "veteran", RegisteredAt: testutil.BaseTime,
	})
	require.NoError(t, err)

	m = step(t, m, runes("r"))

	require.Equal(t, 4, m.Tree().Navigator().Count())
	require.Contains(t, m.View(), "4 dogs")
}

func TestApp_DBChangedEventReloads(t *testing.T) {
	f := newFixture(t)
	m := loaded(t, Options{Source: f.svc})
	require.NoError(t, f.repo.Delete(context.Background(), "r3"))

	m = step(t, m, pubsub.Event[watcher.WatcherEvent]{
		Type:    pubsub.ChangedEvent,
		Payload: watcher.WatcherEvent{Kind: watcher.DBChanged},
	})

	require.Equal(t, []string{"open", "Rex", "Luna"}, rowIDs(m))
}

func TestApp_WatcherErrorShowsStatus(t *testing.T) {
	f := newFixture(t)
	m := loaded(t, Options{Source: f.svc})

	m = step(t, m, pubsub.Event[watcher.WatcherEvent]{
		Type:    pubsub.FailedEvent,
		Payload: watcher.WatcherEvent{Kind: watcher.WatcherError, Err: errors.New("too many open files")},
	})

	require.Equal(t, "watching database: too many open files", m.status)
	require.Len(t, rowIDs(m), 5)
}

func TestApp_CycleGroupingSavesConfig(t *testing.T) {
	f := newFixture(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(configPath))
	m := loaded(t, Options{Source: f.svc, ConfigPath: configPath})

	m = step(t, m, runes("o"))

	require.Equal(t, []string{"breed", "class"}, f.svc.Grouping())
	require.Equal(t, []string{"Basenji", "Basenji/open", "Luna", "Beagle", "Beagle/junior", "Max", "Beagle/open", "Rex"}, rowIDs(m))
	require.Contains(t, m.View(), "grouped by breed, class")
	require.Contains(t, m.View(), "✓ Grouping saved")
	require.Empty(t, m.status)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "- breed\n")
	require.Contains(t, string(data), "- class\n")
}

func TestApp_CycleGroupingSaveFailureShowsStatus(t *testing.T) {
	f := newFixture(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("grouping: [unclosed\n"), 0o600))
	m := loaded(t, Options{Source: f.svc, ConfigPath: configPath})

	m = step(t, m, runes("o"))

	require.Contains(t, m.toast.Message(), "saving grouping")
	require.Equal(t, toast.KindError, m.toast.Kind())
	require.Empty(t, m.status)
	require.Equal(t, []string{"breed", "class"}, f.svc.Grouping(), "the view keeps the new grouping")
}

func TestApp_ToastDismissed(t *testing.T) {
	f := newFixture(t)
	m := loaded(t, Options{Source: f.svc})

	m = step(t, m, groupingSavedMsg{})
	require.True(t, m.toast.Visible())

	_, cmd := m.toast.Show("ignored", toast.KindInfo, time.Millisecond)
	m = step(t, m, cmd())
	require.True(t, m.toast.Visible(), "a dismissal for another toast is ignored")
	require.Equal(t, "Grouping saved", m.toast.Message())
}

func TestApp_HelpToggle(t *testing.T) {
	f := newFixture(t)
	m := loaded(t, Options{Source: f.svc})
	require.NotContains(t, m.View(), "collapse all")

	m = step(t, m, runes("?"))

	require.True(t, m.help.ShowAll)
	require.Contains(t, m.View(), "collapse all")
	require.Contains(t, m.View(), "cycle grouping")
}

func TestApp_KeysReachTree(t *testing.T) {
	f := newFixture(t)
	m := loaded(t, Options{Source: f.svc})

	m = step(t, m, runes("C"))

	require.Equal(t, []string{"junior", "open"}, rowIDs(m))
}

func TestApp_Quit(t *testing.T) {
	f := newFixture(t)
	m := loaded(t, Options{Source: f.svc})

	_, cmd := m.Update(runes("q"))

	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestLeafDetail(t *testing.T) {
	leaf := func(reg registration.Registration) *hierarchy.Node {
		return &hierarchy.Node{Kind: hierarchy.KindLeaf, Payload: reg}
	}

	require.Equal(t, "#12 · Beagle", leafDetail(leaf(registration.Registration{CatalogNumber: "12", Breed: "Beagle"})))
	require.Equal(t, "Beagle", leafDetail(leaf(registration.Registration{Breed: "Beagle"})))
	require.Equal(t, "#3", leafDetail(leaf(registration.Registration{CatalogNumber: "3"})))
	require.Empty(t, leafDetail(&hierarchy.Node{Kind: hierarchy.KindGroup, Payload: hierarchy.GroupKey{Level: "class"}}))
}

func TestProgram_WatcherRefresh(t *testing.T) {
	f := newFixture(t)
	broker := pubsub.NewBroker[watcher.WatcherEvent]()
	t.Cleanup(broker.Close)

	m := New(Options{Source: f.svc, Changes: broker, ShowCounts: true})
	t.Cleanup(func() { _ = m.Close() })
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("3 dogs"))
	}, teatest.WithDuration(3*time.Second))

	require.NoError(t, f.repo.Save(context.Background(), registration.Registration{
		ID: "r9", ShowID: testutil.ScenarioShow, DogID: "Ace", DogName: "Ace",
		DogClass: "veteran", RegisteredAt: testutil.BaseTime,
	}))
	require.Eventually(t, func() bool {
		return broker.SubscriberCount() > 0
	}, time.Second, 10*time.Millisecond)
	broker.Publish(pubsub.ChangedEvent, watcher.WatcherEvent{Kind: watcher.DBChanged})

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("4 dogs"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(runes("q"))
	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	require.Contains(t, final.View(), "veteran (1)")
}
