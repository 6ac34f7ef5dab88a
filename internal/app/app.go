// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/ringside/internal/config"
	"github.com/zjrosen/ringside/internal/hierarchy"
	"github.com/zjrosen/ringside/internal/keys"
	"github.com/zjrosen/ringside/internal/log"
	"github.com/zjrosen/ringside/internal/pubsub"
	"github.com/zjrosen/ringside/internal/registration"
	"github.com/zjrosen/ringside/internal/ui/styles"
	"github.com/zjrosen/ringside/internal/ui/toast"
	"github.com/zjrosen/ringside/internal/ui/tree"
	"github.com/zjrosen/ringside/internal/watcher"
)

// Source loads shows and registration trees. *registration.Service
// implements it.
type Source interface {
	Shows(ctx context.Context) ([]registration.Show, error)
	Tree(ctx context.Context, showID string) ([]*hierarchy.Node, error)
	Invalidate(ctx context.Context, showIDs ...string) error
	Grouping() []string
	SetGrouping(names []string) error
}

// Options configures the application model.
type Options struct {
	Source Source
	// ShowID selects the show. Empty picks the most recent one.
	ShowID string
	// ConfigPath receives grouping changes. Empty disables saving.
	ConfigPath string
	// Changes delivers database change notifications. Nil disables
	// auto-refresh.
	Changes        pubsub.Subscriber[watcher.WatcherEvent]
	ShowCounts     bool
	StartCollapsed bool
}

// treeLoadedMsg carries the result of a load.
type treeLoadedMsg struct {
	show  registration.Show
	roots []*hierarchy.Node
	err   error
}

// groupingSavedMsg reports the result of writing the grouping to disk.
type groupingSavedMsg struct {
	err error
}

// Model is the root application state.
type Model struct {
	source     Source
	showID     string
	configPath string

	show   registration.Show
	tree   tree.Model
	help   help.Model
	toast  toast.Model
	loaded bool
	status string // Last error, shown above the help line

	startCollapsed bool

	width  int
	height int

	// Database change notifications (pubsub-based)
	watcherCtx      context.Context
	watcherCancel   context.CancelFunc
	watcherListener *pubsub.ContinuousListener[watcher.WatcherEvent]
}

// New creates the application model.
func New(opts Options) Model {
	m := Model{
		source:         opts.Source,
		showID:         opts.ShowID,
		configPath:     opts.ConfigPath,
		help:           help.New(),
		toast:          toast.New(),
		startCollapsed: opts.StartCollapsed,
		tree: tree.New(nil,
			tree.WithCounts(opts.ShowCounts),
			tree.WithDetail(leafDetail),
		),
	}
	if opts.Changes != nil {
		m.watcherCtx, m.watcherCancel = context.WithCancel(context.Background())
		m.watcherListener = pubsub.NewContinuousListener(m.watcherCtx, opts.Changes)
	}
	return m
}

// leafDetail shows the catalog number and breed after a dog's name.
func leafDetail(n *hierarchy.Node) string {
	reg, ok := n.Payload.(registration.Registration)
	if !ok {
		return ""
	}
	var parts []string
	if reg.CatalogNumber != "" {
		parts = append(parts, "#"+reg.CatalogNumber)
	}
	if reg.Breed != "" {
		parts = append(parts, reg.Breed)
	}
	return strings.Join(parts, " · ")
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.load()}
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	return tea.Batch(cmds...)
}

// load resolves the show and builds its tree off the Update loop.
func (m Model) load() tea.Cmd {
	source, showID := m.source, m.showID
	return func() tea.Msg {
		ctx := context.Background()
		shows, err := source.Shows(ctx)
		if err != nil {
			return treeLoadedMsg{err: err}
		}
		show, ok := pickShow(shows, showID)
		if !ok {
			if showID == "" {
				return treeLoadedMsg{}
			}
			return treeLoadedMsg{err: &registration.NotFoundError{Kind: "show", ID: showID}}
		}
		roots, err := source.Tree(ctx, show.ID)
		return treeLoadedMsg{show: show, roots: roots, err: err}
	}
}

// pickShow returns the show with id, or the first (most recent) show when id
// is empty.
func pickShow(shows []registration.Show, id string) (registration.Show, bool) {
	if id == "" {
		if len(shows) == 0 {
			return registration.Show{}, false
		}
		return shows[0], true
	}
	for _, s := range shows {
		if s.ID == id {
			return s, true
		}
	}
	return registration.Show{}, false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.tree = m.tree.SetSize(msg.Width, m.treeHeight())
		return m, nil

	case treeLoadedMsg:
		return m.handleLoaded(msg), nil

	case groupingSavedMsg:
		var cmd tea.Cmd
		if msg.err != nil {
			log.ErrorErr(log.CatConfig, "Failed to save grouping", msg.err, "path", m.configPath)
			m.toast, cmd = m.toast.Show(fmt.Sprintf("saving grouping: %v", msg.err), toast.KindError, toast.DefaultDuration)
		} else {
			m.toast, cmd = m.toast.Show("Grouping saved", toast.KindSuccess, toast.DefaultDuration)
		}
		return m, cmd

	case toast.DismissMsg:
		m.toast = m.toast.Update(msg)
		return m, nil

	case pubsub.Event[watcher.WatcherEvent]:
		return m.handleWatcherEvent(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Tree.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Tree.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.tree = m.tree.SetSize(m.width, m.treeHeight())
			return m, nil
		case key.Matches(msg, keys.Tree.Refresh):
			return m, m.refresh()
		case key.Matches(msg, keys.Tree.Grouping):
			return m.cycleGrouping()
		}
	}

	var cmd tea.Cmd
	m.tree, cmd = m.tree.Update(msg)
	return m, cmd
}

func (m Model) handleLoaded(msg treeLoadedMsg) Model {
	if msg.err != nil {
		log.ErrorErr(log.CatUI, "Failed to load tree", msg.err, "show", m.showID)
		m.status = msg.err.Error()
		return m
	}
	m.status = ""
	m.show = msg.show
	if m.showID == "" {
		m.showID = msg.show.ID
	}
	first := !m.loaded
	m.loaded = true
	m.tree = m.tree.SetRoots(msg.roots)
	if first && m.startCollapsed {
		m.tree = m.tree.CollapseAll()
	}
	log.Debug(log.CatUI, "Tree loaded", "show", m.show.ID, "dogs", m.tree.Navigator().Count())
	return m
}

func (m Model) handleWatcherEvent(msg pubsub.Event[watcher.WatcherEvent]) (tea.Model, tea.Cmd) {
	var listen tea.Cmd
	if m.watcherListener != nil {
		listen = m.watcherListener.Listen()
	}
	switch msg.Payload.Kind {
	case watcher.DBChanged:
		log.Debug(log.CatWatcher, "Database changed, reloading", "show", m.showID)
		return m, tea.Batch(m.refresh(), listen)
	case watcher.WatcherError:
		log.Warn(log.CatWatcher, "Watcher error received", "error", msg.Payload.Err)
		if msg.Payload.Err != nil {
			m.status = fmt.Sprintf("watching database: %v", msg.Payload.Err)
		}
	}
	return m, listen
}

// refresh drops the cached registrations of the current show and reloads.
func (m Model) refresh() tea.Cmd {
	ctx := context.Background()
	var err error
	if m.showID == "" {
		err = m.source.Invalidate(ctx)
	} else {
		err = m.source.Invalidate(ctx, m.showID)
	}
	if err != nil {
		log.Warn(log.CatCache, "Failed to invalidate registrations", "show", m.showID, "error", err)
	}
	return m.load()
}

// cycleGrouping switches to the next grouping preset, reloads the tree and
// saves the choice.
func (m Model) cycleGrouping() (tea.Model, tea.Cmd) {
	next := registration.NextGrouping(m.source.Grouping())
	if err := m.source.SetGrouping(next); err != nil {
		m.status = err.Error()
		return m, nil
	}
	log.Info(log.CatUI, "Grouping changed", "grouping", strings.Join(next, ","))
	cmds := []tea.Cmd{m.load()}
	if m.configPath != "" {
		path := m.configPath
		cmds = append(cmds, func() tea.Msg {
			return groupingSavedMsg{err: config.SaveGrouping(path, next)}
		})
	}
	return m, tea.Batch(cmds...)
}

// treeHeight is the height left for the tree below the header and above the
// status and help lines.
func (m Model) treeHeight() int {
	helpLines := 1
	if m.help.ShowAll {
		for _, col := range keys.Tree.FullHelp() {
			helpLines = max(helpLines, len(col))
		}
	}
	// header, blank line, status line
	return max(m.height-3-helpLines, 1)
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.header())
	sb.WriteString("\n\n")

	if !m.loaded && m.status == "" {
		sb.WriteString(styles.MutedStyle.Render("Loading..."))
	} else {
		sb.WriteString(m.tree.View())
	}
	sb.WriteString("\n")

	if m.status != "" {
		sb.WriteString(styles.ErrorStyle.Render(m.status))
	}
	sb.WriteString("\n")
	sb.WriteString(m.help.View(keys.Tree))

	view := zone.Scan(sb.String())
	if m.width > 0 && m.height > 0 {
		view = m.toast.Overlay(view, m.width, m.height)
	}
	return view
}

// header renders "Show name · N dogs · grouped by a, b".
func (m Model) header() string {
	name := m.show.Name
	if name == "" {
		name = "ringside"
	}
	parts := []string{styles.HeaderStyle.Render(name)}
	if !m.show.Date.IsZero() {
		parts = append(parts, styles.MutedStyle.Render(m.show.Date.Format("2006-01-02")))
	}
	if m.loaded {
		dogs := m.tree.Navigator().Count()
		noun := "dogs"
		if dogs == 1 {
			noun = "dog"
		}
		parts = append(parts, styles.MutedStyle.Render(fmt.Sprintf("%d %s", dogs, noun)))
	}
	parts = append(parts, styles.MutedStyle.Render("grouped by "+strings.Join(m.source.Grouping(), ", ")))
	return strings.Join(parts, styles.MutedStyle.Render(" · "))
}

// Tree returns the tree view.
func (m Model) Tree() tree.Model {
	return m.tree
}

// Close releases the watcher subscription.
func (m Model) Close() error {
	if m.watcherCancel != nil {
		m.watcherCancel()
	}
	return nil
}
