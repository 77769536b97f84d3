// Package tui implements the interactive player. The Bubble Tea update loop
// is the single serialization point: key presses, poll ticks and background
// command results are applied in arrival order against one model, so no
// mutex guards any of the UI state.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"strum/internal/config"
	"strum/internal/core"
	strumerrors "strum/internal/errors"
	"strum/internal/logging"
	"strum/internal/spotify/auth"
	"strum/internal/spotify/client"
	"strum/internal/spotify/player"
	"strum/internal/tui/components"
)

// Pane identifies the focus target for navigation keys.
type Pane int

const (
	PanePlaylists Pane = iota
	PaneTracks
	PaneSearch
)

// playbackController is the slice of the player the UI drives.
type playbackController interface {
	Play(ctx context.Context) error
	PlayURI(ctx context.Context, uri string) error
	PlayContext(ctx context.Context, contextURI string, offset int) error
	Pause(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Snapshot(ctx context.Context) (core.Snapshot, error)
	GetQueue(ctx context.Context) (*core.Queue, error)
	AddToQueue(ctx context.Context, trackURI string) error
}

// libraryService is the slice of the API client the UI browses with.
type libraryService interface {
	GetAllPlaylists(ctx context.Context) ([]client.Playlist, error)
	GetPlaylistTracks(ctx context.Context, playlistID string, limit, offset int) ([]client.Track, int, error)
	Search(ctx context.Context, opts client.SearchOptions) (*client.SearchResponse, error)
}

// App holds the long-lived dependencies behind the model.
type App struct {
	client      libraryService
	player      playbackController
	refreshRate time.Duration
	logger      *log.Logger
}

// NewApp wires the real Spotify client and player from config.
func NewApp(cfg *config.Config, logger *log.Logger) (*App, error) {
	storage, err := auth.NewStorage("")
	if err != nil {
		return nil, err
	}

	authCfg := auth.NewConfig(cfg.Spotify.ClientID)
	authCfg.ClientSecret = cfg.Spotify.ClientSecret
	if cfg.Spotify.RedirectURI != "" {
		authCfg.RedirectURI = cfg.Spotify.RedirectURI
	}

	spotifyClient := client.New(authCfg, storage, client.WithLogger(logger))
	if err := spotifyClient.LoadToken(); err != nil {
		return nil, err
	}
	if !spotifyClient.HasToken() {
		return nil, strumerrors.WithSuggestion(
			strumerrors.ErrUnauthorized,
			"Run 'strum auth login' to authenticate",
		)
	}

	return &App{
		client:      spotifyClient,
		player:      player.New(spotifyClient),
		refreshRate: time.Duration(cfg.TUI.RefreshInterval) * time.Millisecond,
		logger:      logger,
	}, nil
}

// unauthorizedPollThreshold is how many consecutive unauthorized polls are
// tolerated before the failure is surfaced as a popup, once.
const unauthorizedPollThreshold = 3

// Model is the TUI model. All fields are owned by the update loop.
type Model struct {
	app *App

	width  int
	height int

	pane     Pane
	prevPane Pane
	popup    Popup

	searchInput textinput.Model

	playlists       []client.Playlist
	tracks          []client.Track
	trackHeading    string
	trackContextURI string

	snapshot core.Snapshot
	queue    *core.Queue

	views *viewState
	quitting      bool

	// in-flight coalescing state, one slot per command class
	inflight map[commandClass]bool
	pending  map[commandClass]tea.Cmd

	authFailures  int
	authEscalated bool
}

// viewState bundles the pane components; the pointer indirection keeps
// cursor state shared across Model copies.
type viewState struct {
	playlists *components.Playlists
	tracks    *components.Tracks
	nowView   *components.NowPlaying
	queueView *components.Queue
}

// NewModel creates the initial model.
func NewModel(app *App) Model {
	ti := textinput.New()
	ti.Placeholder = "Search tracks..."
	ti.CharLimit = 100
	ti.Width = 40

	return Model{
		app:         app,
		pane:        PanePlaylists,
		searchInput: ti,
		snapshot:    core.Unknown(),
		views: &viewState{
			playlists: components.NewPlaylists(),
			tracks:    components.NewTracks(),
			nowView:   components.NewNowPlaying(),
			queueView: components.NewQueue(),
		},
		trackHeading: "Tracks",
		inflight:     make(map[commandClass]bool),
		pending:      make(map[commandClass]tea.Cmd),
	}
}

// Init starts the poll loop and the initial fetches.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		m.fetchSnapshot(),
		m.fetchQueue(),
		m.fetchPlaylists(),
	)
}

// Update applies one message. Every state transition in the UI happens here.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Polling continues regardless of popups or focus.
		return m, tea.Batch(m.tick(), m.fetchSnapshot(), m.fetchQueue())

	case snapshotMsg:
		return m.applySnapshot(msg)

	case queueMsg:
		if msg.err != nil {
			// Poll failures are logged, never popped up.
			m.app.logger.Warn("queue poll failed", "err", msg.err)
			return m, nil
		}
		m.queue = msg.queue
		return m, nil

	case playlistsMsg:
		if msg.err != nil {
			m.popup = errorPopup(strumerrors.Format(msg.err))
			return m, nil
		}
		m.playlists = msg.playlists
		m.views.playlists.Reset(len(m.playlists))
		return m, nil

	case tracksMsg:
		cmd := m.settle(classTracks)
		if msg.err != nil {
			m.popup = errorPopup(strumerrors.Format(msg.err))
			return m, cmd
		}
		m.tracks = msg.tracks
		m.trackHeading = msg.heading
		m.trackContextURI = msg.uri
		m.views.tracks.Reset()
		m.pane = PaneTracks
		return m, cmd

	case searchResultsMsg:
		cmd := m.settle(classSearch)
		if msg.err != nil {
			m.popup = errorPopup(strumerrors.Format(msg.err))
			return m, cmd
		}
		m.tracks = msg.tracks
		m.trackHeading = "Search: " + msg.query
		m.trackContextURI = ""
		m.views.tracks.Reset()
		m.pane = PaneTracks
		return m, cmd

	case playbackDoneMsg:
		cmd := m.settle(classPlayback)
		if msg.err != nil {
			m.popup = errorPopup(strumerrors.Format(msg.err))
			return m, cmd
		}
		return m, tea.Batch(cmd, m.fetchSnapshot(), m.fetchQueue())

	case enqueueDoneMsg:
		cmd := m.settle(classEnqueue)
		if msg.err != nil {
			m.popup = errorPopup(strumerrors.Format(msg.err))
			return m, cmd
		}
		// The queue panel reconciles on the next poll.
		return m, cmd
	}

	if m.pane == PaneSearch {
		var inputCmd tea.Cmd
		m.searchInput, inputCmd = m.searchInput.Update(msg)
		return m, inputCmd
	}
	return m, nil
}

// applySnapshot ingests a poll result. A failed poll yields the explicit
// Unknown snapshot; only unauthorized errors persisting across consecutive
// polls escalate to a popup, and only once.
func (m Model) applySnapshot(msg snapshotMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.snapshot = core.Unknown()
		m.app.logger.Warn("playback poll failed", "err", msg.err)

		if errors.Is(msg.err, strumerrors.ErrUnauthorized) {
			m.authFailures++
			if m.authFailures >= unauthorizedPollThreshold && !m.authEscalated {
				m.authEscalated = true
				m.popup = errorPopup("Spotify session expired. Run 'strum auth login' to re-authenticate.")
			}
		}
		return m, nil
	}

	m.authFailures = 0
	m.authEscalated = false
	m.snapshot = msg.snapshot
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// A popup swallows every key until it is dismissed.
	if m.popup.Active() {
		return m.handlePopupKey(msg)
	}

	if m.pane == PaneSearch {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.popup = helpPopup()
		return m, nil

	case key.Matches(msg, keys.Controls):
		m.popup = controlsPopup()
		return m, nil

	case key.Matches(msg, keys.Search):
		m.prevPane = m.pane
		m.pane = PaneSearch
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.NextPane):
		if m.pane == PanePlaylists {
			m.pane = PaneTracks
		} else {
			m.pane = PanePlaylists
		}
		return m, nil

	case key.Matches(msg, keys.Up):
		if m.pane == PanePlaylists {
			m.views.playlists.MoveUp()
		} else {
			m.views.tracks.MoveUp()
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.pane == PanePlaylists {
			m.views.playlists.MoveDown(len(m.playlists))
		} else {
			m.views.tracks.MoveDown(len(m.tracks))
		}
		return m, nil

	case key.Matches(msg, keys.Select):
		return m.activateSelection()

	case key.Matches(msg, keys.Enqueue):
		if m.pane == PaneTracks {
			if i := m.views.tracks.Cursor(); i < len(m.tracks) {
				return m, m.dispatch(classEnqueue, m.enqueueTrack(m.tracks[i].URI))
			}
		}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		return m, tea.Batch(m.fetchSnapshot(), m.fetchQueue(), m.fetchPlaylists())
	}

	return m, nil
}

// activateSelection handles Enter in the list panes: a playlist loads its
// tracks, a track starts playing.
func (m Model) activateSelection() (tea.Model, tea.Cmd) {
	switch m.pane {
	case PanePlaylists:
		if i := m.views.playlists.Cursor(); i < len(m.playlists) {
			return m, m.dispatch(classTracks, m.fetchPlaylistTracks(m.playlists[i]))
		}
	case PaneTracks:
		if i := m.views.tracks.Cursor(); i < len(m.tracks) {
			return m, m.dispatch(classPlayback,
				m.playTrack(m.trackContextURI, i, m.tracks[i].URI))
		}
	}
	return m, nil
}

func (m Model) handlePopupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.popup.Kind {
	case PopupError:
		// Any key dismisses an error.
		m.popup = noPopup()
		return m, nil

	case PopupHelp:
		switch {
		case key.Matches(msg, keys.Help), key.Matches(msg, keys.Escape):
			m.popup = noPopup()
		}
		return m, nil

	case PopupControls:
		switch {
		case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Controls):
			m.popup = noPopup()
			return m, nil
		case key.Matches(msg, keys.Up):
			m.popup = m.popup.MoveCursor(-1)
			return m, nil
		case key.Matches(msg, keys.Down):
			m.popup = m.popup.MoveCursor(1)
			return m, nil
		case key.Matches(msg, keys.Select):
			return m.activateControl()
		}
		return m, nil
	}
	return m, nil
}

// activateControl executes the selected controls-popup entry. The popup
// stays open for further commands; only Close dismisses it.
func (m Model) activateControl() (tea.Model, tea.Cmd) {
	switch m.popup.Cursor {
	case controlPlayPause:
		return m, m.dispatch(classPlayback, m.togglePlayPause())
	case controlPrevious:
		return m, m.dispatch(classPlayback, m.prevTrack())
	case controlNext:
		return m, m.dispatch(classPlayback, m.nextTrack())
	case controlClose:
		m.popup = noPopup()
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		// Cancel discards the query entirely.
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.pane = m.prevPane
		return m, nil

	case key.Matches(msg, keys.Select):
		query := m.searchInput.Value()
		if query == "" {
			return m, nil
		}
		m.searchInput.Blur()
		m.pane = PaneTracks
		// One submit, one request.
		return m, m.dispatch(classSearch, m.doSearch(query))
	}

	var inputCmd tea.Cmd
	m.searchInput, inputCmd = m.searchInput.Update(msg)
	return m, inputCmd
}

// Run starts the TUI.
func Run(cfg *config.Config) error {
	logger := logging.New(cfg.Log)

	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}

	model := NewModel(app)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
