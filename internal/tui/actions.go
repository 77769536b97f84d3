package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"strum/internal/core"
	"strum/internal/spotify/client"
)

const requestTimeout = 5 * time.Second

// commandClass groups remote actions for in-flight coalescing. While a
// request of a class is outstanding, a newer request in the same class
// replaces whatever is pending; requests are never queued up.
type commandClass int

const (
	classPlayback commandClass = iota
	classEnqueue
	classSearch
	classTracks
)

// dispatch runs cmd for class, or stores it as the pending intent when the
// class already has a request in flight. The stored intent is replaced, not
// appended, by later calls.
func (m *Model) dispatch(class commandClass, cmd tea.Cmd) tea.Cmd {
	if m.inflight[class] {
		m.pending[class] = cmd
		return nil
	}
	m.inflight[class] = true
	return cmd
}

// settle marks a class result as arrived and releases the latest pending
// intent, if any.
func (m *Model) settle(class commandClass) tea.Cmd {
	m.inflight[class] = false
	if cmd, ok := m.pending[class]; ok {
		delete(m.pending, class)
		m.inflight[class] = true
		return cmd
	}
	return nil
}

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	snapshot core.Snapshot
	err      error
}

type queueMsg struct {
	queue *core.Queue
	err   error
}

type playlistsMsg struct {
	playlists []client.Playlist
	err       error
}

type tracksMsg struct {
	heading string
	uri     string // playlist context URI, empty for liked songs
	tracks  []client.Track
	err     error
}

type searchResultsMsg struct {
	query  string
	tracks []client.Track
	err    error
}

type playbackDoneMsg struct {
	err error
}

type enqueueDoneMsg struct {
	err error
}

// Commands

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.app.refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchSnapshot() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		snap, err := m.app.player.Snapshot(ctx)
		return snapshotMsg{snapshot: snap, err: err}
	}
}

func (m Model) fetchQueue() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		queue, err := m.app.player.GetQueue(ctx)
		return queueMsg{queue: queue, err: err}
	}
}

func (m Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		playlists, err := m.app.client.GetAllPlaylists(ctx)
		return playlistsMsg{playlists: playlists, err: err}
	}
}

func (m Model) fetchPlaylistTracks(pl client.Playlist) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		tracks, _, err := m.app.client.GetPlaylistTracks(ctx, pl.ID, trackPageSize, 0)
		uri := pl.URI
		if pl.ID == client.LikedSongsID {
			uri = ""
		}
		return tracksMsg{heading: pl.Name, uri: uri, tracks: tracks, err: err}
	}
}

const trackPageSize = 100

func (m Model) doSearch(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		resp, err := m.app.client.Search(ctx, client.SearchOptions{
			Query: query,
			Types: []client.SearchType{client.SearchTypeTrack},
			Limit: 20,
		})
		if err != nil {
			return searchResultsMsg{query: query, err: err}
		}

		var tracks []client.Track
		if resp.Tracks != nil {
			tracks = resp.Tracks.Items
		}
		return searchResultsMsg{query: query, tracks: tracks}
	}
}

// playTrack starts the selected track. Inside a playlist context the whole
// context plays from the selected offset; otherwise just the track.
func (m Model) playTrack(contextURI string, offset int, trackURI string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var err error
		if contextURI != "" {
			err = m.app.player.PlayContext(ctx, contextURI, offset)
		} else {
			err = m.app.player.PlayURI(ctx, trackURI)
		}
		return playbackDoneMsg{err: err}
	}
}

func (m Model) togglePlayPause() tea.Cmd {
	playing := m.snapshot.Status == core.StatusActive && m.snapshot.IsPlaying
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var err error
		if playing {
			err = m.app.player.Pause(ctx)
		} else {
			err = m.app.player.Play(ctx)
		}
		return playbackDoneMsg{err: err}
	}
}

func (m Model) nextTrack() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return playbackDoneMsg{err: m.app.player.Next(ctx)}
	}
}

func (m Model) prevTrack() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return playbackDoneMsg{err: m.app.player.Prev(ctx)}
	}
}

func (m Model) enqueueTrack(uri string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return enqueueDoneMsg{err: m.app.player.AddToQueue(ctx, uri)}
	}
}
