package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"strum/internal/core"
	"strum/internal/tui/styles"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	if m.popup.Active() {
		return m.renderPopup()
	}

	// Layout: playlists on the left, track list on the right, now playing
	// and queue across the bottom.
	leftWidth := m.width * 30 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := m.height * 55 / 100
	bottomHeight := m.height - topHeight - 3

	playlists := m.views.playlists.Render(m.playlists, leftWidth-2, topHeight-2, m.pane == PanePlaylists)
	tracks := m.views.tracks.Render(m.trackHeading, m.tracks, rightWidth-2, topHeight-2, m.pane == PaneTracks)

	nowWidth := m.width * 60 / 100
	queueWidth := m.width - nowWidth - 2
	nowPlaying := m.views.nowView.Render(m.snapshot, nowWidth-2, bottomHeight-2)
	queueView := m.views.queueView.Render(m.queue, queueWidth-2, bottomHeight-2)

	top := lipgloss.JoinHorizontal(lipgloss.Top, playlists, tracks)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, nowPlaying, queueView)

	var rows []string
	rows = append(rows, top)
	if m.pane == PaneSearch {
		rows = append(rows, m.renderSearchBar())
	}
	rows = append(rows, bottom, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderSearchBar() string {
	label := styles.Highlight.Render("Search: ")
	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(label + m.searchInput.View())
}

func (m Model) renderStatusBar() string {
	keys := styles.Dim.Render("q:quit  ?:help  s:search  space:controls  +:enqueue  tab:switch pane  enter:select")

	var freshness string
	if !m.snapshot.FetchedAt.IsZero() && m.snapshot.Status != core.StatusUnknown {
		freshness = styles.Dim.Render("updated " + humanize.Time(m.snapshot.FetchedAt))
	}

	gap := m.width - 2 - lipgloss.Width(keys) - lipgloss.Width(freshness)
	if gap < 1 {
		freshness = ""
		gap = 0
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(keys + strings.Repeat(" ", gap) + freshness)
}

func (m Model) renderPopup() string {
	switch m.popup.Kind {
	case PopupHelp:
		return m.renderHelp()
	case PopupControls:
		return m.renderControls()
	case PopupError:
		return m.renderError()
	}
	return ""
}

func (m Model) renderHelp() string {
	title := "strum - Keyboard Shortcuts"
	divider := styles.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  s            Search
  Space        Playback controls
  Tab          Switch pane
  r            Refresh

  Lists
  ─────
  ↑/Ctrl+P     Up
  ↓/Ctrl+N     Down
  Enter        Open playlist / play track
  +            Add track to queue

  Search
  ──────
  Enter        Submit
  Esc          Cancel

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

func (m Model) renderControls() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Playback"))
	b.WriteString("\n\n")

	for i, entry := range controlEntries {
		if i == m.popup.Cursor {
			b.WriteString(styles.Selected.Render("❯ " + entry))
		} else {
			b.WriteString("  " + entry)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Dim.Render("↑/↓:move  Enter:run  Esc:close"))

	content := lipgloss.NewStyle().Padding(1, 3).Render(b.String())

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Render(content))
}

func (m Model) renderError() string {
	var b strings.Builder
	b.WriteString(styles.ErrorText.Render("Error"))
	b.WriteString("\n\n")
	b.WriteString(m.popup.Message)
	b.WriteString("\n\n")
	b.WriteString(styles.Dim.Render("Press any key to dismiss"))

	content := lipgloss.NewStyle().
		Width(60).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.ErrorBorder.Render(content))
}
