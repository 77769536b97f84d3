// Package components holds the TUI panel renderers. Each component keeps its
// own cursor and scroll state; the data it renders is owned by the model.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"strum/internal/spotify/client"
	"strum/internal/tui/styles"
)

// Playlists displays the user's playlists.
type Playlists struct {
	cursor int
	offset int
}

// NewPlaylists creates a new Playlists component.
func NewPlaylists() *Playlists {
	return &Playlists{}
}

// Cursor returns the selected index.
func (p *Playlists) Cursor() int {
	return p.cursor
}

// MoveDown advances the cursor, clamped to the list length.
func (p *Playlists) MoveDown(count int) {
	if p.cursor < count-1 {
		p.cursor++
	}
}

// MoveUp retreats the cursor.
func (p *Playlists) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// Reset clamps the cursor after the list is replaced.
func (p *Playlists) Reset(count int) {
	if p.cursor >= count {
		p.cursor = 0
		p.offset = 0
	}
}

// Render renders the playlists panel.
func (p *Playlists) Render(playlists []client.Playlist, width, height int, focused bool) string {
	title := styles.PanelTitle("Playlists", focused)

	var content string
	if len(playlists) == 0 {
		content = styles.Muted.Render("No playlists")
	} else {
		content = p.renderList(playlists, width-4, height-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (p *Playlists) renderList(playlists []client.Playlist, width, maxLines int) string {
	if maxLines < 1 {
		maxLines = 1
	}

	// Keep the cursor inside the visible window.
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+maxLines {
		p.offset = p.cursor - maxLines + 1
	}

	end := p.offset + maxLines
	if end > len(playlists) {
		end = len(playlists)
	}

	lines := make([]string, 0, end-p.offset)
	for i := p.offset; i < end; i++ {
		pl := playlists[i]
		name := styles.Truncate(pl.Name, width-4)

		var line string
		if i == p.cursor {
			line = styles.Selected.Render("❯ " + name)
		} else {
			line = "  " + name
		}
		lines = append(lines, line)
	}

	if end < len(playlists) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("  ... and %d more", len(playlists)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
