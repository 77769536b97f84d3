package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"strum/internal/spotify/client"
	"strum/internal/tui/styles"
)

// Tracks displays a track list: a playlist's tracks or search results.
type Tracks struct {
	cursor int
	offset int
}

// NewTracks creates a new Tracks component.
func NewTracks() *Tracks {
	return &Tracks{}
}

// Cursor returns the selected index.
func (t *Tracks) Cursor() int {
	return t.cursor
}

// MoveDown advances the cursor, clamped to the list length.
func (t *Tracks) MoveDown(count int) {
	if t.cursor < count-1 {
		t.cursor++
	}
}

// MoveUp retreats the cursor.
func (t *Tracks) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
}

// Reset moves the cursor to the top when the list is replaced.
func (t *Tracks) Reset() {
	t.cursor = 0
	t.offset = 0
}

// Render renders the track list panel.
func (t *Tracks) Render(heading string, tracks []client.Track, width, height int, focused bool) string {
	title := styles.PanelTitle(heading, focused)

	var content string
	if len(tracks) == 0 {
		content = styles.Muted.Render("No tracks")
	} else {
		content = t.renderList(tracks, width-4, height-4)
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

func (t *Tracks) renderList(tracks []client.Track, width, maxLines int) string {
	if maxLines < 1 {
		maxLines = 1
	}

	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+maxLines {
		t.offset = t.cursor - maxLines + 1
	}

	end := t.offset + maxLines
	if end > len(tracks) {
		end = len(tracks)
	}

	lines := make([]string, 0, end-t.offset)
	for i := t.offset; i < end; i++ {
		track := tracks[i]

		duration := formatTrackDuration(time.Duration(track.DurationMS) * time.Millisecond)
		// Duration column plus cursor marker.
		available := width - len(duration) - 6
		if available < 10 {
			available = 10
		}

		label := track.Name
		if artists := track.ArtistNames(); artists != "" {
			label += " — " + artists
		}
		label = styles.Truncate(label, available)

		var line string
		if i == t.cursor {
			line = styles.Selected.Render(fmt.Sprintf("❯ %-*s %s", available, label, duration))
		} else {
			line = fmt.Sprintf("  %-*s %s", available, label, styles.Dim.Render(duration))
		}
		lines = append(lines, line)
	}

	if end < len(tracks) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("  ... and %d more", len(tracks)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatTrackDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
