package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"strum/internal/core"
	"strum/internal/tui/styles"
)

// Queue displays the playback queue, currently playing track first.
type Queue struct {
	offset int
}

// NewQueue creates a new Queue component.
func NewQueue() *Queue {
	return &Queue{}
}

// ScrollDown scrolls the queue down.
func (q *Queue) ScrollDown() {
	q.offset++
}

// ScrollUp scrolls the queue up.
func (q *Queue) ScrollUp() {
	if q.offset > 0 {
		q.offset--
	}
}

// Render renders the queue panel.
func (q *Queue) Render(queue *core.Queue, width, height int) string {
	title := styles.PanelTitle("Queue", false)

	var content string
	if queue == nil || queue.IsEmpty() {
		content = styles.Muted.Render("Queue is empty")
	} else {
		content = q.renderQueue(queue, width-4, height-4)
	}

	panel := styles.Panel(false).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (q *Queue) renderQueue(queue *core.Queue, width, maxLines int) string {
	tracks := queue.Tracks

	if q.offset >= len(tracks) {
		q.offset = 0
	}

	visibleCount := maxLines - 1
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := q.offset
	end := start + visibleCount
	if end > len(tracks) {
		end = len(tracks)
	}

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		track := tracks[i]

		num := fmt.Sprintf("%2d.", i+1)
		label := styles.Truncate(fmt.Sprintf("%s — %s", track.Title, track.Artist), width-7)

		var line string
		if i == 0 {
			line = styles.Playing.Render(fmt.Sprintf("%s ▶ %s", num, label))
		} else {
			line = fmt.Sprintf("%s   %s", styles.Dim.Render(num), label)
		}
		lines = append(lines, line)
	}

	if end < len(tracks) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(tracks)-end)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
