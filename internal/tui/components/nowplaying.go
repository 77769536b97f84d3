package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"strum/internal/core"
	"strum/internal/tui/styles"
)

// NowPlaying displays the current playback snapshot.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component.
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel from a snapshot.
func (n *NowPlaying) Render(snap core.Snapshot, width, height int) string {
	title := styles.PanelTitle("Now Playing", false)

	var content string
	switch {
	case snap.Status == core.StatusUnknown:
		content = styles.Muted.Render("Playback state unknown")
	case snap.Status == core.StatusNoDevice:
		content = styles.Muted.Render("No active device")
	case snap.Track == nil:
		content = styles.Muted.Render("Nothing playing")
	default:
		content = n.renderTrack(snap, width-4)
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

func (n *NowPlaying) renderTrack(snap core.Snapshot, width int) string {
	track := snap.Track

	icon := styles.StatusIcon(snap.IsPlaying)
	title := styles.Title.Render(styles.Truncate(track.Title, width-4))
	artist := styles.Subtitle.Render(styles.Truncate(track.Artist, width-4))
	album := styles.Dim.Render(styles.Truncate(track.Album, width-4))

	progressWidth := width - 14
	if progressWidth < 10 {
		progressWidth = 10
	}
	bar := styles.ProgressBar(snap.ProgressPercent(), progressWidth)
	progress := fmt.Sprintf("%s %s %s",
		formatClock(snap.Progress),
		bar,
		formatClock(track.Duration))

	deviceInfo := ""
	if snap.Device != nil {
		deviceInfo = styles.Muted.Render(fmt.Sprintf("%s %s",
			styles.DeviceIcon(string(snap.Device.Type)),
			snap.Device.Name))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+title,
		"  "+artist,
		"  "+album,
		"",
		progress,
		"",
		deviceInfo,
	)
}

func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
