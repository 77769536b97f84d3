package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"strum/internal/core"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current playback status",
	Long:  `Shows the current Spotify playback status.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	p, _, err := newPlayer()
	if err != nil {
		return err
	}

	snap, err := p.Snapshot(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get playback state: %w", err)
	}

	if JSONOutput() {
		return printJSON(snap)
	}
	return printStatus(snap)
}

func printStatus(snap core.Snapshot) error {
	switch snap.Status {
	case core.StatusNoDevice:
		fmt.Println("No active playback device.")
		return nil
	case core.StatusUnknown:
		fmt.Println("Playback state unknown.")
		return nil
	}

	if snap.Track == nil {
		fmt.Println("Nothing playing.")
		return nil
	}

	icon := "▶"
	if !snap.IsPlaying {
		icon = "⏸"
	}

	fmt.Printf("%s %s\n", icon, snap.Track.Title)
	fmt.Printf("  %s · %s\n", snap.Track.Artist, snap.Track.Album)
	fmt.Printf("  %s %s / %s\n",
		formatProgressBar(snap.ProgressPercent(), 30),
		formatClock(snap.Progress),
		formatClock(snap.Track.Duration))

	if snap.Device != nil {
		fmt.Printf("  on %s (%s)\n", snap.Device.Name, snap.Device.Type)
	}
	if !snap.FetchedAt.IsZero() {
		fmt.Printf("  fetched %s\n", humanize.Time(snap.FetchedAt))
	}
	return nil
}
