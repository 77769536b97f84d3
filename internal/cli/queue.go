package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the playback queue",
	Long:  `Shows the currently playing track and the upcoming queue.`,
	RunE:  runQueue,
}

var queueAddCmd = &cobra.Command{
	Use:   "add <uri>",
	Short: "Add a track to the queue",
	Long: `Adds a track to the playback queue by Spotify URI.

The remote queue is eventually consistent: the added track appears in
'strum queue' output once Spotify reflects it.`,
	Args: cobra.ExactArgs(1),
	RunE: runQueueAdd,
}

func init() {
	queueCmd.AddCommand(queueAddCmd)
	rootCmd.AddCommand(queueCmd)
}

func runQueue(cmd *cobra.Command, args []string) error {
	p, _, err := newPlayer()
	if err != nil {
		return err
	}

	queue, err := p.GetQueue(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get queue: %w", err)
	}

	if JSONOutput() {
		return printJSON(queue)
	}

	if queue.IsEmpty() {
		fmt.Println("Queue is empty.")
		return nil
	}

	t := NewTable("#", "TITLE", "ARTIST", "DURATION")
	for i, track := range queue.Tracks {
		marker := fmt.Sprintf("%d", i)
		if i == 0 {
			marker = "▶"
		}
		t.Row(marker, truncate(track.Title, 40), truncate(track.Artist, 30), formatClock(track.Duration))
	}
	t.Flush()
	return nil
}

func runQueueAdd(cmd *cobra.Command, args []string) error {
	uri := args[0]
	if !strings.HasPrefix(uri, "spotify:") {
		return fmt.Errorf("invalid Spotify URI: %s", uri)
	}

	p, _, err := newPlayer()
	if err != nil {
		return err
	}

	if err := p.AddToQueue(context.Background(), uri); err != nil {
		return fmt.Errorf("failed to add to queue: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "queued", "uri": uri})
	}
	fmt.Println("➕ Added to queue")
	return nil
}
