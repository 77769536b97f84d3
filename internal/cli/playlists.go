package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"strum/internal/spotify/client"
)

var playlistTracksLimit int

var playlistsCmd = &cobra.Command{
	Use:   "playlists",
	Short: "List your playlists",
	Long:  `Lists your Spotify playlists, with Liked Songs first.`,
	RunE:  runPlaylists,
}

var playlistsTracksCmd = &cobra.Command{
	Use:   "tracks <playlist>",
	Short: "List tracks in a playlist",
	Long:  `Lists the tracks in a playlist, matched by name or ID. Use "liked-songs" for Liked Songs.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistTracks,
}

func init() {
	playlistsTracksCmd.Flags().IntVarP(&playlistTracksLimit, "limit", "n", 50, "maximum tracks to list")
	playlistsCmd.AddCommand(playlistsTracksCmd)
	rootCmd.AddCommand(playlistsCmd)
}

func runPlaylists(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	playlists, err := c.GetAllPlaylists(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if JSONOutput() {
		return printJSON(playlists)
	}

	t := NewTable("NAME", "TRACKS", "OWNER", "ID")
	for _, pl := range playlists {
		owner := pl.Owner.DisplayName
		if owner == "" {
			owner = pl.Owner.ID
		}
		t.Row(truncate(pl.Name, 40), fmt.Sprintf("%d", pl.Tracks.Total), owner, pl.ID)
	}
	t.Flush()
	return nil
}

func runPlaylistTracks(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	ctx := context.Background()

	pl, err := resolvePlaylist(ctx, c, args[0])
	if err != nil {
		return err
	}

	tracks, total, err := c.GetPlaylistTracks(ctx, pl.ID, playlistTracksLimit, 0)
	if err != nil {
		return fmt.Errorf("failed to list tracks: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{
			"playlist": pl.Name,
			"total":    total,
			"tracks":   tracks,
		})
	}

	fmt.Printf("%s (%d tracks)\n\n", pl.Name, total)
	t := NewTable("#", "TITLE", "ARTIST", "DURATION")
	for i, track := range tracks {
		t.Row(fmt.Sprintf("%d", i+1),
			truncate(track.Name, 40),
			truncate(track.ArtistNames(), 30),
			formatClock(time.Duration(track.DurationMS)*time.Millisecond))
	}
	t.Flush()

	if total > len(tracks) {
		fmt.Printf("\n... and %d more\n", total-len(tracks))
	}
	return nil
}

// resolvePlaylist matches by exact ID first, then case-insensitive name.
func resolvePlaylist(ctx context.Context, c *client.Client, ref string) (*client.Playlist, error) {
	if ref == client.LikedSongsID {
		return &client.Playlist{ID: client.LikedSongsID, Name: "Liked Songs"}, nil
	}

	playlists, err := c.GetAllPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	for i := range playlists {
		if playlists[i].ID == ref {
			return &playlists[i], nil
		}
	}
	for i := range playlists {
		if strings.EqualFold(playlists[i].Name, ref) {
			return &playlists[i], nil
		}
	}
	return nil, fmt.Errorf("no playlist matching %q", ref)
}
