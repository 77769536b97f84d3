package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"strum/internal/spotify/client"
	"strum/internal/spotify/player"
)

var (
	playURI    string
	playDevice string
	playFirst  bool
)

var playCmd = &cobra.Command{
	Use:   "play [query]",
	Short: "Search for a track and play it",
	Long: `Searches Spotify for a track and plays it.

With a terminal attached, multiple matches open an interactive picker.
Use --first to always play the top match, or --uri to skip the search.

Examples:
  strum play "so what"                  # Search and pick
  strum play --first "so what"          # Play the top match
  strum play --uri spotify:track:xxx    # Play a specific URI`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playURI, "uri", "", "play a specific Spotify URI")
	playCmd.Flags().StringVarP(&playDevice, "device", "d", "", "target device ID")
	playCmd.Flags().BoolVar(&playFirst, "first", false, "play the top search match without asking")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	p, c, err := newPlayer()
	if err != nil {
		return err
	}
	if playDevice != "" {
		p.SetDevice(playDevice)
	}
	ctx := context.Background()

	if playURI != "" {
		return playByURI(ctx, p, playURI)
	}

	query := strings.Join(args, " ")
	if query == "" {
		return fmt.Errorf("nothing to play: give a search query or --uri")
	}

	results, err := c.Search(ctx, client.SearchOptions{
		Query: query,
		Types: []client.SearchType{client.SearchTypeTrack},
		Limit: 10,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if results.Tracks == nil || len(results.Tracks.Items) == 0 {
		return fmt.Errorf("no tracks matching %q", query)
	}

	track, err := pickTrack(results.Tracks.Items)
	if err != nil {
		return err
	}

	if err := p.PlayURI(ctx, track.URI); err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "playing",
			"title":  track.Name,
			"artist": track.ArtistNames(),
			"uri":    track.URI,
		})
	}
	fmt.Printf("▶ %s · %s\n", track.Name, track.ArtistNames())
	return nil
}

// pickTrack selects one result. Non-interactive output takes the top match.
func pickTrack(tracks []client.Track) (*client.Track, error) {
	if playFirst || !isTerminal() || len(tracks) == 1 {
		return &tracks[0], nil
	}

	options := make([]huh.Option[int], len(tracks))
	for i, t := range tracks {
		label := fmt.Sprintf("%s · %s", truncate(t.Name, 40), truncate(t.ArtistNames(), 30))
		options[i] = huh.NewOption(label, i)
	}

	var choice int
	sel := huh.NewSelect[int]().
		Title("Play which track?").
		Options(options...).
		Value(&choice)
	if err := sel.Run(); err != nil {
		return nil, err
	}
	return &tracks[choice], nil
}

func playByURI(ctx context.Context, p *player.Player, uri string) error {
	if !strings.HasPrefix(uri, "spotify:") {
		return fmt.Errorf("invalid Spotify URI: %s", uri)
	}

	// Context URIs (album, playlist, artist) start from the top; track URIs
	// play the single track.
	var err error
	if strings.HasPrefix(uri, "spotify:track:") {
		err = p.PlayURI(ctx, uri)
	} else {
		err = p.PlayContext(ctx, uri, 0)
	}
	if err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "playing", "uri": uri})
	}
	fmt.Printf("▶ Playing %s\n", uri)
	return nil
}
