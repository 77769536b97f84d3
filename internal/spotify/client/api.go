package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// LikedSongsID marks the pseudo-playlist backed by the user's saved tracks.
// It is not a real Spotify playlist and never hits the playlist endpoints.
const LikedSongsID = "liked-songs"

const pageLimit = 50

// GetCurrentUser returns the current user's profile.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.Get(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetDevices returns the user's available playback devices.
func (c *Client) GetDevices(ctx context.Context) ([]Device, error) {
	var resp DevicesResponse
	if err := c.Get(ctx, "/me/player/devices", &resp); err != nil {
		return nil, err
	}
	return resp.Devices, nil
}

// GetPlaybackState returns the current playback state. A 204 from the API
// means no active playback; that is reported as (nil, nil), not an error.
func (c *Client) GetPlaybackState(ctx context.Context) (*PlaybackState, error) {
	var state PlaybackState
	status, err := c.request(ctx, "GET", "/me/player", nil, &state)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return &state, nil
}

// GetMyPlaylists returns one page of the user's playlists.
func (c *Client) GetMyPlaylists(ctx context.Context, limit, offset int) (*PlaylistsResponse, error) {
	params := map[string]string{"limit": itoa(limit), "offset": itoa(offset)}
	var resp PlaylistsResponse
	if err := c.Get(ctx, BuildURL("/me/playlists", params), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAllPlaylists walks every page of the user's playlists, with the Liked
// Songs pseudo-playlist prepended.
func (c *Client) GetAllPlaylists(ctx context.Context) ([]Playlist, error) {
	playlists := []Playlist{{
		ID:   LikedSongsID,
		Name: "Liked Songs",
	}}

	offset := 0
	for {
		page, err := c.GetMyPlaylists(ctx, pageLimit, offset)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, page.Items...)
		if page.Next == "" || len(page.Items) == 0 {
			break
		}
		offset += len(page.Items)
	}
	return playlists, nil
}

// GetPlaylistTracks returns one page of a playlist's tracks. The Liked Songs
// pseudo-playlist is served from the user's library instead.
func (c *Client) GetPlaylistTracks(ctx context.Context, playlistID string, limit, offset int) ([]Track, int, error) {
	if playlistID == LikedSongsID {
		return c.getSavedTracks(ctx, limit, offset)
	}

	params := map[string]string{"limit": itoa(limit), "offset": itoa(offset)}
	var resp PlaylistTracksResponse
	path := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	if err := c.Get(ctx, BuildURL(path, params), &resp); err != nil {
		return nil, 0, err
	}

	tracks := make([]Track, 0, len(resp.Items))
	for _, item := range resp.Items {
		// Deleted or region-blocked entries come back with a null track.
		if item.Track != nil {
			tracks = append(tracks, *item.Track)
		}
	}
	return tracks, resp.Total, nil
}

func (c *Client) getSavedTracks(ctx context.Context, limit, offset int) ([]Track, int, error) {
	params := map[string]string{"limit": itoa(limit), "offset": itoa(offset)}
	var resp SavedTracksResponse
	if err := c.Get(ctx, BuildURL("/me/tracks", params), &resp); err != nil {
		return nil, 0, err
	}

	tracks := make([]Track, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Track != nil {
			tracks = append(tracks, *item.Track)
		}
	}
	return tracks, resp.Total, nil
}

// SearchType represents a type of Spotify content to search.
type SearchType string

const (
	SearchTypeTrack    SearchType = "track"
	SearchTypePlaylist SearchType = "playlist"
)

// SearchOptions configures a search query.
type SearchOptions struct {
	Query  string
	Types  []SearchType
	Limit  int
	Offset int
}

// Search performs a search query.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	if opts.Query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	types := make([]string, len(opts.Types))
	for i, t := range opts.Types {
		types[i] = string(t)
	}
	if len(types) == 0 {
		types = []string{"track"}
	}

	params := map[string]string{
		"q":    opts.Query,
		"type": strings.Join(types, ","),
	}
	if opts.Limit > 0 {
		params["limit"] = itoa(opts.Limit)
	}
	if opts.Offset > 0 {
		params["offset"] = itoa(opts.Offset)
	}

	var resp SearchResponse
	if err := c.Get(ctx, BuildURL("/search", params), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
