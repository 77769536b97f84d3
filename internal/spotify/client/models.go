package client

// User represents a Spotify user profile.
type User struct {
	ID           string       `json:"id"`
	DisplayName  string       `json:"display_name"`
	Email        string       `json:"email"`
	Country      string       `json:"country"`
	Product      string       `json:"product"`
	URI          string       `json:"uri"`
	Images       []Image      `json:"images"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// ExternalURLs contains external URLs for a resource.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// Device represents a Spotify playback device.
type Device struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	IsActive         bool   `json:"is_active"`
	IsRestricted     bool   `json:"is_restricted"`
	IsPrivateSession bool   `json:"is_private_session"`
	VolumePercent    *int   `json:"volume_percent"`
}

// DevicesResponse is the response from the devices endpoint.
type DevicesResponse struct {
	Devices []Device `json:"devices"`
}

// PlaybackState represents the current playback state.
type PlaybackState struct {
	Device               Device   `json:"device"`
	ShuffleState         bool     `json:"shuffle_state"`
	RepeatState          string   `json:"repeat_state"`
	Timestamp            int64    `json:"timestamp"`
	ProgressMS           int      `json:"progress_ms"`
	IsPlaying            bool     `json:"is_playing"`
	Item                 *Track   `json:"item"`
	CurrentlyPlayingType string   `json:"currently_playing_type"`
	Context              *Context `json:"context"`
}

// Track represents a Spotify track.
type Track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	URI          string       `json:"uri"`
	DurationMS   int          `json:"duration_ms"`
	Explicit     bool         `json:"explicit"`
	TrackNumber  int          `json:"track_number"`
	Artists      []Artist     `json:"artists"`
	Album        Album        `json:"album"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// Artist represents a Spotify artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Album represents a Spotify album.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	URI         string   `json:"uri"`
	AlbumType   string   `json:"album_type"`
	TotalTracks int      `json:"total_tracks"`
	ReleaseDate string   `json:"release_date"`
	Images      []Image  `json:"images"`
	Artists     []Artist `json:"artists"`
}

// Context represents a playback context (album, artist, playlist).
type Context struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
}

// Playlist represents a Spotify playlist.
type Playlist struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	URI           string  `json:"uri"`
	Description   string  `json:"description"`
	Public        bool    `json:"public"`
	Collaborative bool    `json:"collaborative"`
	Images        []Image `json:"images"`
	Owner         User    `json:"owner"`
	Tracks        struct {
		Total int    `json:"total"`
		Href  string `json:"href"`
	} `json:"tracks"`
}

// PlaylistsResponse is a page of the user's playlists.
type PlaylistsResponse struct {
	Items  []Playlist `json:"items"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
	Next   string     `json:"next"`
}

// PlaylistTrack wraps a track inside a playlist page.
type PlaylistTrack struct {
	AddedAt string `json:"added_at"`
	Track   *Track `json:"track"`
}

// PlaylistTracksResponse is a page of a playlist's tracks.
type PlaylistTracksResponse struct {
	Items  []PlaylistTrack `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
	Next   string          `json:"next"`
}

// SavedTrack wraps a track in the user's library.
type SavedTrack struct {
	AddedAt string `json:"added_at"`
	Track   *Track `json:"track"`
}

// SavedTracksResponse is a page of the user's saved tracks.
type SavedTracksResponse struct {
	Items  []SavedTrack `json:"items"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
	Next   string       `json:"next"`
}

// SearchResponse represents the response from a search query.
type SearchResponse struct {
	Tracks    *SearchTracks    `json:"tracks"`
	Playlists *SearchPlaylists `json:"playlists"`
}

// SearchTracks contains track search results.
type SearchTracks struct {
	Items  []Track `json:"items"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Next   string  `json:"next"`
}

// SearchPlaylists contains playlist search results.
type SearchPlaylists struct {
	Items  []Playlist `json:"items"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
	Next   string     `json:"next"`
}

// Queue represents the user's playback queue.
type Queue struct {
	CurrentlyPlaying *Track  `json:"currently_playing"`
	Queue            []Track `json:"queue"`
}

// ArtistNames joins the track's artist names for display.
func (t *Track) ArtistNames() string {
	if t == nil || len(t.Artists) == 0 {
		return ""
	}
	names := t.Artists[0].Name
	for _, a := range t.Artists[1:] {
		names += ", " + a.Name
	}
	return names
}
