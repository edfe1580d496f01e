package models

import "time"

// Release date precision tags assigned by the catalog service.
const (
	PrecisionDay   = "day"
	PrecisionMonth = "month"
	PrecisionYear  = "year"
)

// Image represents an image resource. Ordered largest-first by convention.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist represents a catalog artist. Initially known only by ID, name and
// external link (from track expansion); hydrated with images later via a
// batch lookup.
type Artist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Images      []Image `json:"images,omitempty"`
	ExternalURL string  `json:"external_url,omitempty"`
	Popularity  int     `json:"popularity,omitempty"`
}

// Clone returns a deep copy of the artist.
func (a Artist) Clone() Artist {
	c := a
	if a.Images != nil {
		c.Images = make([]Image, len(a.Images))
		copy(c.Images, a.Images)
	}
	return c
}

// UnfollowedArtist is an artist appearing in an analyzed playlist that the
// user does not follow, with the number of playlist tracks featuring it.
type UnfollowedArtist struct {
	Artist    Artist `json:"artist"`
	Frequency int    `json:"frequency"`
}

// Clone returns a deep copy.
func (u UnfollowedArtist) Clone() UnfollowedArtist {
	return UnfollowedArtist{Artist: u.Artist.Clone(), Frequency: u.Frequency}
}

// Release represents an album or single.
type Release struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	Type        string   `json:"album_type"`
	ReleaseDate string   `json:"release_date"`
	Precision   string   `json:"release_date_precision"`
	TotalTracks int      `json:"total_tracks"`
	Images      []Image  `json:"images,omitempty"`
	ArtistName  string   `json:"artist_name,omitempty"` // denormalized primary artist for display
}

// ReleasedOn parses the release date. The boolean reports whether the
// release carries day precision; month- and year-precision releases cannot
// be placed on a fine-grained timeline and report false.
func (r Release) ReleasedOn() (time.Time, bool) {
	if r.Precision != PrecisionDay {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", r.ReleaseDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Clone returns a deep copy of the release.
func (r Release) Clone() Release {
	c := r
	if r.Artists != nil {
		c.Artists = make([]Artist, len(r.Artists))
		for i, a := range r.Artists {
			c.Artists[i] = a.Clone()
		}
	}
	if r.Images != nil {
		c.Images = make([]Image, len(r.Images))
		copy(c.Images, r.Images)
	}
	return c
}

// Track represents a catalog track.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	AlbumID    string   `json:"album_id,omitempty"`
	AlbumName  string   `json:"album_name,omitempty"`
	DurationMS int      `json:"duration_ms"`
	PreviewURL string   `json:"preview_url,omitempty"`
	URI        string   `json:"uri"`
}

// Clone returns a deep copy of the track.
func (t Track) Clone() Track {
	c := t
	if t.Artists != nil {
		c.Artists = make([]Artist, len(t.Artists))
		for i, a := range t.Artists {
			c.Artists[i] = a.Clone()
		}
	}
	return c
}

// PlaylistAnalysis is the result of analyzing a playlist for unfollowed
// artists.
type PlaylistAnalysis struct {
	PlaylistID   string             `json:"playlist_id"`
	PlaylistName string             `json:"playlist_name"`
	Owner        string             `json:"owner"`
	TotalTracks  int                `json:"total_tracks"`
	TotalArtists int                `json:"total_artists"`
	Unfollowed   []UnfollowedArtist `json:"unfollowed"`
}

// Clone returns a deep copy of the analysis.
func (p PlaylistAnalysis) Clone() PlaylistAnalysis {
	c := p
	if p.Unfollowed != nil {
		c.Unfollowed = make([]UnfollowedArtist, len(p.Unfollowed))
		for i, u := range p.Unfollowed {
			c.Unfollowed[i] = u.Clone()
		}
	}
	return c
}

// FollowResult summarizes a bulk-follow operation. Chunks that fail are
// reported rather than failing the whole operation.
type FollowResult struct {
	Followed  int      `json:"followed"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failed_ids,omitempty"`
}

// ReleaseScan is the result of scanning followed artists for recent releases.
type ReleaseScan struct {
	Releases       []Release `json:"releases"`
	ArtistsChecked int       `json:"artists_checked"`
}

// PlaylistInfo describes a playlist created for the user.
type PlaylistInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	TracksAdded int    `json:"tracks_added"`
	Public      bool   `json:"public"`
}
