package spotify

import (
	"github.com/mhoffer1/spotify-release-hub/internal/models"
)

// User represents the authenticated Spotify user.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type imageObject struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type artistObject struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Images       []imageObject `json:"images"`
	ExternalURLs externalURLs  `json:"external_urls"`
	Popularity   int           `json:"popularity"`
}

type albumObject struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Artists              []artistObject `json:"artists"`
	AlbumType            string         `json:"album_type"`
	ReleaseDate          string         `json:"release_date"`
	ReleaseDatePrecision string         `json:"release_date_precision"`
	TotalTracks          int            `json:"total_tracks"`
	Images               []imageObject  `json:"images"`
}

type trackObject struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Artists    []artistObject `json:"artists"`
	Album      albumObject    `json:"album"`
	DurationMS int            `json:"duration_ms"`
	PreviewURL string         `json:"preview_url"`
	URI        string         `json:"uri"`
}

type ownerObject struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type playlistObject struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Owner  ownerObject `json:"owner"`
	Public bool        `json:"public"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type playlistTrackItem struct {
	Track trackObject `json:"track"`
}

type playlistTracksPage struct {
	Items  []playlistTrackItem `json:"items"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
	Next   *string             `json:"next"`
}

type albumTracksPage struct {
	Items  []trackObject `json:"items"`
	Total  int           `json:"total"`
	Offset int           `json:"offset"`
	Next   *string       `json:"next"`
}

type albumsPage struct {
	Items  []albumObject `json:"items"`
	Total  int           `json:"total"`
	Offset int           `json:"offset"`
	Next   *string       `json:"next"`
}

// followedArtistsPage is the cursor-paginated follow list envelope.
type followedArtistsPage struct {
	Artists struct {
		Items   []artistObject `json:"items"`
		Total   int            `json:"total"`
		Cursors struct {
			After string `json:"after"`
		} `json:"cursors"`
		Next *string `json:"next"`
	} `json:"artists"`
}

type severalArtists struct {
	Artists []artistObject `json:"artists"`
}

type severalAlbums struct {
	Albums []albumObject `json:"albums"`
}

type relatedArtists struct {
	Artists []artistObject `json:"artists"`
}

type createdPlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Public       bool         `json:"public"`
	ExternalURLs externalURLs `json:"external_urls"`
}

func (a artistObject) toModel() models.Artist {
	artist := models.Artist{
		ID:          a.ID,
		Name:        a.Name,
		ExternalURL: a.ExternalURLs.Spotify,
		Popularity:  a.Popularity,
	}
	for _, img := range a.Images {
		artist.Images = append(artist.Images, models.Image(img))
	}
	return artist
}

func (a albumObject) toModel() models.Release {
	release := models.Release{
		ID:          a.ID,
		Name:        a.Name,
		Type:        a.AlbumType,
		ReleaseDate: a.ReleaseDate,
		Precision:   a.ReleaseDatePrecision,
		TotalTracks: a.TotalTracks,
	}
	for _, artist := range a.Artists {
		release.Artists = append(release.Artists, artist.toModel())
	}
	if len(a.Artists) > 0 {
		release.ArtistName = a.Artists[0].Name
	}
	for _, img := range a.Images {
		release.Images = append(release.Images, models.Image(img))
	}
	return release
}

func (t trackObject) toModel() models.Track {
	track := models.Track{
		ID:         t.ID,
		Name:       t.Name,
		AlbumID:    t.Album.ID,
		AlbumName:  t.Album.Name,
		DurationMS: t.DurationMS,
		PreviewURL: t.PreviewURL,
		URI:        t.URI,
	}
	for _, artist := range t.Artists {
		track.Artists = append(track.Artists, artist.toModel())
	}
	return track
}
