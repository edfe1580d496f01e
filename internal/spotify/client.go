package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mhoffer1/spotify-release-hub/internal/models"
	"github.com/mhoffer1/spotify-release-hub/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	playlistPageSize = 100
	followPageSize   = 50
	albumPageSize    = 50
	releasePageCap   = 2 // pages fetched per release type during a scan
)

// playlistURLPattern matches open.spotify.com playlist links and spotify:
// URIs; bare alphanumeric IDs are accepted directly.
var (
	playlistURLPattern = regexp.MustCompile(`(?:open\.spotify\.com/playlist/|spotify:playlist:)([A-Za-z0-9]+)`)
	bareIDPattern      = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// ParsePlaylistID resolves a playlist reference, either a share URL, a
// spotify: URI or a bare ID, to the playlist's ID.
func ParsePlaylistID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty playlist reference", shared.ErrInvalidInput)
	}
	if m := playlistURLPattern.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	if bareIDPattern.MatchString(ref) {
		return ref, nil
	}
	return "", fmt.Errorf("%w: unrecognized playlist reference %q", shared.ErrInvalidInput, ref)
}

// PlaylistMeta is a playlist's display metadata.
type PlaylistMeta struct {
	ID          string
	Name        string
	Owner       string
	TotalTracks int
	URL         string
}

// Client issues authenticated calls against the Spotify Web API. Every call
// passes through the retry executor and the rate gate; responses feed the
// cache layer. Construct with [NewClient]; the zero value is not usable.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       *TokenManager
	exec       *Executor
	caches     *Caches
	logger     *log.Logger
}

// ClientOpts contains dependencies and tunables for creating a [Client].
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	Auth       *TokenManager
	Caches     *Caches
	Config     shared.ClientConfig
	Clock      shared.Clock
	Logger     *log.Logger
}

// NewClient creates a Spotify API client with its rate gate and executor
// built from the supplied configuration.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Clock == nil {
		opts.Clock = shared.SystemClock{}
	}
	if opts.Config.RequestCeiling <= 0 {
		opts.Config.RequestCeiling = 80
	}
	if opts.Config.WindowSeconds <= 0 {
		opts.Config.WindowSeconds = 30
	}
	if opts.Config.MaxWaitSeconds <= 0 {
		opts.Config.MaxWaitSeconds = 30
	}
	if opts.Caches == nil {
		opts.Caches = NewCaches(DefaultCacheTTLs(), opts.Clock)
	}

	gate := NewRateGate(opts.Config.RequestCeiling, opts.Config.Window(), opts.Clock)
	exec := NewExecutor(
		gate,
		opts.Config.MaxAttempts,
		opts.Config.BaseDelay(),
		time.Duration(opts.Config.MaxWaitSeconds*float64(time.Second)),
		opts.Logger,
	)

	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		auth:       opts.Auth,
		exec:       exec,
		caches:     opts.Caches,
		logger:     opts.Logger,
	}
}

// CachedAnalysis returns a fresh cached playlist analysis, if any.
func (c *Client) CachedAnalysis(playlistID string) (models.PlaylistAnalysis, bool) {
	return c.caches.Analysis(playlistID)
}

// StoreAnalysis caches a playlist analysis.
func (c *Client) StoreAnalysis(analysis models.PlaylistAnalysis) {
	c.caches.PutAnalysis(analysis)
}

// errorEnvelope is Spotify's error response body.
type errorEnvelope struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// doRequest performs one authenticated call through the executor. A 401 is
// answered with a single-flight token refresh and exactly one replay; if the
// refresh fails the original 401 propagates unchanged.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, query url.Values, body, result any) error {
	op := method + " " + endpoint
	return c.exec.Do(ctx, op, func(ctx context.Context) error {
		status, err := c.roundTrip(ctx, method, endpoint, query, body, result)
		if err != nil || status != http.StatusUnauthorized {
			return err
		}

		if rerr := c.auth.Refresh(ctx); rerr != nil {
			c.logger.Warn("token refresh failed, propagating 401", "op", op, "err", rerr)
			return &StatusError{Status: http.StatusUnauthorized, Message: "access token expired"}
		}

		status, err = c.roundTrip(ctx, method, endpoint, query, body, result)
		if err == nil && status == http.StatusUnauthorized {
			return &StatusError{Status: http.StatusUnauthorized, Message: "access token rejected after refresh"}
		}
		return err
	})
}

// roundTrip executes a single HTTP exchange. It returns the status code so
// the caller can distinguish a 401 (refresh candidate) without retrying
// anything itself; all other non-2xx statuses come back as typed errors.
func (c *Client) roundTrip(ctx context.Context, method, endpoint string, query url.Values, body, result any) (int, error) {
	apiURL := c.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.auth.Authorize(req); err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		retryAfter, _ := strconv.ParseFloat(resp.Header.Get("Retry-After"), 64)
		return resp.StatusCode, &RateLimitError{RetryAfter: retryAfter}

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var envelope errorEnvelope
		data, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(data, &envelope)
		return resp.StatusCode, &StatusError{Status: resp.StatusCode, Message: envelope.Error.Message}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode, nil
}

// CurrentUser retrieves the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var user User
	if err := c.doRequest(ctx, http.MethodGet, "/me", nil, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Playlist retrieves a playlist's display metadata.
func (c *Client) Playlist(ctx context.Context, playlistID string) (PlaylistMeta, error) {
	var pl playlistObject
	endpoint := fmt.Sprintf("/playlists/%s", playlistID)
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, nil, &pl); err != nil {
		return PlaylistMeta{}, err
	}
	return PlaylistMeta{
		ID:          pl.ID,
		Name:        pl.Name,
		Owner:       pl.Owner.DisplayName,
		TotalTracks: pl.Tracks.Total,
		URL:         pl.ExternalURLs.Spotify,
	}, nil
}

// PlaylistArtists drains a playlist's tracks and folds them into a
// deduplicated artist registry plus a per-artist track frequency count,
// in one traversal.
func (c *Client) PlaylistArtists(ctx context.Context, playlistID string) (map[string]models.Artist, map[string]int, error) {
	registry := make(map[string]models.Artist)
	frequency := make(map[string]int)

	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	fetch := func(ctx context.Context, offset, limit int) ([]playlistTrackItem, *string, error) {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(limit))
		query.Set("offset", strconv.Itoa(offset))
		var page playlistTracksPage
		if err := c.doRequest(ctx, http.MethodGet, endpoint, query, nil, &page); err != nil {
			return nil, nil, err
		}
		return page.Items, page.Next, nil
	}

	err := drainOffset(ctx, playlistPageSize, fetch, func(item playlistTrackItem) error {
		for _, artist := range item.Track.Artists {
			if artist.ID == "" {
				continue
			}
			if _, seen := registry[artist.ID]; !seen {
				registry[artist.ID] = artist.toModel()
			}
			frequency[artist.ID]++
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return registry, frequency, nil
}

// FollowedArtists lists the artists the user follows, drained across the
// cursor-paginated follow list. limit caps the result; 0 means uncapped.
// Served from the listing cache when fresh.
func (c *Client) FollowedArtists(ctx context.Context, limit int) ([]models.Artist, error) {
	if cached, ok := c.caches.FollowedListing(limit); ok {
		return cached, nil
	}

	var artists []models.Artist
	fetch := func(ctx context.Context, after string) ([]artistObject, string, error) {
		query := url.Values{}
		query.Set("type", "artist")
		query.Set("limit", strconv.Itoa(followPageSize))
		if after != "" {
			query.Set("after", after)
		}
		var page followedArtistsPage
		if err := c.doRequest(ctx, http.MethodGet, "/me/following", query, nil, &page); err != nil {
			return nil, "", err
		}
		return page.Artists.Items, page.Artists.Cursors.After, nil
	}

	err := drainCursor(ctx, fetch, func(a artistObject) error {
		if limit > 0 && len(artists) >= limit {
			return errDrainDone
		}
		artists = append(artists, a.toModel())
		return nil
	})
	if err != nil && err != errDrainDone {
		return nil, err
	}

	c.caches.PutFollowedListing(limit, artists)
	for _, a := range artists {
		c.caches.PutFollowStatus(a.ID, true)
	}
	return artists, nil
}

// FollowStatus resolves whether each artist ID is followed, cache-first with
// misses batch-resolved in chunks of 50.
func (c *Client) FollowStatus(ctx context.Context, artistIDs []string) (map[string]bool, error) {
	ids := dedupeIDs(artistIDs)
	if len(ids) == 0 {
		return map[string]bool{}, nil
	}

	status := make(map[string]bool, len(ids))
	var misses []string
	for _, id := range ids {
		if followed, ok := c.caches.FollowStatus(id); ok {
			status[id] = followed
		} else {
			misses = append(misses, id)
		}
	}

	for _, chunk := range chunkIDs(misses, artistChunkSize) {
		query := url.Values{}
		query.Set("type", "artist")
		query.Set("ids", strings.Join(chunk, ","))
		var flags []bool
		if err := c.doRequest(ctx, http.MethodGet, "/me/following/contains", query, nil, &flags); err != nil {
			return nil, err
		}
		if len(flags) != len(chunk) {
			return nil, fmt.Errorf("%w: follow-status response size mismatch", shared.ErrUpstream)
		}
		for i, id := range chunk {
			status[id] = flags[i]
			c.caches.PutFollowStatus(id, flags[i])
		}
	}
	return status, nil
}

// FollowChunk follows up to 20 artists in one call. On success the IDs are
// marked followed in the cache and the listing caches are invalidated.
func (c *Client) FollowChunk(ctx context.Context, artistIDs []string) error {
	if len(artistIDs) == 0 {
		return fmt.Errorf("%w: no artist IDs provided", shared.ErrInvalidInput)
	}
	if len(artistIDs) > followChunkSize {
		return fmt.Errorf("%w: at most %d artists per follow call", shared.ErrInvalidInput, followChunkSize)
	}

	query := url.Values{}
	query.Set("type", "artist")
	query.Set("ids", strings.Join(artistIDs, ","))
	if err := c.doRequest(ctx, http.MethodPut, "/me/following", query, nil, nil); err != nil {
		return err
	}

	c.caches.MarkFollowed(artistIDs)
	return nil
}

// Artists hydrates artist details for the given IDs, cache-first with misses
// batch-resolved in chunks of 50. The merged result holds one entry per
// distinct input ID present in the responses.
func (c *Client) Artists(ctx context.Context, artistIDs []string) (map[string]models.Artist, error) {
	ids := dedupeIDs(artistIDs)
	result := make(map[string]models.Artist, len(ids))

	var misses []string
	for _, id := range ids {
		if artist, ok := c.caches.Artist(id); ok {
			result[id] = artist
		} else {
			misses = append(misses, id)
		}
	}

	for _, chunk := range chunkIDs(misses, artistChunkSize) {
		query := url.Values{}
		query.Set("ids", strings.Join(chunk, ","))
		var page severalArtists
		if err := c.doRequest(ctx, http.MethodGet, "/artists", query, nil, &page); err != nil {
			return nil, err
		}
		for _, a := range page.Artists {
			if a.ID == "" {
				continue
			}
			artist := a.toModel()
			result[a.ID] = artist
			c.caches.PutArtist(artist)
		}
	}
	return result, nil
}

// errDrainDone stops a traversal early without signaling failure.
var errDrainDone = fmt.Errorf("drain complete")

// ArtistReleases fetches an artist's releases per release type (album,
// single), bounded to two pages per type, and keeps day-precision releases
// on or after cutoff. Paging within a type stops early once a page's last
// item is a day-precision release older than the cutoff, assuming the
// server's descending date ordering.
func (c *Client) ArtistReleases(ctx context.Context, artistID string, cutoff time.Time) ([]models.Release, error) {
	endpoint := fmt.Sprintf("/artists/%s/albums", artistID)
	var releases []models.Release

	for _, group := range []string{"album", "single"} {
		for page := 0; page < releasePageCap; page++ {
			query := url.Values{}
			query.Set("include_groups", group)
			query.Set("limit", strconv.Itoa(albumPageSize))
			query.Set("offset", strconv.Itoa(page*albumPageSize))

			var resp albumsPage
			if err := c.doRequest(ctx, http.MethodGet, endpoint, query, nil, &resp); err != nil {
				return nil, err
			}
			if len(resp.Items) == 0 {
				break
			}

			for _, item := range resp.Items {
				release := item.toModel()
				if released, ok := release.ReleasedOn(); ok && !released.Before(cutoff) {
					releases = append(releases, release)
				}
			}

			last := resp.Items[len(resp.Items)-1].toModel()
			if released, ok := last.ReleasedOn(); ok && released.Before(cutoff) {
				break
			}
			if resp.Next == nil || *resp.Next == "" {
				break
			}
		}
	}
	return releases, nil
}

// RelatedArtists fetches the artists related to a seed artist, cached per
// seed.
func (c *Client) RelatedArtists(ctx context.Context, seedID string) ([]models.Artist, error) {
	if cached, ok := c.caches.Related(seedID); ok {
		return cached, nil
	}

	endpoint := fmt.Sprintf("/artists/%s/related-artists", seedID)
	var page relatedArtists
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, nil, &page); err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(page.Artists))
	for _, a := range page.Artists {
		artists = append(artists, a.toModel())
	}
	c.caches.PutRelated(seedID, artists)
	return artists, nil
}

// Albums retrieves multiple albums in chunks of 20.
func (c *Client) Albums(ctx context.Context, albumIDs []string) ([]models.Release, error) {
	ids := dedupeIDs(albumIDs)
	releases := make([]models.Release, 0, len(ids))

	for _, chunk := range chunkIDs(ids, albumChunkSize) {
		query := url.Values{}
		query.Set("ids", strings.Join(chunk, ","))
		var page severalAlbums
		if err := c.doRequest(ctx, http.MethodGet, "/albums", query, nil, &page); err != nil {
			return nil, err
		}
		for _, a := range page.Albums {
			if a.ID == "" {
				continue
			}
			releases = append(releases, a.toModel())
		}
	}
	return releases, nil
}

// AlbumTracks drains an album's track listing, cached per album.
func (c *Client) AlbumTracks(ctx context.Context, albumID string) ([]models.Track, error) {
	if cached, ok := c.caches.AlbumTracks(albumID); ok {
		return cached, nil
	}

	endpoint := fmt.Sprintf("/albums/%s/tracks", albumID)
	fetch := func(ctx context.Context, offset, limit int) ([]trackObject, *string, error) {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(limit))
		query.Set("offset", strconv.Itoa(offset))
		var page albumTracksPage
		if err := c.doRequest(ctx, http.MethodGet, endpoint, query, nil, &page); err != nil {
			return nil, nil, err
		}
		return page.Items, page.Next, nil
	}

	var tracks []models.Track
	err := drainOffset(ctx, albumPageSize, fetch, func(t trackObject) error {
		track := t.toModel()
		if track.AlbumID == "" {
			track.AlbumID = albumID
		}
		tracks = append(tracks, track)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.caches.PutAlbumTracks(albumID, tracks)
	return tracks, nil
}

// Track retrieves full track detail, needed for the preview URL.
func (c *Client) Track(ctx context.Context, trackID string) (models.Track, error) {
	var t trackObject
	endpoint := fmt.Sprintf("/tracks/%s", trackID)
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, nil, &t); err != nil {
		return models.Track{}, err
	}
	return t.toModel(), nil
}

// CreatePlaylist creates a playlist for the user.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name string, public bool) (models.PlaylistInfo, error) {
	if name == "" {
		return models.PlaylistInfo{}, fmt.Errorf("%w: empty playlist name", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", userID)
	body := map[string]any{"name": name, "public": public}
	var created createdPlaylist
	if err := c.doRequest(ctx, http.MethodPost, endpoint, nil, body, &created); err != nil {
		return models.PlaylistInfo{}, err
	}

	return models.PlaylistInfo{
		ID:     created.ID,
		Name:   created.Name,
		URL:    created.ExternalURLs.Spotify,
		Public: created.Public,
	}, nil
}

// AddTracks adds track URIs to a playlist in chunks of 100, sequentially,
// and reports how many were added.
func (c *Client) AddTracks(ctx context.Context, playlistID string, trackURIs []string) (int, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	added := 0
	for _, chunk := range chunkIDs(trackURIs, trackChunkSize) {
		body := map[string]any{"uris": chunk}
		if err := c.doRequest(ctx, http.MethodPost, endpoint, nil, body, nil); err != nil {
			return added, err
		}
		added += len(chunk)
	}
	return added, nil
}
