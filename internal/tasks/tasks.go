package tasks

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mhoffer1/spotify-release-hub/internal/models"
	"github.com/mhoffer1/spotify-release-hub/internal/shared"
	"github.com/mhoffer1/spotify-release-hub/internal/spotify"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"
)

// Catalog defines the API client operations the engine composes.
// This abstraction allows for easier testing and decoupling from the
// concrete client.
type Catalog interface {
	CurrentUser(ctx context.Context) (spotify.User, error)
	Playlist(ctx context.Context, playlistID string) (spotify.PlaylistMeta, error)
	PlaylistArtists(ctx context.Context, playlistID string) (map[string]models.Artist, map[string]int, error)
	FollowedArtists(ctx context.Context, limit int) ([]models.Artist, error)
	FollowStatus(ctx context.Context, artistIDs []string) (map[string]bool, error)
	FollowChunk(ctx context.Context, artistIDs []string) error
	Artists(ctx context.Context, artistIDs []string) (map[string]models.Artist, error)
	ArtistReleases(ctx context.Context, artistID string, cutoff time.Time) ([]models.Release, error)
	RelatedArtists(ctx context.Context, seedID string) ([]models.Artist, error)
	Albums(ctx context.Context, albumIDs []string) ([]models.Release, error)
	AlbumTracks(ctx context.Context, albumID string) ([]models.Track, error)
	Track(ctx context.Context, trackID string) (models.Track, error)
	CreatePlaylist(ctx context.Context, userID, name string, public bool) (models.PlaylistInfo, error)
	AddTracks(ctx context.Context, playlistID string, trackURIs []string) (int, error)
	CachedAnalysis(playlistID string) (models.PlaylistAnalysis, bool)
	StoreAnalysis(analysis models.PlaylistAnalysis)
}

const followChunkSize = 20

// Engine orchestrates catalog operations against a [Catalog].
type Engine struct {
	catalog  Catalog
	logger   *log.Logger
	clock    shared.Clock
	scanCfg  shared.ScanConfig
	collator *collate.Collator
}

// NewEngine creates an engine with the provided catalog client.
func NewEngine(catalog Catalog, scanCfg shared.ScanConfig, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if scanCfg.BatchSize <= 0 {
		scanCfg.BatchSize = 5
	}
	if scanCfg.RateLimit <= 0 {
		scanCfg.RateLimit = 2.0
	}
	return &Engine{
		catalog:  catalog,
		logger:   logger,
		clock:    shared.SystemClock{},
		scanCfg:  scanCfg,
		collator: collate.New(language.Und, collate.IgnoreCase),
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// AnalyzePlaylist resolves a playlist reference, drains its tracks, and
// reports the distinct artists the user does not follow, ordered by how
// often they appear in the playlist. A fresh cached analysis is returned
// without any network calls.
func (e *Engine) AnalyzePlaylist(ctx context.Context, progress chan<- ProgressUpdate, playlistRef string) (*models.PlaylistAnalysis, error) {
	playlistID, err := spotify.ParsePlaylistID(playlistRef)
	if err != nil {
		return nil, err
	}

	if cached, ok := e.catalog.CachedAnalysis(playlistID); ok {
		e.sendProgress(progress, analysisCachedUpdate(&cached))
		return &cached, nil
	}

	e.sendProgress(progress, analyzeUpdate(1, 4, "Fetching playlist..."))
	meta, err := e.catalog.Playlist(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}

	e.sendProgress(progress, analyzeUpdate(2, 4, fmt.Sprintf("Collecting artists from %s...", meta.Name)))
	registry, frequency, err := e.catalog.PlaylistArtists(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect playlist artists: %w", err)
	}

	artistIDs := make([]string, 0, len(registry))
	for id := range registry {
		artistIDs = append(artistIDs, id)
	}

	e.sendProgress(progress, analyzeUpdate(3, 4, fmt.Sprintf("Resolving follow status for %d artists...", len(artistIDs))))
	status, err := e.catalog.FollowStatus(ctx, artistIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve follow status: %w", err)
	}

	var unfollowedIDs []string
	for _, id := range artistIDs {
		if !status[id] {
			unfollowedIDs = append(unfollowedIDs, id)
		}
	}

	e.sendProgress(progress, analyzeUpdate(4, 4, fmt.Sprintf("Hydrating %d unfollowed artists...", len(unfollowedIDs))))
	hydrated, err := e.catalog.Artists(ctx, unfollowedIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate artists: %w", err)
	}

	unfollowed := make([]models.UnfollowedArtist, 0, len(unfollowedIDs))
	for _, id := range unfollowedIDs {
		artist, ok := hydrated[id]
		if !ok {
			artist = registry[id]
		}
		unfollowed = append(unfollowed, models.UnfollowedArtist{
			Artist:    artist,
			Frequency: frequency[id],
		})
	}

	sort.SliceStable(unfollowed, func(i, j int) bool {
		if unfollowed[i].Frequency != unfollowed[j].Frequency {
			return unfollowed[i].Frequency > unfollowed[j].Frequency
		}
		return e.collator.CompareString(unfollowed[i].Artist.Name, unfollowed[j].Artist.Name) < 0
	})

	analysis := models.PlaylistAnalysis{
		PlaylistID:   playlistID,
		PlaylistName: meta.Name,
		Owner:        meta.Owner,
		TotalTracks:  meta.TotalTracks,
		TotalArtists: len(registry),
		Unfollowed:   unfollowed,
	}
	e.catalog.StoreAnalysis(analysis)
	return &analysis, nil
}

// FollowArtistsBulk follows artists in chunks of 20 with an inter-chunk
// delay. A failed chunk records its IDs as failed and the operation
// continues; retry already happened inside the executor.
func (e *Engine) FollowArtistsBulk(ctx context.Context, progress chan<- ProgressUpdate, artistIDs []string) (*models.FollowResult, error) {
	if len(artistIDs) == 0 {
		return nil, fmt.Errorf("%w: no artist IDs provided", shared.ErrInvalidInput)
	}

	chunks := chunk(artistIDs, followChunkSize)
	limiter := rate.NewLimiter(rate.Limit(e.scanCfg.RateLimit), 1)
	result := &models.FollowResult{}

	for i, ids := range chunks {
		if i > 0 {
			if err := limiter.Wait(ctx); err != nil {
				return result, err
			}
		}

		if err := e.catalog.FollowChunk(ctx, ids); err != nil {
			e.logger.Warn("follow chunk failed", "chunk", i+1, "size", len(ids), "err", err)
			result.Failed += len(ids)
			result.FailedIDs = append(result.FailedIDs, ids...)
			e.sendProgress(progress, followChunkFailedUpdate(i+1, len(chunks), err))
			continue
		}

		result.Followed += len(ids)
		e.sendProgress(progress, followChunkUpdate(i+1, len(chunks), result.Followed))
	}

	return result, nil
}

// CreatePlaylistFromReleases collects every track from the given releases
// and assembles them into a new playlist.
func (e *Engine) CreatePlaylistFromReleases(ctx context.Context, progress chan<- ProgressUpdate, name string, releases []models.Release, public bool) (*models.PlaylistInfo, error) {
	if len(releases) == 0 {
		return nil, fmt.Errorf("%w: no releases provided", shared.ErrInvalidInput)
	}

	var trackURIs []string
	seen := make(map[string]struct{})
	for i, release := range releases {
		e.sendProgress(progress, createPlaylistUpdate(i+1, len(releases)+2, fmt.Sprintf("Collecting tracks from %s...", release.Name)))
		tracks, err := e.catalog.AlbumTracks(ctx, release.ID)
		if err != nil {
			e.logger.Warn("skipping release, track fetch failed", "release", release.ID, "err", err)
			continue
		}
		for _, track := range tracks {
			if track.URI == "" {
				continue
			}
			if _, ok := seen[track.URI]; ok {
				continue
			}
			seen[track.URI] = struct{}{}
			trackURIs = append(trackURIs, track.URI)
		}
	}

	return e.createPlaylist(ctx, progress, name, trackURIs, public, len(releases))
}

// CreatePlaylistFromAlbums resolves album IDs into releases and builds a
// playlist from their tracks.
func (e *Engine) CreatePlaylistFromAlbums(ctx context.Context, progress chan<- ProgressUpdate, name string, albumIDs []string, public bool) (*models.PlaylistInfo, error) {
	if len(albumIDs) == 0 {
		return nil, fmt.Errorf("%w: no album IDs provided", shared.ErrInvalidInput)
	}

	e.sendProgress(progress, createPlaylistUpdate(0, len(albumIDs)+2, fmt.Sprintf("Resolving %d albums...", len(albumIDs))))
	releases, err := e.catalog.Albums(ctx, albumIDs)
	if err != nil {
		return nil, fmt.Errorf("resolving albums: %w", err)
	}
	return e.CreatePlaylistFromReleases(ctx, progress, name, releases, public)
}

// CreatePlaylistFromTracks creates a new playlist holding the given track
// URIs.
func (e *Engine) CreatePlaylistFromTracks(ctx context.Context, progress chan<- ProgressUpdate, name string, trackURIs []string, public bool) (*models.PlaylistInfo, error) {
	if len(trackURIs) == 0 {
		return nil, fmt.Errorf("%w: no track URIs provided", shared.ErrInvalidInput)
	}
	return e.createPlaylist(ctx, progress, name, trackURIs, public, 0)
}

func (e *Engine) createPlaylist(ctx context.Context, progress chan<- ProgressUpdate, name string, trackURIs []string, public bool, doneSteps int) (*models.PlaylistInfo, error) {
	total := doneSteps + 2

	e.sendProgress(progress, createPlaylistUpdate(doneSteps+1, total, fmt.Sprintf("Creating playlist %q...", name)))
	user, err := e.catalog.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current user: %w", err)
	}

	info, err := e.catalog.CreatePlaylist(ctx, user.ID, name, public)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	e.sendProgress(progress, createPlaylistUpdate(doneSteps+2, total, fmt.Sprintf("Adding %d tracks...", len(trackURIs))))
	added, err := e.catalog.AddTracks(ctx, info.ID, trackURIs)
	info.TracksAdded = added
	if err != nil {
		return &info, fmt.Errorf("playlist created but adding tracks failed: %w", err)
	}
	return &info, nil
}

// TrackFetchResult is the outcome of fetching tracks across albums; albums
// that failed are reported rather than aborting the operation.
type TrackFetchResult struct {
	Tracks       []models.Track
	FailedAlbums []string
}

// GetTracksFromAlbums drains each album's track listing and fetches full
// per-track detail (needed for the preview URL). A failing album is logged
// and skipped.
func (e *Engine) GetTracksFromAlbums(ctx context.Context, progress chan<- ProgressUpdate, albumIDs []string) (*TrackFetchResult, error) {
	if len(albumIDs) == 0 {
		return nil, fmt.Errorf("%w: no album IDs provided", shared.ErrInvalidInput)
	}

	result := &TrackFetchResult{}
	for i, albumID := range albumIDs {
		e.sendProgress(progress, fetchTracksUpdate(i+1, len(albumIDs), albumID))

		listing, err := e.catalog.AlbumTracks(ctx, albumID)
		if err != nil {
			e.logger.Warn("skipping album, track listing failed", "album", albumID, "err", err)
			result.FailedAlbums = append(result.FailedAlbums, albumID)
			continue
		}

		for _, t := range listing {
			detail, err := e.catalog.Track(ctx, t.ID)
			if err != nil {
				e.logger.Warn("track detail fetch failed, using listing entry", "track", t.ID, "err", err)
				detail = t
			}
			result.Tracks = append(result.Tracks, detail)
		}
	}
	return result, nil
}

// GetRelatedArtists merges related artists across seeds into a deduplicated
// candidate set excluding the seeds themselves and any already-followed
// artists, sorted by descending popularity then ascending name.
func (e *Engine) GetRelatedArtists(ctx context.Context, progress chan<- ProgressUpdate, seedIDs []string) ([]models.Artist, error) {
	if len(seedIDs) == 0 {
		return nil, fmt.Errorf("%w: no seed artist IDs provided", shared.ErrInvalidInput)
	}

	seeds := make(map[string]struct{}, len(seedIDs))
	for _, id := range seedIDs {
		seeds[id] = struct{}{}
	}

	candidates := make(map[string]models.Artist)
	for i, seedID := range seedIDs {
		e.sendProgress(progress, relatedUpdate(i+1, len(seedIDs), seedID))

		related, err := e.catalog.RelatedArtists(ctx, seedID)
		if err != nil {
			e.logger.Warn("related-artist fetch failed, skipping seed", "seed", seedID, "err", err)
			continue
		}
		for _, artist := range related {
			if _, isSeed := seeds[artist.ID]; isSeed {
				continue
			}
			if _, ok := candidates[artist.ID]; !ok {
				candidates[artist.ID] = artist
			}
		}
	}

	ids := make([]string, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	status, err := e.catalog.FollowStatus(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve follow status: %w", err)
	}

	out := make([]models.Artist, 0, len(candidates))
	for id, artist := range candidates {
		if !status[id] {
			out = append(out, artist)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Popularity != out[j].Popularity {
			return out[i].Popularity > out[j].Popularity
		}
		return e.collator.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out, nil
}

// chunk partitions items into consecutive chunks of at most size elements.
func chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
