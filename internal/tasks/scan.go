package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mhoffer1/spotify-release-hub/internal/models"
	"github.com/mhoffer1/spotify-release-hub/internal/shared"
	"golang.org/x/time/rate"
)

// artistReleases pairs one artist's fetch outcome for collection across a
// batch's goroutines.
type artistReleases struct {
	artist   models.Artist
	releases []models.Release
	err      error
}

// ScanRecentReleases fetches recent releases from the user's followed
// artists. Artists are processed in fixed-size batches; within a batch the
// per-artist fetches run concurrently and all settle before the next batch
// starts. A single artist's failure is logged and its releases omitted,
// never aborting the batch or the scan. Releases are deduplicated across
// batches (first occurrence wins) and sorted by release date descending.
//
// maxArtists caps how many followed artists are checked; 0 means uncapped.
func (e *Engine) ScanRecentReleases(ctx context.Context, progress chan<- ProgressUpdate, daysBack, maxArtists int) (*models.ReleaseScan, error) {
	if daysBack <= 0 {
		return nil, fmt.Errorf("%w: daysBack must be positive", shared.ErrInvalidInput)
	}

	cutoff := e.clock.Now().AddDate(0, 0, -daysBack)

	artists, err := e.catalog.FollowedArtists(ctx, maxArtists)
	if err != nil {
		return nil, fmt.Errorf("failed to list followed artists: %w", err)
	}
	if len(artists) == 0 {
		return &models.ReleaseScan{Releases: []models.Release{}}, nil
	}

	limiter := rate.NewLimiter(rate.Limit(e.scanCfg.RateLimit), 1)
	seen := make(map[string]struct{})
	var releases []models.Release

	started := e.clock.Now()
	processed := 0

	for _, batch := range chunk(artists, e.scanCfg.BatchSize) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		results := make([]artistReleases, len(batch))
		var wg sync.WaitGroup
		for i, artist := range batch {
			wg.Add(1)
			go func(i int, artist models.Artist) {
				defer wg.Done()
				fetched, err := e.catalog.ArtistReleases(ctx, artist.ID, cutoff)
				results[i] = artistReleases{artist: artist, releases: fetched, err: err}
			}(i, artist)
		}
		wg.Wait()

		for _, res := range results {
			if res.err != nil {
				e.logger.Warn("release fetch failed, omitting artist", "artist", res.artist.Name, "err", res.err)
				continue
			}
			for _, release := range res.releases {
				if _, ok := seen[release.ID]; ok {
					continue
				}
				seen[release.ID] = struct{}{}
				releases = append(releases, release)
			}
		}

		processed += len(batch)
		e.sendProgress(progress, scanBatchUpdate(processed, len(artists), batch, e.estimateRemaining(started, processed, len(artists))))
	}

	sort.SliceStable(releases, func(i, j int) bool {
		return releases[i].ReleaseDate > releases[j].ReleaseDate
	})

	return &models.ReleaseScan{
		Releases:       releases,
		ArtistsChecked: len(artists),
	}, nil
}

// estimateRemaining projects elapsed time per processed artist across the
// artists still to be checked.
func (e *Engine) estimateRemaining(started time.Time, processed, total int) time.Duration {
	if processed <= 0 || processed >= total {
		return 0
	}
	elapsed := e.clock.Now().Sub(started)
	perArtist := elapsed / time.Duration(processed)
	return perArtist * time.Duration(total-processed)
}
