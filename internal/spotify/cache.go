package spotify

import (
	"fmt"
	"sync"
	"time"

	"github.com/mhoffer1/spotify-release-hub/internal/models"
	"github.com/mhoffer1/spotify-release-hub/internal/shared"
)

// Listing cache keys. A request for the first N followed artists can be
// satisfied from the "all" entry when it already holds at least N artists.
const listingAllKey = "all"

func listingFirstKey(n int) string { return fmt.Sprintf("first:%d", n) }

type cacheEntry[T any] struct {
	value    T
	storedAt time.Time
}

// ttlCache is a keyed cache whose entries expire after a fixed TTL. Values
// pass through clone on both put and get so callers never hold aliases into
// the cache's storage. Each write atomically replaces one key's entry.
type ttlCache[T any] struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry[T]
	ttl     time.Duration
	clock   shared.Clock
	clone   func(T) T
}

func newTTLCache[T any](ttl time.Duration, clock shared.Clock, clone func(T) T) *ttlCache[T] {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &ttlCache[T]{
		entries: make(map[string]cacheEntry[T]),
		ttl:     ttl,
		clock:   clock,
		clone:   clone,
	}
}

func (c *ttlCache[T]) get(key string) (T, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	var zero T
	if !ok {
		return zero, false
	}
	if c.clock.Now().Sub(entry.storedAt) >= c.ttl {
		return zero, false
	}
	return c.clone(entry.value), true
}

func (c *ttlCache[T]) put(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[T]{value: c.clone(value), storedAt: c.clock.Now()}
}

func (c *ttlCache[T]) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *ttlCache[T]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry[T])
}

// Caches groups the independent keyed caches of the client, each with its
// own TTL and invalidation trigger.
type Caches struct {
	artists     *ttlCache[models.Artist]           // artist ID → detail, TTL only
	follows     *ttlCache[bool]                    // artist ID → followed?, TTL + explicit set on follow
	listings    *ttlCache[[]models.Artist]         // "all" / "first:N" → followed listing
	related     *ttlCache[[]models.Artist]         // seed artist ID → related artists
	analyses    *ttlCache[models.PlaylistAnalysis] // playlist ID → analysis, short TTL
	albumTracks *ttlCache[[]models.Track]          // album ID → track listing
}

// CacheTTLs holds the per-kind expiries.
type CacheTTLs struct {
	Artist   time.Duration
	Follow   time.Duration
	Related  time.Duration
	Analysis time.Duration
}

// DefaultCacheTTLs mirror the volatility of each kind: artist metadata is
// stable for hours, playlist membership and follow status are not.
func DefaultCacheTTLs() CacheTTLs {
	return CacheTTLs{
		Artist:   6 * time.Hour,
		Follow:   2 * time.Hour,
		Related:  6 * time.Hour,
		Analysis: 10 * time.Minute,
	}
}

// NewCaches creates the cache set with the given TTLs.
func NewCaches(ttls CacheTTLs, clock shared.Clock) *Caches {
	cloneArtists := func(as []models.Artist) []models.Artist {
		out := make([]models.Artist, len(as))
		for i, a := range as {
			out[i] = a.Clone()
		}
		return out
	}
	cloneTracks := func(ts []models.Track) []models.Track {
		out := make([]models.Track, len(ts))
		for i, t := range ts {
			out[i] = t.Clone()
		}
		return out
	}

	return &Caches{
		artists:     newTTLCache(ttls.Artist, clock, models.Artist.Clone),
		follows:     newTTLCache[bool](ttls.Follow, clock, nil),
		listings:    newTTLCache(ttls.Follow, clock, cloneArtists),
		related:     newTTLCache(ttls.Related, clock, cloneArtists),
		analyses:    newTTLCache(ttls.Analysis, clock, models.PlaylistAnalysis.Clone),
		albumTracks: newTTLCache(ttls.Artist, clock, cloneTracks),
	}
}

// Artist returns the cached artist detail, if fresh.
func (c *Caches) Artist(id string) (models.Artist, bool) { return c.artists.get(id) }

// PutArtist stores an artist detail. Hydration replaces the record in place.
func (c *Caches) PutArtist(a models.Artist) { c.artists.put(a.ID, a) }

// FollowStatus returns the cached follow flag for an artist, if fresh.
func (c *Caches) FollowStatus(id string) (bool, bool) { return c.follows.get(id) }

// PutFollowStatus stores a follow flag.
func (c *Caches) PutFollowStatus(id string, followed bool) { c.follows.put(id, followed) }

// MarkFollowed records successfully followed IDs as followed and clears the
// listing caches, whose membership just changed. A freshly followed artist
// must never read back as unfollowed from a stale entry.
func (c *Caches) MarkFollowed(ids []string) {
	for _, id := range ids {
		c.follows.put(id, true)
	}
	c.listings.clear()
}

// FollowedListing returns a cached followed-artist listing. n <= 0 requests
// the full listing. A first-N request is served from the full listing when
// that holds at least n artists.
func (c *Caches) FollowedListing(n int) ([]models.Artist, bool) {
	if n <= 0 {
		return c.listings.get(listingAllKey)
	}
	if all, ok := c.listings.get(listingAllKey); ok && len(all) >= n {
		return all[:n], true
	}
	return c.listings.get(listingFirstKey(n))
}

// PutFollowedListing stores a followed-artist listing under the requested
// size, or the full listing for n <= 0.
func (c *Caches) PutFollowedListing(n int, artists []models.Artist) {
	if n <= 0 {
		c.listings.put(listingAllKey, artists)
		return
	}
	c.listings.put(listingFirstKey(n), artists)
}

// Related returns the cached related-artist list for a seed.
func (c *Caches) Related(seedID string) ([]models.Artist, bool) { return c.related.get(seedID) }

// PutRelated stores a related-artist list.
func (c *Caches) PutRelated(seedID string, artists []models.Artist) {
	c.related.put(seedID, artists)
}

// Analysis returns the cached playlist analysis, if fresh.
func (c *Caches) Analysis(playlistID string) (models.PlaylistAnalysis, bool) {
	return c.analyses.get(playlistID)
}

// PutAnalysis stores a playlist analysis.
func (c *Caches) PutAnalysis(a models.PlaylistAnalysis) { c.analyses.put(a.PlaylistID, a) }

// InvalidateAnalysis drops a playlist's cached analysis.
func (c *Caches) InvalidateAnalysis(playlistID string) { c.analyses.delete(playlistID) }

// AlbumTracks returns the cached track listing for an album.
func (c *Caches) AlbumTracks(albumID string) ([]models.Track, bool) {
	return c.albumTracks.get(albumID)
}

// PutAlbumTracks stores an album's track listing.
func (c *Caches) PutAlbumTracks(albumID string, tracks []models.Track) {
	c.albumTracks.put(albumID, tracks)
}
