package spotify

// Per-request ID ceilings imposed by the remote API.
const (
	artistChunkSize = 50  // GET /artists, GET /me/following/contains
	followChunkSize = 20  // PUT /me/following
	albumChunkSize  = 20  // GET /albums
	trackChunkSize  = 100 // POST /playlists/{id}/tracks
)

// chunkIDs partitions ids into consecutive chunks of at most size elements.
func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// dedupeIDs preserves first occurrence order while dropping duplicates and
// empty IDs.
func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
