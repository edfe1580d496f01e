package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"
)

// Scan discovers recent releases from followed artists, optionally saving
// them into a new playlist.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.requireEngine(cmd)
	if err != nil {
		return err
	}

	config := r.resolveConfig(cmd)
	days := int(cmd.Int("days"))
	if days <= 0 {
		days = config.Scan.DaysBack
	}
	maxArtists := int(cmd.Int("max-artists"))
	if maxArtists <= 0 {
		maxArtists = config.Scan.MaxArtists
	}

	logger := r.opLogger("scan")
	logger.Info("scanning for releases", "days_back", days, "max_artists", maxArtists)
	start := time.Now()

	progress, stop := r.streamProgress()
	defer stop()

	scan, err := engine.ScanRecentReleases(ctx, progress, days, maxArtists)
	if err != nil {
		return err
	}
	logger.Info("scan complete", "releases", len(scan.Releases), "took", elapsed(start))

	if name := cmd.String("save-to"); name != "" && len(scan.Releases) > 0 {
		info, err := engine.CreatePlaylistFromReleases(ctx, progress, name, scan.Releases, cmd.Bool("public"))
		if err != nil {
			return err
		}
		r.writePlain("\n%s", r.palette.Playlist(info))
	}

	if cmd.Bool("json") {
		return r.writeJSON(scan, true)
	}
	return r.writePlain("\n%s", r.palette.Scan(scan))
}
