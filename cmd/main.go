package main

import (
	"context"
	"os"
	"time"

	"github.com/mhoffer1/spotify-release-hub/internal/shared"
	"github.com/mhoffer1/spotify-release-hub/internal/spotify"
	"github.com/urfave/cli/v3"
)

// cacheTTLs converts configured TTL minutes into per-kind durations, keeping
// the defaults for any unset field.
func cacheTTLs(cfg shared.CacheConfig) spotify.CacheTTLs {
	ttls := spotify.DefaultCacheTTLs()
	if cfg.ArtistTTLMinutes > 0 {
		ttls.Artist = time.Duration(cfg.ArtistTTLMinutes) * time.Minute
	}
	if cfg.FollowTTLMinutes > 0 {
		ttls.Follow = time.Duration(cfg.FollowTTLMinutes) * time.Minute
	}
	if cfg.RelatedTTLMinutes > 0 {
		ttls.Related = time.Duration(cfg.RelatedTTLMinutes) * time.Minute
	}
	if cfg.AnalysisTTLMinutes > 0 {
		ttls.Analysis = time.Duration(cfg.AnalysisTTLMinutes) * time.Minute
	}
	return ttls
}

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "releasehub",
		Usage:    "Follow playlist artists and collect their new releases",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
