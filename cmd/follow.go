package main

import (
	"context"
	"fmt"

	"github.com/mhoffer1/spotify-release-hub/internal/shared"
	"github.com/urfave/cli/v3"
)

// Follow bulk-follows artists given explicitly or discovered by analyzing a
// playlist.
func (r *Runner) Follow(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.requireEngine(cmd)
	if err != nil {
		return err
	}

	ids := cmd.StringSlice("id")
	playlistRef := cmd.String("playlist")
	if len(ids) == 0 && playlistRef == "" {
		return fmt.Errorf("%w: provide --id or --playlist", shared.ErrMissingArgument)
	}

	logger := r.opLogger("follow")
	progress, stop := r.streamProgress()
	defer stop()

	if playlistRef != "" {
		analysis, err := engine.AnalyzePlaylist(ctx, progress, playlistRef)
		if err != nil {
			return err
		}
		for _, u := range analysis.Unfollowed {
			ids = append(ids, u.Artist.ID)
		}
		logger.Info("following playlist artists", "playlist", analysis.PlaylistName, "count", len(ids))
	}

	if len(ids) == 0 {
		r.writePlain("Nothing to follow.\n")
		return nil
	}

	result, err := engine.FollowArtistsBulk(ctx, progress, ids)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}
	return r.writePlain("\n%s", r.palette.Follow(result))
}
