package main

import (
	"context"
	"fmt"

	"github.com/mhoffer1/spotify-release-hub/internal/shared"
	"github.com/urfave/cli/v3"
)

// Analyze finds the unfollowed artists of a playlist.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	playlistRef := cmd.StringArg("playlist")
	if playlistRef == "" {
		return fmt.Errorf("%w: playlist URL or ID", shared.ErrMissingArgument)
	}

	engine, err := r.requireEngine(cmd)
	if err != nil {
		return err
	}

	logger := r.opLogger("analyze")
	logger.Info("analyzing playlist", "playlist", playlistRef)

	progress, stop := r.streamProgress()
	analysis, err := engine.AnalyzePlaylist(ctx, progress, playlistRef)
	stop()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(analysis, cmd.Bool("pretty"))
	}
	return r.writePlain("\n%s", r.palette.Analysis(analysis))
}
