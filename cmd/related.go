package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Related merges related artists across seeds into a followable candidate
// list.
func (r *Runner) Related(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.requireEngine(cmd)
	if err != nil {
		return err
	}

	seeds := cmd.StringSlice("seed")
	r.opLogger("related").Info("fetching related artists", "seeds", len(seeds))

	progress, stop := r.streamProgress()
	defer stop()

	candidates, err := engine.GetRelatedArtists(ctx, progress, seeds)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(candidates, true)
	}
	return r.writePlain("\n%s", r.palette.Artists(candidates))
}
