package main

import (
	"context"
	"fmt"

	"github.com/mhoffer1/spotify-release-hub/internal/models"
	"github.com/mhoffer1/spotify-release-hub/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistCreate creates a playlist from album IDs or track URIs.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.requireEngine(cmd)
	if err != nil {
		return err
	}

	name := cmd.String("name")
	albums := cmd.StringSlice("album")
	uris := cmd.StringSlice("uri")
	if len(albums) == 0 && len(uris) == 0 {
		return fmt.Errorf("%w: provide --album or --uri", shared.ErrMissingArgument)
	}

	progress, stop := r.streamProgress()
	defer stop()

	var info *models.PlaylistInfo
	if len(albums) > 0 {
		if len(uris) > 0 {
			return fmt.Errorf("%w: --album and --uri are mutually exclusive", shared.ErrMissingArgument)
		}
		info, err = engine.CreatePlaylistFromAlbums(ctx, progress, name, albums, cmd.Bool("public"))
	} else {
		info, err = engine.CreatePlaylistFromTracks(ctx, progress, name, uris, cmd.Bool("public"))
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(info, true)
	}
	return r.writePlain("\n%s", r.palette.Playlist(info))
}

// AlbumTracks fetches full track detail for albums.
func (r *Runner) AlbumTracks(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.requireEngine(cmd)
	if err != nil {
		return err
	}

	progress, stop := r.streamProgress()
	defer stop()

	fetched, err := engine.GetTracksFromAlbums(ctx, progress, cmd.StringSlice("album"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(fetched, true)
	}
	return r.writePlain("\n%s", r.palette.Tracks(fetched.Tracks))
}
