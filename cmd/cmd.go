// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes the config file and credential store
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a config file and initialize the credential store",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// analyzeCommand finds unfollowed artists in a playlist
func analyzeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"an"},
		Usage:   "Find artists in a playlist that you don't follow",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "playlist"},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
		},
		Action: r.Analyze,
	}
}

// followCommand bulk-follows artists
func followCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "follow",
		Usage: "Follow artists by ID, or every unfollowed artist of a playlist",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringSliceFlag{
				Name:    "id",
				Aliases: []string{"i"},
				Usage:   "Artist ID to follow (repeatable)",
			},
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Follow all unfollowed artists of this playlist",
			},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Follow,
	}
}

// scanCommand discovers recent releases from followed artists
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Scan followed artists for recent releases",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "days",
				Aliases: []string{"d"},
				Usage:   "How many days back to look",
			},
			&cli.IntFlag{
				Name:  "max-artists",
				Usage: "Cap the number of artists checked (0 = uncapped)",
			},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.StringFlag{
				Name:  "save-to",
				Usage: "Create a playlist with this name from the scan results",
			},
			&cli.BoolFlag{Name: "public", Usage: "Make the created playlist public"},
		},
		Action: r.Scan,
	}
}

// playlistCommand builds playlists from albums or track URIs
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a playlist from album IDs or track URIs",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Name for the new playlist",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "album",
						Usage: "Album ID to include (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "uri",
						Usage: "Track URI to include (repeatable)",
					},
					&cli.BoolFlag{Name: "public", Usage: "Make the playlist public"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "tracks",
				Usage: "Fetch full track detail for albums",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringSliceFlag{
						Name:     "album",
						Usage:    "Album ID (repeatable)",
						Required: true,
					},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON", Value: true},
				},
				Action: r.AlbumTracks,
			},
		},
	}
}

// relatedCommand discovers related artists worth following
func relatedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "related",
		Usage: "Discover related artists you don't follow yet",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringSliceFlag{
				Name:     "seed",
				Aliases:  []string{"s"},
				Usage:    "Seed artist ID (repeatable)",
				Required: true,
			},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Related,
	}
}
