package main

import (
	"context"

	"github.com/mhoffer1/spotify-release-hub/internal/shared"
	"github.com/mhoffer1/spotify-release-hub/internal/store"
	"github.com/urfave/cli/v3"
)

// Setup writes an example config file and initializes the credential store.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		r.logger.Warn("config file not created", "err", err)
	} else {
		r.writePlain("Created %s. Fill in your API credentials.\n", path)
	}

	config := r.resolveConfig(cmd)
	s, err := store.Open(config.Database)
	if err != nil {
		return err
	}
	defer s.Close()

	r.writePlain("Credential store ready at %s.\n", config.Database.Path)
	return nil
}
