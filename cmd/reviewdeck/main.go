package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/ericfisherdev/reviewdeck/internal/config"
	"github.com/ericfisherdev/reviewdeck/internal/logging"
)

// Populated at build time via -ldflags.
var version = "dev"

// app holds state shared by the subcommands, set up in Before.
type app struct {
	configPath string
	cfg        *config.Config
	logger     zerolog.Logger
	logCloser  func()
}

func main() {
	a := &app{logCloser: func() {}}

	cmd := &cli.Command{
		Name:    "reviewdeck",
		Usage:   "Serve a read-only pull request review deck from fixtures",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to a TOML config file",
				Sources:     cli.EnvVars(config.EnvPrefix + "CONFIG"),
				Destination: &a.configPath,
			},
		},
		Before: a.setup,
		After: func(context.Context, *cli.Command) error {
			a.logCloser()
			return nil
		},
		Commands: []*cli.Command{
			newServeCmd(a),
			newExportCmd(a),
			newFixturesCmd(a),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Error().Err(err).Msg("fatal error")
		os.Exit(1)
	}
}

func (a *app) setup(ctx context.Context, _ *cli.Command) (context.Context, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return ctx, fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return ctx, fmt.Errorf("setup logger: %w", err)
	}
	log.Logger = logger
	a.logger = logger
	a.logCloser = closer

	return ctx, nil
}
