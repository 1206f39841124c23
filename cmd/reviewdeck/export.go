package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	webhandler "github.com/ericfisherdev/reviewdeck/internal/adapter/driving/web"
)

func newExportCmd(a *app) *cli.Command {
	var outDir, basePath string

	return &cli.Command{
		Name:      "export",
		Usage:     "Render every page in its initial state as static HTML",
		UsageText: "reviewdeck export --out DIR [--base-path PATH]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output directory",
				Required:    true,
				Destination: &outDir,
			},
			&cli.StringFlag{
				Name:        "base-path",
				Usage:       "base path the exported site is served under (defaults to the configured base path)",
				Destination: &basePath,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if !c.IsSet("base-path") {
				basePath = a.cfg.BasePath
			}

			db, prSvc, err := openStore(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			pages, err := webhandler.Export(ctx, prSvc, basePath, outDir)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			a.logger.Info().Int("pages", pages).Str("out", outDir).Str("base_path", basePath).Msg("export complete")
			return nil
		},
	}
}
