package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/ericfisherdev/reviewdeck/internal/adapter/driven/fixture"
	sqliteadapter "github.com/ericfisherdev/reviewdeck/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/reviewdeck/internal/application"
	"github.com/ericfisherdev/reviewdeck/internal/config"
)

// fixtureFS returns the configured fixture directory, or the embedded set.
func fixtureFS(cfg *config.Config) fs.FS {
	if cfg.FixturesPath == "" {
		return fixture.Embedded()
	}
	return os.DirFS(cfg.FixturesPath)
}

// loadFixtures loads the fixture set and logs any referential problems.
func loadFixtures(cfg *config.Config, logger zerolog.Logger) (*fixture.Set, error) {
	set, err := fixture.Load(fixtureFS(cfg))
	if err != nil {
		return nil, err
	}
	for _, p := range set.Validate() {
		logger.Warn().Str("pr", p.PRID).Str("group", p.GroupID).Msg(p.Reason)
	}
	return set, nil
}

// openStore opens and migrates the database, seeds it with the fixtures and
// returns the PR service reading from it. The caller closes the database.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*sqliteadapter.DB, *application.PRService, error) {
	set, err := loadFixtures(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Str("path", db.Path()).Msg("database opened")

	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	logger.Info().Uint("version", version).Msg("migrations complete")

	if err := sqliteadapter.Seed(ctx, db, set); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("seed fixtures: %w", err)
	}
	logger.Info().Int("prs", len(set.PRs)).Msg("fixtures seeded")

	prSvc := application.NewPRService(
		sqliteadapter.NewPRRepo(db),
		sqliteadapter.NewFileRepo(db),
		sqliteadapter.NewConversationRepo(db),
	)
	return db, prSvc, nil
}
