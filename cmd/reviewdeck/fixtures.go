package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ericfisherdev/reviewdeck/internal/adapter/driven/fixture"
)

func newFixturesCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "fixtures",
		Usage: "Inspect the fixture set",
		Commands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Load the fixtures and report referential-integrity problems",
				Action: func(_ context.Context, c *cli.Command) error {
					set, err := fixture.Load(fixtureFS(a.cfg))
					if err != nil {
						return err
					}

					problems := set.Validate()
					w := c.Root().Writer
					for _, p := range problems {
						if _, err := fmt.Fprintln(w, p.String()); err != nil {
							return err
						}
					}
					if len(problems) > 0 {
						return fmt.Errorf("%d fixture problems found", len(problems))
					}

					_, err = fmt.Fprintf(w, "%d pull requests, no problems found\n", len(set.PRs))
					return err
				},
			},
		},
	}
}
