package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"feedmix/db"
	"feedmix/feeds"
	"feedmix/models"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func composeCmd() *cli.Command {
	return &cli.Command{
		Name:  "compose",
		Usage: "Compose a single feed page and print it",
		Description: `Composes one feed page from the configured database and prints it
as JSON to stdout.

Useful for inspecting ranking and cadence behavior without running the
server. Pass --seen with a comma-separated list of composite keys to
simulate a browsing session.

Prints all log messages to stderr.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
				EnvVars: []string{"FEEDMIX_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Usage:   "SQLite database file location",
				EnvVars: []string{"FEEDMIX_DATABASE"},
			},
			&cli.IntFlag{
				Name:  "page",
				Value: 0,
				Usage: "Page index to compose",
			},
			&cli.IntFlag{
				Name:  "page-size",
				Value: 20,
				Usage: "Number of items per page",
			},
			&cli.StringFlag{
				Name:  "seen",
				Usage: "Comma-separated composite keys already seen this session",
			},
		},
		Action: func(ctx *cli.Context) error {
			// Keep stdout clean for the JSON result
			log.SetOutput(os.Stderr)

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			reader := db.NewReader(cfg.Database)
			defer reader.Close()

			composer := feeds.NewComposer(cfg, reader, reader)

			var seen []string
			if raw := ctx.String("seen"); raw != "" {
				seen = strings.Split(raw, ",")
			}

			page := composer.ComposePage(ctx.Context, models.PageRequest{
				Page:     ctx.Int("page"),
				PageSize: ctx.Int("page-size"),
				Seen:     seen,
			})

			out, err := json.MarshalIndent(page, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			return nil
		},
	}
}
