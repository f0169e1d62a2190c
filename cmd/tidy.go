package cmd

import (
	"fmt"

	"feedmix/db"

	"github.com/cqroot/prompt"
	"github.com/urfave/cli/v2"
)

func tidyCmd() *cli.Command {
	return &cli.Command{
		Name:  "tidy",
		Usage: "Tidy up the database",
		Description: `Tidy up the database by removing content that is old.

		Removes discussions, updates and resources older than the given number
		of days. This is to keep the database size down; items that old sit at
		the decay floor and rarely make a page anyway.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "feedmix.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"FEEDMIX_DATABASE"},
			},
			&cli.IntFlag{
				Name:  "days",
				Value: 90,
				Usage: "Remove content older than this many days",
			},
			&cli.BoolFlag{
				Name:  "yes",
				Usage: "Skip the confirmation prompt",
			},
		},
		Action: func(ctx *cli.Context) error {
			database := ctx.String("database")
			days := ctx.Int("days")
			fmt.Println("Database configured: ", database)

			if !ctx.Bool("yes") {
				answer, err := prompt.New().
					Ask(fmt.Sprintf("Delete all content older than %d days?", days)).
					Choose([]string{"Yes", "No"})
				if err != nil {
					return err
				}
				if answer != "Yes" {
					fmt.Println("Aborted")
					return nil
				}
			}

			return db.Tidy(database, days)
		},
	}
}
