package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "feedmix",
		Usage: "A ranked multi-source feed composer",
		Description: `Composes feed pages for a professional networking community by
		mixing three content sources: discussions, member updates and curated
		resources.

		Discussions and updates are ranked by an engagement score with age decay
		and a freshness bonus, then interleaved with curated resources at a fixed
		cadence. Pages are served over an HTTP API with exact continuation
		signalling and session-level deduplication.

		Flags can generally be set via environment variables, e.g.:

		--database => FEEDMIX_DATABASE=feedmix.db
		--port => FEEDMIX_PORT=3000
		`,
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			rollbackCmd(),
			composeCmd(),
			seedCmd(),
			tidyCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
