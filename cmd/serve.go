package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"feedmix/cache"
	"feedmix/config"
	"feedmix/db"
	"feedmix/feeds"
	"feedmix/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the feed API",
		Description: `Starts the feedmix HTTP server.

Composes feed pages from the discussions, updates and resources stored in the
SQLite database and serves them via the HTTP API. If the redis cache is
enabled in the configuration, raw source pages are cached for a short TTL.`,
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
			&cli.StringFlag{
				Name:    "hostname",
				Aliases: []string{"n"},
				Usage:   "The hostname where the server is running",
				EnvVars: []string{"FEEDMIX_HOSTNAME"},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "The port to listen on",
				EnvVars: []string{"FEEDMIX_PORT"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			fmt.Println("Starting feedmix...")

			reader := db.NewReader(cfg.Database)
			defer reader.Close()

			var source feeds.Source = reader
			if cfg.Redis.Enabled {
				rdb, err := cache.Connect(ctx.Context, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
				if err != nil {
					return fmt.Errorf("failed to connect to redis: %w", err)
				}
				defer rdb.Close()
				source = cache.NewSourceCache(reader, rdb, cfg.CacheTTL())
				log.WithFields(log.Fields{
					"addr": cfg.Redis.Addr,
					"ttl":  cfg.CacheTTL(),
				}).Info("Source cache enabled")
			}

			composer := feeds.NewComposer(cfg, source, reader)

			app := server.Server(&server.ServerConfig{
				Hostname: cfg.Hostname,
				Composer: composer,
				Reader:   reader,
			})

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)

			errChan := make(chan error, 1)
			go func() {
				fmt.Println("Starting server...")
				errChan <- app.Listen(fmt.Sprintf(":%d", cfg.Port))
			}()

			select {
			case <-c:
				fmt.Println("Gracefully shutting down...")
				return app.ShutdownWithTimeout(60 * time.Second)
			case err := <-errChan:
				return err
			}
		},
	}
}

// loadConfig reads the TOML config if given and lets CLI flags override the
// file values
func loadConfig(ctx *cli.Context) (*config.TomlConfig, error) {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if database := ctx.String("database"); database != "" {
		cfg.Database = database
	}
	if hostname := ctx.String("hostname"); hostname != "" {
		cfg.Hostname = hostname
	}
	if port := ctx.Int("port"); port != 0 {
		cfg.Port = port
	}

	return cfg, nil
}
