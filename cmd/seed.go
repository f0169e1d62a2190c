package cmd

import (
	"fmt"
	"math/rand"
	"time"

	"feedmix/db"
	"feedmix/models"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

var seedNames = []string{
	"Ada Bergström", "Jonas Mikkelsen", "Priya Raman", "Tomás Oliveira",
	"Hannah Weiss", "Kofi Mensah", "Yuki Tanaka", "Marta Kowalska",
}

var seedTitles = []string{
	"Software Engineer", "Product Manager", "UX Designer", "Data Analyst",
	"Engineering Manager", "Technical Writer", "Recruiter", "Consultant",
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Populate the database with demo content",
		Description: `Fills the database with generated profiles, discussions, updates
and resources so the feed has something to rank. Intended for local
development and demos only.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Value:   "feedmix.db",
				Usage:   "SQLite database file location",
				EnvVars: []string{"FEEDMIX_DATABASE"},
			},
			&cli.IntFlag{
				Name:  "items",
				Value: 30,
				Usage: "Number of content items to create per source",
			},
		},
		Action: func(ctx *cli.Context) error {
			writer, err := db.NewWriter(ctx.String("database"))
			if err != nil {
				return err
			}
			defer writer.Close()

			rng := rand.New(rand.NewSource(time.Now().UnixNano()))

			// Profiles first, content references them
			authorIDs := make([]string, len(seedNames))
			for i, name := range seedNames {
				id := uuid.New().String()
				authorIDs[i] = id
				author := models.Author{
					ID:        id,
					FullName:  name,
					AvatarURL: fmt.Sprintf("https://avatars.example.com/%s.png", id),
					JobTitle:  seedTitles[i%len(seedTitles)],
				}
				if err := writer.CreateAuthor(ctx.Context, author); err != nil {
					return err
				}
			}

			items := ctx.Int("items")
			kinds := []models.SourceKind{models.KindDiscussion, models.KindUpdate, models.KindResource}
			for _, kind := range kinds {
				for i := 0; i < items; i++ {
					// Spread authorship over the last two weeks so the feed
					// crosses both the freshness thresholds and the decay
					// floor
					age := time.Duration(rng.Intn(14*24)) * time.Hour

					rec := models.ContentRecord{
						ID:           uuid.New().String(),
						AuthorID:     authorIDs[rng.Intn(len(authorIDs))],
						CreatedAt:    time.Now().Add(-age),
						Title:        fmt.Sprintf("Demo %s #%d", kind, i+1),
						Body:         fmt.Sprintf("Generated %s content for local development.", kind),
						LikeCount:    rng.Intn(40),
						CommentCount: rng.Intn(15),
						ViewCount:    rng.Intn(500),
						Status:       "published",
					}
					if err := writer.CreateContent(ctx.Context, kind, rec); err != nil {
						return err
					}
				}
			}

			fmt.Printf("Seeded %d profiles and %d items per source\n", len(authorIDs), items)
			return nil
		},
	}
}
