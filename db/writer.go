package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"feedmix/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// Writer handles the external write paths: seeding content, upserting
// profiles and bumping engagement counters. The composer never writes.
type Writer struct {
	db *sql.DB
}

func NewWriter(database string) (*Writer, error) {
	db, err := connection(database)
	if err != nil {
		return nil, err
	}
	return &Writer{db: db}, nil
}

func (w *Writer) Close() error {
	return w.db.Close()
}

func (w *Writer) CreateAuthor(ctx context.Context, author models.Author) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := w.db.ExecContext(ctx, `
		INSERT INTO profiles (id, full_name, avatar_url, job_title)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			full_name = excluded.full_name,
			avatar_url = excluded.avatar_url,
			job_title = excluded.job_title`,
		author.ID, author.FullName, author.AvatarURL, author.JobTitle,
	)
	if err != nil {
		return fmt.Errorf("insert error: %w", err)
	}
	return nil
}

func (w *Writer) CreateContent(ctx context.Context, kind models.SourceKind, rec models.ContentRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"kind":       kind,
		"id":         rec.ID,
		"author_id":  rec.AuthorID,
		"created_at": rec.CreatedAt.Format(time.RFC3339),
	}).Info("Creating content")

	_, err = w.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, author_id, created_at, title, body, like_count, comment_count, view_count, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			like_count = excluded.like_count,
			comment_count = excluded.comment_count,
			view_count = excluded.view_count,
			status = excluded.status`, table),
		rec.ID,
		rec.AuthorID,
		rec.CreatedAt.Unix(),
		rec.Title,
		rec.Body,
		rec.LikeCount,
		rec.CommentCount,
		rec.ViewCount,
		rec.Status,
	)
	if err != nil {
		return fmt.Errorf("insert error: %w", err)
	}

	return nil
}

// BumpEngagement adds deltas to the engagement counters of one item
func (w *Writer) BumpEngagement(ctx context.Context, kind models.SourceKind, id string, likes, comments, views int) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	ub := sqlbuilder.NewUpdateBuilder()
	ub.Update(table)
	ub.Set(
		fmt.Sprintf("like_count = like_count + %d", likes),
		fmt.Sprintf("comment_count = comment_count + %d", comments),
		fmt.Sprintf("view_count = view_count + %d", views),
	)
	ub.Where(ub.Equal("id", id))

	query, args := ub.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))
	if _, err := w.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update error: %w", err)
	}
	return nil
}

func (w *Writer) DeleteContent(ctx context.Context, kind models.SourceKind, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	log.Info("Deleting content")
	if _, err := w.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id); err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	return nil
}
