package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"time"

	"feedmix/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	"github.com/samber/lo"
)

type Reader struct {
	db *sql.DB
}

func NewReader(database string) *Reader {
	// Open in read-only mode with optimized settings
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?mode=ro&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", database))
	if err != nil {
		panic("failed to connect database")
	}

	// Set connection pool settings for reader
	db.SetMaxOpenConns(4)            // Allow multiple concurrent readers
	db.SetMaxIdleConns(2)            // Keep some connections ready
	db.SetConnMaxLifetime(time.Hour) // Recreate connections after an hour
	db.SetConnMaxIdleTime(time.Hour) // Close idle connections after an hour

	// Configure additional pragmas for better read performance
	if _, err := db.Exec(`
		PRAGMA busy_timeout = 5000;
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -32000; -- 32MB cache
		PRAGMA temp_store = MEMORY;
		PRAGMA mmap_size = 268435456; -- 256MB memory mapped I/O
		PRAGMA page_size = 4096;      -- Optimal page size for most systems
		PRAGMA read_uncommitted = 1;   -- Allow dirty reads for better concurrency
	`); err != nil {
		panic(fmt.Sprintf("failed to set pragmas: %v", err))
	}

	return &Reader{
		db: db,
	}
}

func (reader *Reader) Close() error {
	return reader.db.Close()
}

func tableFor(kind models.SourceKind) (string, error) {
	switch kind {
	case models.KindDiscussion:
		return "discussions", nil
	case models.KindUpdate:
		return "updates", nil
	case models.KindResource:
		return "resources", nil
	default:
		return "", fmt.Errorf("unknown source kind: %s", kind)
	}
}

// FetchPage retrieves up to limit published records for one source kind,
// most recent first. The offset cursor is independent per kind. Records in
// excludeIDs are filtered out at the query layer so they never consume page
// budget.
func (reader *Reader) FetchPage(ctx context.Context, kind models.SourceKind, offset int, limit int, excludeIDs []string) ([]models.ContentRecord, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "author_id", "created_at", "title", "body", "like_count", "comment_count", "view_count", "status")
	sb.From(table)
	sb.Where(sb.Equal("status", "published"))

	if len(excludeIDs) > 0 {
		sb.Where(sb.NotIn("id", lo.ToAnySlice(excludeIDs)...))
	}

	sb.OrderBy("created_at DESC", "id DESC")
	sb.Limit(limit).Offset(offset)

	query, args := sb.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))

	rows, err := reader.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var records []models.ContentRecord
	for rows.Next() {
		var rec models.ContentRecord
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.AuthorID, &createdAt, &rec.Title, &rec.Body,
			&rec.LikeCount, &rec.CommentCount, &rec.ViewCount, &rec.Status); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		rec.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetAuthors resolves profile records for a set of author ids in a single
// batched query. Missing ids are simply absent from the returned map.
func (reader *Reader) GetAuthors(ctx context.Context, ids []string) (map[string]models.Author, error) {
	if len(ids) == 0 {
		return map[string]models.Author{}, nil
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "full_name", "avatar_url", "job_title").From("profiles")
	sb.Where(sb.In("id", lo.ToAnySlice(ids)...))

	query, args := sb.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))

	rows, err := reader.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	authors := make(map[string]models.Author, len(ids))
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.FullName, &a.AvatarURL, &a.JobTitle); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		authors[a.ID] = a
	}

	return authors, rows.Err()
}

// GetEngagementPerTime aggregates item counts and engagement per hour, day
// or week for the dashboard.
func (reader *Reader) GetEngagementPerTime(kind string, timeAgg string) ([]models.EngagementAggregatedByTime, error) {
	var sqlFormat string
	var timeParse func(string) (time.Time, error)

	switch timeAgg {
	case "day":
		sqlFormat = `STRFTIME('%Y-%m-%d', created_at, 'unixepoch')`
		timeParse = func(str string) (time.Time, error) {
			return time.Parse("2006-01-02", str)
		}
	case "week":
		sqlFormat = "STRFTIME('%Y-%W', created_at, 'unixepoch')"
		timeParse = func(str string) (time.Time, error) {
			// Manually parse year and week number as separate integers
			year, err := time.Parse("2006", str[:4])
			if err != nil {
				return time.Time{}, err
			}
			week, err := strconv.ParseInt(str[5:], 10, 64)
			if err != nil {
				return time.Time{}, err
			}

			_, weekOffset := year.ISOWeek()
			weekOffset = weekOffset - 1
			firstDay := year.AddDate(0, 0, -int(year.Weekday())+weekOffset*7)

			// Add the number of weeks to the first day of the week
			return firstDay.AddDate(0, 0, int(week)*7), nil
		}
	default: // hour
		sqlFormat = `STRFTIME('%Y-%m-%d-%H', created_at, 'unixepoch')`
		timeParse = func(str string) (time.Time, error) {
			return time.Parse("2006-01-02-15", str)
		}
	}

	tables := []string{"discussions", "updates", "resources"}
	if kind != "" {
		table, err := tableFor(models.SourceKind(kind))
		if err != nil {
			return nil, err
		}
		tables = []string{table}
	}

	// Aggregate per table, then fold the buckets together
	buckets := make(map[string]*models.EngagementAggregatedByTime)
	for _, table := range tables {
		sb := sqlbuilder.NewSelectBuilder()
		sb.Select(sqlFormat, "count(*) as count", "sum(like_count)", "sum(comment_count)").From(table)
		sb.GroupBy(sqlFormat)
		sb.OrderBy("created_at").Asc()

		query, args := sb.BuildWithFlavor(sqlbuilder.Flavor(sqlbuilder.SQLite))

		rows, err := reader.db.Query(query, args...)
		if err != nil {
			return nil, err
		}

		for rows.Next() {
			var sqlTime string
			var count, likes, comments int64

			if err := rows.Scan(&sqlTime, &count, &likes, &comments); err != nil {
				continue // Skip this row
			}

			bucket, ok := buckets[sqlTime]
			if !ok {
				bucket = &models.EngagementAggregatedByTime{}
				if parsed, err := timeParse(sqlTime); err == nil {
					bucket.Time = parsed
				}
				buckets[sqlTime] = bucket
			}
			bucket.Count += count
			bucket.Likes += likes
			bucket.Comments += comments
		}
		rows.Close()
	}

	out := lo.Map(lo.Values(buckets), func(b *models.EngagementAggregatedByTime, _ int) models.EngagementAggregatedByTime {
		return *b
	})
	// Stable chronological order for the dashboard
	sort.Slice(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})

	return out, nil
}
