package db

import (
	"database/sql"
	"time"

	sb "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// Tidy removes content older than the given number of days from all three
// content tables. Keeps the database size down; items past the decay floor
// contribute little to any feed anyway.
func Tidy(database string, olderThanDays int) error {
	db, err := connection(database)
	if err != nil {
		return err
	}
	defer db.Close()

	return tidy(db, olderThanDays)
}

func tidy(db *sql.DB, olderThanDays int) error {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays).Unix()

	for _, table := range []string{"discussions", "updates", "resources"} {
		deleteContent := sb.NewDeleteBuilder()
		query, args := deleteContent.DeleteFrom(table).
			Where(deleteContent.LessEqualThan("created_at", cutoff)).
			BuildWithFlavor(sb.Flavor(sb.SQLite))

		log.WithFields(log.Fields{
			"table": table,
			"sql":   query,
			"args":  args,
		}).Info("Tidying database")

		if _, err := db.Exec(query, args...); err != nil {
			return err
		}
	}

	return nil
}
