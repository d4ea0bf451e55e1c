// Command seed copies a CSV review dataset into MySQL so the API can start
// with DATASET_SOURCE=mysql.
package main

import (
	"context"
	"database/sql"
	"flag"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"review_analyzer/internal/adapters/csvfile"
	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/app"
	"review_analyzer/internal/shared"
	mysqlrepo "review_analyzer/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	path := flag.String("csv", cfg.DatasetPath, "CSV dataset to import")
	batch := flag.Int("batch", 500, "rows per INSERT statement")
	flag.Parse()

	log.Info().Str("csv", *path).Int("batch", *batch).Msg("seed starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	rows, err := csvfile.New(*path).Records(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("read csv failed")
	}
	raws, rejected := app.MapRecords("csv", rows)
	for i := range raws {
		if raws[i].ID == "" {
			raws[i].ID = uuid.NewString()
		}
	}

	repo := mysqlrepo.New(db)
	if *batch <= 0 {
		*batch = 500
	}
	for start := 0; start < len(raws); start += *batch {
		end := min(start+*batch, len(raws))
		if err := repo.UpsertReviews(ctx, raws[start:end]); err != nil {
			log.Fatal().Err(err).Int("from", start).Int("to", end).Msg("upsert failed")
		}
	}
	log.Info().Int("imported", len(raws)).Int("rejected", rejected).Msg("seed completed")
}
