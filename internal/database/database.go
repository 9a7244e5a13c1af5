package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

// RetryDelay is the pause between connection attempts.
var RetryDelay = 5 * time.Second

// Connect opens the PostgreSQL pool, retrying until the database answers a ping or maxRetries is reached.
func Connect(ctx context.Context, url string, maxRetries int, log zerolog.Logger) (*sql.DB, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}

	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	finalURL := stdlib.RegisterConnConfig(config.ConnConfig)

	var db *sql.DB
	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("pgx", finalURL)
		if err == nil {
			db.SetConnMaxLifetime(time.Minute * 3)
			db.SetMaxIdleConns(5)
			db.SetMaxOpenConns(20)
			if pingErr := db.PingContext(ctx); pingErr == nil {
				log.Info().Msg("connected to database (simple protocol mode)")
				return db, nil
			} else {
				err = pingErr
				db.Close()
			}
		}
		log.Warn().Err(err).Int("attempt", i+1).Int("max_attempts", maxRetries).Dur("retry_in", RetryDelay).Msg("database unreachable, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(RetryDelay):
		}
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", maxRetries, err)
}
