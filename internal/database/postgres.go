package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var DB *pgxpool.Pool

// supabasePoolerPort is the transaction-mode pooler, which cannot hold
// prepared statements across transactions.
const supabasePoolerPort = "6543"

func ConnectDB(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	if usesPooler(dbURL) {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	DB = pool
	slog.Info("connected to postgres", "host", config.ConnConfig.Host, "max_conns", config.MaxConns)
	return pool, nil
}

func CloseDB() {
	if DB != nil {
		DB.Close()
	}
}

func usesPooler(dbURL string) bool {
	u, err := url.Parse(dbURL)
	if err != nil {
		return false
	}
	return u.Port() == supabasePoolerPort
}
