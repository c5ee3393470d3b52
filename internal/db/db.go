package db

import (
	"context"
	"time"

	"truco_server/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect открывает пул соединений и проверяет его пингом
func Connect(databaseURL string) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("failed to create db pool", "error", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping db", "error", err)
	}

	logger.Info("db connected")
	return pool
}
