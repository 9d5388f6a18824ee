package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectMaxAttempts = 3
	connectBaseDelay   = time.Second
	pingTimeout        = 5 * time.Second
)

// Connect opens a pgx pool and verifies it with a ping, retrying with
// exponential backoff (1s, 2s) up to connectMaxAttempts.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	var lastErr error
	for attempt := 1; attempt <= connectMaxAttempts; attempt++ {
		pool, err := pgxpool.New(ctx, databaseURL)
		if err == nil {
			pctx, cancel := context.WithTimeout(ctx, pingTimeout)
			err = pool.Ping(pctx)
			cancel()
			if err == nil {
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err

		if attempt == connectMaxAttempts {
			break
		}
		delay := connectBaseDelay << (attempt - 1)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("connect canceled: %w", ctx.Err())
		}
	}
	return nil, fmt.Errorf("database unreachable after %d attempts: %w", connectMaxAttempts, lastErr)
}
