// Package store persists processed rows to MongoDB and carries the
// collection maintenance tooling that goes with them.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/devpython86/nfe-processor/internal/common"
)

// Connect dials MongoDB with bounded retries. Each attempt dials and pings;
// the last error is returned once the attempts are exhausted.
func Connect(ctx context.Context, cfg common.MongoConfig, logger *slog.Logger) (*mongo.Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.DialTimeout).
		SetSocketTimeout(cfg.SocketTimeout).
		SetServerSelectionTimeout(cfg.DialTimeout).
		SetAppName("nfe-processor")

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		client, err := mongo.Connect(ctx, opts)
		if err == nil {
			err = client.Ping(ctx, readpref.Primary())
			if err == nil {
				logger.Info("store.connect.ok", "attempt", attempt)
				return client, nil
			}
			_ = client.Disconnect(ctx)
		}
		lastErr = err
		logger.Warn("store.connect.retry", "attempt", attempt, "error", err)
		if attempt < cfg.MaxRetries {
			select {
			case <-time.After(cfg.RetryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, common.NewAppError("DATABASE_ERROR",
		fmt.Sprintf("connect failed after %d attempts", cfg.MaxRetries), lastErr)
}

// Close disconnects the client, logging instead of failing.
func Close(ctx context.Context, client *mongo.Client, logger *slog.Logger) {
	if client == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := client.Disconnect(ctx); err != nil {
		logger.Error("store.disconnect.failed", "error", err)
	}
}

// HealthCheck pings the deployment; used by cmd/dbhealth.
func HealthCheck(ctx context.Context, client *mongo.Client, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return client.Ping(ctx, readpref.Primary())
}
