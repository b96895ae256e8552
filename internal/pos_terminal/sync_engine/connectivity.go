package sync_engine

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectivityGate is a cheap, best-effort reachability check evaluated once
// per cycle before any work is attempted. It may be wrong in either
// direction; the engine tolerates that by handling per-item submission
// failures.
type ConnectivityGate interface {
	IsOnline(ctx context.Context) bool
}

// CloudPingGate probes the consolidated store with a short ping
type CloudPingGate struct {
	client  *mongo.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewCloudPingGate creates a gate that pings the cloud store's primary
func NewCloudPingGate(client *mongo.Client, timeout time.Duration, logger *slog.Logger) ConnectivityGate {
	return &CloudPingGate{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

func (g *CloudPingGate) IsOnline(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.client.Ping(pingCtx, readpref.Primary()); err != nil {
		g.logger.Debug("Cloud store unreachable", "error", err)
		return false
	}
	return true
}
