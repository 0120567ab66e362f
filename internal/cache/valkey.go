// Package cache provides Valkey (Redis-compatible) client initialization.
// The site uses Valkey only as a session backend, so this package stays a
// thin connection helper.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options describes how to reach a Valkey server.
type Options struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns the host:port pair for the server.
func (o Options) Addr() string {
	return net.JoinHostPort(o.Host, o.Port)
}

// ConnectValkey creates a Valkey client and verifies the connection with a ping.
func ConnectValkey(ctx context.Context, o Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     o.Addr(),
		Password: o.Password,
		DB:       o.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", o.Addr(), "db", o.DB)
	return client, nil
}
