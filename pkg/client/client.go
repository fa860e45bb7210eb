// Package client holds the process-wide store connections. Connections are
// initialized explicitly at startup and torn down via GracefulShutdown;
// nothing else in the codebase reaches for a global client.
package client

import (
	"context"
	"time"

	"slotbook/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type Client struct {
	Redis *redis.Client
	Mongo *mongo.Client
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) GracefulShutdown(log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Error("Failed to close Redis connection", "error", err)
		}
	}
	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect MongoDB", "error", err)
		}
	}
}
