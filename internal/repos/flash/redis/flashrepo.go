// Package redis provides a flash repository that keeps the pending messages in a Redis list per client
package redis

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/models"
)

const (
	keyPrefix = "fyyur:flash:"
	// How long are pending messages kept after the last push?
	expiry = 60 * time.Minute
)

// FlashRepo is a flash repository backed by Redis
type FlashRepo struct {
	client *redis.Client
	logger *logrus.Entry
}

// New creates a new flash repository using the given Redis client
func New(client *redis.Client, logger *logrus.Entry) *FlashRepo {
	return &FlashRepo{
		client: client,
		logger: logger,
	}
}

// Connect creates a Redis client for the given server and checks that the server is reachable
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "Connect: Redis server at %s is not reachable", addr)
	}
	return client, nil
}

func key(clientID string) string {
	return keyPrefix + clientID
}

// Push appends a message to the list of pending messages of the given client
func (r *FlashRepo) Push(ctx context.Context, clientID string, f models.Flash) error {
	r.logger.WithField(log.FldClient, clientID).Debug("Pushing flash message")
	data, err := json.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "Push: Failed to encode message")
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key(clientID), data)
		pipe.Expire(ctx, key(clientID), expiry)
		return nil
	})
	return errors.Wrap(err, "Push: Failed to store message")
}

// Pop returns all pending messages of the client in the order they were pushed and removes them
func (r *FlashRepo) Pop(ctx context.Context, clientID string) ([]models.Flash, error) {
	var entries *redis.StringSliceCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		entries = pipe.LRange(ctx, key(clientID), 0, -1)
		pipe.Del(ctx, key(clientID))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "Pop: Failed to fetch messages")
	}
	var ret []models.Flash
	for _, entry := range entries.Val() {
		var f models.Flash
		if err := json.Unmarshal([]byte(entry), &f); err != nil {
			r.logger.WithError(err).WithField(log.FldClient, clientID).Warn("Dropping undecodable flash message")
			continue
		}
		ret = append(ret, f)
	}
	return ret, nil
}
