// Package inmem provides a flash repository that holds the pending messages in-memory
package inmem

import (
	"time"

	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/models"
)

const (
	// How long are pending messages kept after the last push?
	expireMinutes = 60
)

// flashRequest is a generic request that can be sent over one of the repo's channels to execute functions inside the
// control goroutine
type flashRequest struct {
	clientID string
	flash    models.Flash
	answer   chan<- []models.Flash
}

// clientEntry holds the pending messages of a single client
type clientEntry struct {
	flashes   []models.Flash
	expiresAt time.Time
}

func (e *clientEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// FlashRepo is a flash repository that stores the pending messages in-memory
type FlashRepo struct {
	// push is a channel to append a message to the queue of a client
	push chan<- flashRequest
	// pop is a channel to drain the queue of a client
	pop chan<- flashRequest
	// done stops the control goroutine
	done chan struct{}
}

// New creates a new flash repository instance
func New() *FlashRepo {
	repo := &FlashRepo{done: make(chan struct{})}
	// Spin up the control goroutine
	p := make(chan flashRequest)
	g := make(chan flashRequest)
	go repo.control(p, g, time.Minute)
	repo.push = p
	repo.pop = g
	return repo
}

// Close stops the control goroutine. The repository must not be used afterwards.
func (r *FlashRepo) Close() {
	close(r.done)
}

// control is the control goroutine that runs until the repo is closed waiting for requests for managing messages
func (r *FlashRepo) control(push <-chan flashRequest, pop <-chan flashRequest, purgeInterval time.Duration) {
	clients := map[string]*clientEntry{}
	// Purge all expired queues regularly
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case req := <-push:
			entry, ok := clients[req.clientID]
			if !ok || entry.expired(time.Now()) {
				entry = &clientEntry{}
				clients[req.clientID] = entry
			}
			entry.flashes = append(entry.flashes, req.flash)
			entry.expiresAt = time.Now().Add(time.Minute * expireMinutes)
			req.answer <- nil
		case req := <-pop:
			var ret []models.Flash
			if entry, ok := clients[req.clientID]; ok {
				if !entry.expired(time.Now()) {
					ret = entry.flashes
				}
				delete(clients, req.clientID)
			}
			req.answer <- ret
		case now := <-ticker.C:
			for key, entry := range clients {
				if entry.expired(now) {
					delete(clients, key)
				}
			}
		case <-r.done:
			return
		}
	}
}

func (r *FlashRepo) send(ctx context.Context, channel chan<- flashRequest, req flashRequest) ([]models.Flash, error) {
	answer := make(chan []models.Flash, 1)
	req.answer = answer
	select {
	case channel <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return <-answer, nil
}

// Push appends a message to the list of pending messages of the given client
func (r *FlashRepo) Push(ctx context.Context, clientID string, f models.Flash) error {
	_, err := r.send(ctx, r.push, flashRequest{clientID: clientID, flash: f})
	return err
}

// Pop returns all pending messages of the client in the order they were pushed and removes them
func (r *FlashRepo) Pop(ctx context.Context, clientID string) ([]models.Flash, error) {
	return r.send(ctx, r.pop, flashRequest{clientID: clientID})
}
