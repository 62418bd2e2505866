package internal

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/ctxhelper"
	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/models"
	"github.com/derWhity/fyyur/internal/repos"
)

// FlashService keeps one-shot messages for the browser client of the current call until the next page is rendered
type FlashService interface {
	// Add queues a message for the client of the current call
	Add(ctx context.Context, category, message string)
	// Pop returns and removes all queued messages of the client of the current call
	Pop(ctx context.Context) []models.Flash
}

// -- FlashService implementation --------------------------------------------------------------------------------------

type flashService struct {
	repo   repos.FlashRepo
	logger *logrus.Entry
}

// NewFlashService creates a new flash service instance
func NewFlashService(repo repos.FlashRepo, logger *logrus.Entry) FlashService {
	return &flashService{
		repo:   repo,
		logger: logger,
	}
}

// Add queues a message for the client of the current call. Messages that cannot be stored are logged and dropped.
func (s *flashService) Add(ctx context.Context, category, message string) {
	clientID := ctxhelper.ClientID(ctx)
	if clientID == "" {
		s.logger.WithField("message", message).Warn("No client to store the message for")
		return
	}
	if err := s.repo.Push(ctx, clientID, models.Flash{Category: category, Message: message}); err != nil {
		s.logger.WithError(err).WithField(log.FldClient, clientID).Error("Failed to store flash message")
	}
}

// Pop returns and removes all queued messages of the client of the current call
func (s *flashService) Pop(ctx context.Context) []models.Flash {
	clientID := ctxhelper.ClientID(ctx)
	if clientID == "" {
		return nil
	}
	flashes, err := s.repo.Pop(ctx, clientID)
	if err != nil {
		s.logger.WithError(err).WithField(log.FldClient, clientID).Error("Failed to load flash messages")
		return nil
	}
	return flashes
}
