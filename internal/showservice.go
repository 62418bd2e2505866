package internal

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/forms"
	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/models"
	"github.com/derWhity/fyyur/internal/repos"
)

// ShowChoices are the venues and artists a new show can be created for
type ShowChoices struct {
	Venues  []models.VenueSummary
	Artists []models.ArtistSummary
}

// ShowService provides service functions for working with shows
type ShowService interface {
	// List returns all shows, latest first
	List(ctx context.Context) ([]models.ShowEntry, error)
	// Choices returns the venues and artists to choose from when creating a show
	Choices(ctx context.Context) (*ShowChoices, error)
	// Create validates the form and stores a new show from it
	Create(ctx context.Context, form *forms.ShowForm) (*models.Show, error)
}

// -- ShowService implementation ---------------------------------------------------------------------------------------

type showService struct {
	repo    repos.ShowRepo
	venues  repos.VenueRepo
	artists repos.ArtistRepo
	logger  *logrus.Entry
}

// NewShowService creates a new show service instance
func NewShowService(repo repos.ShowRepo, venues repos.VenueRepo, artists repos.ArtistRepo,
	logger *logrus.Entry) ShowService {
	return &showService{
		repo:    repo,
		venues:  venues,
		artists: artists,
		logger:  logger,
	}
}

// List returns all shows, latest first
func (s *showService) List(ctx context.Context) ([]models.ShowEntry, error) {
	shows, err := s.repo.List(ctx)
	if err != nil {
		if errors.Cause(err) == repos.ErrReferenceNotExisting {
			return nil, MakeError(http.StatusNotFound, ErrCodeShowNotFound,
				"A show references a venue or an artist that does not exist",
			)
		}
		return nil, storageError(s.logger, err, "Error while listing shows")
	}
	for i := range shows {
		shows[i].StartTime = models.FormatShowTime(shows[i].StartsAt)
	}
	return shows, nil
}

// Choices returns the venues and artists to choose from when creating a show
func (s *showService) Choices(ctx context.Context) (*ShowChoices, error) {
	now := time.Now()
	venues, err := s.venues.Find(ctx, "", now)
	if err != nil {
		return nil, storageError(s.logger, err, "Error while listing venues")
	}
	artists, err := s.artists.List(ctx, now)
	if err != nil {
		return nil, storageError(s.logger, err, "Error while listing artists")
	}
	return &ShowChoices{Venues: venues, Artists: artists}, nil
}

// Create validates the form and stores a new show from it
func (s *showService) Create(ctx context.Context, form *forms.ShowForm) (*models.Show, error) {
	if errs := form.Validate(); errs != nil {
		return nil, makeValidationError(errs)
	}
	show := models.Show{
		StartTime: form.StartTime,
		VenueID:   form.VenueID,
		ArtistID:  form.ArtistID,
	}
	logger := s.logger.WithFields(logrus.Fields{log.FldVenue: show.VenueID, log.FldArtist: show.ArtistID})
	if err := s.repo.Create(ctx, &show); err != nil {
		if errors.Cause(err) == repos.ErrReferenceNotExisting {
			return nil, MakeErrorWithData(http.StatusConflict, ErrCodeReferenceNotFound,
				"The venue or the artist of the show does not exist",
				map[string]uint{"venue_id": show.VenueID, "artist_id": show.ArtistID},
			)
		}
		return nil, storageError(logger, err, "Error while storing show")
	}
	logger.WithField(log.FldID, show.ID).Info("Show created")
	return &show, nil
}
