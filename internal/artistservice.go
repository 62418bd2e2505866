package internal

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/forms"
	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/models"
	"github.com/derWhity/fyyur/internal/repos"
)

// ArtistService provides service functions for working with artists
type ArtistService interface {
	List(ctx context.Context) ([]models.ArtistSummary, error)
	Search(ctx context.Context, term string) (*models.SearchResult, error)
	Get(ctx context.Context, id uint) (*models.ArtistDetail, error)
	Load(ctx context.Context, id uint) (*models.Artist, error)
	Create(ctx context.Context, form *forms.Listing) (*models.Artist, error)
	Update(ctx context.Context, id uint, form *forms.Listing) (*models.Artist, error)
	Delete(ctx context.Context, id uint) error
}

// -- ArtistService implementation -------------------------------------------------------------------------------------

type artistService struct {
	repo   repos.ArtistRepo
	shows  repos.ShowRepo
	logger *logrus.Entry
}

// NewArtistService creates a new artist service instance
func NewArtistService(repo repos.ArtistRepo, shows repos.ShowRepo, logger *logrus.Entry) ArtistService {
	return &artistService{
		repo:   repo,
		shows:  shows,
		logger: logger,
	}
}

func artistNotFound(id uint) *HTTPError {
	return makeNotFound(ErrCodeArtistNotFound, "Artist", id)
}

// List returns all artists ordered by name
func (s *artistService) List(ctx context.Context) ([]models.ArtistSummary, error) {
	artists, err := s.repo.List(ctx, time.Now())
	if err != nil {
		return nil, storageError(s.logger, err, "Error while listing artists")
	}
	return artists, nil
}

// Search returns the artists whose name contains the search term, ignoring case
func (s *artistService) Search(ctx context.Context, term string) (*models.SearchResult, error) {
	artists, err := s.repo.Find(ctx, term, time.Now())
	if err != nil {
		return nil, storageError(s.logger.WithField(log.FldSearch, term), err, "Error while searching artists")
	}
	return &models.SearchResult{Count: len(artists), Data: artists}, nil
}

// Load returns the plain artist record with the given ID
func (s *artistService) Load(ctx context.Context, id uint) (*models.Artist, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == repos.ErrEntityNotExisting {
			return nil, artistNotFound(id)
		}
		return nil, storageError(s.logger.WithField(log.FldID, id), err,
			fmt.Sprintf("Error while retrieving artist #%d", id),
		)
	}
	return a, nil
}

// Get returns the artist with the given ID together with the past and upcoming shows
func (s *artistService) Get(ctx context.Context, id uint) (*models.ArtistDetail, error) {
	a, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	shows, err := s.shows.ListByArtist(ctx, id)
	if err != nil {
		return nil, storageError(s.logger.WithField(log.FldID, id), err,
			fmt.Sprintf("Error while retrieving the shows of artist #%d", id),
		)
	}
	past, upcoming := partitionShows(shows, time.Now())
	ret := &models.ArtistDetail{
		Artist:        *a,
		PastShows:     make([]models.VenueShow, 0, len(past)),
		UpcomingShows: make([]models.VenueShow, 0, len(upcoming)),
	}
	for _, e := range past {
		ret.PastShows = append(ret.PastShows, venueShow(e))
	}
	for _, e := range upcoming {
		ret.UpcomingShows = append(ret.UpcomingShows, venueShow(e))
	}
	ret.PastShowsCount = len(ret.PastShows)
	ret.UpcomingShowsCount = len(ret.UpcomingShows)
	return ret, nil
}

func venueShow(e models.ShowEntry) models.VenueShow {
	return models.VenueShow{
		VenueID:        e.VenueID,
		VenueName:      e.VenueName,
		VenueImageLink: e.VenueImageLink,
		StartTime:      models.FormatShowTime(e.StartsAt),
	}
}

// Create validates the form and stores a new artist from it
func (s *artistService) Create(ctx context.Context, form *forms.Listing) (*models.Artist, error) {
	if errs := form.Validate(); errs != nil {
		return nil, makeValidationError(errs)
	}
	a := form.Artist()
	if err := s.repo.Create(ctx, &a); err != nil {
		return nil, storageError(s.logger.WithField(log.FldName, a.Name), err, "Error while storing artist")
	}
	s.logger.WithFields(logrus.Fields{log.FldID: a.ID, log.FldName: a.Name}).Info("Artist created")
	return &a, nil
}

// Update validates the form and overwrites the artist with the given ID with it
func (s *artistService) Update(ctx context.Context, id uint, form *forms.Listing) (*models.Artist, error) {
	existing, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if errs := form.Validate(); errs != nil {
		return nil, makeValidationError(errs)
	}
	a := form.Artist()
	a.ID = id
	a.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, &a); err != nil {
		if errors.Cause(err) == repos.ErrEntityNotExisting {
			return nil, artistNotFound(id)
		}
		return nil, storageError(s.logger.WithField(log.FldID, id), err,
			fmt.Sprintf("Error while updating artist #%d", id),
		)
	}
	return &a, nil
}

// Delete removes the artist with the given ID together with the shows
func (s *artistService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Cause(err) == repos.ErrEntityNotExisting {
			return artistNotFound(id)
		}
		return storageError(s.logger.WithField(log.FldID, id), err,
			fmt.Sprintf("Error while deleting artist #%d", id),
		)
	}
	s.logger.WithField(log.FldID, id).Info("Artist deleted")
	return nil
}
