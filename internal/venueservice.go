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

// VenueService provides service functions for working with venues
type VenueService interface {
	// List returns all venues grouped by the area they are located in
	List(ctx context.Context) (*models.VenueListing, error)
	// Search returns the venues whose name contains the search term, ignoring case
	Search(ctx context.Context, term string) (*models.SearchResult, error)
	// Get returns the venue with the given ID together with its past and upcoming shows
	Get(ctx context.Context, id uint) (*models.VenueDetail, error)
	// Load returns the plain venue record with the given ID
	Load(ctx context.Context, id uint) (*models.Venue, error)
	// Create validates the form and stores a new venue from it
	Create(ctx context.Context, form *forms.Listing) (*models.Venue, error)
	// Update validates the form and overwrites the venue with the given ID with it
	Update(ctx context.Context, id uint, form *forms.Listing) (*models.Venue, error)
	// Delete removes the venue with the given ID together with its shows
	Delete(ctx context.Context, id uint) error
}

// -- VenueService implementation --------------------------------------------------------------------------------------

type venueService struct {
	repo   repos.VenueRepo
	shows  repos.ShowRepo
	logger *logrus.Entry
}

// NewVenueService creates a new venue service instance
func NewVenueService(repo repos.VenueRepo, shows repos.ShowRepo, logger *logrus.Entry) VenueService {
	return &venueService{
		repo:   repo,
		shows:  shows,
		logger: logger,
	}
}

func venueNotFound(id uint) *HTTPError {
	return makeNotFound(ErrCodeVenueNotFound, "Venue", id)
}

// List returns all venues grouped by the area they are located in
func (s *venueService) List(ctx context.Context) (*models.VenueListing, error) {
	venues, err := s.repo.List(ctx, time.Now())
	if err != nil {
		return nil, storageError(s.logger, err, "Error while listing venues")
	}
	return groupByArea(venues), nil
}

// groupByArea groups venues that are ordered by city and state into areas
func groupByArea(venues []models.VenueSummary) *models.VenueListing {
	ret := &models.VenueListing{
		Cities: []string{},
		Areas:  []models.Area{},
	}
	seenCities := map[string]bool{}
	for _, v := range venues {
		last := len(ret.Areas) - 1
		if last < 0 || ret.Areas[last].City != v.City || ret.Areas[last].State != v.State {
			ret.Areas = append(ret.Areas, models.Area{City: v.City, State: v.State})
			last++
		}
		ret.Areas[last].Venues = append(ret.Areas[last].Venues, v)
		if !seenCities[v.City] {
			seenCities[v.City] = true
			ret.Cities = append(ret.Cities, v.City)
		}
	}
	return ret
}

// Search returns the venues whose name contains the search term, ignoring case
func (s *venueService) Search(ctx context.Context, term string) (*models.SearchResult, error) {
	venues, err := s.repo.Find(ctx, term, time.Now())
	if err != nil {
		return nil, storageError(s.logger.WithField(log.FldSearch, term), err, "Error while searching venues")
	}
	return &models.SearchResult{Count: len(venues), Data: venues}, nil
}

// Load returns the plain venue record with the given ID
func (s *venueService) Load(ctx context.Context, id uint) (*models.Venue, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == repos.ErrEntityNotExisting {
			return nil, venueNotFound(id)
		}
		return nil, storageError(s.logger.WithField(log.FldID, id), err,
			fmt.Sprintf("Error while retrieving venue #%d", id),
		)
	}
	return v, nil
}

// Get returns the venue with the given ID together with its past and upcoming shows
func (s *venueService) Get(ctx context.Context, id uint) (*models.VenueDetail, error) {
	v, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	shows, err := s.shows.ListByVenue(ctx, id)
	if err != nil {
		return nil, storageError(s.logger.WithField(log.FldID, id), err,
			fmt.Sprintf("Error while retrieving the shows of venue #%d", id),
		)
	}
	past, upcoming := partitionShows(shows, time.Now())
	ret := &models.VenueDetail{
		Venue:         *v,
		PastShows:     make([]models.ArtistShow, 0, len(past)),
		UpcomingShows: make([]models.ArtistShow, 0, len(upcoming)),
	}
	for _, e := range past {
		ret.PastShows = append(ret.PastShows, artistShow(e))
	}
	for _, e := range upcoming {
		ret.UpcomingShows = append(ret.UpcomingShows, artistShow(e))
	}
	ret.PastShowsCount = len(ret.PastShows)
	ret.UpcomingShowsCount = len(ret.UpcomingShows)
	return ret, nil
}

func artistShow(e models.ShowEntry) models.ArtistShow {
	return models.ArtistShow{
		ArtistID:        e.ArtistID,
		ArtistName:      e.ArtistName,
		ArtistImageLink: e.ArtistImageLink,
		StartTime:       models.FormatShowTime(e.StartsAt),
	}
}

// Create validates the form and stores a new venue from it
func (s *venueService) Create(ctx context.Context, form *forms.Listing) (*models.Venue, error) {
	if errs := form.Validate(); errs != nil {
		return nil, makeValidationError(errs)
	}
	v := form.Venue()
	if err := s.repo.Create(ctx, &v); err != nil {
		return nil, storageError(s.logger.WithField(log.FldName, v.Name), err, "Error while storing venue")
	}
	s.logger.WithFields(logrus.Fields{log.FldID: v.ID, log.FldName: v.Name}).Info("Venue created")
	return &v, nil
}

// Update validates the form and overwrites the venue with the given ID with it
func (s *venueService) Update(ctx context.Context, id uint, form *forms.Listing) (*models.Venue, error) {
	// Editing a venue that does not exist is reported as such - no matter what has been submitted
	existing, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if errs := form.Validate(); errs != nil {
		return nil, makeValidationError(errs)
	}
	v := form.Venue()
	v.ID = id
	v.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, &v); err != nil {
		if errors.Cause(err) == repos.ErrEntityNotExisting {
			return nil, venueNotFound(id)
		}
		return nil, storageError(s.logger.WithField(log.FldID, id), err,
			fmt.Sprintf("Error while updating venue #%d", id),
		)
	}
	return &v, nil
}

// Delete removes the venue with the given ID together with its shows
func (s *venueService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Cause(err) == repos.ErrEntityNotExisting {
			return venueNotFound(id)
		}
		return storageError(s.logger.WithField(log.FldID, id), err,
			fmt.Sprintf("Error while deleting venue #%d", id),
		)
	}
	s.logger.WithField(log.FldID, id).Info("Venue deleted")
	return nil
}

// -- Helpers ----------------------------------------------------------------------------------------------------------

// partitionShows splits shows ordered by start time into past shows (latest first) and upcoming shows (earliest
// first). Shows starting exactly now belong to neither.
func partitionShows(shows []models.ShowEntry, now time.Time) (past, upcoming []models.ShowEntry) {
	for _, e := range shows {
		switch {
		case e.StartsAt.Before(now):
			past = append(past, e)
		case e.StartsAt.After(now):
			upcoming = append(upcoming, e)
		}
	}
	for i, j := 0, len(past)-1; i < j; i, j = i+1, j-1 {
		past[i], past[j] = past[j], past[i]
	}
	return past, upcoming
}
