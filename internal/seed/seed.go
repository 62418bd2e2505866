// Package seed fills an empty database with a set of sample venues, artists and shows
package seed

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/models"
	"github.com/derWhity/fyyur/internal/repos"
)

const imageBase = "https://images.unsplash.com/"

var venues = []models.Venue{
	{
		Name:               "The Musical Hop",
		City:               "San Francisco",
		State:              "CA",
		Address:            "1015 Folsom Street",
		Phone:              "123-123-1234",
		Genres:             models.Genres{"Jazz", "Reggae", "Swing", "Classical", "Folk"},
		WebsiteLink:        "https://www.themusicalhop.com",
		FacebookLink:       "https://www.facebook.com/TheMusicalHop",
		SeekingTalent:      true,
		SeekingDescription: "We are on the lookout for a local artist to play every two weeks. Please call us.",
		ImageLink:          imageBase + "photo-1543900694-133f37abaaa5?auto=format&fit=crop&w=400&q=60",
	},
	{
		Name:         "The Dueling Pianos Bar",
		City:         "New York",
		State:        "NY",
		Address:      "335 Delancey Street",
		Phone:        "914-003-1132",
		Genres:       models.Genres{"Classical", "R&B", "Hip-Hop"},
		WebsiteLink:  "https://www.theduelingpianos.com",
		FacebookLink: "https://www.facebook.com/theduelingpianos",
		ImageLink:    imageBase + "photo-1497032205916-ac775f0649ae?auto=format&fit=crop&w=750&q=80",
	},
	{
		Name:         "Park Square Live Music & Coffee",
		City:         "San Francisco",
		State:        "CA",
		Address:      "34 Whiskey Moore Ave",
		Phone:        "415-000-1234",
		Genres:       models.Genres{"Rock n Roll", "Jazz", "Classical", "Folk"},
		WebsiteLink:  "https://www.parksquarelivemusicandcoffee.com",
		FacebookLink: "https://www.facebook.com/ParkSquareLiveMusicAndCoffee",
		ImageLink:    imageBase + "photo-1485686531765-ba63b07845a7?auto=format&fit=crop&w=747&q=80",
	},
}

var artists = []models.Artist{
	{
		Name:               "Guns N Petals",
		City:               "San Francisco",
		State:              "CA",
		Phone:              "326-123-5000",
		Genres:             models.Genres{"Rock n Roll"},
		WebsiteLink:        "https://www.gunsnpetalsband.com",
		FacebookLink:       "https://www.facebook.com/GunsNPetals",
		SeekingVenue:       true,
		SeekingDescription: "Looking for shows to perform at in the San Francisco Bay Area!",
		ImageLink:          imageBase + "photo-1549213783-8284d0336c4f?auto=format&fit=crop&w=300&q=80",
	},
	{
		Name:         "Matt Quevedo",
		City:         "New York",
		State:        "NY",
		Phone:        "300-400-5000",
		Genres:       models.Genres{"Jazz"},
		FacebookLink: "https://www.facebook.com/mattquevedo923251523",
		ImageLink:    imageBase + "photo-1495223153807-b916f75de8c5?auto=format&fit=crop&w=334&q=80",
	},
	{
		Name:      "The Wild Sax Band",
		City:      "San Francisco",
		State:     "CA",
		Phone:     "432-325-5432",
		Genres:    models.Genres{"Jazz", "Classical"},
		ImageLink: imageBase + "photo-1558369981-f9ca78462e61?auto=format&fit=crop&w=794&q=80",
	},
}

// shows reference the sample venues and artists by their index
var shows = []struct {
	venue, artist int
	startTime     time.Time
}{
	{0, 0, time.Date(2019, 5, 21, 21, 30, 0, 0, time.UTC)},
	{2, 1, time.Date(2019, 6, 15, 23, 0, 0, 0, time.UTC)},
	{2, 2, time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC)},
	{2, 2, time.Date(2035, 4, 8, 20, 0, 0, 0, time.UTC)},
	{2, 2, time.Date(2035, 4, 15, 20, 0, 0, 0, time.UTC)},
}

// Run stores the sample data. Databases that already contain venues or artists are left untouched.
// It returns whether the sample data has been stored.
func Run(ctx context.Context, venueRepo repos.VenueRepo, artistRepo repos.ArtistRepo, showRepo repos.ShowRepo,
	logger *logrus.Entry) (bool, error) {
	now := time.Now()
	existingVenues, err := venueRepo.List(ctx, now)
	if err != nil {
		return false, errors.Wrap(err, "Run: Failed to check for existing venues")
	}
	existingArtists, err := artistRepo.List(ctx, now)
	if err != nil {
		return false, errors.Wrap(err, "Run: Failed to check for existing artists")
	}
	if len(existingVenues) > 0 || len(existingArtists) > 0 {
		logger.Info("Database is not empty - skipping sample data")
		return false, nil
	}
	venueIDs := make([]uint, len(venues))
	for i := range venues {
		v := venues[i]
		if err := venueRepo.Create(ctx, &v); err != nil {
			return false, errors.Wrapf(err, "Run: Failed to store venue '%s'", v.Name)
		}
		logger.WithFields(logrus.Fields{log.FldID: v.ID, log.FldName: v.Name}).Debug("Venue stored")
		venueIDs[i] = v.ID
	}
	artistIDs := make([]uint, len(artists))
	for i := range artists {
		a := artists[i]
		if err := artistRepo.Create(ctx, &a); err != nil {
			return false, errors.Wrapf(err, "Run: Failed to store artist '%s'", a.Name)
		}
		logger.WithFields(logrus.Fields{log.FldID: a.ID, log.FldName: a.Name}).Debug("Artist stored")
		artistIDs[i] = a.ID
	}
	for _, entry := range shows {
		s := models.Show{
			StartTime: entry.startTime,
			VenueID:   venueIDs[entry.venue],
			ArtistID:  artistIDs[entry.artist],
		}
		if err := showRepo.Create(ctx, &s); err != nil {
			return false, errors.Wrap(err, "Run: Failed to store show")
		}
	}
	logger.Infof("Stored %d venues, %d artists and %d shows", len(venues), len(artists), len(shows))
	return true, nil
}
