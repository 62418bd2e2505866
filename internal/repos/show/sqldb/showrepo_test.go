package sqldb_test

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/dbtest"
	"github.com/derWhity/fyyur/internal/models"
	"github.com/derWhity/fyyur/internal/repos"
	artistrepo "github.com/derWhity/fyyur/internal/repos/artist/sqldb"
	"github.com/derWhity/fyyur/internal/repos/show/sqldb"
	venuerepo "github.com/derWhity/fyyur/internal/repos/venue/sqldb"
)

type fixture struct {
	db     *sqlx.DB
	repo   *sqldb.ShowRepo
	venue  *models.Venue
	artist *models.Artist
}

func setup(t *testing.T) *fixture {
	ctx := context.Background()
	db := dbtest.Open(t)
	f := &fixture{
		db:     db,
		repo:   sqldb.New(db, dbtest.Logger()),
		venue:  &models.Venue{Name: "Park Square", City: "San Francisco", State: "CA", ImageLink: "venue.jpg"},
		artist: &models.Artist{Name: "The Wild Sax Band", City: "San Francisco", State: "CA", ImageLink: "sax.jpg"},
	}
	require.NoError(t, venuerepo.New(db, dbtest.Logger()).Create(ctx, f.venue))
	require.NoError(t, artistrepo.New(db, dbtest.Logger()).Create(ctx, f.artist))
	return f
}

func TestCreateChecksReferences(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	err := f.repo.Create(ctx, &models.Show{StartTime: time.Now(), VenueID: f.venue.ID + 10, ArtistID: f.artist.ID})
	assert.Equal(t, repos.ErrReferenceNotExisting, err)
	err = f.repo.Create(ctx, &models.Show{StartTime: time.Now(), VenueID: f.venue.ID, ArtistID: f.artist.ID + 10})
	assert.Equal(t, repos.ErrReferenceNotExisting, err)

	shows, err := f.repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, shows)
}

func TestCreateDefaultsStartTime(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	before := time.Now().Add(-time.Second)
	s := &models.Show{VenueID: f.venue.ID, ArtistID: f.artist.ID}
	require.NoError(t, f.repo.Create(ctx, s))
	assert.NotZero(t, s.ID)
	assert.True(t, s.StartTime.After(before))
	assert.Equal(t, time.UTC, s.StartTime.Location())
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	base := time.Date(2030, 1, 1, 20, 0, 0, 0, time.UTC)
	for _, offset := range []int{2, 0, 1} {
		s := &models.Show{StartTime: base.AddDate(0, 0, offset), VenueID: f.venue.ID, ArtistID: f.artist.ID}
		require.NoError(t, f.repo.Create(ctx, s))
	}

	all, err := f.repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].StartsAt.Equal(base.AddDate(0, 0, 2)))
	assert.True(t, all[2].StartsAt.Equal(base))
	assert.Equal(t, "Park Square", all[0].VenueName)
	assert.Equal(t, "The Wild Sax Band", all[0].ArtistName)
	assert.Equal(t, "sax.jpg", all[0].ArtistImageLink)

	byVenue, err := f.repo.ListByVenue(ctx, f.venue.ID)
	require.NoError(t, err)
	require.Len(t, byVenue, 3)
	assert.True(t, byVenue[0].StartsAt.Equal(base))
	assert.True(t, byVenue[2].StartsAt.Equal(base.AddDate(0, 0, 2)))
	assert.Equal(t, "venue.jpg", byVenue[0].VenueImageLink)

	byArtist, err := f.repo.ListByArtist(ctx, f.artist.ID)
	require.NoError(t, err)
	assert.Len(t, byArtist, 3)

	none, err := f.repo.ListByArtist(ctx, f.artist.ID+1)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListReportsDanglingReferences(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	require.NoError(t, f.repo.Create(ctx, &models.Show{StartTime: time.Now(), VenueID: f.venue.ID, ArtistID: f.artist.ID}))

	// Break the reference behind the back of the foreign key
	_, err := f.db.Exec("PRAGMA foreign_keys = OFF")
	require.NoError(t, err)
	_, err = f.db.Exec("DELETE FROM artists")
	require.NoError(t, err)

	_, err = f.repo.List(ctx)
	assert.Equal(t, repos.ErrReferenceNotExisting, err)
}
