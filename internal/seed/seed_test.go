package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/dbtest"
	artistrepo "github.com/derWhity/fyyur/internal/repos/artist/sqldb"
	showrepo "github.com/derWhity/fyyur/internal/repos/show/sqldb"
	venuerepo "github.com/derWhity/fyyur/internal/repos/venue/sqldb"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	logger := dbtest.Logger()
	venues := venuerepo.New(db, logger)
	artists := artistrepo.New(db, logger)
	shows := showrepo.New(db, logger)

	stored, err := Run(ctx, venues, artists, shows, logger)
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = Run(ctx, venues, artists, shows, logger)
	require.NoError(t, err)
	assert.False(t, stored)

	allShows, err := shows.List(ctx)
	require.NoError(t, err)
	assert.Len(t, allShows, 5)

	found, err := venues.Find(ctx, "Music", time.Now())
	require.NoError(t, err)
	assert.Len(t, found, 2)

	foundArtists, err := artists.Find(ctx, "band", time.Now())
	require.NoError(t, err)
	require.Len(t, foundArtists, 1)
	assert.Equal(t, "The Wild Sax Band", foundArtists[0].Name)
}
