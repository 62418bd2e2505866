package ui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derWhity/fyyur/internal/forms"
	"github.com/derWhity/fyyur/internal/models"
)

type listingData struct {
	ID   uint
	Form *forms.Listing
}

type searchData struct {
	Path    string
	Term    string
	Results *models.SearchResult
}

func TestRenderAllPages(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	venue := models.Venue{
		ID: 1, Name: "The Musical Hop", City: "San Francisco", State: "CA", Address: "1015 Folsom Street",
		Genres: models.Genres{"Jazz", "Reggae"}, SeekingTalent: true, SeekingDescription: "Looking for jazz",
	}
	artist := models.Artist{ID: 4, Name: "Guns N Petals", City: "San Francisco", State: "CA",
		Genres: models.Genres{"Rock n Roll"}}
	summaries := []models.VenueSummary{{ID: 1, Name: "The Musical Hop", City: "San Francisco", State: "CA"}}

	pages := map[string]interface{}{
		PageHome: nil,
		PageVenues: &models.VenueListing{
			Cities: []string{"San Francisco"},
			Areas:  []models.Area{{City: "San Francisco", State: "CA", Venues: summaries}},
		},
		PageArtists: []models.ArtistSummary{{ID: 4, Name: "Guns N Petals"}},
		PageShows: []models.ShowEntry{{VenueID: 1, VenueName: "The Musical Hop", ArtistID: 4,
			ArtistName: "Guns N Petals", StartTime: "05/21/2019, 21:30"}},
		PageShowVenue: &models.VenueDetail{Venue: venue, PastShows: []models.ArtistShow{{ArtistID: 4,
			ArtistName: "Guns N Petals", StartTime: "05/21/2019, 21:30"}}, PastShowsCount: 1},
		PageShowArtist: &models.ArtistDetail{Artist: artist, UpcomingShows: []models.VenueShow{{VenueID: 1,
			VenueName: "The Musical Hop", StartTime: "01/01/2035, 20:00"}}, UpcomingShowsCount: 1},
		PageSearchVenues:  searchData{Path: "venues", Term: "hop", Results: &models.SearchResult{Count: 1, Data: summaries}},
		PageSearchArtists: searchData{Path: "artists", Term: "x", Results: &models.SearchResult{Data: []models.ArtistSummary{}}},
		PageNewVenue:      listingData{Form: &forms.Listing{Kind: forms.KindVenue}},
		PageEditVenue:     listingData{ID: 1, Form: forms.FromVenue(&venue)},
		PageNewArtist:     listingData{Form: &forms.Listing{Kind: forms.KindArtist}},
		PageEditArtist:    listingData{ID: 4, Form: forms.FromArtist(&artist)},
		PageNewShow: struct {
			Venues  []models.VenueSummary
			Artists []models.ArtistSummary
		}{summaries, []models.ArtistSummary{{ID: 4, Name: "Guns N Petals"}}},
		PageNotFound:    "Venue #9 does not exist",
		PageServerError: "Error while listing venues",
	}
	require.Len(t, pages, len(allPages))

	for page, data := range pages {
		body, err := r.Render(page, View{
			Flashes: []models.Flash{{Category: models.FlashSuccess, Message: "Done!"}},
			Data:    data,
		})
		require.NoError(t, err, page)
		assert.Contains(t, string(body), `<div class="alert alert-success" role="alert">Done!</div>`, page)
	}
}

func TestRenderDetails(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	venue := models.Venue{ID: 7, Name: "The Musical Hop", Genres: models.Genres{"Jazz"}}
	body, err := r.Render(PageEditVenue, View{Data: listingData{ID: 7, Form: forms.FromVenue(&venue)}})
	require.NoError(t, err)
	assert.Contains(t, string(body), `action="/venues/7/edit"`)
	assert.Contains(t, string(body), `name="address"`)
	assert.Contains(t, string(body), `name="seeking_talent"`)
	assert.Contains(t, string(body), `<option value="Jazz" selected>`)

	body, err = r.Render(PageNewArtist, View{Data: listingData{Form: &forms.Listing{Kind: forms.KindArtist}}})
	require.NoError(t, err)
	assert.NotContains(t, string(body), `name="address"`)
	assert.Contains(t, string(body), `name="seeking_venue"`)

	body, err = r.Render(PageNotFound, View{Data: "Artist #3 does not exist"})
	require.NoError(t, err)
	assert.Contains(t, string(body), "Artist #3 does not exist")
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	_, err = r.Render("pages/nope", View{})
	assert.Error(t, err)
}

func TestStaticHandler(t *testing.T) {
	srv := httptest.NewServer(http.StripPrefix("/static/", StaticHandler()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/static/main.css")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, body)
}
