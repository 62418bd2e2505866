package internal

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/dbtest"
	"github.com/derWhity/fyyur/internal/ui"
)

type browser struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
	s      *services
}

func newBrowser(t *testing.T) *browser {
	s := newServices(t)
	renderer, err := ui.NewRenderer()
	require.NoError(t, err)
	srv := httptest.NewServer(MakeHTTPHandler(s.venues, s.artists, s.shows, s.flashes, renderer, dbtest.Logger()))
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, srv: srv, client: &http.Client{Jar: jar}, s: s}
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodGet, b.srv.URL+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, values url.Values) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodPost, b.srv.URL+path, strings.NewReader(values.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) delete(path string) *http.Response {
	req, err := http.NewRequest(http.MethodDelete, b.srv.URL+path, nil)
	require.NoError(b.t, err)
	resp, _ := b.do(req)
	return resp
}

func venueValues(name string) url.Values {
	return url.Values{
		"name":           {name},
		"city":           {"San Francisco"},
		"state":          {"CA"},
		"address":        {"1015 Folsom Street"},
		"phone":          {"123-123-1234"},
		"genres":         {"Jazz", "Reggae"},
		"seeking_talent": {"y"},
	}
}

func TestPages(t *testing.T) {
	b := newBrowser(t)
	for _, path := range []string{"/", "/venues", "/artists", "/shows", "/venues/create", "/artists/create",
		"/shows/create"} {
		resp, body := b.get(path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, body, "Fyyur", path)
		assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"), path)
	}
}

func TestClientCookie(t *testing.T) {
	b := newBrowser(t)
	resp, _ := b.get("/")
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, ClientCookie, cookies[0].Name)

	// Known clients keep their ID
	resp, _ = b.get("/venues")
	assert.Empty(t, resp.Cookies())
}

func TestMissingRecordsAre404(t *testing.T) {
	b := newBrowser(t)
	for _, path := range []string{"/venues/999", "/artists/999", "/venues/999/edit", "/artists/999/edit",
		"/no/such/page"} {
		resp, _ := b.get(path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
	resp, body := b.post("/venues/999/edit", venueValues("Ghost"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Venue #999 does not exist")
}

func TestDeleteMissingVenue(t *testing.T) {
	b := newBrowser(t)
	b.get("/")

	resp := b.delete("/venues/999")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, body := b.get("/")
	assert.Equal(t, 1, strings.Count(body, "An error occurred. Venue #999 could not be deleted."))
	_, body = b.get("/")
	assert.NotContains(t, body, "could not be deleted")
}

func TestCreateEditDeleteVenue(t *testing.T) {
	b := newBrowser(t)

	resp, body := b.post("/venues/create", venueValues("The Musical Hop"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Venue The Musical Hop was successfully listed!")

	res, err := b.s.venues.Search(context.Background(), "musical")
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)

	resp, body = b.get("/venues/1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "1015 Folsom Street")
	assert.Contains(t, body, "Currently seeking talent")

	resp, body = b.get("/venues/1/edit")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="The Musical Hop"`)

	values := venueValues("The Musical Hop")
	values.Del("seeking_talent")
	values.Set("city", "Oakland")
	resp, body = b.post("/venues/1/edit", values)
	// The redirect to the detail page has been followed
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/venues/1", resp.Request.URL.Path)
	assert.Contains(t, body, "Venue The Musical Hop was successfully updated!")
	assert.Contains(t, body, "Oakland")
	assert.Contains(t, body, "Not currently seeking talent")

	resp = b.delete("/venues/1")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, body = b.get("/")
	assert.Contains(t, body, "Venue #1 was successfully deleted!")
	resp, _ = b.get("/venues/1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvalidSubmissions(t *testing.T) {
	b := newBrowser(t)

	values := venueValues("")
	values.Set("state", "XX")
	resp, body := b.post("/venues/create", values)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "An error occurred. Venue could not be listed.")
	assert.Contains(t, body, "name: This field is required")
	assert.Contains(t, body, "state: Not a valid state")
	assert.True(t, strings.Index(body, "name: ") < strings.Index(body, "state: "))

	res, err := b.s.venues.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)

	_, body = b.post("/venues/create", venueValues("The Musical Hop"))
	require.Contains(t, body, "successfully listed")
	values = venueValues("The Musical Hop")
	values.Set("phone", "not a phone")
	resp, body = b.post("/venues/1/edit", values)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/venues/1", resp.Request.URL.Path)
	assert.Contains(t, body, "An error occurred. Venue The Musical Hop could not be updated.")
	assert.Contains(t, body, "phone: Not a valid phone number")
}

func TestArtistsAndShows(t *testing.T) {
	b := newBrowser(t)
	_, body := b.post("/venues/create", venueValues("The Musical Hop"))
	require.Contains(t, body, "successfully listed")
	_, body = b.post("/artists/create", url.Values{
		"name":          {"Guns N Petals"},
		"city":          {"San Francisco"},
		"state":         {"CA"},
		"genres":        {"Rock n Roll"},
		"seeking_venue": {"y"},
	})
	assert.Contains(t, body, "Artist Guns N Petals was successfully listed!")

	_, body = b.post("/shows/create", url.Values{
		"venue_id":   {"1"},
		"artist_id":  {"1"},
		"start_time": {"2035-04-01 20:00:00"},
	})
	assert.Contains(t, body, "Show was successfully listed!")

	_, body = b.post("/shows/create", url.Values{"venue_id": {"1"}, "artist_id": {"42"}})
	assert.Contains(t, body, "An error occurred. Show could not be listed.")

	_, body = b.post("/shows/create", url.Values{"venue_id": {"1"}, "artist_id": {"1"}, "start_time": {"soon"}})
	assert.Contains(t, body, "start_time: Not a valid date and time")

	resp, body := b.get("/shows")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, strings.Count(body, `href="/artists/1"`))
	assert.Contains(t, body, "04/01/2035, 20:00")

	_, body = b.get("/artists/1")
	assert.Contains(t, body, "1 Upcoming Show")
	assert.Contains(t, body, "Currently seeking performance venues")

	_, body = b.get("/venues")
	assert.Contains(t, body, "1 upcoming shows")
}

func TestSearch(t *testing.T) {
	b := newBrowser(t)
	for _, name := range []string{"The Musical Hop", "The Dueling Pianos Bar", "Park Square Live Music"} {
		_, body := b.post("/venues/create", venueValues(name))
		require.Contains(t, body, "successfully listed")
	}

	resp, body := b.post("/venues/search", url.Values{"search_term": {"Music"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `Number of search results for "Music": 2`)
	assert.Contains(t, body, "The Musical Hop")
	assert.Contains(t, body, "Park Square Live Music")
	assert.NotContains(t, body, "Dueling")

	_, body = b.post("/artists/search", url.Values{"search_term": {"band"}})
	assert.Contains(t, body, `Number of search results for "band": 0`)
}

func TestAliveAndStatic(t *testing.T) {
	b := newBrowser(t)
	resp, body := b.get("/alive")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok": true}`, body)

	resp, body = b.get("/static/main.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body)
}
