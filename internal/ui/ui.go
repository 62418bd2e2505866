// Package ui contains the HTML templates and static files of the Fyyur web interface
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/derWhity/fyyur/internal/models"
)

//go:embed templates static
var files embed.FS

// Names of the pages that can be rendered
const (
	PageHome          = "pages/home"
	PageVenues        = "pages/venues"
	PageArtists       = "pages/artists"
	PageShows         = "pages/shows"
	PageShowVenue     = "pages/show_venue"
	PageShowArtist    = "pages/show_artist"
	PageSearchVenues  = "pages/search_venues"
	PageSearchArtists = "pages/search_artists"
	PageNewVenue      = "pages/new_venue"
	PageEditVenue     = "pages/edit_venue"
	PageNewArtist     = "pages/new_artist"
	PageEditArtist    = "pages/edit_artist"
	PageNewShow       = "pages/new_show"
	PageNotFound      = "errors/404"
	PageServerError   = "errors/500"
)

var allPages = []string{
	PageHome, PageVenues, PageArtists, PageShows, PageShowVenue, PageShowArtist, PageSearchVenues,
	PageSearchArtists, PageNewVenue, PageEditVenue, PageNewArtist, PageEditArtist, PageNewShow, PageNotFound,
	PageServerError,
}

// View is the data every page is rendered with
type View struct {
	// Messages to show once on top of the page
	Flashes []models.Flash
	// The page specific data
	Data interface{}
}

var funcs = template.FuncMap{
	"genres": func() []string { return models.AllGenres },
	"states": func() []string { return models.AllStates },
	"join":   strings.Join,
}

// Renderer renders the pages of the web interface
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses all page templates
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(allPages))}
	for _, page := range allPages {
		tpl, err := template.New("layout.html").Funcs(funcs).ParseFS(
			files,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("NewRenderer: Failed to parse page '%s': %v", page, err)
		}
		r.pages[page] = tpl
	}
	return r, nil
}

// Render renders a page into memory, so that nothing is written when rendering fails
func (r *Renderer) Render(page string, view View) ([]byte, error) {
	tpl, ok := r.pages[page]
	if !ok {
		return nil, fmt.Errorf("Render: Unknown page '%s'", page)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("Render: Failed to render page '%s': %v", page, err)
	}
	return buf.Bytes(), nil
}

// StaticHandler serves the embedded static files. The handler expects the "/static/" prefix to be stripped.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
