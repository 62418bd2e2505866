package internal

import (
	"github.com/derWhity/fyyur/internal/forms"
	"github.com/derWhity/fyyur/internal/models"
)

// -- Request data -----------------------------------------------------------------------------------------------------

// searchRequest is a name search for venues or artists
type searchRequest struct {
	// The string to search for
	Term string
}

// listingRequest is a submitted venue or artist form. The ID is zero when a new entry is created.
type listingRequest struct {
	ID   uint
	Form *forms.Listing
}

// showRequest is a submitted show form together with the fields that could not be parsed
type showRequest struct {
	Form   *forms.ShowForm
	Errors forms.Errors
}

// -- Response data ----------------------------------------------------------------------------------------------------

// pageResponse renders a page of the web interface
type pageResponse struct {
	Page   string
	Status int
	Data   interface{}
}

// redirectResponse sends the browser to another location after a form submission
type redirectResponse struct {
	Location string
}

// noContentResponse answers with an empty body
type noContentResponse struct{}

// searchPage is the data of the search result pages
type searchPage struct {
	// Path prefix of the entries found ("venues" or "artists")
	Path    string
	Term    string
	Results *models.SearchResult
}

// listingPage is the data of the venue and artist form pages
type listingPage struct {
	ID   uint
	Form *forms.Listing
}
