package internal

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/go-kit/kit/endpoint"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/forms"
	"github.com/derWhity/fyyur/internal/models"
	"github.com/derWhity/fyyur/internal/ui"
)

// PageEndpoints is a collection of endpoints not bound to a service
type PageEndpoints struct {
	Home     endpoint.Endpoint
	NotFound endpoint.Endpoint
}

// VenueEndpoints is a collection of endpoints to the venue service
type VenueEndpoints struct {
	List     endpoint.Endpoint
	Search   endpoint.Endpoint
	Get      endpoint.Endpoint
	NewForm  endpoint.Endpoint
	Create   endpoint.Endpoint
	EditForm endpoint.Endpoint
	Update   endpoint.Endpoint
	Delete   endpoint.Endpoint
}

// ArtistEndpoints is a collection of endpoints to the artist service
type ArtistEndpoints struct {
	List     endpoint.Endpoint
	Search   endpoint.Endpoint
	Get      endpoint.Endpoint
	NewForm  endpoint.Endpoint
	Create   endpoint.Endpoint
	EditForm endpoint.Endpoint
	Update   endpoint.Endpoint
	Delete   endpoint.Endpoint
}

// ShowEndpoints is a collection of endpoints to the show service
type ShowEndpoints struct {
	List    endpoint.Endpoint
	NewForm endpoint.Endpoint
	Create  endpoint.Endpoint
}

func page(name string, data interface{}) pageResponse {
	return pageResponse{Page: name, Status: http.StatusOK, Data: data}
}

// subject names the entry a flash message is about. The submitted name is preferred over the ID.
func subject(kind forms.Kind, name string, id uint) string {
	switch {
	case name != "":
		return fmt.Sprintf("%s %s", kind, name)
	case id != 0:
		return fmt.Sprintf("%s #%d", kind, id)
	}
	return kind.String()
}

// flashFailure queues the error message of a failed submission. Validation failures get one additional message per
// invalid field.
func flashFailure(ctx context.Context, fs FlashService, err error, message string) {
	fs.Add(ctx, models.FlashError, message)
	e, ok := err.(*HTTPError)
	if !ok || e.Kind() != KindValidation {
		return
	}
	fields, ok := e.Data().(forms.Errors)
	if !ok {
		return
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fs.Add(ctx, models.FlashError, fmt.Sprintf("%s: %s", name, fields[name]))
	}
}

// -- Pages ------------------------------------------------------------------------------------------------------------

// MakePageEndpoints creates the endpoints of the pages without own service
func MakePageEndpoints() PageEndpoints {
	return PageEndpoints{
		Home: func(ctx context.Context, request interface{}) (interface{}, error) {
			return page(ui.PageHome, nil), nil
		},
		NotFound: func(ctx context.Context, request interface{}) (interface{}, error) {
			return nil, ErrPageNotFound
		},
	}
}

// -- Listings (shared by venues and artists) --------------------------------------------------------------------------

type submitFunc func(ctx context.Context, id uint, form *forms.Listing) error

// makeListingFormEndpoint returns an endpoint rendering an empty venue or artist form
func makeListingFormEndpoint(kind forms.Kind, pageName string) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		return page(pageName, listingPage{Form: &forms.Listing{Kind: kind}}), nil
	}
}

// makeCreateListingEndpoint returns an endpoint storing a new venue or artist. The home page is rendered afterwards -
// whether the entry could be stored or not.
func makeCreateListingEndpoint(kind forms.Kind, create submitFunc, fs FlashService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(listingRequest)
		name := subject(kind, req.Form.Name, 0)
		if err := create(ctx, 0, req.Form); err != nil {
			flashFailure(ctx, fs, err, fmt.Sprintf("An error occurred. %s could not be listed.", name))
		} else {
			fs.Add(ctx, models.FlashSuccess, fmt.Sprintf("%s was successfully listed!", name))
		}
		return page(ui.PageHome, nil), nil
	}
}

// makeUpdateListingEndpoint returns an endpoint updating a venue or artist and redirecting to its detail page.
// Updating an entry that does not exist fails.
func makeUpdateListingEndpoint(kind forms.Kind, path string, update submitFunc, fs FlashService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(listingRequest)
		name := subject(kind, req.Form.Name, req.ID)
		if err := update(ctx, req.ID, req.Form); err != nil {
			if ErrorKind(err) == KindNotFound {
				return nil, err
			}
			flashFailure(ctx, fs, err, fmt.Sprintf("An error occurred. %s could not be updated.", name))
		} else {
			fs.Add(ctx, models.FlashSuccess, fmt.Sprintf("%s was successfully updated!", name))
		}
		return redirectResponse{Location: fmt.Sprintf("/%s/%d", path, req.ID)}, nil
	}
}

// makeDeleteListingEndpoint returns an endpoint deleting a venue or artist. It never fails - the outcome is reported
// by a flash message shown on the next page.
func makeDeleteListingEndpoint(kind forms.Kind, del func(ctx context.Context, id uint) error,
	fs FlashService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id := request.(uint)
		name := subject(kind, "", id)
		if err := del(ctx, id); err != nil {
			fs.Add(ctx, models.FlashError, fmt.Sprintf("An error occurred. %s could not be deleted.", name))
		} else {
			fs.Add(ctx, models.FlashSuccess, fmt.Sprintf("%s was successfully deleted!", name))
		}
		return noContentResponse{}, nil
	}
}

// -- Venues -----------------------------------------------------------------------------------------------------------

// MakeVenueEndpoints creates the endpoints needed to use the venue service
func MakeVenueEndpoints(s VenueService, fs FlashService) VenueEndpoints {
	create := func(ctx context.Context, _ uint, form *forms.Listing) error {
		_, err := s.Create(ctx, form)
		return err
	}
	update := func(ctx context.Context, id uint, form *forms.Listing) error {
		_, err := s.Update(ctx, id, form)
		return err
	}
	return VenueEndpoints{
		List: func(ctx context.Context, request interface{}) (interface{}, error) {
			listing, err := s.List(ctx)
			if err != nil {
				return nil, err
			}
			return page(ui.PageVenues, listing), nil
		},
		Search: func(ctx context.Context, request interface{}) (interface{}, error) {
			req := request.(searchRequest)
			res, err := s.Search(ctx, req.Term)
			if err != nil {
				return nil, err
			}
			return page(ui.PageSearchVenues, searchPage{Path: "venues", Term: req.Term, Results: res}), nil
		},
		Get: func(ctx context.Context, request interface{}) (interface{}, error) {
			v, err := s.Get(ctx, request.(uint))
			if err != nil {
				return nil, err
			}
			return page(ui.PageShowVenue, v), nil
		},
		NewForm: makeListingFormEndpoint(forms.KindVenue, ui.PageNewVenue),
		Create:  makeCreateListingEndpoint(forms.KindVenue, create, fs),
		EditForm: func(ctx context.Context, request interface{}) (interface{}, error) {
			id := request.(uint)
			v, err := s.Load(ctx, id)
			if err != nil {
				return nil, err
			}
			return page(ui.PageEditVenue, listingPage{ID: id, Form: forms.FromVenue(v)}), nil
		},
		Update: makeUpdateListingEndpoint(forms.KindVenue, "venues", update, fs),
		Delete: makeDeleteListingEndpoint(forms.KindVenue, s.Delete, fs),
	}
}

// -- Artists ----------------------------------------------------------------------------------------------------------

// MakeArtistEndpoints creates the endpoints needed to use the artist service
func MakeArtistEndpoints(s ArtistService, fs FlashService) ArtistEndpoints {
	create := func(ctx context.Context, _ uint, form *forms.Listing) error {
		_, err := s.Create(ctx, form)
		return err
	}
	update := func(ctx context.Context, id uint, form *forms.Listing) error {
		_, err := s.Update(ctx, id, form)
		return err
	}
	return ArtistEndpoints{
		List: func(ctx context.Context, request interface{}) (interface{}, error) {
			artists, err := s.List(ctx)
			if err != nil {
				return nil, err
			}
			return page(ui.PageArtists, artists), nil
		},
		Search: func(ctx context.Context, request interface{}) (interface{}, error) {
			req := request.(searchRequest)
			res, err := s.Search(ctx, req.Term)
			if err != nil {
				return nil, err
			}
			return page(ui.PageSearchArtists, searchPage{Path: "artists", Term: req.Term, Results: res}), nil
		},
		Get: func(ctx context.Context, request interface{}) (interface{}, error) {
			a, err := s.Get(ctx, request.(uint))
			if err != nil {
				return nil, err
			}
			return page(ui.PageShowArtist, a), nil
		},
		NewForm: makeListingFormEndpoint(forms.KindArtist, ui.PageNewArtist),
		Create:  makeCreateListingEndpoint(forms.KindArtist, create, fs),
		EditForm: func(ctx context.Context, request interface{}) (interface{}, error) {
			id := request.(uint)
			a, err := s.Load(ctx, id)
			if err != nil {
				return nil, err
			}
			return page(ui.PageEditArtist, listingPage{ID: id, Form: forms.FromArtist(a)}), nil
		},
		Update: makeUpdateListingEndpoint(forms.KindArtist, "artists", update, fs),
		Delete: makeDeleteListingEndpoint(forms.KindArtist, s.Delete, fs),
	}
}

// -- Shows ------------------------------------------------------------------------------------------------------------

// MakeShowEndpoints creates the endpoints needed to use the show service
func MakeShowEndpoints(s ShowService, fs FlashService) ShowEndpoints {
	return ShowEndpoints{
		List: func(ctx context.Context, request interface{}) (interface{}, error) {
			shows, err := s.List(ctx)
			if err != nil {
				return nil, err
			}
			return page(ui.PageShows, shows), nil
		},
		NewForm: func(ctx context.Context, request interface{}) (interface{}, error) {
			choices, err := s.Choices(ctx)
			if err != nil {
				return nil, err
			}
			return page(ui.PageNewShow, choices), nil
		},
		Create: func(ctx context.Context, request interface{}) (interface{}, error) {
			req := request.(showRequest)
			var err error
			if req.Errors != nil {
				err = makeValidationError(req.Errors)
			} else {
				_, err = s.Create(ctx, req.Form)
			}
			if err != nil {
				flashFailure(ctx, fs, err, "An error occurred. Show could not be listed.")
			} else {
				fs.Add(ctx, models.FlashSuccess, "Show was successfully listed!")
			}
			return page(ui.PageHome, nil), nil
		},
	}
}
