package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-kit/kit/endpoint"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/ctxhelper"
	"github.com/derWhity/fyyur/internal/forms"
	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/ui"
)

const (
	// ClientCookie is the name of the cookie identifying the browser client flash messages are stored for
	ClientCookie = "fyyur_client"
	// Lifetime of the client cookie
	clientCookieMaxAge = 365 * 24 * 60 * 60
)

// Defines an error that defines the HTTP status that should be returned
type httpStatuser interface {
	Status() int
}

// MakeHTTPHandler creates the main HTTP handler for the Fyyur web interface
func MakeHTTPHandler(
	vs VenueService,
	as ArtistService,
	ss ShowService,
	fs FlashService,
	renderer *ui.Renderer,
	logger *logrus.Entry,
) http.Handler {
	r := mux.NewRouter()

	encodeResponse := makeResponseEncoder(renderer, fs)
	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(makeErrorEncoder(renderer, fs)),
		httptransport.ServerBefore(makeContextInjector(logger)),
		httptransport.ServerBefore(decodeClient),
		httptransport.ServerAfter(encodeClient),
		httptransport.ServerFinalizer(makeRequestLogger(logger)),
	}
	server := func(name string, ep endpoint.Endpoint, dec httptransport.DecodeRequestFunc) http.Handler {
		return httptransport.NewServer(LogCall(name)(ep), dec, encodeResponse, options...)
	}

	// -- Pages without service ------------------------
	pEp := MakePageEndpoints()
	r.Methods(http.MethodGet).Path("/").Handler(server("home", pEp.Home, decodeNilRequest))
	r.NotFoundHandler = server("notFound", pEp.NotFound, decodeNilRequest)

	// -- Venue service --------------------------------
	{
		vEp := MakeVenueEndpoints(vs, fs)

		// List
		r.Methods(http.MethodGet).Path("/venues").Handler(server("venues.List", vEp.List, decodeNilRequest))
		// Search
		r.Methods(http.MethodPost).Path("/venues/search").Handler(
			server("venues.Search", vEp.Search, decodeSearchRequest),
		)
		// Create
		r.Methods(http.MethodGet).Path("/venues/create").Handler(
			server("venues.NewForm", vEp.NewForm, decodeNilRequest),
		)
		r.Methods(http.MethodPost).Path("/venues/create").Handler(
			server("venues.Create", vEp.Create, makeListingDecoder(forms.KindVenue)),
		)
		// Get
		r.Methods(http.MethodGet).Path("/venues/{id:[0-9]+}").Handler(
			server("venues.Get", vEp.Get, decodeIDFromPath),
		)
		// Delete
		r.Methods(http.MethodDelete).Path("/venues/{id:[0-9]+}").Handler(
			server("venues.Delete", vEp.Delete, decodeIDFromPath),
		)
		// Update
		r.Methods(http.MethodGet).Path("/venues/{id:[0-9]+}/edit").Handler(
			server("venues.EditForm", vEp.EditForm, decodeIDFromPath),
		)
		r.Methods(http.MethodPost).Path("/venues/{id:[0-9]+}/edit").Handler(
			server("venues.Update", vEp.Update, makeListingDecoder(forms.KindVenue)),
		)
	}

	// -- Artist service -------------------------------
	{
		aEp := MakeArtistEndpoints(as, fs)

		// List
		r.Methods(http.MethodGet).Path("/artists").Handler(server("artists.List", aEp.List, decodeNilRequest))
		// Search
		r.Methods(http.MethodPost).Path("/artists/search").Handler(
			server("artists.Search", aEp.Search, decodeSearchRequest),
		)
		// Create
		r.Methods(http.MethodGet).Path("/artists/create").Handler(
			server("artists.NewForm", aEp.NewForm, decodeNilRequest),
		)
		r.Methods(http.MethodPost).Path("/artists/create").Handler(
			server("artists.Create", aEp.Create, makeListingDecoder(forms.KindArtist)),
		)
		// Get
		r.Methods(http.MethodGet).Path("/artists/{id:[0-9]+}").Handler(
			server("artists.Get", aEp.Get, decodeIDFromPath),
		)
		// Delete
		r.Methods(http.MethodDelete).Path("/artists/{id:[0-9]+}").Handler(
			server("artists.Delete", aEp.Delete, decodeIDFromPath),
		)
		// Update
		r.Methods(http.MethodGet).Path("/artists/{id:[0-9]+}/edit").Handler(
			server("artists.EditForm", aEp.EditForm, decodeIDFromPath),
		)
		r.Methods(http.MethodPost).Path("/artists/{id:[0-9]+}/edit").Handler(
			server("artists.Update", aEp.Update, makeListingDecoder(forms.KindArtist)),
		)
	}

	// -- Show service ---------------------------------
	{
		sEp := MakeShowEndpoints(ss, fs)

		// List
		r.Methods(http.MethodGet).Path("/shows").Handler(server("shows.List", sEp.List, decodeNilRequest))
		// Create
		r.Methods(http.MethodGet).Path("/shows/create").Handler(
			server("shows.NewForm", sEp.NewForm, decodeNilRequest),
		)
		r.Methods(http.MethodPost).Path("/shows/create").Handler(
			server("shows.Create", sEp.Create, decodeShowRequest),
		)
	}

	// Simple alive answer for checking if HTTP can be reached
	r.Methods(http.MethodGet).Path("/alive").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		data := map[string]bool{"ok": true}
		json.NewEncoder(w).Encode(data)
	})
	// Stylesheets and other static files embedded into the executable
	r.Methods(http.MethodGet).PathPrefix("/static/").Handler(http.StripPrefix("/static/", ui.StaticHandler()))
	return r
}

// -- Request decoders -------------------------------------------------------------------------------------------------

// decodeNilRequest just does nothing with the request. It is used for endpoints that don't need anything to be passed
func decodeNilRequest(_ context.Context, r *http.Request) (request interface{}, err error) {
	return nil, nil
}

// parseForm parses the form-encoded body of a request
func parseForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return MakeError(
			http.StatusBadRequest,
			ErrCodeIllegalForm,
			fmt.Sprintf("Failed to decode form body: %v", err),
		)
	}
	return nil
}

// decodeSearchRequest reads the search term from the submitted form
func decodeSearchRequest(_ context.Context, r *http.Request) (interface{}, error) {
	if err := parseForm(r); err != nil {
		return nil, err
	}
	return searchRequest{Term: r.PostForm.Get("search_term")}, nil
}

// makeListingDecoder returns a decoder for the venue or artist form. The ID is taken from the path if there is one.
func makeListingDecoder(kind forms.Kind) httptransport.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (interface{}, error) {
		if err := parseForm(r); err != nil {
			return nil, err
		}
		req := listingRequest{Form: forms.Decode(kind, r.PostForm)}
		if _, ok := mux.Vars(r)["id"]; ok {
			id, err := getUintFromPath("id", r)
			if err != nil {
				return nil, err
			}
			req.ID = id
		}
		return req, nil
	}
}

// decodeShowRequest reads the show form. Fields that cannot be parsed are passed on to the endpoint.
func decodeShowRequest(_ context.Context, r *http.Request) (interface{}, error) {
	if err := parseForm(r); err != nil {
		return nil, err
	}
	form, errs := forms.DecodeShow(r.PostForm, time.Now())
	return showRequest{Form: form, Errors: errs}, nil
}

// getUintFromPath is a helper function that gets a uint from the given path variable
func getUintFromPath(varname string, r *http.Request) (uint, error) {
	errmsg := fmt.Sprintf("Value for '%s' is no valid unsigned integer", varname)
	vars := mux.Vars(r)
	str, ok := vars[varname]
	if !ok {
		return 0, MakeError(http.StatusBadRequest, ErrCodeInvalidUint, errmsg)
	}
	id, err := strconv.ParseUint(str, 10, 32)
	if err != nil {
		return 0, MakeError(http.StatusBadRequest, ErrCodeInvalidUint, errmsg)
	}
	return uint(id), nil
}

// Decodes an ID from the "id" path variable provided by GoRilla
func decodeIDFromPath(ctx context.Context, r *http.Request) (interface{}, error) {
	return getUintFromPath("id", r)
}

// -- Response encoders ------------------------------------------------------------------------------------------------

// writePage renders a page together with the pending flash messages of the client
func writePage(ctx context.Context, w http.ResponseWriter, renderer *ui.Renderer, fs FlashService, page string,
	status int, data interface{}) error {
	body, err := renderer.Render(page, ui.View{Flashes: fs.Pop(ctx), Data: data})
	if err != nil {
		ctxhelper.Logger(ctx).WithError(err).Error("Failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return nil
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

// makeResponseEncoder returns the encoder for all responses of the endpoints
func makeResponseEncoder(renderer *ui.Renderer, fs FlashService) httptransport.EncodeResponseFunc {
	return func(ctx context.Context, w http.ResponseWriter, response interface{}) error {
		switch resp := response.(type) {
		case pageResponse:
			return writePage(ctx, w, renderer, fs, resp.Page, resp.Status, resp.Data)
		case redirectResponse:
			w.Header().Set("Location", resp.Location)
			w.WriteHeader(http.StatusSeeOther)
			return nil
		case noContentResponse:
			w.WriteHeader(http.StatusNoContent)
			return nil
		}
		return fmt.Errorf("encodeResponse: Unknown response type %T", response)
	}
}

// makeErrorEncoder returns the encoder rendering the error pages
func makeErrorEncoder(renderer *ui.Renderer, fs FlashService) httptransport.ErrorEncoder {
	return func(ctx context.Context, err error, w http.ResponseWriter) {
		if err == nil {
			panic("encodeError with nil error")
		}
		encodeClient(ctx, w)
		status := http.StatusInternalServerError
		if st, ok := err.(httpStatuser); ok {
			status = st.Status()
		}
		page := ui.PageServerError
		if status == http.StatusNotFound {
			page = ui.PageNotFound
		}
		writePage(ctx, w, renderer, fs, page, status, err.Error())
	}
}

// -- Context handling -------------------------------------------------------------------------------------------------

func makeContextInjector(logger *logrus.Entry) httptransport.RequestFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		return context.WithValue(ctx, ctxhelper.KeyLogger, logger)
	}
}

// decodeClient reads the ID of the browser client from its cookie. Clients without a valid ID get a new one.
func decodeClient(ctx context.Context, r *http.Request) context.Context {
	var clientID string
	if c, err := r.Cookie(ClientCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			clientID = id.String()
		}
	}
	if clientID == "" {
		clientID = uuid.NewString()
		ctx = context.WithValue(ctx, ctxhelper.KeyNewClient, true)
	}
	ctx = context.WithValue(ctx, ctxhelper.KeyClient, clientID)
	return context.WithValue(ctx, ctxhelper.KeyLogger, ctxhelper.Logger(ctx).WithField(log.FldClient, clientID))
}

// encodeClient sends the cookie of clients that have got a new ID during the current call
func encodeClient(ctx context.Context, w http.ResponseWriter) context.Context {
	if ctxhelper.IsNewClient(ctx) {
		http.SetCookie(w, &http.Cookie{
			Name:     ClientCookie,
			Value:    ctxhelper.ClientID(ctx),
			Path:     "/",
			MaxAge:   clientCookieMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return ctx
}

// makeRequestLogger returns a finalizer logging every request handled
func makeRequestLogger(logger *logrus.Entry) httptransport.ServerFinalizerFunc {
	return func(ctx context.Context, code int, r *http.Request) {
		logger.WithFields(logrus.Fields{
			log.FldMethod: r.Method,
			log.FldPath:   r.URL.Path,
			log.FldStatus: code,
		}).Info("Request handled")
	}
}
