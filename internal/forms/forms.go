// Package forms decodes and validates the venue, artist and show forms submitted by the browser
package forms

import (
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/derWhity/fyyur/internal/models"
)

// Kind selects the entity a listing form is submitted for
type Kind int

const (
	// KindVenue is the form for venues
	KindVenue Kind = iota
	// KindArtist is the form for artists
	KindArtist
)

func (k Kind) String() string {
	if k == KindArtist {
		return "Artist"
	}
	return "Venue"
}

// SeekingField returns the name of the form field carrying the seeking flag
func (k Kind) SeekingField() string {
	if k == KindArtist {
		return "seeking_venue"
	}
	return "seeking_talent"
}

// Errors maps the names of the form fields that failed validation to a message
type Errors map[string]string

// Listing is the data of the venue and artist forms. Both share all fields except the address.
type Listing struct {
	Kind               Kind     `form:"-"`
	Name               string   `form:"name" validate:"required,max=120"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,usstate"`
	Address            string   `form:"address" validate:"required,max=120"`
	Phone              string   `form:"phone" validate:"omitempty,phone"`
	ImageLink          string   `form:"image_link" validate:"omitempty,url,max=500"`
	WebsiteLink        string   `form:"website_link" validate:"omitempty,url,max=500"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,url,max=120"`
	Seeking            bool     `form:"seeking"`
	SeekingDescription string   `form:"seeking_description" validate:"max=500"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
}

// ShowForm is the data of the show form
type ShowForm struct {
	VenueID   uint      `form:"venue_id" validate:"required"`
	ArtistID  uint      `form:"artist_id" validate:"required"`
	StartTime time.Time `form:"start_time"`
}

// Layouts accepted for the start time of a show
var startTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// US phone numbers like 555-555-5555, (555) 555-5555 or 5555555555
var phoneRegex = regexp.MustCompile(`^(\(\d{3}\)\s?|\d{3}[-. ]?)\d{3}[-. ]?\d{4}$`)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("form")
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		return models.ValidGenre(fl.Field().String())
	})
	validate.RegisterValidation("usstate", func(fl validator.FieldLevel) bool {
		return models.ValidState(fl.Field().String())
	})
	validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
}

// -- Decoding ---------------------------------------------------------------------------------------------------------

// IsChecked reports whether a checkbox value counts as checked. Only the literal "y" does.
func IsChecked(value string) bool {
	return value == "y"
}

// Decode reads a listing form of the given kind from submitted form values
func Decode(kind Kind, values url.Values) *Listing {
	l := &Listing{
		Kind:               kind,
		Name:               strings.TrimSpace(values.Get("name")),
		City:               strings.TrimSpace(values.Get("city")),
		State:              strings.TrimSpace(values.Get("state")),
		Phone:              strings.TrimSpace(values.Get("phone")),
		ImageLink:          strings.TrimSpace(values.Get("image_link")),
		WebsiteLink:        strings.TrimSpace(values.Get("website_link")),
		FacebookLink:       strings.TrimSpace(values.Get("facebook_link")),
		Seeking:            IsChecked(values.Get(kind.SeekingField())),
		SeekingDescription: strings.TrimSpace(values.Get("seeking_description")),
		Genres:             values["genres"],
	}
	if kind == KindVenue {
		l.Address = strings.TrimSpace(values.Get("address"))
	}
	return l
}

// DecodeShow reads the show form from submitted form values. Values that cannot be parsed are reported as errors.
// An empty start time means now.
func DecodeShow(values url.Values, now time.Time) (*ShowForm, Errors) {
	errs := Errors{}
	f := &ShowForm{StartTime: now}
	var err error
	if f.VenueID, err = parseID(values.Get("venue_id")); err != nil {
		errs["venue_id"] = "Not a valid ID"
	}
	if f.ArtistID, err = parseID(values.Get("artist_id")); err != nil {
		errs["artist_id"] = "Not a valid ID"
	}
	if raw := strings.TrimSpace(values.Get("start_time")); raw != "" {
		if f.StartTime, err = ParseStartTime(raw); err != nil {
			errs["start_time"] = "Not a valid date and time"
		}
	}
	if len(errs) > 0 {
		return f, errs
	}
	return f, nil
}

func parseID(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}

// ParseStartTime parses the start time of a show in one of the accepted layouts. Times without a zone are UTC.
func ParseStartTime(raw string) (time.Time, error) {
	var err error
	for _, layout := range startTimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// -- Validation -------------------------------------------------------------------------------------------------------

// Validate checks a listing form. It returns nil if the form is valid.
func (l *Listing) Validate() Errors {
	var err error
	if l.Kind == KindArtist {
		// Artists have no address
		err = validate.StructExcept(l, "Address")
	} else {
		err = validate.Struct(l)
	}
	return translate(err)
}

// Validate checks a show form. It returns nil if the form is valid.
func (f *ShowForm) Validate() Errors {
	return translate(validate.Struct(f))
}

func translate(err error) Errors {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"": err.Error()}
	}
	ret := Errors{}
	for _, fe := range verrs {
		field := fe.Field()
		// Errors of list entries are reported for the whole list
		if idx := strings.IndexByte(field, '['); idx >= 0 {
			field = field[:idx]
		}
		if _, exists := ret[field]; exists {
			continue
		}
		ret[field] = message(fe)
	}
	return ret
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return "This field is required"
	case "max":
		return "Must not be longer than " + fe.Param() + " characters"
	case "url":
		return "Not a valid URL"
	case "phone":
		return "Not a valid phone number"
	case "usstate":
		return "Not a valid state"
	case "genre":
		return "Not a valid genre"
	}
	return "Invalid value"
}

// -- Conversion -------------------------------------------------------------------------------------------------------

// Venue builds a venue record from the form data
func (l *Listing) Venue() models.Venue {
	return models.Venue{
		Name:               l.Name,
		City:               l.City,
		State:              l.State,
		Address:            l.Address,
		Phone:              l.Phone,
		ImageLink:          l.ImageLink,
		WebsiteLink:        l.WebsiteLink,
		FacebookLink:       l.FacebookLink,
		SeekingTalent:      l.Seeking,
		SeekingDescription: l.SeekingDescription,
		Genres:             models.Genres(l.Genres),
	}
}

// Artist builds an artist record from the form data
func (l *Listing) Artist() models.Artist {
	return models.Artist{
		Name:               l.Name,
		City:               l.City,
		State:              l.State,
		Phone:              l.Phone,
		ImageLink:          l.ImageLink,
		WebsiteLink:        l.WebsiteLink,
		FacebookLink:       l.FacebookLink,
		SeekingVenue:       l.Seeking,
		SeekingDescription: l.SeekingDescription,
		Genres:             models.Genres(l.Genres),
	}
}

// FromVenue fills a form with the data of an existing venue
func FromVenue(v *models.Venue) *Listing {
	return &Listing{
		Kind:               KindVenue,
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		ImageLink:          v.ImageLink,
		WebsiteLink:        v.WebsiteLink,
		FacebookLink:       v.FacebookLink,
		Seeking:            v.SeekingTalent,
		SeekingDescription: v.SeekingDescription,
		Genres:             v.Genres,
	}
}

// FromArtist fills a form with the data of an existing artist
func FromArtist(a *models.Artist) *Listing {
	return &Listing{
		Kind:               KindArtist,
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		ImageLink:          a.ImageLink,
		WebsiteLink:        a.WebsiteLink,
		FacebookLink:       a.FacebookLink,
		Seeking:            a.SeekingVenue,
		SeekingDescription: a.SeekingDescription,
		Genres:             a.Genres,
	}
}

// HasGenre reports whether the genre is selected on the form
func (l *Listing) HasGenre(genre string) bool {
	return models.Genres(l.Genres).Contains(genre)
}
