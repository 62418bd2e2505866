package forms

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validVenueValues() url.Values {
	return url.Values{
		"name":           {"The Musical Hop"},
		"city":           {"San Francisco"},
		"state":          {"CA"},
		"address":        {"1015 Folsom Street"},
		"phone":          {"123-123-1234"},
		"genres":         {"Jazz", "Reggae"},
		"image_link":     {"https://example.com/hop.jpg"},
		"facebook_link":  {"https://www.facebook.com/TheMusicalHop"},
		"website_link":   {"https://www.themusicalhop.com"},
		"seeking_talent": {"y"},
	}
}

func TestDecodeSeekingFlag(t *testing.T) {
	for _, tc := range []struct {
		value    []string
		expected bool
	}{
		{[]string{"y"}, true},
		{[]string{"on"}, false},
		{[]string{"Y"}, false},
		{[]string{""}, false},
		{nil, false},
	} {
		values := validVenueValues()
		delete(values, "seeking_talent")
		if tc.value != nil {
			values["seeking_talent"] = tc.value
		}
		assert.Equal(t, tc.expected, Decode(KindVenue, values).Seeking, "value %v", tc.value)
	}
	// Artists read their own field
	values := validVenueValues()
	assert.False(t, Decode(KindArtist, values).Seeking)
	values.Set("seeking_venue", "y")
	assert.True(t, Decode(KindArtist, values).Seeking)
}

func TestDecodeKeepsGenreOrder(t *testing.T) {
	values := validVenueValues()
	values["genres"] = []string{"Swing", "Blues", "Jazz"}
	l := Decode(KindVenue, values)
	assert.Equal(t, []string{"Swing", "Blues", "Jazz"}, l.Genres)
	assert.True(t, l.HasGenre("Blues"))
	assert.False(t, l.HasGenre("Funk"))
}

func TestValidateVenue(t *testing.T) {
	assert.Nil(t, Decode(KindVenue, validVenueValues()).Validate())

	for _, tc := range []struct {
		field string
		value []string
	}{
		{"name", []string{""}},
		{"city", []string{" "}},
		{"state", []string{"XX"}},
		{"address", []string{""}},
		{"phone", []string{"12-34"}},
		{"image_link", []string{"not a link"}},
		{"website_link", []string{"www"}},
		{"genres", nil},
		{"genres", []string{"Jazz", "Polka"}},
	} {
		values := validVenueValues()
		delete(values, tc.field)
		if tc.value != nil {
			values[tc.field] = tc.value
		}
		errs := Decode(KindVenue, values).Validate()
		require.NotNil(t, errs, "field %s", tc.field)
		assert.Contains(t, errs, tc.field)
		assert.Len(t, errs, 1, "field %s: %v", tc.field, errs)
	}
}

func TestValidateArtistWithoutAddress(t *testing.T) {
	values := validVenueValues()
	delete(values, "address")
	assert.Nil(t, Decode(KindArtist, values).Validate())
	// The same data is no valid venue
	assert.Contains(t, Decode(KindVenue, values).Validate(), "address")
}

func TestValidateOptionalFields(t *testing.T) {
	values := validVenueValues()
	for _, field := range []string{"phone", "image_link", "website_link", "facebook_link"} {
		values.Set(field, "")
	}
	assert.Nil(t, Decode(KindVenue, values).Validate())
}

func TestPhoneShapes(t *testing.T) {
	for _, phone := range []string{"123-123-1234", "1231231234", "(415) 000-1234", "415.000.1234"} {
		assert.True(t, phoneRegex.MatchString(phone), phone)
	}
	for _, phone := range []string{"123", "123-123-12345", "phone", "+1 (415) 000"} {
		assert.False(t, phoneRegex.MatchString(phone), phone)
	}
}

func TestDecodeShow(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	expected := time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2035-04-01 20:00:00",
		"2035-04-01 20:00",
		"2035-04-01T20:00",
		"2035-04-01T20:00:00",
		"2035-04-01T20:00:00Z",
	} {
		f, errs := DecodeShow(url.Values{"venue_id": {"1"}, "artist_id": {"4"}, "start_time": {raw}}, now)
		require.Nil(t, errs, raw)
		assert.True(t, expected.Equal(f.StartTime), raw)
		assert.Equal(t, uint(1), f.VenueID)
		assert.Equal(t, uint(4), f.ArtistID)
		assert.Nil(t, f.Validate())
	}
}

func TestDecodeShowDefaultsToNow(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f, errs := DecodeShow(url.Values{"venue_id": {"1"}, "artist_id": {"2"}}, now)
	require.Nil(t, errs)
	assert.Equal(t, now, f.StartTime)
}

func TestDecodeShowErrors(t *testing.T) {
	now := time.Now()
	_, errs := DecodeShow(url.Values{"venue_id": {"abc"}, "artist_id": {"-1"}, "start_time": {"tomorrow"}}, now)
	assert.Equal(t, Errors{
		"venue_id":   "Not a valid ID",
		"artist_id":  "Not a valid ID",
		"start_time": "Not a valid date and time",
	}, errs)

	f, errs := DecodeShow(url.Values{}, now)
	require.Nil(t, errs)
	verrs := f.Validate()
	assert.Contains(t, verrs, "venue_id")
	assert.Contains(t, verrs, "artist_id")
}

func TestConversion(t *testing.T) {
	l := Decode(KindVenue, validVenueValues())
	v := l.Venue()
	assert.Equal(t, "The Musical Hop", v.Name)
	assert.True(t, v.SeekingTalent)
	assert.Equal(t, "1015 Folsom Street", v.Address)

	back := FromVenue(&v)
	assert.Equal(t, l, back)

	a := l.Artist()
	assert.True(t, a.SeekingVenue)
	assert.Equal(t, KindArtist, FromArtist(&a).Kind)
}
