package models

import "time"

// Venue is a location that can host performances
type Venue struct {
	// Internal ID
	ID uint `db:"id" json:"id"`
	// Name of the venue
	Name string `db:"name" json:"name"`
	// The city the venue is located in
	City string `db:"city" json:"city"`
	// The state code of the venue's location
	State string `db:"state" json:"state"`
	// Street address
	Address string `db:"address" json:"address"`
	Phone   string `db:"phone" json:"phone"`
	// Link to an image presenting the venue
	ImageLink    string `db:"image_link" json:"image_link"`
	WebsiteLink  string `db:"website_link" json:"website_link"`
	FacebookLink string `db:"facebook_link" json:"facebook_link"`
	// Is the venue currently looking for artists to perform?
	SeekingTalent bool `db:"seeking_talent" json:"seeking_talent"`
	// What kind of talent is the venue looking for
	SeekingDescription string `db:"seeking_description" json:"seeking_description"`
	// The genres played at the venue
	Genres Genres `db:"genres" json:"genres"`
	// Creation timestamp of this entry
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	// Timestamp of the last update of this entry
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// VenueSummary is the short form of a venue used in listings and search results
type VenueSummary struct {
	ID    uint   `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	City  string `db:"city" json:"-"`
	State string `db:"state" json:"-"`
	// Number of shows at this venue that start after the time of the request
	NumUpcomingShows uint `db:"num_upcoming_shows" json:"num_upcoming_shows"`
}

// Area groups the venues of one city
type Area struct {
	City   string         `json:"city"`
	State  string         `json:"state"`
	Venues []VenueSummary `json:"venues"`
}

// VenueListing is the result of listing all venues. The venues are ordered by city and grouped into areas.
type VenueListing struct {
	// The distinct cities in the order of appearance
	Cities []string `json:"cities"`
	Areas  []Area   `json:"areas"`
}

// ArtistShow describes a show on a venue's page - the counterpart shown is the artist
type ArtistShow struct {
	ArtistID        uint   `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	ArtistImageLink string `json:"artist_image_link"`
	StartTime       string `json:"start_time"`
}

// VenueDetail is a venue together with its shows partitioned into past and upcoming ones
type VenueDetail struct {
	Venue
	PastShows          []ArtistShow `json:"past_shows"`
	UpcomingShows      []ArtistShow `json:"upcoming_shows"`
	PastShowsCount     int          `json:"past_shows_count"`
	UpcomingShowsCount int          `json:"upcoming_shows_count"`
}
