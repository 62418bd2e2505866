package models

import "time"

// Artist is a performer that can be booked at venues
type Artist struct {
	// Internal ID
	ID    uint   `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	City  string `db:"city" json:"city"`
	State string `db:"state" json:"state"`
	Phone string `db:"phone" json:"phone"`
	// The genres the artist performs
	Genres       Genres `db:"genres" json:"genres"`
	ImageLink    string `db:"image_link" json:"image_link"`
	WebsiteLink  string `db:"website_link" json:"website_link"`
	FacebookLink string `db:"facebook_link" json:"facebook_link"`
	// Is the artist currently looking for venues to perform at?
	SeekingVenue       bool   `db:"seeking_venue" json:"seeking_venue"`
	SeekingDescription string `db:"seeking_description" json:"seeking_description"`
	// Creation timestamp of this entry
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	// Timestamp of the last update of this entry
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ArtistSummary is the short form of an artist used in listings and search results
type ArtistSummary struct {
	ID               uint   `db:"id" json:"id"`
	Name             string `db:"name" json:"name"`
	NumUpcomingShows uint   `db:"num_upcoming_shows" json:"num_upcoming_shows"`
}

// VenueShow describes a show on an artist's page - the counterpart shown is the venue
type VenueShow struct {
	VenueID        uint   `json:"venue_id"`
	VenueName      string `json:"venue_name"`
	VenueImageLink string `json:"venue_image_link"`
	StartTime      string `json:"start_time"`
}

// ArtistDetail is an artist together with the shows partitioned into past and upcoming ones
type ArtistDetail struct {
	Artist
	PastShows          []VenueShow `json:"past_shows"`
	UpcomingShows      []VenueShow `json:"upcoming_shows"`
	PastShowsCount     int         `json:"past_shows_count"`
	UpcomingShowsCount int         `json:"upcoming_shows_count"`
}
