package models

import "time"

// ShowTimeLayout is the layout used for displaying show start times
const ShowTimeLayout = "01/02/2006, 15:04"

// Show is a scheduled performance of one artist at one venue
type Show struct {
	ID        uint      `db:"id" json:"id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	VenueID   uint      `db:"venue_id" json:"venue_id"`
	ArtistID  uint      `db:"artist_id" json:"artist_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ShowEntry is a show joined with the data of the venue and the artist involved. It is used everywhere a show is
// displayed together with its counterparts.
type ShowEntry struct {
	ShowID          uint      `db:"id" json:"-"`
	StartsAt        time.Time `db:"start_time" json:"-"`
	VenueID         uint      `db:"venue_id" json:"venue_id"`
	VenueName       string    `db:"venue_name" json:"venue_name"`
	VenueImageLink  string    `db:"venue_image_link" json:"venue_image_link"`
	ArtistID        uint      `db:"artist_id" json:"artist_id"`
	ArtistName      string    `db:"artist_name" json:"artist_name"`
	ArtistImageLink string    `db:"artist_image_link" json:"artist_image_link"`
	StartTime       string    `db:"-" json:"start_time"`
}

// FormatShowTime formats a start time the way it is shown on the pages
func FormatShowTime(t time.Time) string {
	return t.Format(ShowTimeLayout)
}

// SearchResult is the result of a name search for venues or artists
type SearchResult struct {
	// Total number of matches
	Count int `json:"count"`
	// The matching entries
	Data interface{} `json:"data"`
}
