package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AllGenres is the list of music genres venues and artists can be tagged with. The order is the order shown in the
// forms.
var AllGenres = []string{
	"Alternative",
	"Blues",
	"Classical",
	"Country",
	"Electronic",
	"Folk",
	"Funk",
	"Hip-Hop",
	"Heavy Metal",
	"Instrumental",
	"Jazz",
	"Musical Theatre",
	"Pop",
	"Punk",
	"R&B",
	"Reggae",
	"Rock n Roll",
	"Soul",
	"Other",
}

// AllStates is the list of state codes selectable for venues and artists
var AllStates = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL", "GA", "HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA",
	"ME", "MT", "NE", "NV", "NH", "NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "MD", "MA", "MI", "MN", "MS", "MO",
	"PA", "RI", "SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

var (
	genreIdx = makeIndex(AllGenres)
	stateIdx = makeIndex(AllStates)
)

func makeIndex(values []string) map[string]bool {
	idx := make(map[string]bool, len(values))
	for _, v := range values {
		idx[v] = true
	}
	return idx
}

// ValidGenre checks if the given value is one of the known genres
func ValidGenre(genre string) bool {
	return genreIdx[genre]
}

// ValidState checks if the given value is one of the known state codes
func ValidState(state string) bool {
	return stateIdx[state]
}

// Genres is an ordered list of genres. It is stored as a JSON array inside a single text column.
type Genres []string

// Value implements driver.Valuer
func (g Genres) Value() (driver.Value, error) {
	if g == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(g))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (g *Genres) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*g = Genres{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("Genres.Scan: unsupported source type %T", src)
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("Genres.Scan: %v", err)
	}
	*g = Genres(list)
	return nil
}

// Contains checks if the given genre is part of the list - used by the edit forms to preselect options
func (g Genres) Contains(genre string) bool {
	for _, item := range g {
		if item == genre {
			return true
		}
	}
	return false
}
