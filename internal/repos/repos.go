// Package repos contains the repository interfaces needed in Fyyur
// It exists to prevent circular dependencies between fyyur and the repo implementations
package repos

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/net/context"
	"golang.org/x/text/cases"

	"github.com/derWhity/fyyur/internal/models"
)

var (
	// ErrEntityNotExisting is fired by a repository when an entity that is loaded, updated or deleted does not exist
	ErrEntityNotExisting = fmt.Errorf("cannot update: Entity does not exist")
	// ErrReferenceNotExisting is fired when an entity references another entity that does not exist
	ErrReferenceNotExisting = fmt.Errorf("referenced entity does not exist")
)

// VenueRepo defines a repository that handles storing and querying venues
type VenueRepo interface {
	// Create creates a new venue
	Create(ctx context.Context, v *models.Venue) error
	// Update updates all editable fields of an existing venue
	Update(ctx context.Context, v *models.Venue) error
	// Delete removes the venue with the given ID together with its shows
	Delete(ctx context.Context, id uint) error
	// GetByID returns the venue with the given ID
	GetByID(ctx context.Context, id uint) (*models.Venue, error)
	// List returns all venues ordered by city with the number of shows starting after the given point in time
	List(ctx context.Context, now time.Time) ([]models.VenueSummary, error)
	// Find returns the venues whose name contains the search string, ignoring case
	Find(ctx context.Context, search string, now time.Time) ([]models.VenueSummary, error)
}

// ArtistRepo defines a repository that handles storing and querying artists
type ArtistRepo interface {
	// Create creates a new artist
	Create(ctx context.Context, a *models.Artist) error
	// Update updates all editable fields of an existing artist
	Update(ctx context.Context, a *models.Artist) error
	// Delete removes the artist with the given ID together with its shows
	Delete(ctx context.Context, id uint) error
	// GetByID returns the artist with the given ID
	GetByID(ctx context.Context, id uint) (*models.Artist, error)
	// List returns all artists ordered by name with the number of shows starting after the given point in time
	List(ctx context.Context, now time.Time) ([]models.ArtistSummary, error)
	// Find returns the artists whose name contains the search string, ignoring case
	Find(ctx context.Context, search string, now time.Time) ([]models.ArtistSummary, error)
}

// ShowRepo defines a repository that handles storing and querying shows
type ShowRepo interface {
	// Create creates a new show. Fails with ErrReferenceNotExisting if the venue or the artist does not exist.
	Create(ctx context.Context, s *models.Show) error
	// List returns all shows joined with their venues and artists, latest first. Fails with ErrReferenceNotExisting
	// if a show references a venue or an artist that does not exist.
	List(ctx context.Context) ([]models.ShowEntry, error)
	// ListByVenue returns the shows of a venue ordered by start time
	ListByVenue(ctx context.Context, venueID uint) ([]models.ShowEntry, error)
	// ListByArtist returns the shows of an artist ordered by start time
	ListByArtist(ctx context.Context, artistID uint) ([]models.ShowEntry, error)
}

// FlashRepo stores one-shot notifications per browser client until they are shown
type FlashRepo interface {
	// Push appends a message to the list of pending messages of the given client
	Push(ctx context.Context, clientID string, f models.Flash) error
	// Pop returns all pending messages of the client in the order they were pushed and removes them
	Pop(ctx context.Context, clientID string) ([]models.Flash, error)
}

// -- Helpers for SQLX repos -------------------------------------------------------------------------------------------

// DoRollback rolls back a transaction and catches any error resulting from it while appending the original error
func DoRollback(tx *sqlx.Tx, originalError error) error {
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("doRollback: Transaction rollback failed: %v; Recent error: %v", err, originalError)
	}
	return originalError
}

// FoldName returns the case-folded form of a name that is stored alongside the name for case-insensitive searches
func FoldName(name string) string {
	return cases.Fold().String(name)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE pattern (to be used with ESCAPE '\') matching every value that contains the folded
// search string
func ContainsPattern(search string) string {
	return "%" + likeEscaper.Replace(FoldName(search)) + "%"
}

// UTC normalizes a timestamp before it is written to the database
func UTC(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
