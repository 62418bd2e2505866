// Package sqldb provides a show repository that stores its data inside a SQL database (SQLite or PostgreSQL)
package sqldb

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/models"
	"github.com/derWhity/fyyur/internal/repos"
)

const (
	entrySelect = `SELECT
						s.id AS id,
						s.start_time AS start_time,
						s.venue_id AS venue_id,
						v.name AS venue_name,
						v.image_link AS venue_image_link,
						s.artist_id AS artist_id,
						a.name AS artist_name,
						a.image_link AS artist_image_link
					FROM
						shows s`
)

// Row of the full show listing. Venue and artist are joined optionally to detect dangling references.
type listRow struct {
	ShowID          uint           `db:"id"`
	StartsAt        time.Time      `db:"start_time"`
	VenueID         uint           `db:"venue_id"`
	VenueName       sql.NullString `db:"venue_name"`
	VenueImageLink  sql.NullString `db:"venue_image_link"`
	ArtistID        uint           `db:"artist_id"`
	ArtistName      sql.NullString `db:"artist_name"`
	ArtistImageLink sql.NullString `db:"artist_image_link"`
}

// ShowRepo is a show repository working on a SQL database through sqlx
type ShowRepo struct {
	db     *sqlx.DB
	logger *logrus.Entry
}

// New creates a new show repository instance with the given database and logger
func New(db *sqlx.DB, logger *logrus.Entry) *ShowRepo {
	return &ShowRepo{
		db:     db,
		logger: logger,
	}
}

// checkReference fails with ErrReferenceNotExisting if there is no row with the given ID inside the table
func checkReference(ctx context.Context, tx *sqlx.Tx, table string, id uint) error {
	var num int
	if err := tx.GetContext(ctx, &num, tx.Rebind("SELECT COUNT(*) FROM "+table+" WHERE id = ?"), id); err != nil {
		return errors.Wrapf(err, "checkReference: Failed to look up %s", table)
	}
	if num == 0 {
		return repos.ErrReferenceNotExisting
	}
	return nil
}

// Create creates a new show. Fails with ErrReferenceNotExisting if the venue or the artist does not exist.
func (r *ShowRepo) Create(ctx context.Context, s *models.Show) error {
	r.logger.WithFields(logrus.Fields{
		log.FldVenue:  s.VenueID,
		log.FldArtist: s.ArtistID,
	}).Debug("Adding new show")
	now := repos.UTC(time.Now())
	if s.StartTime.IsZero() {
		s.StartTime = now
	}
	s.StartTime = repos.UTC(s.StartTime)
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "Create: Failed to start transaction")
	}
	if err = checkReference(ctx, tx, "venues", s.VenueID); err != nil {
		return repos.DoRollback(tx, err)
	}
	if err = checkReference(ctx, tx, "artists", s.ArtistID); err != nil {
		return repos.DoRollback(tx, err)
	}
	query := "INSERT INTO shows(start_time, venue_id, artist_id, created_at) VALUES(?, ?, ?, ?) RETURNING id"
	var id uint
	if err = tx.QueryRowxContext(ctx, tx.Rebind(query), s.StartTime, s.VenueID, s.ArtistID, now).Scan(&id); err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Create: Failed to insert show"))
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "Create: Failed to commit transaction")
	}
	s.ID = id
	s.CreatedAt = now
	return nil
}

// List returns all shows joined with their venues and artists, latest first
func (r *ShowRepo) List(ctx context.Context) ([]models.ShowEntry, error) {
	query := entrySelect + `
					LEFT OUTER JOIN venues v ON v.id = s.venue_id
					LEFT OUTER JOIN artists a ON a.id = s.artist_id
					ORDER BY s.start_time DESC, s.id DESC`
	var rows []listRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "List: Failed to query shows")
	}
	ret := make([]models.ShowEntry, 0, len(rows))
	for _, row := range rows {
		if !row.VenueName.Valid || !row.ArtistName.Valid {
			r.logger.WithFields(logrus.Fields{
				log.FldID:     row.ShowID,
				log.FldVenue:  row.VenueID,
				log.FldArtist: row.ArtistID,
			}).Error("Show references a missing venue or artist")
			return nil, repos.ErrReferenceNotExisting
		}
		ret = append(ret, models.ShowEntry{
			ShowID:          row.ShowID,
			StartsAt:        row.StartsAt,
			VenueID:         row.VenueID,
			VenueName:       row.VenueName.String,
			VenueImageLink:  row.VenueImageLink.String,
			ArtistID:        row.ArtistID,
			ArtistName:      row.ArtistName.String,
			ArtistImageLink: row.ArtistImageLink.String,
		})
	}
	return ret, nil
}

// ListByVenue returns the shows of a venue ordered by start time
func (r *ShowRepo) ListByVenue(ctx context.Context, venueID uint) ([]models.ShowEntry, error) {
	r.logger.WithField(log.FldVenue, venueID).Debug("Loading shows of venue")
	query := entrySelect + `
					JOIN venues v ON v.id = s.venue_id
					JOIN artists a ON a.id = s.artist_id
					WHERE s.venue_id = ?
					ORDER BY s.start_time, s.id`
	ret := []models.ShowEntry{}
	if err := r.db.SelectContext(ctx, &ret, r.db.Rebind(query), venueID); err != nil {
		return nil, errors.Wrap(err, "ListByVenue: Failed to query shows")
	}
	return ret, nil
}

// ListByArtist returns the shows of an artist ordered by start time
func (r *ShowRepo) ListByArtist(ctx context.Context, artistID uint) ([]models.ShowEntry, error) {
	r.logger.WithField(log.FldArtist, artistID).Debug("Loading shows of artist")
	query := entrySelect + `
					JOIN venues v ON v.id = s.venue_id
					JOIN artists a ON a.id = s.artist_id
					WHERE s.artist_id = ?
					ORDER BY s.start_time, s.id`
	ret := []models.ShowEntry{}
	if err := r.db.SelectContext(ctx, &ret, r.db.Rebind(query), artistID); err != nil {
		return nil, errors.Wrap(err, "ListByArtist: Failed to query shows")
	}
	return ret, nil
}
