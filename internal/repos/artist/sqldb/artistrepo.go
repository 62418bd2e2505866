// Package sqldb provides an artist repository that stores its data inside a SQL database (SQLite or PostgreSQL)
package sqldb

import (
	"database/sql"
	"fmt"
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
	artistFields = `name, search_name, city, state, phone, genres, image_link, website_link, facebook_link,
		seeking_venue, seeking_description, created_at, updated_at`
	summarySelect = `SELECT
						a.id AS id,
						a.name AS name,
						(SELECT COUNT(*) FROM shows s WHERE s.artist_id = a.id AND s.start_time > ?) AS num_upcoming_shows
					FROM
						artists a`
)

// ArtistRepo is an artist repository working on a SQL database through sqlx
type ArtistRepo struct {
	db     *sqlx.DB
	logger *logrus.Entry
}

// New creates a new artist repository instance with the given database and logger
func New(db *sqlx.DB, logger *logrus.Entry) *ArtistRepo {
	return &ArtistRepo{
		db:     db,
		logger: logger,
	}
}

// Create creates a new artist
func (r *ArtistRepo) Create(ctx context.Context, a *models.Artist) error {
	r.logger.WithField(log.FldName, a.Name).Debug("Adding new artist")
	now := repos.UTC(time.Now())
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "Create: Failed to start transaction")
	}
	query := fmt.Sprintf(
		"INSERT INTO artists(%s) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id",
		artistFields,
	)
	var id uint
	err = tx.QueryRowxContext(ctx, tx.Rebind(query),
		a.Name, repos.FoldName(a.Name), a.City, a.State, a.Phone, a.Genres, a.ImageLink, a.WebsiteLink,
		a.FacebookLink, a.SeekingVenue, a.SeekingDescription, now, now,
	).Scan(&id)
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Create: Failed to insert artist"))
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "Create: Failed to commit transaction")
	}
	a.ID = id
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

// Update updates all editable fields of an existing artist
func (r *ArtistRepo) Update(ctx context.Context, a *models.Artist) error {
	r.logger.WithField(log.FldID, a.ID).Debug("Updating artist")
	now := repos.UTC(time.Now())
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "Update: Failed to start transaction")
	}
	query := `UPDATE artists SET name = ?, search_name = ?, city = ?, state = ?, phone = ?, genres = ?,
		image_link = ?, website_link = ?, facebook_link = ?, seeking_venue = ?, seeking_description = ?,
		updated_at = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, tx.Rebind(query),
		a.Name, repos.FoldName(a.Name), a.City, a.State, a.Phone, a.Genres, a.ImageLink, a.WebsiteLink,
		a.FacebookLink, a.SeekingVenue, a.SeekingDescription, now, a.ID,
	)
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Update: Failed to update artist"))
	}
	var num int64
	if num, err = res.RowsAffected(); err == nil && num == 0 {
		err = repos.ErrEntityNotExisting
	}
	if err != nil {
		return repos.DoRollback(tx, err)
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "Update: Failed to commit transaction")
	}
	a.UpdatedAt = now
	return nil
}

// Delete removes the artist with the given ID together with its shows
func (r *ArtistRepo) Delete(ctx context.Context, id uint) error {
	r.logger.WithField(log.FldID, id).Debug("Deleting artist")
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "Delete: Failed to start transaction")
	}
	if _, err = tx.ExecContext(ctx, tx.Rebind("DELETE FROM shows WHERE artist_id = ?"), id); err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Delete: Failed to remove shows of artist"))
	}
	res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM artists WHERE id = ?"), id)
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Delete: Failed to remove artist"))
	}
	var num int64
	if num, err = res.RowsAffected(); err == nil && num == 0 {
		err = repos.ErrEntityNotExisting
	}
	if err != nil {
		return repos.DoRollback(tx, err)
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "Delete: Failed to commit transaction")
	}
	return nil
}

// GetByID returns the artist with the given ID
func (r *ArtistRepo) GetByID(ctx context.Context, id uint) (*models.Artist, error) {
	r.logger.WithField(log.FldID, id).Debug("Loading artist")
	query := fmt.Sprintf("SELECT id, %s FROM artists WHERE id = ?", artistFields)
	var a struct {
		models.Artist
		SearchName string `db:"search_name"`
	}
	err := r.db.GetContext(ctx, &a, r.db.Rebind(query), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repos.ErrEntityNotExisting
		}
		return nil, err
	}
	return &a.Artist, nil
}

// List returns all artists ordered by name with the number of shows starting after the given point in time
func (r *ArtistRepo) List(ctx context.Context, now time.Time) ([]models.ArtistSummary, error) {
	query := fmt.Sprintf("%s ORDER BY a.name, a.id", summarySelect)
	ret := []models.ArtistSummary{}
	if err := r.db.SelectContext(ctx, &ret, r.db.Rebind(query), now.UTC()); err != nil {
		return nil, errors.Wrap(err, "List: Failed to query artists")
	}
	return ret, nil
}

// Find returns the artists whose name contains the search string, ignoring case
func (r *ArtistRepo) Find(ctx context.Context, search string, now time.Time) ([]models.ArtistSummary, error) {
	r.logger.WithField(log.FldSearch, search).Debug("Searching for artist")
	query := fmt.Sprintf(`%s WHERE a.search_name LIKE ? ESCAPE '\' ORDER BY a.name, a.id`, summarySelect)
	ret := []models.ArtistSummary{}
	err := r.db.SelectContext(ctx, &ret, r.db.Rebind(query), now.UTC(), repos.ContainsPattern(search))
	if err != nil {
		r.logger.WithError(err).Error("Failed to query artists")
		return nil, errors.Wrap(err, "Find: Failed to query artists")
	}
	return ret, nil
}
