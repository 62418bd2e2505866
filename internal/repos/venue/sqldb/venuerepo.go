// Package sqldb provides a venue repository that stores its data inside a SQL database (SQLite or PostgreSQL)
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
	venueFields = `name, search_name, city, state, address, phone, image_link, website_link, facebook_link,
		seeking_talent, seeking_description, genres, created_at, updated_at`
	summarySelect = `SELECT
						v.id AS id,
						v.name AS name,
						v.city AS city,
						v.state AS state,
						(SELECT COUNT(*) FROM shows s WHERE s.venue_id = v.id AND s.start_time > ?) AS num_upcoming_shows
					FROM
						venues v`
)

// VenueRepo is a venue repository working on a SQL database through sqlx
type VenueRepo struct {
	db     *sqlx.DB
	logger *logrus.Entry
}

// New creates a new venue repository instance with the given database and logger
func New(db *sqlx.DB, logger *logrus.Entry) *VenueRepo {
	return &VenueRepo{
		db:     db,
		logger: logger,
	}
}

// Create creates a new venue
func (r *VenueRepo) Create(ctx context.Context, v *models.Venue) error {
	r.logger.WithField(log.FldName, v.Name).Debug("Adding new venue")
	now := repos.UTC(time.Now())
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "Create: Failed to start transaction")
	}
	query := fmt.Sprintf(
		"INSERT INTO venues(%s) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id",
		venueFields,
	)
	var id uint
	err = tx.QueryRowxContext(ctx, tx.Rebind(query),
		v.Name, repos.FoldName(v.Name), v.City, v.State, v.Address, v.Phone, v.ImageLink, v.WebsiteLink,
		v.FacebookLink, v.SeekingTalent, v.SeekingDescription, v.Genres, now, now,
	).Scan(&id)
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Create: Failed to insert venue"))
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "Create: Failed to commit transaction")
	}
	v.ID = id
	v.CreatedAt = now
	v.UpdatedAt = now
	return nil
}

// Update updates all editable fields of an existing venue
func (r *VenueRepo) Update(ctx context.Context, v *models.Venue) error {
	r.logger.WithField(log.FldID, v.ID).Debug("Updating venue")
	now := repos.UTC(time.Now())
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "Update: Failed to start transaction")
	}
	query := `UPDATE venues SET name = ?, search_name = ?, city = ?, state = ?, address = ?, phone = ?,
		image_link = ?, website_link = ?, facebook_link = ?, seeking_talent = ?, seeking_description = ?, genres = ?,
		updated_at = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, tx.Rebind(query),
		v.Name, repos.FoldName(v.Name), v.City, v.State, v.Address, v.Phone, v.ImageLink, v.WebsiteLink,
		v.FacebookLink, v.SeekingTalent, v.SeekingDescription, v.Genres, now, v.ID,
	)
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Update: Failed to update venue"))
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
	v.UpdatedAt = now
	return nil
}

// Delete removes the venue with the given ID together with its shows
func (r *VenueRepo) Delete(ctx context.Context, id uint) error {
	r.logger.WithField(log.FldID, id).Debug("Deleting venue")
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "Delete: Failed to start transaction")
	}
	// The foreign key cascades as well - but not every connection has foreign keys enabled
	if _, err = tx.ExecContext(ctx, tx.Rebind("DELETE FROM shows WHERE venue_id = ?"), id); err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Delete: Failed to remove shows of venue"))
	}
	res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM venues WHERE id = ?"), id)
	if err != nil {
		return repos.DoRollback(tx, errors.Wrap(err, "Delete: Failed to remove venue"))
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

// GetByID returns the venue with the given ID
func (r *VenueRepo) GetByID(ctx context.Context, id uint) (*models.Venue, error) {
	r.logger.WithField(log.FldID, id).Debug("Loading venue")
	query := fmt.Sprintf("SELECT id, %s FROM venues WHERE id = ?", venueFields)
	var v struct {
		models.Venue
		SearchName string `db:"search_name"`
	}
	err := r.db.GetContext(ctx, &v, r.db.Rebind(query), id)
	if err != nil {
		if err == sql.ErrNoRows {
			// Nothing found
			return nil, repos.ErrEntityNotExisting
		}
		return nil, err
	}
	return &v.Venue, nil
}

// List returns all venues ordered by city with the number of shows starting after the given point in time
func (r *VenueRepo) List(ctx context.Context, now time.Time) ([]models.VenueSummary, error) {
	query := fmt.Sprintf("%s ORDER BY v.city, v.state, v.name, v.id", summarySelect)
	ret := []models.VenueSummary{}
	if err := r.db.SelectContext(ctx, &ret, r.db.Rebind(query), now.UTC()); err != nil {
		return nil, errors.Wrap(err, "List: Failed to query venues")
	}
	return ret, nil
}

// Find returns the venues whose name contains the search string, ignoring case
func (r *VenueRepo) Find(ctx context.Context, search string, now time.Time) ([]models.VenueSummary, error) {
	r.logger.WithField(log.FldSearch, search).Debug("Searching for venue")
	query := fmt.Sprintf(`%s WHERE v.search_name LIKE ? ESCAPE '\' ORDER BY v.name, v.id`, summarySelect)
	ret := []models.VenueSummary{}
	err := r.db.SelectContext(ctx, &ret, r.db.Rebind(query), now.UTC(), repos.ContainsPattern(search))
	if err != nil {
		r.logger.WithError(err).Error("Failed to query venues")
		return nil, errors.Wrap(err, "Find: Failed to query venues")
	}
	return ret, nil
}
