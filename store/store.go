// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/semaphore"

	"github.com/danielhkuo/party-registry/metrics"
	"github.com/danielhkuo/party-registry/models"
)

var (
	ErrNotFound     = errors.New("party not found")
	ErrNotPersisted = errors.New("party not persisted")
	ErrBusy         = errors.New("database busy")
)

// ListOptions narrows List. The zero value returns every active party.
type ListOptions struct {
	Ideology string
	Limit    int
	Offset   int
}

// Store is the persistence gateway for parties. Deletes are soft: the row
// stays with active = false and is invisible to every other method.
type Store struct {
	db           *sqlx.DB
	slots        *semaphore.Weighted
	queueTimeout time.Duration

	now   func() time.Time
	newID func() string
}

// New wraps a pool. At most maxConcurrent operations run at once; callers
// beyond that wait up to queueTimeout for a slot (forever if zero).
func New(db *sqlx.DB, maxConcurrent int, queueTimeout time.Duration) *Store {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Store{
		db:           db,
		slots:        semaphore.NewWeighted(int64(maxConcurrent)),
		queueTimeout: queueTimeout,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

var (
	selectColumns = buildSelectColumns()
	insertQuery   = buildInsertQuery()
)

// buildSelectColumns casts founding_date so both drivers return YYYY-MM-DD text
func buildSelectColumns() string {
	cols := models.Columns()
	for i, c := range cols {
		if c == "founding_date" {
			cols[i] = "CAST(founding_date AS TEXT) AS founding_date"
		}
	}
	return strings.Join(cols, ", ")
}

func buildInsertQuery() string {
	cols := models.Columns()
	named := make([]string, len(cols))
	for i, c := range cols {
		named[i] = ":" + c
	}
	return "INSERT INTO party (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(named, ", ") + ")"
}

// logo_url is only replaced when a new value is supplied
const updateQuery = `
	UPDATE party
	SET name = :name, abbreviation = :abbreviation, ideology = :ideology,
	    founding_date = :founding_date, headquarters = :headquarters,
	    representative_color = :representative_color,
	    logo_url = COALESCE(:logo_url, logo_url)
	WHERE id = :id AND active = :active
`

func (s *Store) acquire(ctx context.Context) (release func(), err error) {
	waitCtx := ctx
	if s.queueTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.queueTimeout)
		defer cancel()
	}
	if err := s.slots.Acquire(waitCtx, 1); err != nil {
		metrics.StoreQueueTimeoutsTotal.Inc()
		return nil, fmt.Errorf("%w: %w", ErrBusy, err)
	}
	return func() { s.slots.Release(1) }, nil
}

// List returns active parties, most recently registered first
func (s *Store) List(ctx context.Context, opts ListOptions) ([]models.PartyRecord, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	query := "SELECT " + selectColumns + " FROM party WHERE active = ?"
	args := []interface{}{true}
	if opts.Ideology != "" {
		query += " AND ideology = ?"
		args = append(args, opts.Ideology)
	}
	query += " ORDER BY registered_at DESC, id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, opts.Offset)
	}

	parties := []models.PartyRecord{}
	if err := s.db.SelectContext(ctx, &parties, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	return parties, nil
}

// Get returns one active party
func (s *Store) Get(ctx context.Context, id string) (models.PartyRecord, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return models.PartyRecord{}, err
	}
	defer release()

	return getActive(ctx, s.db, id)
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx
type queryer interface {
	sqlx.QueryerContext
	Rebind(query string) string
}

func getActive(ctx context.Context, q queryer, id string) (models.PartyRecord, error) {
	var rec models.PartyRecord
	query := q.Rebind("SELECT " + selectColumns + " FROM party WHERE id = ? AND active = ?")

	err := sqlx.GetContext(ctx, q, &rec, query, id, true)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PartyRecord{}, ErrNotFound
	}
	if err != nil {
		return models.PartyRecord{}, fmt.Errorf("failed to get party %s: %w", id, err)
	}
	return rec, nil
}

// Create assigns an ID and registration time, then inserts rec. Any ID or
// timestamp already on rec is ignored.
func (s *Store) Create(ctx context.Context, rec models.PartyRecord) (models.PartyRecord, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return models.PartyRecord{}, fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	defer release()

	rec.ID = s.newID()
	rec.Active = true
	rec.RegisteredAt = s.now().UTC().Truncate(time.Microsecond)

	if _, err := s.db.NamedExecContext(ctx, insertQuery, rec); err != nil {
		return models.PartyRecord{}, fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return rec, nil
}

// Update overwrites the mutable fields of an active party. A nil LogoURL
// keeps the stored logo. ID and registration time never change.
func (s *Store) Update(ctx context.Context, id string, rec models.PartyRecord) (models.PartyRecord, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return models.PartyRecord{}, fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	defer release()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.PartyRecord{}, fmt.Errorf("%w: begin: %w", ErrNotPersisted, err)
	}
	defer tx.Rollback()

	rec.ID = id
	rec.Active = true

	res, err := tx.NamedExecContext(ctx, updateQuery, rec)
	if err != nil {
		return models.PartyRecord{}, fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.PartyRecord{}, fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	if n == 0 {
		return models.PartyRecord{}, ErrNotFound
	}

	updated, err := getActive(ctx, tx, id)
	if err != nil {
		return models.PartyRecord{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.PartyRecord{}, fmt.Errorf("%w: commit: %w", ErrNotPersisted, err)
	}
	return updated, nil
}

// Delete marks an active party inactive
func (s *Store) Delete(ctx context.Context, id string) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	defer release()

	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE party SET active = ? WHERE id = ? AND active = ?"),
		false, id, true)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats counts active parties per ideology. Parties without an ideology
// only count towards the total.
func (s *Store) Stats(ctx context.Context) (models.PartyStats, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return models.PartyStats{}, err
	}
	defer release()

	var rows []struct {
		Ideology string `db:"ideology"`
		Count    int    `db:"count"`
	}
	err = s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT COALESCE(ideology, '') AS ideology, COUNT(*) AS count
		FROM party
		WHERE active = ?
		GROUP BY COALESCE(ideology, '')
	`), true)
	if err != nil {
		return models.PartyStats{}, fmt.Errorf("failed to count parties: %w", err)
	}

	stats := models.PartyStats{ByIdeology: map[string]int{}}
	for _, r := range rows {
		stats.Total += r.Count
		if r.Ideology != "" {
			stats.ByIdeology[r.Ideology] = r.Count
		}
	}
	return stats, nil
}
