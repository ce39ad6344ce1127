package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"stellium/internal/domain/astro"
)

// ProfileStore implements storage for birth profiles and their derived chart
// summary fields.
//
// Expected schema:
//
//	CREATE TABLE birth_profiles (
//	    id             uuid PRIMARY KEY,
//	    name           text NOT NULL,
//	    date_of_birth  text NOT NULL,
//	    birth_time     text NOT NULL DEFAULT '',
//	    birth_place    text NOT NULL,
//	    latitude       double precision NOT NULL,
//	    longitude      double precision NOT NULL,
//	    sun_sign       text NOT NULL,
//	    moon_sign      text NOT NULL,
//	    rising_sign    text NOT NULL,
//	    time_estimated boolean NOT NULL,
//	    created_at     timestamptz NOT NULL,
//	    updated_at     timestamptz NOT NULL
//	);
type ProfileStore struct {
	db *pgxpool.Pool
}

// NewProfileStore creates a new profile store.
func NewProfileStore(db *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{
		db: db,
	}
}

// SaveProfile inserts or updates a profile.
func (s *ProfileStore) SaveProfile(ctx context.Context, p astro.Profile) error {
	query := `
		INSERT INTO birth_profiles (
			id, name, date_of_birth, birth_time, birth_place,
			latitude, longitude, sun_sign, moon_sign, rising_sign,
			time_estimated, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13
		)
		ON CONFLICT (id) DO UPDATE
		SET
			name = $2,
			date_of_birth = $3,
			birth_time = $4,
			birth_place = $5,
			latitude = $6,
			longitude = $7,
			sun_sign = $8,
			moon_sign = $9,
			rising_sign = $10,
			time_estimated = $11,
			updated_at = $13
	`

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		ctx,
		query,
		p.ID,
		p.Name,
		p.DateOfBirth,
		p.BirthTime,
		p.BirthPlace,
		p.Latitude,
		p.Longitude,
		p.SunSign,
		p.MoonSign,
		p.RisingSign,
		p.TimeEstimated,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetProfile retrieves a profile by ID.
func (s *ProfileStore) GetProfile(ctx context.Context, id string) (*astro.Profile, error) {
	query := `
		SELECT
			id, name, date_of_birth, birth_time, birth_place,
			latitude, longitude, sun_sign, moon_sign, rising_sign,
			time_estimated, created_at, updated_at
		FROM birth_profiles
		WHERE id = $1
	`

	var p astro.Profile
	err := s.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.DateOfBirth,
		&p.BirthTime,
		&p.BirthPlace,
		&p.Latitude,
		&p.Longitude,
		&p.SunSign,
		&p.MoonSign,
		&p.RisingSign,
		&p.TimeEstimated,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, astro.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &p, nil
}

// ListProfiles returns stored profiles, newest first.
func (s *ProfileStore) ListProfiles(ctx context.Context, limit int) ([]astro.Profile, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT
			id, name, date_of_birth, birth_time, birth_place,
			latitude, longitude, sun_sign, moon_sign, rising_sign,
			time_estimated, created_at, updated_at
		FROM birth_profiles
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	profiles := []astro.Profile{}
	for rows.Next() {
		var p astro.Profile
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.DateOfBirth,
			&p.BirthTime,
			&p.BirthPlace,
			&p.Latitude,
			&p.Longitude,
			&p.SunSign,
			&p.MoonSign,
			&p.RisingSign,
			&p.TimeEstimated,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return profiles, nil
}

// DeleteProfile removes a profile by ID.
func (s *ProfileStore) DeleteProfile(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM birth_profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return astro.ErrProfileNotFound
	}
	return nil
}
