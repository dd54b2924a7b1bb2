package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/ytshift/internal/models"
	"github.com/desertthunder/ytshift/internal/shared"
)

// MatchRepository implements models.Repository[*models.Match] for the
// match cache.
//
// Rows are unique per normalized lookup key, soft-deleted on clear, and
// revived by Upsert when the same lookup resolves again.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new MatchRepository with the given database connection
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create inserts a new [models.Match] into the database with generated ID and sequence
func (r *MatchRepository) Create(match *models.Match) error {
	sequence, err := NextSequence(r.db, "matches")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	match.SetID(id)

	if err := match.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO matches (id, sequence, lookup_key, title, artist, album, video_id, matched_title, matched_artists, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		match.Key(),
		match.Title(),
		match.Artist(),
		match.Album(),
		match.VideoID(),
		match.MatchedTitle(),
		match.MatchedArtists(),
		match.CreatedAt(),
		match.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}

	return nil
}

// Upsert inserts a match or, when its lookup key already exists, replaces
// the stored resolution and clears any soft delete.
func (r *MatchRepository) Upsert(match *models.Match) error {
	sequence, err := NextSequence(r.db, "matches")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	match.SetID(id)

	if err := match.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO matches (id, sequence, lookup_key, title, artist, album, video_id, matched_title, matched_artists, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(lookup_key) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			video_id = excluded.video_id,
			matched_title = excluded.matched_title,
			matched_artists = excluded.matched_artists,
			updated_at = excluded.updated_at,
			deleted_at = NULL
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		match.Key(),
		match.Title(),
		match.Artist(),
		match.Album(),
		match.VideoID(),
		match.MatchedTitle(),
		match.MatchedArtists(),
		match.CreatedAt(),
		match.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}

	return nil
}

// Get retrieves a match by ID, excluding soft-deleted matches
func (r *MatchRepository) Get(id string) (*models.Match, error) {
	query := `
		SELECT id, sequence, lookup_key, title, artist, album, video_id, matched_title, matched_artists, created_at, updated_at, deleted_at
		FROM matches
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByKey retrieves a match by its normalized lookup key, excluding
// soft-deleted matches
func (r *MatchRepository) GetByKey(key string) (*models.Match, error) {
	query := `
		SELECT id, sequence, lookup_key, title, artist, album, video_id, matched_title, matched_artists, created_at, updated_at, deleted_at
		FROM matches
		WHERE lookup_key = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, key))
}

// Update modifies an existing match in the database
func (r *MatchRepository) Update(match *models.Match) error {
	if err := match.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	match.SetUpdatedAt(now)

	query := `
		UPDATE matches
		SET title = ?, artist = ?, album = ?, video_id = ?, matched_title = ?, matched_artists = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		match.Title(),
		match.Artist(),
		match.Album(),
		match.VideoID(),
		match.MatchedTitle(),
		match.MatchedArtists(),
		now,
		match.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("match not found or already deleted: %s", match.ID())
	}

	return nil
}

// Delete soft-deletes a match by ID
func (r *MatchRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE matches
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("match not found or already deleted: %s", id)
	}

	return nil
}

// Purge soft-deletes every live match and returns how many rows it cleared
func (r *MatchRepository) Purge() (int, error) {
	result, err := r.db.Exec(`UPDATE matches SET deleted_at = ? WHERE deleted_at IS NULL`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge matches: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(rows), nil
}

// List retrieves all matches matching the given criteria, excluding soft-deleted matches
func (r *MatchRepository) List(criteria map[string]any) ([]*models.Match, error) {
	query := `
		SELECT id, sequence, lookup_key, title, artist, album, video_id, matched_title, matched_artists, created_at, updated_at, deleted_at
		FROM matches
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	if videoID, ok := criteria["video_id"].(string); ok && videoID != "" {
		query += " AND video_id = ?"
		args = append(args, videoID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return matches, nil
}

// scanOne scans a single [sql.Row] into a [models.Match]
func (r *MatchRepository) scanOne(row *sql.Row) (*models.Match, error) {
	var (
		id             string
		sequence       int
		key            string
		title          string
		artist         string
		album          string
		videoID        string
		matchedTitle   string
		matchedArtists string
		createdAt      time.Time
		updatedAt      time.Time
		deletedAt      sql.NullTime
	)

	err := row.Scan(&id, &sequence, &key, &title, &artist, &album, &videoID, &matchedTitle, &matchedArtists, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}

	match := models.NewMatch(sequence, key, title, artist, album, videoID, matchedTitle, matchedArtists)
	match.SetID(id)
	match.SetCreatedAt(createdAt)
	match.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		match.SetDeletedAt(&deletedAt.Time)
	}

	return match, nil
}

// scanRow scans a row from [sql.Rows] into a [models.Match]
func (r *MatchRepository) scanRow(rows *sql.Rows) (*models.Match, error) {
	var (
		id             string
		sequence       int
		key            string
		title          string
		artist         string
		album          string
		videoID        string
		matchedTitle   string
		matchedArtists string
		createdAt      time.Time
		updatedAt      time.Time
		deletedAt      sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &key, &title, &artist, &album, &videoID, &matchedTitle, &matchedArtists, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}

	match := models.NewMatch(sequence, key, title, artist, album, videoID, matchedTitle, matchedArtists)
	match.SetID(id)
	match.SetCreatedAt(createdAt)
	match.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		match.SetDeletedAt(&deletedAt.Time)
	}

	return match, nil
}
