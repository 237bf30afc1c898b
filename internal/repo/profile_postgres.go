package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ayres-originals/originals-api/internal/models"
	"github.com/google/uuid"
)

const profileColumns = `id, username, display_name, COALESCE(bio, ''), COALESCE(avatar_url, ''), created_at, updated_at`

type PostgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func scanProfile(row rowScanner) (models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Username, &p.DisplayName, &p.Bio, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PostgresProfileRepository) Create(p models.Profile) (models.Profile, error) {
	query := `INSERT INTO profiles (id, username, display_name, bio, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, p.ID, p.Username, p.DisplayName, p.Bio, p.AvatarURL, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to insert profile: %w", translatePgError(err))
	}
	return p, nil
}

func (r *PostgresProfileRepository) getOne(query string, args ...any) (models.Profile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	return p, err
}

func (r *PostgresProfileRepository) GetByID(id string) (models.Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Profile{}, ErrProfileNotFound
	}
	return r.getOne(`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
}

func (r *PostgresProfileRepository) GetByUsername(username string) (models.Profile, error) {
	return r.getOne(`SELECT `+profileColumns+` FROM profiles WHERE lower(username) = lower($1)`, username)
}

func (r *PostgresProfileRepository) Update(p models.Profile) (models.Profile, error) {
	query := `UPDATE profiles SET display_name = $1, bio = $2, avatar_url = $3, updated_at = $4 WHERE id = $5
		RETURNING ` + profileColumns
	return r.getOne(query, p.DisplayName, p.Bio, p.AvatarURL, p.UpdatedAt, p.ID)
}

func (r *PostgresProfileRepository) Search(query string, offset, limit *int) ([]models.Profile, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	pattern := containsPattern(query)
	where := ` WHERE username ILIKE $1 OR display_name ILIKE $1`

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`+where, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	l := pageLimit(limit)
	o := 0
	if offset != nil && *offset > 0 {
		o = *offset
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles`+where+` ORDER BY lower(username) LIMIT $2 OFFSET $3`, pattern, l, o)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, p)
	}
	return profiles, total, rows.Err()
}
