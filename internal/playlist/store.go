package playlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists playlists. Every mutation is a single-row UPDATE, so each
// field change is atomic but there is no cross-field transaction.
type Store interface {
	Get(ctx context.Context, id string) (*Playlist, error)
	List(ctx context.Context) ([]Playlist, error)
	Create(ctx context.Context, p *Playlist) error
	// UpdateDetails keeps the current poster when posterURL is empty.
	UpdateDetails(ctx context.Context, id, name, shortDesc, posterURL string) error
	AddLike(ctx context.Context, id, userID string) error
	RemoveLike(ctx context.Context, id, userID string) error
	AppendTrack(ctx context.Context, id, musicID string) error
	RemoveTrack(ctx context.Context, id, musicID string) error
}

type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectPlaylist = `
	SELECT id, name, short_desc, author, poster_url, musics, likes, created_at
	FROM playlists`

func scanPlaylist(row pgx.Row) (Playlist, error) {
	var p Playlist
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.ShortDesc,
		&p.Author,
		&p.PosterURL,
		&p.Musics,
		&p.Likes,
		&p.CreatedAt,
	)
	if p.Musics == nil {
		p.Musics = []string{}
	}
	if p.Likes == nil {
		p.Likes = []string{}
	}
	return p, err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Playlist, error) {
	p, err := scanPlaylist(s.db.QueryRow(ctx, selectPlaylist+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Playlist, error) {
	rows, err := s.db.Query(ctx, selectPlaylist+` ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	playlists := []Playlist{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("list playlists scan: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list playlists rows: %w", err)
	}
	return playlists, nil
}

func (s *PostgresStore) Create(ctx context.Context, p *Playlist) error {
	if p.Musics == nil {
		p.Musics = []string{}
	}
	if p.Likes == nil {
		p.Likes = []string{}
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO playlists (id, name, short_desc, author, poster_url, musics, likes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, p.ID, p.Name, p.ShortDesc, p.Author, p.PosterURL, p.Musics, p.Likes).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create playlist: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateDetails(ctx context.Context, id, name, shortDesc, posterURL string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE playlists
		SET name = $2,
		    short_desc = $3,
		    poster_url = COALESCE(NULLIF($4, ''), poster_url)
		WHERE id = $1
	`, id, name, shortDesc, posterURL)
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// AddLike only appends when userID is absent, so two racing likes from the
// same user cannot both land.
func (s *PostgresStore) AddLike(ctx context.Context, id, userID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE playlists
		SET likes = array_append(likes, $2::text)
		WHERE id = $1 AND NOT ($2::text = ANY(likes))
	`, id, userID)
	if err != nil {
		return fmt.Errorf("like playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyLiked
	}
	return nil
}

func (s *PostgresStore) RemoveLike(ctx context.Context, id, userID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE playlists
		SET likes = array_remove(likes, $2::text)
		WHERE id = $1 AND $2::text = ANY(likes)
	`, id, userID)
	if err != nil {
		return fmt.Errorf("unlike playlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotLiked
	}
	return nil
}

// AppendTrack does not check for duplicates: the same track may appear twice.
func (s *PostgresStore) AppendTrack(ctx context.Context, id, musicID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE playlists
		SET musics = array_append(musics, $2::text)
		WHERE id = $1
	`, id, musicID)
	if err != nil {
		return fmt.Errorf("append track: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// RemoveTrack drops every occurrence of musicID and keeps the order of the
// rest. Removing an absent id still succeeds.
func (s *PostgresStore) RemoveTrack(ctx context.Context, id, musicID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE playlists
		SET musics = array_remove(musics, $2::text)
		WHERE id = $1
	`, id, musicID)
	if err != nil {
		return fmt.Errorf("remove track: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}
