package authstub

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"authflow/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	is_verified   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);`

// User - a row of the users table
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile returns the public part of the user.
func (u *User) Profile() domain.UserProfile {
	return domain.UserProfile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: domain.Timestamp{Time: u.CreatedAt},
		UpdatedAt: domain.Timestamp{Time: u.UpdatedAt},
	}
}

// UserStore - users table on sqlite
type UserStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenUserStore opens the sqlite database at dsn and applies the schema.
func OpenUserStore(dsn string) (*UserStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &UserStore{db: db, now: time.Now}, nil
}

func (s *UserStore) Close() error {
	return s.db.Close()
}

// Create inserts an unverified user and returns its id.
func (s *UserStore) Create(ctx context.Context, username, email, passwordHash string) (int64, error) {
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, is_verified, created_at, updated_at)
		 VALUES (?, ?, ?, FALSE, ?, ?)`,
		username, email, passwordHash, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, domain.ErrUserAlreadyExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, `WHERE email = ?`, email)
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (*User, error) {
	return s.findOne(ctx, `WHERE id = ?`, id)
}

func (s *UserStore) findOne(ctx context.Context, where string, arg any) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, is_verified, created_at, updated_at FROM users `+where, arg)

	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

// MarkVerified flags the user with email as verified.
func (s *UserStore) MarkVerified(ctx context.Context, email string) error {
	return s.update(ctx, `UPDATE users SET is_verified = TRUE, updated_at = ? WHERE email = ?`, s.now().UTC(), email)
}

// SetPasswordHash replaces the password of the user with email.
func (s *UserStore) SetPasswordHash(ctx context.Context, email, passwordHash string) error {
	return s.update(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE email = ?`, passwordHash, s.now().UTC(), email)
}

func (s *UserStore) update(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
