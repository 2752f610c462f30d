package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/loykin/petfriends/internal/common"
	_ "modernc.org/sqlite"
)

const busyTimeoutMS = 5000

// User is an account known to the emulator.
type User struct {
	ID       string
	Email    string
	Password string
}

// Pet is a stored pet. Photo holds a data URI or is empty.
type Pet struct {
	ID         string
	UserID     string
	Name       string
	AnimalType string
	Age        string
	Photo      string
	CreatedAt  time.Time
}

// Store keeps users and pets in sqlite.
type Store struct {
	db  *sql.DB
	DSN string
}

// Open connects to the sqlite database at path and ensures the schema.
// An empty path opens a private in-memory database.
func Open(path string) (*Store, error) {
	s := &Store{DSN: ":memory:"}
	if p := strings.TrimSpace(path); p != "" {
		s.DSN = fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", p, busyTimeoutMS)
	}

	db, err := sql.Open("sqlite", s.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	// one connection: an in-memory database lives and dies with its connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	s.db = db

	if err := s.ensure(); err != nil {
		_ = db.Close()
		return nil, err
	}
	common.GetLogger().WithComponent("fakeapi-store").Debug("sqlite store ready", "dsn", s.DSN)
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ensure() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, password TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS pets (id TEXT PRIMARY KEY, user_id TEXT NOT NULL REFERENCES users(id), name TEXT NOT NULL, animal_type TEXT NOT NULL, age TEXT NOT NULL, photo TEXT NOT NULL DEFAULT '', created_at TEXT NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS pets_user_id ON pets(user_id)`,
	}
	for i, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to create table %d in schema setup: %w", i+1, err)
		}
	}
	return nil
}

// AddUser registers a user, or returns the existing one with the same email
// after updating its password.
func (s *Store) AddUser(ctx context.Context, email, password string) (User, error) {
	u := User{ID: uuid.NewString(), Email: email, Password: password}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users(id, email, password) VALUES(?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET password = excluded.password`,
		u.ID, u.Email, u.Password)
	if err != nil {
		return User{}, fmt.Errorf("failed to add user: %w", err)
	}
	return s.userBy(ctx, `email = ?`, email)
}

// FindUser returns the user matching both email and password.
func (s *Store) FindUser(ctx context.Context, email, password string) (User, bool, error) {
	u, err := s.userBy(ctx, `email = ? AND password = ?`, email, password)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

// UserByID returns the user with id.
func (s *Store) UserByID(ctx context.Context, id string) (User, bool, error) {
	u, err := s.userBy(ctx, `id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

func (s *Store) userBy(ctx context.Context, where string, args ...any) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `SELECT id, email, password FROM users WHERE `+where, args...).
		Scan(&u.ID, &u.Email, &u.Password)
	return u, err
}

// InsertPet stores a new pet, assigning ID and CreatedAt when unset.
func (s *Store) InsertPet(ctx context.Context, p Pet) (Pet, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pets(id, user_id, name, animal_type, age, photo, created_at) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Name, p.AnimalType, p.Age, p.Photo, p.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Pet{}, fmt.Errorf("failed to insert pet: %w", err)
	}
	return p, nil
}

// GetPet returns the pet with id.
func (s *Store) GetPet(ctx context.Context, id string) (Pet, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, animal_type, age, photo, created_at FROM pets WHERE id = ?`, id)
	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Pet{}, false, nil
	}
	if err != nil {
		return Pet{}, false, err
	}
	return p, true, nil
}

// ListPets returns pets newest first. An empty userID lists every user's pets.
func (s *Store) ListPets(ctx context.Context, userID string) ([]Pet, error) {
	q := `SELECT id, user_id, name, animal_type, age, photo, created_at FROM pets`
	var args []any
	if userID != "" {
		q += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	q += ` ORDER BY rowid DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	pets := []Pet{}
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		pets = append(pets, p)
	}
	return pets, rows.Err()
}

// UpdatePet overwrites name, type and age.
func (s *Store) UpdatePet(ctx context.Context, id, name, animalType, age string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pets SET name = ?, animal_type = ?, age = ? WHERE id = ?`, name, animalType, age, id)
	if err != nil {
		return false, fmt.Errorf("failed to update pet: %w", err)
	}
	return affected(res)
}

// SetPhoto replaces the photo data URI.
func (s *Store) SetPhoto(ctx context.Context, id, photo string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE pets SET photo = ? WHERE id = ?`, photo, id)
	if err != nil {
		return false, fmt.Errorf("failed to set photo: %w", err)
	}
	return affected(res)
}

// DeletePet removes the pet with id.
func (s *Store) DeletePet(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pets WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete pet: %w", err)
	}
	return affected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPet(sc scanner) (Pet, error) {
	var p Pet
	var created string
	if err := sc.Scan(&p.ID, &p.UserID, &p.Name, &p.AnimalType, &p.Age, &p.Photo, &created); err != nil {
		return Pet{}, err
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		p.CreatedAt = t
	}
	return p, nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
