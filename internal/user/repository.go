package user

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository is a database-backed repository for users.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Create inserts a new user with the given hashed password.
func (r *Repository) Create(ctx context.Context, name, email, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	u := &User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, hashed_password, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, hashedPassword, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by ID. Returns nil when not found.
func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM users WHERE id = ?`, id))
}

// GetByEmail retrieves a user and their hashed password by email.
// Returns nil when not found.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, string, error) {
	var u User
	var hashed string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, hashed_password, created_at FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &hashed, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, hashed, nil
}

// Update overwrites name and/or email. Empty fields keep their value.
func (r *Repository) Update(ctx context.Context, id, name, email string) (*User, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("user %s not found", id)
	}

	if name == "" {
		name = current.Name
	}
	if email == "" {
		email = current.Email
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?`,
		name, email, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	current.Name = name
	current.Email = email
	return current, nil
}

// List retrieves all users.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, created_at FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *Repository) scanOne(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}
