// Package repository implements the Postgres-backed stores behind the
// domain store interfaces.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ieee-cs-bmsit/soc-insights/internal/domain"
)

// UserRepository implements domain.UserStore.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID resolves a registered user by id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT id, username, access_token FROM users WHERE id = $1`

	var user domain.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username, &user.AccessToken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
