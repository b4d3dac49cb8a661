package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ieee-cs-bmsit/soc-insights/internal/domain"
)

// RepoRepository implements domain.RepoStore.
type RepoRepository struct {
	db *sql.DB
}

// NewRepoRepository creates a new RepoRepository instance.
func NewRepoRepository(db *sql.DB) *RepoRepository {
	return &RepoRepository{db: db}
}

// List returns every repository tracked for the event.
func (r *RepoRepository) List(ctx context.Context) ([]domain.TrackedRepo, error) {
	const query = `SELECT id, name, url FROM repos ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list repos: %w", err)
	}
	defer rows.Close()

	var repos []domain.TrackedRepo
	for rows.Next() {
		var repo domain.TrackedRepo
		if err := rows.Scan(&repo.ID, &repo.Name, &repo.URL); err != nil {
			return nil, fmt.Errorf("failed to scan repo: %w", err)
		}
		repos = append(repos, repo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate repos: %w", err)
	}
	return repos, nil
}
