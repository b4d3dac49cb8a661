package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ieee-cs-bmsit/soc-insights/internal/domain"
)

// ReportRepository implements domain.ReportStore. Snapshots are stored as
// JSONB and fully replaced on every upsert.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new ReportRepository instance.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Upsert overwrites the user's dashboard snapshot.
func (r *ReportRepository) Upsert(ctx context.Context, userID string, report *domain.DashboardReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	const query = `
		INSERT INTO dashboard_reports (user_id, report, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET report = EXCLUDED.report, updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, userID, payload); err != nil {
		return fmt.Errorf("failed to upsert report: %w", err)
	}
	return nil
}
