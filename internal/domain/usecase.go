package domain

import "context"

// DashboardUseCase builds the per-user dashboard report.
type DashboardUseCase interface {
	BuildDashboard(ctx context.Context, userID string) (*DashboardReport, error)
}

// AdminUseCase serves the org-wide pull request search by day window.
type AdminUseCase interface {
	WindowPullRequests(ctx context.Context, offset int, order SortOrder) (*AdminReport, error)
}

// UserStore resolves registered users and their stored credentials.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*User, error)
}

// RepoStore lists the repositories tracked for the event.
type RepoStore interface {
	List(ctx context.Context) ([]TrackedRepo, error)
}

// ReportStore persists dashboard snapshots keyed by user id. Upsert
// overwrites any previous snapshot for the same user.
type ReportStore interface {
	Upsert(ctx context.Context, userID string, report *DashboardReport) error
}
