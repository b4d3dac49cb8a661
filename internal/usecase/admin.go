package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/ieee-cs-bmsit/soc-insights/internal/domain"
	"github.com/ieee-cs-bmsit/soc-insights/internal/gateway"
)

// AdminUseCase serves the org-wide pull request search for a single day
// window. It works from search summaries only: no per-PR detail calls, so
// the merged flag is best-effort. This is a deliberately cheaper path than
// the per-user dashboard.
type AdminUseCase struct {
	repos    domain.RepoStore
	fetcher  gateway.Fetcher
	eventTag string
	logger   *log.Logger
}

// NewAdminUseCase creates a new AdminUseCase instance. The fetcher is
// authenticated with the service credential, not a per-user one.
func NewAdminUseCase(repos domain.RepoStore, fetcher gateway.Fetcher, eventTag string, logger *log.Logger) *AdminUseCase {
	return &AdminUseCase{
		repos:    repos,
		fetcher:  fetcher,
		eventTag: eventTag,
		logger:   logger,
	}
}

// WindowPullRequests returns every tagged pull request created in the day
// window selected by offset and order, across all tracked repositories. An
// empty tracked-repo registry degrades to an empty response with a message,
// not an error.
func (uc *AdminUseCase) WindowPullRequests(ctx context.Context, offset int, order domain.SortOrder) (*domain.AdminReport, error) {
	tracked, err := uc.repos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked repositories: %w", err)
	}

	// Malformed stored URLs are dropped, not fatal.
	var filters []domain.RepoFilter
	for _, r := range tracked {
		if filter, ok := domain.ParseRepoURL(r.URL); ok {
			filters = append(filters, filter)
		}
	}
	if len(filters) == 0 {
		return &domain.AdminReport{Message: "No repos found", PullRequests: []domain.PullRequest{}}, nil
	}

	window := domain.DayWindow(offset, order)
	uc.logger.Printf("Fetching PRs between %s and %s\n", window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))

	query := gateway.NewSearchQuery().PullRequests().CreatedIn(window)
	for _, filter := range filters {
		query.Repo(filter)
	}
	query.Text(uc.eventTag)

	summaries, err := uc.fetcher.SearchIssues(ctx, query.String(), "created", order)
	if err != nil {
		return nil, fmt.Errorf("failed to search pull requests: %w", err)
	}

	prs := make([]domain.PullRequest, 0, len(summaries))
	for _, s := range summaries {
		prs = append(prs, domain.PullRequest{
			ID:        s.ID,
			Number:    s.Number,
			Title:     s.Title,
			State:     s.State,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
			HTMLURL:   s.HTMLURL,
			Status:    s.State,
			Merged:    s.MergedAt != nil,
			MergedAt:  nil,
			Repo:      s.RepoFullName,
			User: &domain.Author{
				Login:     s.AuthorLogin,
				AvatarURL: s.AuthorAvatarURL,
				HTMLURL:   s.AuthorHTMLURL,
			},
		})
	}

	return &domain.AdminReport{Message: "PRs fetched", PullRequests: prs}, nil
}
