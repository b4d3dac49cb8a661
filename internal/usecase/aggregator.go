// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/ieee-cs-bmsit/soc-insights/internal/domain"
	"github.com/ieee-cs-bmsit/soc-insights/internal/gateway"
)

// hoursPerDay converts durations to the fractional days the reports use.
const hoursPerDay = 24

// defaultDetailConcurrency bounds the detail-fetch fan-out. Kept well below
// the provider's per-second burst limit; the shared token bucket in the
// gateway is the real throttle.
const defaultDetailConcurrency = 5

// activeWindow is the trailing window within which a repository counts as
// an active project.
const activeWindow = 30 * 24 * time.Hour

// Aggregator computes contribution metrics for a single user and the event
// organization. Each aggregation is all-or-nothing: a single failed fetch
// fails the whole computation and no partial result is returned.
type Aggregator struct {
	fetcher     gateway.Fetcher
	logger      *log.Logger
	detailLimit int
}

// NewAggregator creates a new Aggregator instance. detailLimit bounds how
// many detail fetches run concurrently; values below 1 fall back to the
// default.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger, detailLimit int) *Aggregator {
	if detailLimit < 1 {
		detailLimit = defaultDetailConcurrency
	}
	return &Aggregator{
		fetcher:     fetcher,
		logger:      logger,
		detailLimit: detailLimit,
	}
}

// AggregatePullRequests collects every pull request authored by the user in
// the event repository and folds them into throughput metrics. Search
// summaries omit merge metadata, so each one is cross-referenced with a
// detail fetch; the detailed list is returned alongside the fold for
// persistence.
func (a *Aggregator) AggregatePullRequests(ctx context.Context, repo domain.RepoFilter, login string) ([]domain.PullRequest, domain.PullRequestData, error) {
	a.logger.Println("[1/3] Aggregating pull requests...")

	query := gateway.NewSearchQuery().Repo(repo).PullRequests().Author(login).String()
	summaries, err := a.fetcher.SearchIssues(ctx, query, "", domain.SortDesc)
	if err != nil {
		return nil, domain.PullRequestData{}, fmt.Errorf("failed to search pull requests: %w", err)
	}

	// Resolve details with bounded concurrency. Results land in an
	// index-addressed slice so output order matches search order even when
	// fetches complete out of order.
	details := make([]gateway.PullRequestDetail, len(summaries))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.detailLimit)
	for i, summary := range summaries {
		i, summary := i, summary
		eg.Go(func() error {
			detail, err := a.fetcher.FetchPullRequest(egCtx, repo.Owner, repo.Name, summary.Number)
			if err != nil {
				return err
			}
			details[i] = *detail
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, domain.PullRequestData{}, fmt.Errorf("failed to resolve pull request details: %w", err)
	}

	prs := make([]domain.PullRequest, 0, len(details))
	var mergeDurations []float64
	for _, d := range details {
		pr := domain.PullRequest{
			ID:        d.ID,
			Number:    d.Number,
			Title:     d.Title,
			State:     d.State,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
			HTMLURL:   d.HTMLURL,
			Status:    d.State,
			MergedAt:  d.MergedAt,
			Repo:      repo.String(),
		}
		if d.MergedAt != nil {
			pr.Merged = true
			pr.Status = "merged"
			mergeDurations = append(mergeDurations, d.MergedAt.Sub(d.CreatedAt).Hours()/hoursPerDay)
		}
		prs = append(prs, pr)
	}

	data := domain.PullRequestData{
		Total:        len(prs),
		AvgMergeTime: meanOrZero(mergeDurations),
	}
	for _, pr := range prs {
		switch {
		case pr.State == "open":
			data.Open++
		case pr.State == "closed" || pr.Status == "merged":
			data.Closed++
		}
	}

	a.logger.Printf("Aggregated %d pull requests.\n", data.Total)
	return prs, data, nil
}

// AggregateCommits lists the user's most recent commits in the event
// repository and enriches each with line-change stats. Coverage is limited
// to the first page of the listing.
func (a *Aggregator) AggregateCommits(ctx context.Context, repo domain.RepoFilter, login string) (domain.CommitStats, error) {
	a.logger.Println("[2/3] Aggregating commits...")

	summaries, err := a.fetcher.FetchCommits(ctx, repo.Owner, repo.Name, login)
	if err != nil {
		return domain.CommitStats{}, fmt.Errorf("failed to list commits: %w", err)
	}

	commits := make([]domain.Commit, len(summaries))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.detailLimit)
	for i, summary := range summaries {
		i, summary := i, summary
		eg.Go(func() error {
			detail, err := a.fetcher.FetchCommitDetail(egCtx, repo.Owner, repo.Name, summary.SHA)
			if err != nil {
				return err
			}
			commits[i] = domain.Commit{
				Date:      summary.Date,
				Message:   summary.Message,
				Additions: detail.Additions,
				Deletions: detail.Deletions,
				SHA:       summary.SHA,
				URL:       summary.HTMLURL,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return domain.CommitStats{}, fmt.Errorf("failed to resolve commit details: %w", err)
	}

	a.logger.Printf("Aggregated %d commits.\n", len(commits))
	return domain.CommitStats{
		Repo:         repo.Name,
		TotalCommits: len(commits),
		Commits:      commits,
	}, nil
}

// AggregateQuality computes organization-wide activity, popularity and
// issue-resolution metrics. Issue listings are walked repository by
// repository; one failing repository fails the whole aggregation.
func (a *Aggregator) AggregateQuality(ctx context.Context, org string) (domain.QualityData, error) {
	a.logger.Println("[3/3] Aggregating organization quality metrics...")

	repos, err := a.fetcher.FetchOrgRepos(ctx, org)
	if err != nil {
		return domain.QualityData{}, fmt.Errorf("failed to list organization repositories: %w", err)
	}

	quality := domain.QualityData{RepoCount: len(repos)}
	activeSince := time.Now().Add(-activeWindow)
	for _, r := range repos {
		quality.Popularity += r.Stars
		if r.UpdatedAt.After(activeSince) {
			quality.ActiveProjects++
		}
	}

	buckets := make(map[domain.Severity][]float64)
	for _, r := range repos {
		issues, err := a.fetcher.FetchClosedIssues(ctx, org, r.Name)
		if err != nil {
			return domain.QualityData{}, fmt.Errorf("failed to list closed issues: %w", err)
		}
		for _, issue := range issues {
			if issue.IsPullRequest {
				continue
			}
			quality.CommunityEngagement++
			if issue.ClosedAt == nil {
				continue
			}
			resolution := issue.ClosedAt.Sub(issue.CreatedAt).Hours() / hoursPerDay
			for _, label := range issue.Labels {
				if severity, ok := domain.MatchSeverity(label); ok {
					buckets[severity] = append(buckets[severity], resolution)
				}
			}
		}
	}

	quality.ResolutionTime = domain.ResolutionTime{
		Critical: meanOrZero(buckets[domain.SeverityCritical]),
		High:     meanOrZero(buckets[domain.SeverityHigh]),
		Medium:   meanOrZero(buckets[domain.SeverityMedium]),
		Low:      meanOrZero(buckets[domain.SeverityLow]),
	}

	a.logger.Printf("Aggregated quality metrics across %d repositories.\n", quality.RepoCount)
	return quality, nil
}

// meanOrZero is the arithmetic mean of values, or exactly 0 for an empty
// input. Empty accumulators must fold to 0, never NaN or an error.
func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return mean
}
