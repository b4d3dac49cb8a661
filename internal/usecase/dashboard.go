package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/sirupsen/logrus"

	"github.com/ieee-cs-bmsit/soc-insights/internal/domain"
	"github.com/ieee-cs-bmsit/soc-insights/internal/gateway"
)

// FetcherFactory builds a gateway authenticated with a specific token.
// Dashboard calls run with the requesting user's stored credential, so a
// fresh gateway is built per report; the shared rate limiter lives inside
// the factory closure.
type FetcherFactory func(token string) (gateway.Fetcher, error)

// DashboardUseCase composes the three aggregators into the per-user
// dashboard report and persists the result.
type DashboardUseCase struct {
	users      domain.UserStore
	reports    domain.ReportStore
	newFetcher FetcherFactory
	eventRepo  domain.RepoFilter
	logger     *logrus.Logger
	coreLogger *log.Logger
	detailLim  int
}

// NewDashboardUseCase creates a new DashboardUseCase instance.
func NewDashboardUseCase(users domain.UserStore, reports domain.ReportStore, newFetcher FetcherFactory, eventRepo domain.RepoFilter, logger *logrus.Logger, coreLogger *log.Logger, detailLimit int) *DashboardUseCase {
	return &DashboardUseCase{
		users:      users,
		reports:    reports,
		newFetcher: newFetcher,
		eventRepo:  eventRepo,
		logger:     logger,
		coreLogger: coreLogger,
		detailLim:  detailLimit,
	}
}

// BuildDashboard computes a fresh report for the user. The three
// aggregations run sequentially; a failure in any of them fails the whole
// report. Persisting the snapshot is best-effort: a store failure is logged
// and the report is still returned, since observation is primary.
func (uc *DashboardUseCase) BuildDashboard(ctx context.Context, userID string) (*domain.DashboardReport, error) {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.AccessToken == "" {
		return nil, domain.ErrUserNotFound
	}

	fetcher, err := uc.newFetcher(user.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway: %w", err)
	}
	aggregator := NewAggregator(fetcher, uc.coreLogger, uc.detailLim)

	prs, prData, err := aggregator.AggregatePullRequests(ctx, uc.eventRepo, user.Username)
	if err != nil {
		return nil, err
	}
	commitStats, err := aggregator.AggregateCommits(ctx, uc.eventRepo, user.Username)
	if err != nil {
		return nil, err
	}
	quality, err := aggregator.AggregateQuality(ctx, uc.eventRepo.Owner)
	if err != nil {
		return nil, err
	}

	report := &domain.DashboardReport{
		PullRequests:    prs,
		PullRequestData: prData,
		CommitStats:     commitStats,
		QualityData:     quality,
	}

	if err := uc.reports.Upsert(ctx, userID, report); err != nil {
		uc.logger.WithError(err).WithField("user_id", userID).Warn("Failed to persist dashboard snapshot")
	}

	return report, nil
}
