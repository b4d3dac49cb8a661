// Package gateway provides a gateway to the GitHub REST API, abstracting
// away the underlying client, pagination and rate limiting.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/ieee-cs-bmsit/soc-insights/internal/domain"
)

const (
	// searchPageSize is the page size used for all paginated listings.
	searchPageSize = 100

	// searchResultCap is the provider's hard limit on searchable results.
	// Beyond it the result set is truncated, not exhausted.
	searchResultCap = 1000

	repoURLPrefix = "https://api.github.com/repos/"
)

// IssueSummary is a raw search result item. Summaries omit authoritative
// merge metadata; MergedAt here is best-effort from the search payload's
// pull request linkage.
type IssueSummary struct {
	ID              int64
	Number          int
	Title           string
	State           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	HTMLURL         string
	RepoFullName    string
	IsPullRequest   bool
	MergedAt        *time.Time
	AuthorLogin     string
	AuthorAvatarURL string
	AuthorHTMLURL   string
}

// PullRequestDetail is the authoritative per-PR record fetched by number.
type PullRequestDetail struct {
	ID        int64
	Number    int
	Title     string
	State     string
	CreatedAt time.Time
	UpdatedAt time.Time
	HTMLURL   string
	MergedAt  *time.Time
}

// CommitSummary is one entry of a commit listing, without line-change stats.
type CommitSummary struct {
	SHA     string
	Date    time.Time
	Message string
	HTMLURL string
}

// CommitDetail carries the line-change stats of a single commit.
type CommitDetail struct {
	Additions int
	Deletions int
}

// RepoInfo is the subset of repository metadata the quality metrics need.
type RepoInfo struct {
	Name      string
	Stars     int
	UpdatedAt time.Time
}

// ClosedIssue is one closed issue of a repository. Items that are actually
// pull requests carry IsPullRequest=true and must be skipped by callers.
type ClosedIssue struct {
	CreatedAt     time.Time
	ClosedAt      *time.Time
	Labels        []string
	IsPullRequest bool
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	SearchIssues(ctx context.Context, query, sortKey string, order domain.SortOrder) ([]IssueSummary, error)
	FetchPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequestDetail, error)
	FetchCommits(ctx context.Context, owner, repo, author string) ([]CommitSummary, error)
	FetchCommitDetail(ctx context.Context, owner, repo, sha string) (*CommitDetail, error)
	FetchOrgRepos(ctx context.Context, org string) ([]RepoInfo, error)
	FetchClosedIssues(ctx context.Context, owner, repo string) ([]ClosedIssue, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewGitHubGateway creates a gateway authenticated with the given token.
// The limiter is shared process-wide across all gateways so concurrent
// report computations draw from a single outbound request budget; pass the
// same instance to every constructor call.
func NewGitHubGateway(token string, limiter *rate.Limiter, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient: github.NewClient(httpClient),
		limiter:    limiter,
		logger:     logger,
	}, nil
}

// wait blocks until the shared token bucket allows one more outbound call.
func (g *GitHubGateway) wait(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}

// upstreamErr tags a failed provider call so callers can classify it.
func upstreamErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstream, err)
}

// SearchIssues walks the search endpoint page by page, concatenating items
// in server order. It stops after an empty page or once page*pageSize
// reaches the provider's result cap. The sequence is not restartable: the
// provider's result set can change between calls. Any page error discards
// everything fetched so far.
func (g *GitHubGateway) SearchIssues(ctx context.Context, query, sortKey string, order domain.SortOrder) ([]IssueSummary, error) {
	opts := &github.SearchOptions{
		Sort:        sortKey,
		Order:       string(order),
		ListOptions: github.ListOptions{PerPage: searchPageSize, Page: 1},
	}
	var items []IssueSummary
	for {
		if err := g.wait(ctx); err != nil {
			return nil, err
		}
		result, resp, err := g.restClient.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, upstreamErr("failed to search issues", err)
		}
		if len(result.Issues) == 0 {
			break
		}
		for _, issue := range result.Issues {
			items = append(items, toIssueSummary(issue))
		}
		if opts.Page*searchPageSize >= searchResultCap {
			break
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of search results...")
	}
	return items, nil
}

func toIssueSummary(issue *github.Issue) IssueSummary {
	s := IssueSummary{
		ID:            issue.GetID(),
		Number:        issue.GetNumber(),
		Title:         issue.GetTitle(),
		State:         issue.GetState(),
		CreatedAt:     issue.GetCreatedAt().Time,
		UpdatedAt:     issue.GetUpdatedAt().Time,
		HTMLURL:       issue.GetHTMLURL(),
		RepoFullName:  strings.TrimPrefix(issue.GetRepositoryURL(), repoURLPrefix),
		IsPullRequest: issue.IsPullRequest(),
	}
	if links := issue.GetPullRequestLinks(); links != nil && links.MergedAt != nil {
		t := links.MergedAt.Time
		s.MergedAt = &t
	}
	if user := issue.GetUser(); user != nil {
		s.AuthorLogin = user.GetLogin()
		s.AuthorAvatarURL = user.GetAvatarURL()
		s.AuthorHTMLURL = user.GetHTMLURL()
	}
	return s
}

// FetchPullRequest resolves the authoritative state and merge timestamp of
// one pull request by number.
func (g *GitHubGateway) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequestDetail, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}
	pr, _, err := g.restClient.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, upstreamErr(fmt.Sprintf("failed to fetch pull request #%d", number), err)
	}
	detail := &PullRequestDetail{
		ID:        pr.GetID(),
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		State:     pr.GetState(),
		CreatedAt: pr.GetCreatedAt().Time,
		UpdatedAt: pr.GetUpdatedAt().Time,
		HTMLURL:   pr.GetHTMLURL(),
	}
	if pr.MergedAt != nil {
		t := pr.MergedAt.Time
		detail.MergedAt = &t
	}
	return detail, nil
}

// FetchCommits lists up to one page of the most recent commits by the given
// author, newest first. Deeper history is deliberately not paginated.
func (g *GitHubGateway) FetchCommits(ctx context.Context, owner, repo, author string) ([]CommitSummary, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}
	opts := &github.CommitsListOptions{
		Author:      author,
		ListOptions: github.ListOptions{PerPage: searchPageSize},
	}
	commits, _, err := g.restClient.Repositories.ListCommits(ctx, owner, repo, opts)
	if err != nil {
		return nil, upstreamErr("failed to list commits", err)
	}
	summaries := make([]CommitSummary, 0, len(commits))
	for _, c := range commits {
		summaries = append(summaries, CommitSummary{
			SHA:     c.GetSHA(),
			Date:    c.GetCommit().GetAuthor().GetDate().Time,
			Message: c.GetCommit().GetMessage(),
			HTMLURL: c.GetHTMLURL(),
		})
	}
	return summaries, nil
}

// FetchCommitDetail fetches the line-change stats of a single commit.
func (g *GitHubGateway) FetchCommitDetail(ctx context.Context, owner, repo, sha string) (*CommitDetail, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}
	commit, _, err := g.restClient.Repositories.GetCommit(ctx, owner, repo, sha, nil)
	if err != nil {
		return nil, upstreamErr(fmt.Sprintf("failed to fetch commit %s", sha), err)
	}
	return &CommitDetail{
		Additions: commit.GetStats().GetAdditions(),
		Deletions: commit.GetStats().GetDeletions(),
	}, nil
}

// FetchOrgRepos lists every repository in the organization.
func (g *GitHubGateway) FetchOrgRepos(ctx context.Context, org string) ([]RepoInfo, error) {
	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: searchPageSize},
	}
	var repos []RepoInfo
	for {
		if err := g.wait(ctx); err != nil {
			return nil, err
		}
		page, resp, err := g.restClient.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, upstreamErr("failed to list organization repositories", err)
		}
		for _, r := range page {
			repos = append(repos, RepoInfo{
				Name:      r.GetName(),
				Stars:     r.GetStargazersCount(),
				UpdatedAt: r.GetUpdatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of organization repositories...")
	}
	return repos, nil
}

// FetchClosedIssues lists the first page of closed issues of a repository.
// The listing mixes in pull requests; they are flagged, not filtered here.
func (g *GitHubGateway) FetchClosedIssues(ctx context.Context, owner, repo string) ([]ClosedIssue, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}
	opts := &github.IssueListByRepoOptions{
		State:       "closed",
		ListOptions: github.ListOptions{PerPage: searchPageSize},
	}
	issues, _, err := g.restClient.Issues.ListByRepo(ctx, owner, repo, opts)
	if err != nil {
		return nil, upstreamErr(fmt.Sprintf("failed to list closed issues for %s/%s", owner, repo), err)
	}
	result := make([]ClosedIssue, 0, len(issues))
	for _, issue := range issues {
		ci := ClosedIssue{
			CreatedAt:     issue.GetCreatedAt().Time,
			IsPullRequest: issue.IsPullRequest(),
		}
		if issue.ClosedAt != nil {
			t := issue.ClosedAt.Time
			ci.ClosedAt = &t
		}
		for _, label := range issue.Labels {
			ci.Labels = append(ci.Labels, label.GetName())
		}
		result = append(result, ci)
	}
	return result, nil
}
