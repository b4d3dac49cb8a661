package domain

import "time"

// Author identifies the GitHub account that opened a pull request.
// Only present on admin window results; the per-user dashboard already
// knows whose pull requests it is looking at.
type Author struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// PullRequest is a normalized pull request as exposed by the dashboard.
// Status is derived: "merged" when a merge timestamp exists, otherwise the
// raw state ("open" or "closed").
type PullRequest struct {
	ID        int64      `json:"id"`
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	HTMLURL   string     `json:"html_url"`
	Status    string     `json:"status"`
	Merged    bool       `json:"merged"`
	MergedAt  *time.Time `json:"merged_at"`
	Repo      string     `json:"repo"`
	User      *Author    `json:"user,omitempty"`
}

// PullRequestData summarizes a user's pull request throughput.
// AvgMergeTime is in fractional days over merged pull requests only and is
// exactly 0 when none are merged.
type PullRequestData struct {
	Total        int     `json:"total"`
	Open         int     `json:"open"`
	Closed       int     `json:"closed"`
	AvgMergeTime float64 `json:"avgMergeTime"`
}

// Commit is a single commit enriched with per-commit line-change stats.
type Commit struct {
	Date      time.Time `json:"date"`
	Message   string    `json:"message"`
	Additions int       `json:"additions"`
	Deletions int       `json:"deletions"`
	SHA       string    `json:"sha"`
	URL       string    `json:"url"`
}

// CommitStats holds a user's commit volume in the event repository,
// newest first in provider order.
type CommitStats struct {
	Repo         string   `json:"repo"`
	TotalCommits int      `json:"totalCommits"`
	Commits      []Commit `json:"commits"`
}

// ResolutionTime holds the mean issue-resolution duration per severity
// bucket, in fractional days. Empty buckets report 0.
type ResolutionTime struct {
	Critical float64 `json:"Critical"`
	High     float64 `json:"High"`
	Medium   float64 `json:"Medium"`
	Low      float64 `json:"Low"`
}

// QualityData carries organization-wide activity and popularity signals.
type QualityData struct {
	RepoCount           int            `json:"repoCount"`
	Popularity          int            `json:"popularity"`
	ActiveProjects      int            `json:"activeProjects"`
	CommunityEngagement int            `json:"communityEngagement"`
	ResolutionTime      ResolutionTime `json:"resolutionTime"`
}

// DashboardReport is the full per-user snapshot. It is rebuilt from scratch
// on every request; the persisted copy is overwritten, never merged.
type DashboardReport struct {
	PullRequests    []PullRequest   `json:"pullRequests"`
	PullRequestData PullRequestData `json:"pullRequestData"`
	CommitStats     CommitStats     `json:"commitStats"`
	QualityData     QualityData     `json:"qualityData"`
}

// AdminReport is the org-wide pull request list for a single day window.
type AdminReport struct {
	Message      string        `json:"message"`
	PullRequests []PullRequest `json:"pullRequests"`
}

// User is a registered participant with a stored API credential.
type User struct {
	ID          string
	Username    string
	AccessToken string
}

// TrackedRepo is a repository registered for the event, stored by URL.
type TrackedRepo struct {
	ID   string
	Name string
	URL  string
}
