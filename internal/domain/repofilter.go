package domain

import "strings"

// RepoFilter scopes a search query to a single repository.
type RepoFilter struct {
	Owner string
	Name  string
}

func (f RepoFilter) String() string {
	return f.Owner + "/" + f.Name
}

// ParseRepoURL extracts an owner/name pair from a stored github.com URL.
// Malformed URLs report ok=false and are dropped by callers, not treated
// as errors.
func ParseRepoURL(rawURL string) (RepoFilter, bool) {
	trimmed := strings.TrimPrefix(rawURL, "https://github.com/")
	if trimmed == rawURL {
		return RepoFilter{}, false
	}
	parts := strings.Split(strings.Trim(trimmed, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return RepoFilter{}, false
	}
	return RepoFilter{Owner: parts[0], Name: parts[1]}, true
}
