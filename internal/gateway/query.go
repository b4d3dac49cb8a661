package gateway

import (
	"fmt"
	"strings"

	"github.com/ieee-cs-bmsit/soc-insights/internal/domain"
)

// githubDateLayout is the date format accepted by the search API's
// qualifiers; any time-of-day component is ignored by the provider.
const githubDateLayout = "2006-01-02"

// SearchQuery is an ordered conjunction of search qualifiers. Clause order
// does not change what the provider returns, but it is kept stable so
// rendered queries are reproducible.
type SearchQuery struct {
	clauses []string
}

// NewSearchQuery returns an empty query builder.
func NewSearchQuery() *SearchQuery {
	return &SearchQuery{}
}

// PullRequests restricts the query to pull requests.
func (q *SearchQuery) PullRequests() *SearchQuery {
	q.clauses = append(q.clauses, "type:pr")
	return q
}

// Author restricts the query to items opened by the given login.
func (q *SearchQuery) Author(login string) *SearchQuery {
	q.clauses = append(q.clauses, "author:"+login)
	return q
}

// Repo scopes the query to a single repository.
func (q *SearchQuery) Repo(filter domain.RepoFilter) *SearchQuery {
	q.clauses = append(q.clauses, "repo:"+filter.String())
	return q
}

// CreatedIn bounds creation time to the half-open window [start, end).
func (q *SearchQuery) CreatedIn(w domain.TimeWindow) *SearchQuery {
	q.clauses = append(q.clauses,
		fmt.Sprintf("created:>=%s", w.Start.Format(githubDateLayout)),
		fmt.Sprintf("created:<%s", w.End.Format(githubDateLayout)),
	)
	return q
}

// Text requires a free-text term (e.g. the event tag) to appear in the item.
func (q *SearchQuery) Text(term string) *SearchQuery {
	q.clauses = append(q.clauses, term)
	return q
}

// String renders the query in the provider's search syntax.
func (q *SearchQuery) String() string {
	return strings.Join(q.clauses, " ")
}
