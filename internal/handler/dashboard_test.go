package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ieee-cs-bmsit/soc-insights/internal/domain"
)

type mockDashboardUseCase struct {
	mock.Mock
}

func (m *mockDashboardUseCase) BuildDashboard(ctx context.Context, userID string) (*domain.DashboardReport, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardReport), args.Error(1)
}

func quietLogrus() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newDashboardContext(userID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users/"+userID+"/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/users/:userId/dashboard")
	c.SetParamNames("userId")
	c.SetParamValues(userID)
	return c, rec
}

func TestDashboardHandler_GetUserDashboard(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		uc := new(mockDashboardUseCase)
		uc.On("BuildDashboard", mock.Anything, "u1").Return(&domain.DashboardReport{
			PullRequestData: domain.PullRequestData{Total: 2, Open: 1, Closed: 1, AvgMergeTime: 1.5},
			CommitStats:     domain.CommitStats{Repo: "event", TotalCommits: 3, Commits: []domain.Commit{}},
			QualityData:     domain.QualityData{RepoCount: 4},
		}, nil)

		handler := NewDashboardHandler(uc, quietLogrus())
		c, rec := newDashboardContext("u1")

		require.NoError(t, handler.GetUserDashboard(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.JSONEq(t, `"Dashboard data loaded"`, string(body["message"]))
		assert.Contains(t, body, "pullRequestData")
		assert.Contains(t, body, "commitStats")
		assert.Contains(t, body, "qualityData")
		// The detailed pull request list is persisted, not returned.
		assert.NotContains(t, body, "pullRequests")

		var prData domain.PullRequestData
		require.NoError(t, json.Unmarshal(body["pullRequestData"], &prData))
		assert.Equal(t, 2, prData.Total)
		assert.Equal(t, 1.5, prData.AvgMergeTime)
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		uc := new(mockDashboardUseCase)
		uc.On("BuildDashboard", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

		handler := NewDashboardHandler(uc, quietLogrus())
		c, rec := newDashboardContext("ghost")

		require.NoError(t, handler.GetUserDashboard(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message": "User not found"}`, rec.Body.String())
	})

	t.Run("upstream failure maps to a generic 500", func(t *testing.T) {
		uc := new(mockDashboardUseCase)
		uc.On("BuildDashboard", mock.Anything, "u1").
			Return(nil, errors.Join(domain.ErrUpstream, errors.New("boom")))

		handler := NewDashboardHandler(uc, quietLogrus())
		c, rec := newDashboardContext("u1")

		require.NoError(t, handler.GetUserDashboard(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message": "Internal server error"}`, rec.Body.String())
	})
}
