package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/ieee-cs-bmsit/soc-insights/internal/domain"
)

// DashboardHandler serves the per-user dashboard report.
type DashboardHandler struct {
	dashboardUseCase domain.DashboardUseCase
	logger           *logrus.Logger
}

// NewDashboardHandler creates a new DashboardHandler instance.
func NewDashboardHandler(dashboardUseCase domain.DashboardUseCase, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardUseCase: dashboardUseCase,
		logger:           logger,
	}
}

// GetUserDashboard handles GET /api/users/:userId/dashboard. The report is
// computed fresh on every call; no cached or partial report is ever served.
func (h *DashboardHandler) GetUserDashboard(c echo.Context) error {
	userID := c.Param("userId")
	logEntry := h.logger.WithFields(logrus.Fields{
		"operation": "get_user_dashboard",
		"user_id":   userID,
	})
	logEntry.Info("Building dashboard report")

	report, err := h.dashboardUseCase.BuildDashboard(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		}
		logEntry.WithError(err).Error("Failed to build dashboard report")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	logEntry.WithFields(logrus.Fields{
		"pull_requests": report.PullRequestData.Total,
		"commits":       report.CommitStats.TotalCommits,
	}).Info("Dashboard report built")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":         "Dashboard data loaded",
		"pullRequestData": report.PullRequestData,
		"commitStats":     report.CommitStats,
		"qualityData":     report.QualityData,
	})
}
