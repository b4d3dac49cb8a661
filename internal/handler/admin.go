package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/ieee-cs-bmsit/soc-insights/internal/domain"
)

// AdminHandler serves the org-wide day-window pull request search.
type AdminHandler struct {
	adminUseCase domain.AdminUseCase
	logger       *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(adminUseCase domain.AdminUseCase, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
		logger:       logger,
	}
}

// GetAdminDashboard handles GET /api/admin/dashboard?offset=N&sort=asc|desc.
// offset defaults to 0 and must be non-negative; sort defaults to desc.
func (h *AdminHandler) GetAdminDashboard(c echo.Context) error {
	offset := 0
	if raw := c.QueryParam("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "offset must be a non-negative integer"})
		}
		offset = n
	}
	order := domain.ParseSortOrder(c.QueryParam("sort"))

	logEntry := h.logger.WithFields(logrus.Fields{
		"operation": "get_admin_dashboard",
		"offset":    offset,
		"sort":      order,
	})
	logEntry.Info("Fetching window pull requests")

	report, err := h.adminUseCase.WindowPullRequests(c.Request().Context(), offset, order)
	if err != nil {
		logEntry.WithError(err).Error("Failed to fetch window pull requests")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	logEntry.WithField("pull_requests", len(report.PullRequests)).Info("Window pull requests fetched")
	return c.JSON(http.StatusOK, report)
}
