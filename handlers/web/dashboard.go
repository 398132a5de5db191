package web

import (
	"dbconsole/activity"
	"dbconsole/datasets"
	"dbconsole/middleware"
	"dbconsole/utils"
	"dbconsole/views"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

const dashboardActivity = 5

// DashboardHandler renders the role-selected dashboard and the reports page
type DashboardHandler struct {
	store    *fibersession.Store
	registry *datasets.Registry
	feed     *activity.Feed
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(store *fibersession.Store, registry *datasets.Registry, feed *activity.Feed) *DashboardHandler {
	return &DashboardHandler{store: store, registry: registry, feed: feed}
}

// ShowDashboard renders the admin or user dashboard
func (h *DashboardHandler) ShowDashboard(c *fiber.Ctx) error {
	state := middleware.CurrentState(c)
	dashboard := views.Select(state)
	if dashboard == views.None {
		return c.Redirect("/login")
	}

	catalog := h.registry.For(middleware.ClientKey(h.store, c))

	data := fiber.Map{
		"Dashboard": dashboard.String(),
		"Features":  views.Features(dashboard),
	}

	switch dashboard {
	case views.AdminDashboard:
		events := h.feed.Recent(dashboardActivity)
		messages := make([]string, 0, len(events))
		for _, e := range events {
			messages = append(messages, e.Message)
		}
		data["Stats"] = views.AdminOverview(h.registry.Len())
		data["Activity"] = messages
		return render(c, fiber.StatusOK, "dashboard", "admin_dashboard_title", data)

	default:
		records, err := catalog.Rows(datasets.Records)
		if err != nil {
			utils.Log.Error("Failed to load records: %v", err)
		}
		data["Stats"] = views.UserQuickStats(len(records))
		data["Activity"] = views.UserActivity
		return render(c, fiber.StatusOK, "dashboard", "user_dashboard_title", data)
	}
}

// ShowReports renders the report cards and the sample metrics table
func (h *DashboardHandler) ShowReports(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "reports", "reports_title", fiber.Map{
		"Reports": views.Reports,
		"Metrics": views.ReportMetrics,
	})
}
