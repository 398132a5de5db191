package api

import (
	"fmt"

	"dbconsole/activity"
	"dbconsole/datasets"
	"dbconsole/metrics"
	"dbconsole/middleware"
	"dbconsole/models"
	"dbconsole/utils"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

// TablesHandler serves the dialog tables as JSON
type TablesHandler struct {
	store    *fibersession.Store
	registry *datasets.Registry
	feed     *activity.Feed
	metrics  *metrics.Metrics
}

// NewTablesHandler creates a new tables handler
func NewTablesHandler(store *fibersession.Store, registry *datasets.Registry, feed *activity.Feed, m *metrics.Metrics) *TablesHandler {
	return &TablesHandler{store: store, registry: registry, feed: feed, metrics: m}
}

// ResolveTable looks up :kind and checks the caller's role against it
func ResolveTable(c *fiber.Ctx) (datasets.Definition, error) {
	def, err := datasets.Lookup(c.Params("kind"))
	if err != nil {
		return def, TableError(err)
	}
	if !def.Allowed(middleware.CurrentState(c).Role()) {
		return def, utils.ForbiddenError("Access denied", nil).WithContext("table", c.Params("kind"))
	}
	return def, nil
}

func (h *TablesHandler) catalog(c *fiber.Ctx) *datasets.Catalog {
	return h.registry.For(middleware.ClientKey(h.store, c))
}

// ListRows returns the rows matching ?q=, paginated by ?page= and ?page_size=
func (h *TablesHandler) ListRows(c *fiber.Ctx) error {
	def, err := ResolveTable(c)
	if err != nil {
		return err
	}

	rows, err := h.catalog(c).Search(def.Kind, c.Query("q"))
	if err != nil {
		return TableError(err)
	}

	page := models.NewPaginatedRows(rows, c.QueryInt("page", 1), c.QueryInt("page_size", 50))
	return c.JSON(fiber.Map{
		"table":    def.Kind,
		"title":    def.Title,
		"columns":  def.Columns,
		"readOnly": def.ReadOnly,
		"data":     page,
	})
}

// CreateRow adds a row from a JSON object of column values
func (h *TablesHandler) CreateRow(c *fiber.Ctx) error {
	def, err := ResolveTable(c)
	if err != nil {
		return err
	}

	var values map[string]string
	if err := c.BodyParser(&values); err != nil {
		return utils.BadRequestError("invalid request body", err)
	}

	row, err := h.catalog(c).Add(def.Kind, values)
	if err != nil {
		return TableError(err)
	}
	h.recordMutation(c, def.Kind, "add", row.ID)

	return c.Status(fiber.StatusCreated).JSON(row)
}

// UpdateRow overwrites the given columns of :id
func (h *TablesHandler) UpdateRow(c *fiber.Ctx) error {
	def, err := ResolveTable(c)
	if err != nil {
		return err
	}
	id, err := RowID(c)
	if err != nil {
		return err
	}

	var values map[string]string
	if err := c.BodyParser(&values); err != nil {
		return utils.BadRequestError("invalid request body", err)
	}

	row, err := h.catalog(c).Update(def.Kind, id, values)
	if err != nil {
		return TableError(err)
	}
	h.recordMutation(c, def.Kind, "update", row.ID)

	return c.JSON(row)
}

// DeleteRow removes :id
func (h *TablesHandler) DeleteRow(c *fiber.Ctx) error {
	def, err := ResolveTable(c)
	if err != nil {
		return err
	}
	id, err := RowID(c)
	if err != nil {
		return err
	}

	if err := h.catalog(c).Delete(def.Kind, id); err != nil {
		return TableError(err)
	}
	h.recordMutation(c, def.Kind, "delete", id)

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TablesHandler) recordMutation(c *fiber.Ctx, kind datasets.Kind, op string, id int) {
	RecordMutation(h.feed, h.metrics, middleware.CurrentState(c), kind, op, id)
}

// RecordMutation counts a table change and publishes it to the activity feed
func RecordMutation(feed *activity.Feed, m *metrics.Metrics, state models.AuthState, kind datasets.Kind, op string, id int) {
	if m != nil {
		m.TableMutations.WithLabelValues(string(kind), op).Inc()
	}
	if feed == nil {
		return
	}
	actor := ""
	if state.User != nil {
		actor = state.User.Email
	}
	feed.Publish(activity.Event{
		Kind:    activity.KindTable,
		Message: fmt.Sprintf("Row %d %s in %s", id, pastTense(op), kind),
		Actor:   actor,
	})
}

func pastTense(op string) string {
	switch op {
	case "add":
		return "added"
	case "update":
		return "updated"
	case "delete":
		return "deleted"
	}
	return op
}
