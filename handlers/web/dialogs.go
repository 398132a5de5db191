package web

import (
	"dbconsole/activity"
	"dbconsole/datasets"
	"dbconsole/handlers/api"
	"dbconsole/metrics"
	"dbconsole/middleware"
	"dbconsole/models"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

// DialogHandler serves the data-management dialogs as full pages
type DialogHandler struct {
	store    *fibersession.Store
	registry *datasets.Registry
	feed     *activity.Feed
	metrics  *metrics.Metrics
}

// NewDialogHandler creates a new dialog handler
func NewDialogHandler(store *fibersession.Store, registry *datasets.Registry, feed *activity.Feed, m *metrics.Metrics) *DialogHandler {
	return &DialogHandler{store: store, registry: registry, feed: feed, metrics: m}
}

func (h *DialogHandler) catalog(c *fiber.Ctx) *datasets.Catalog {
	return h.registry.For(middleware.ClientKey(h.store, c))
}

// ShowDialog renders the table of :kind filtered by ?q=. ?new=1 opens an
// empty row form and ?edit=<id> opens the form for that row.
func (h *DialogHandler) ShowDialog(c *fiber.Ctx) error {
	def, err := api.ResolveTable(c)
	if err != nil {
		return err
	}

	catalog := h.catalog(c)
	query := c.Query("q")
	rows, err := catalog.Search(def.Kind, query)
	if err != nil {
		return api.TableError(err)
	}

	data := fiber.Map{
		"Definition": def,
		"Query":      query,
		"Rows":       rows,
		"ColumnSpan": len(def.Columns) + 2,
		"EditRow":    models.Row{},
		"Editing":    false,
	}

	if !def.ReadOnly && def.HasTable() {
		if editID := c.QueryInt("edit"); editID > 0 {
			row, err := catalog.Get(def.Kind, editID)
			if err != nil {
				return api.TableError(err)
			}
			data["EditRow"] = row
			data["Editing"] = true
		} else if c.Query("new") != "" {
			data["Editing"] = true
		}
	}

	return render(c, fiber.StatusOK, "dialog", "", data)
}

// formValues picks the table's columns out of the posted form
func formValues(c *fiber.Ctx, columns []string) map[string]string {
	values := make(map[string]string, len(columns))
	args := c.Request().PostArgs()
	for _, col := range columns {
		if args.Has(col) {
			values[col] = string(args.Peek(col))
		} else if v := c.FormValue(col); v != "" {
			values[col] = v
		}
	}
	return values
}

func dialogURL(kind datasets.Kind) string {
	return "/dialogs/" + string(kind)
}

// AddRow handles both the add-row form and the submit-data form
func (h *DialogHandler) AddRow(c *fiber.Ctx) error {
	def, err := api.ResolveTable(c)
	if err != nil {
		return err
	}

	row, err := h.catalog(c).Add(def.Kind, formValues(c, def.Columns))
	if err != nil {
		return api.TableError(err)
	}
	api.RecordMutation(h.feed, h.metrics, middleware.CurrentState(c), def.Kind, "add", row.ID)

	return c.Redirect(dialogURL(def.Kind), fiber.StatusSeeOther)
}

// UpdateRow saves the edit form of :id
func (h *DialogHandler) UpdateRow(c *fiber.Ctx) error {
	def, err := api.ResolveTable(c)
	if err != nil {
		return err
	}
	id, err := api.RowID(c)
	if err != nil {
		return err
	}

	if _, err := h.catalog(c).Update(def.Kind, id, formValues(c, def.Columns)); err != nil {
		return api.TableError(err)
	}
	api.RecordMutation(h.feed, h.metrics, middleware.CurrentState(c), def.Kind, "update", id)

	return c.Redirect(dialogURL(def.Kind), fiber.StatusSeeOther)
}

// DeleteRow removes :id
func (h *DialogHandler) DeleteRow(c *fiber.Ctx) error {
	def, err := api.ResolveTable(c)
	if err != nil {
		return err
	}
	id, err := api.RowID(c)
	if err != nil {
		return err
	}

	if err := h.catalog(c).Delete(def.Kind, id); err != nil {
		return api.TableError(err)
	}
	api.RecordMutation(h.feed, h.metrics, middleware.CurrentState(c), def.Kind, "delete", id)

	return c.Redirect(dialogURL(def.Kind), fiber.StatusSeeOther)
}
