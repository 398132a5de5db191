package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"dbconsole/activity"
	"dbconsole/datasets"
	"dbconsole/metrics"
	"dbconsole/models"
	"dbconsole/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{datasets.ErrUnknownTable, fiber.StatusNotFound},
		{datasets.ErrRowNotFound, fiber.StatusNotFound},
		{datasets.ErrReadOnly, fiber.StatusMethodNotAllowed},
		{datasets.ErrEmptyRow, fiber.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", datasets.ErrReadOnly), fiber.StatusMethodNotAllowed},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		appErr, ok := utils.AsAppError(TableError(tt.err))
		require.True(t, ok, tt.err)
		assert.Equal(t, tt.code, appErr.Code, tt.err)
	}
	assert.NoError(t, TableError(nil))
}

func TestRowID(t *testing.T) {
	app := fiber.New()
	app.Get("/:id", func(c *fiber.Ctx) error {
		id, err := RowID(c)
		if err != nil {
			appErr, ok := utils.AsAppError(err)
			if !ok || appErr.Context["id"] != c.Params("id") {
				return c.SendStatus(fiber.StatusInternalServerError)
			}
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.SendString(fmt.Sprint(id))
	})

	for path, want := range map[string]int{"/7": 200, "/0": 400, "/x": 400, "/-2": 400} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)
	}
}

func TestRecordMutation(t *testing.T) {
	feed := activity.NewFeed(5)
	m := metrics.New()
	state := models.AuthState{User: &models.User{ID: "1", Email: "admin@example.com"}, IsAuthenticated: true}

	RecordMutation(feed, m, state, datasets.Users, "delete", 3)

	events := feed.Recent(1)
	require.Len(t, events, 1)
	assert.Equal(t, "Row 3 deleted in users", events[0].Message)
	assert.Equal(t, "admin@example.com", events[0].Actor)
	assert.Equal(t, activity.KindTable, events[0].Kind)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TableMutations.WithLabelValues("users", "delete")))

	// nil collaborators are tolerated
	RecordMutation(nil, nil, models.AuthState{}, datasets.Records, "add", 1)
}

func TestGetTranslations(t *testing.T) {
	require.NoError(t, utils.InitI18n())
	app := fiber.New()
	h := &I18nHandler{}
	app.Get("/i18n/:lang", h.GetTranslations)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/i18n/xx", nil))
	require.NoError(t, err)
	var translations map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&translations))
	assert.Len(t, translations, len(clientKeys))
	assert.Equal(t, "Delete", translations["button_delete"])
}

func TestListActivityLimit(t *testing.T) {
	feed := activity.NewFeed(activity.DefaultCapacity)
	feed.Seed()
	h := NewActivityHandler(feed, nil)

	app := fiber.New()
	app.Get("/activity", h.ListActivity)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/activity?limit=3", nil))
	require.NoError(t, err)
	var body struct {
		Events []activity.Event `json:"events"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Events, 3)
}
