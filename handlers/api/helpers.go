package api

import (
	"errors"
	"strconv"

	"dbconsole/datasets"
	"dbconsole/utils"

	"github.com/gofiber/fiber/v2"
)

// TableError maps dataset errors onto HTTP errors
func TableError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, datasets.ErrUnknownTable):
		return utils.NotFoundError("unknown table", err)
	case errors.Is(err, datasets.ErrRowNotFound):
		return utils.NotFoundError("row not found", err)
	case errors.Is(err, datasets.ErrReadOnly):
		return utils.NewAppError(fiber.StatusMethodNotAllowed, "table is read-only", err)
	case errors.Is(err, datasets.ErrEmptyRow):
		return utils.BadRequestError("row has no values", err)
	default:
		return utils.InternalServerError("table operation failed", err)
	}
}

// RowID parses the :id route parameter
func RowID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return 0, utils.BadRequestError("invalid row id", err).WithContext("id", c.Params("id"))
	}
	return id, nil
}
