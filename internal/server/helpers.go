package server

import (
	"errors"

	"dawgsocial/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts the :id route parameter as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user ID set by the session
// middleware, or 0 when the request is anonymous.
func currentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

// renderForm re-renders a form with field errors. Recoverable form
// failures answer 200 so the browser stays on the page; the actual
// markup is produced by the template layer in front of this API.
func renderForm(c *fiber.Ctx, form string, code string, fieldErrors fiber.Map) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"form":   form,
		"code":   code,
		"errors": fieldErrors,
	})
}

// redirectToFeed answers the interaction endpoints' success and
// post-not-found cases alike: a plain redirect, no error detail.
func redirectToFeed(c *fiber.Ctx) error {
	return c.Redirect(FeedPath, fiber.StatusFound)
}
