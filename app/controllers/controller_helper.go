package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/magforge/pressdesk/internal/pkg/payments"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// jsonError writes the uniform error body used across the API.
func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

// parsePagination reads page/page_size query params with sane bounds
// and returns the matching offset and limit.
func parsePagination(c *fiber.Ctx) (page, offset, limit int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("page_size", defaultPageSize)
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, (page - 1) * limit, limit
}

// paginated wraps list results with paging metadata.
func paginated(items interface{}, page, limit int, total int64) fiber.Map {
	return fiber.Map{
		"items":     items,
		"page":      page,
		"page_size": limit,
		"total":     total,
	}
}

// paramID parses a numeric route parameter; 0 means missing/invalid.
func paramID(c *fiber.Ctx, name string) uint {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

// queryUint parses a numeric query parameter; 0 means absent.
func queryUint(c *fiber.Ctx, name string) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// clientInfoFromRequest builds purchase client metadata from the body
// fields (if present) plus transport facts.
func clientInfoFromRequest(c *fiber.Ctx, platform, deviceID string) payments.ClientInfo {
	if platform == "" {
		platform = "unknown"
	}
	return payments.ClientInfo{
		Platform:  platform,
		DeviceID:  deviceID,
		IP:        c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
}
