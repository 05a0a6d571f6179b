package controllers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func runHelperRequest(t *testing.T, target string, handler fiber.Handler) {
	t.Helper()
	app := fiber.New()
	app.Get("/probe", handler)
	req := httptest.NewRequest("GET", target, nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantPage   int
		wantOffset int
		wantLimit  int
	}{
		{"defaults", "/probe", 1, 0, 20},
		{"explicit", "/probe?page=3&page_size=10", 3, 20, 10},
		{"zero page clamps", "/probe?page=0", 1, 0, 20},
		{"negative size clamps", "/probe?page_size=-5", 1, 0, 20},
		{"oversize clamps", "/probe?page_size=5000", 1, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runHelperRequest(t, tt.target, func(c *fiber.Ctx) error {
				page, offset, limit := parsePagination(c)
				assert.Equal(t, tt.wantPage, page)
				assert.Equal(t, tt.wantOffset, offset)
				assert.Equal(t, tt.wantLimit, limit)
				return c.SendStatus(fiber.StatusOK)
			})
		})
	}
}

func TestQueryUint(t *testing.T) {
	runHelperRequest(t, "/probe?brand_id=12&bad=abc", func(c *fiber.Ctx) error {
		assert.Equal(t, uint(12), queryUint(c, "brand_id"))
		assert.Equal(t, uint(0), queryUint(c, "bad"))
		assert.Equal(t, uint(0), queryUint(c, "missing"))
		return c.SendStatus(fiber.StatusOK)
	})
}

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, formatTimePtr(nil))
	ts := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-01T10:30:00Z", formatTimePtr(&ts))
}

func TestClientInfoFromRequest(t *testing.T) {
	runHelperRequest(t, "/probe", func(c *fiber.Ctx) error {
		info := clientInfoFromRequest(c, "", "dev-1")
		assert.Equal(t, "unknown", info.Platform)
		assert.Equal(t, "dev-1", info.DeviceID)

		info = clientInfoFromRequest(c, "ios", "")
		assert.Equal(t, "ios", info.Platform)
		return c.SendStatus(fiber.StatusOK)
	})
}
