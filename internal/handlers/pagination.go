package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/saeid-a/FitProBack/internal/models"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type pageRequest struct {
	page  int
	limit int
}

func parsePage(c *fiber.Ctx) pageRequest {
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return pageRequest{page: parsePositiveInt(c.Query("page"), 1), limit: limit}
}

func parsePositiveInt(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// paginate slices an in-memory list; the lists served this way are bounded
// by the number of coaches or transactions.
func paginate[T any](items []T, p pageRequest) ([]T, models.PaginationMeta) {
	total := len(items)
	start := min((p.page-1)*p.limit, total)
	end := min(start+p.limit, total)
	return items[start:end], buildPaginationMeta(p.page, p.limit, total)
}

func buildPaginationMeta(page, limit, total int) models.PaginationMeta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
