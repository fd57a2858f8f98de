package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yamadayuki/task-tracker-api/internal/apperrors"
	"github.com/yamadayuki/task-tracker-api/internal/constants"
)

// PaginationParams holds validated pagination parameters
type PaginationParams struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pages returns the total page count for the given total, ceil(total/limit).
func (p PaginationParams) Pages(total int64) int {
	if total == 0 {
		return 0
	}
	pages := int(total) / p.Limit
	if int(total)%p.Limit > 0 {
		pages++
	}
	return pages
}

// ParsePagination extracts pagination parameters from the request query.
// Out-of-range values are rejected rather than clamped: page must be a
// positive integer and limit must be within [1, MaxPageSize].
func ParsePagination(c *gin.Context) (PaginationParams, error) {
	params := PaginationParams{
		Page:  constants.DefaultPage,
		Limit: constants.DefaultPageSize,
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return params, apperrors.Validation("page must be a positive integer")
		}
		params.Page = page
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > constants.MaxPageSize {
			return params, apperrors.Validation("limit must be between 1 and %d", constants.MaxPageSize)
		}
		params.Limit = limit
	}

	return params, nil
}
