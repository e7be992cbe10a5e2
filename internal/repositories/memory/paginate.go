package memory

import (
	"sort"
	"strings"

	"personahub/internal/models"
)

// normalizeLimit mirrors the postgres pagination defaults and clamps
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// buildMeta creates pagination metadata for an in-memory result set
func buildMeta(params models.PaginationParams, total int64) models.PaginationMeta {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	currentPage := (params.Offset / limit) + 1
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return models.PaginationMeta{
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNext:      int64(params.Offset+limit) < total,
		HasPrev:      params.Offset > 0,
	}
}

// orderSlice sorts in place by the requested field, falling back to
// created_at descending like the postgres repositories. The key function
// returns the string key for title sorts and the numeric key otherwise.
func orderSlice[T any](items []T, params models.PaginationParams, key func(item T, field string) (string, int64)) {
	field := params.Sort
	switch field {
	case "created_at", "updated_at", "title", "like_count", "id":
	default:
		field = "created_at"
	}

	ascending := strings.ToLower(params.Order) == "asc"

	sort.SliceStable(items, func(i, j int) bool {
		si, ni := key(items[i], field)
		sj, nj := key(items[j], field)

		var less bool
		if field == "title" {
			less = si < sj
		} else {
			less = ni < nj
		}
		if ascending {
			return less
		}
		if field == "title" {
			return si > sj
		}
		return ni > nj
	})
}

// pageSlice applies offset and clamped limit to the ordered slice
func pageSlice[T any](items []T, params models.PaginationParams) []T {
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}

	limit := normalizeLimit(params.Limit)
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}

	return items[offset:end]
}
