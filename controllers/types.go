package controllers

import "time"

// Shared handler constants.
const (
	DefaultContextTimeout = 30 * time.Second
	DefaultCacheTTL       = 5 * time.Minute
)

// paginationMeta is the envelope attached to every list response.
type paginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func newPaginationMeta(page, limit int, total int64) paginationMeta {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return paginationMeta{Page: page, Limit: limit, Total: total, TotalPages: pages}
}
