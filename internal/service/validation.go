package service

import (
	"strings"

	"github.com/lkaminski/matchday-stats-service/internal/repository"
)

func normalizePage(p repository.Page) repository.Page {
	limit := p.Limit
	offset := p.Offset
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return repository.Page{Limit: limit, Offset: offset}
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

func isValidGameStatus(status string) bool {
	switch status {
	case "scheduled", "in_progress", "finished":
		return true
	default:
		return false
	}
}
