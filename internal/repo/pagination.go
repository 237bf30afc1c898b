package repo

import "strings"

const defaultLimit = 100

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// page slices items the way the SQL repositories apply OFFSET and LIMIT.
func page[T any](items []T, offset, limit *int) []T {
	if offset != nil && *offset >= len(items) {
		return []T{}
	}

	start := 0
	if offset != nil {
		start = clamp(*offset, 0, len(items))
	}

	end := len(items)
	if limit != nil && *limit > 0 {
		end = clamp(start+*limit, start, len(items))
	}

	return items[start:end]
}

// pageLimit returns the requested limit capped at defaultLimit. Nil or non-positive means defaultLimit.
func pageLimit(limit *int) int {
	if limit == nil || *limit <= 0 {
		return defaultLimit
	}
	return min(*limit, defaultLimit)
}

func cappedLimit(limit *int) *int {
	l := pageLimit(limit)
	return &l
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern that matches s literally anywhere in the value.
// Postgres treats backslash as the default LIKE escape character.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
