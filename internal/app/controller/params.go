package controller

import (
	"strconv"
	"strings"
)

// parseCategories splits a comma-separated category filter and drops blanks.
func parseCategories(raw string) []string {
	if raw == "" {
		return nil
	}
	var categories []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			categories = append(categories, trimmed)
		}
	}
	return categories
}

// parseVerified only understands the literals "true" and "false".
func parseVerified(raw string) *bool {
	switch raw {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// queryInt returns 0 for missing or malformed numbers; services apply defaults.
func queryInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
