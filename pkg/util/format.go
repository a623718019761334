package util

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	apostrophePattern  = regexp.MustCompile(`['’‘` + "`" + `]`)
	nonAlnumPattern    = regexp.MustCompile(`[^a-z0-9]+`)
	categoryDescriptor = map[string]string{
		"Agriculture":     "Agricultural services and products",
		"Retail":          "Retail services and products",
		"Food & Beverage": "Food and beverage services",
		"Manufacturing":   "Manufacturing and production",
		"Services":        "Professional and business services",
		"Construction":    "Construction and building services",
		"Technology":      "Technology and IT services",
		"Healthcare":      "Healthcare and medical services",
		"Education":       "Educational services",
		"Transport":       "Transportation and logistics",
	}
)

// Slugify lowercases s, drops apostrophes, collapses every run of characters
// outside [a-z0-9] into a single hyphen and trims leading/trailing hyphens.
func Slugify(s string) string {
	slug := strings.ToLower(s)
	slug = apostrophePattern.ReplaceAllString(slug, "")
	slug = nonAlnumPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// GenerateSlug builds the public slug "<name>-<lga>".
func GenerateSlug(name, lga string) string {
	return Slugify(name) + "-" + Slugify(lga)
}

// FormatPhoneNumber replaces a leading "0" with the Nigerian country code.
func FormatPhoneNumber(phone string) string {
	if strings.HasPrefix(phone, "0") {
		return "+234" + phone[1:]
	}
	return phone
}

// CategoryDescription returns the display description for a business category.
func CategoryDescription(category string) string {
	if desc, ok := categoryDescriptor[category]; ok {
		return desc
	}
	return fmt.Sprintf("%s services in Kaduna State", category)
}

// CalculateYearsActive returns whole 365-day years between createdAt and now.
func CalculateYearsActive(createdAt, now time.Time) int {
	diff := now.Sub(createdAt)
	if diff < 0 {
		diff = -diff
	}
	days := int64(diff / (24 * time.Hour))
	return int(days / 365)
}
