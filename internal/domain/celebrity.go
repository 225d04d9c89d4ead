package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Category is the closed set of celebrity category tags. Toggle lookups and
// gate checks go through Key() so stringly-typed casing bugs stay out of the
// matching path.
type Category string

const (
	CategoryAthlete      Category = "ATHLETE"
	CategoryInfluencer   Category = "INFLUENCER"
	CategoryMusician     Category = "MUSICIAN"
	CategoryActor        Category = "ACTOR"
	CategoryEntrepreneur Category = "ENTREPRENEUR"
)

// Key returns the lowercase form used as a merchant toggle map key.
func (c Category) Key() string {
	return strings.ToLower(string(c))
}

// ParseCategory maps a raw tag to a known Category, case-insensitively.
func ParseCategory(raw string) (Category, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(CategoryAthlete):
		return CategoryAthlete, true
	case string(CategoryInfluencer):
		return CategoryInfluencer, true
	case string(CategoryMusician):
		return CategoryMusician, true
	case string(CategoryActor):
		return CategoryActor, true
	case string(CategoryEntrepreneur):
		return CategoryEntrepreneur, true
	}
	return "", false
}

type Social struct {
	Platform string `json:"platform"`
	Link     string `json:"link"`
}

type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Celebrity is a reference record in the public-figure database.
// NormalizedName is the unique storage key derived from the full name plus
// disambiguating location tokens at creation time (underscore-delimited).
type Celebrity struct {
	ID                  int64      `json:"id,omitempty"`
	FullName            string     `json:"fullName"`
	NormalizedName      string     `json:"normalizedName"`
	Categories          []Category `json:"categories"`
	Subcategories       []string   `json:"subcategories,omitempty"`
	Socials             []Social   `json:"socials,omitempty"`
	Location            Location   `json:"location"`
	MaxFollowerCount    int64      `json:"maxFollowerCount,omitempty"`
	MaxFollowerDisplay  string     `json:"maxFollowerDisplay,omitempty"`
	NotableAchievements []string   `json:"notableAchievements,omitempty"`
	Notes               string     `json:"notes,omitempty"`
}

// CategoryTags returns the record's categories as raw string tags.
func (c *Celebrity) CategoryTags() []string {
	tags := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		tags[i] = string(cat)
	}
	return tags
}

// FollowerCount resolves the record's follower count, preferring the numeric
// column and falling back to the suffixed display string. The two encodings
// coexist in the data and both must be readable.
func (c *Celebrity) FollowerCount() (int64, bool) {
	if c.MaxFollowerCount > 0 {
		return c.MaxFollowerCount, true
	}
	if n, err := ParseFollowerDisplay(c.MaxFollowerDisplay); err == nil {
		return n, true
	}
	return 0, false
}

// ParseFollowerDisplay parses a short suffixed follower string ("45M", "1.2K")
// back into a numeric count.
func ParseFollowerDisplay(display string) (int64, error) {
	s := strings.TrimSpace(strings.ToUpper(display))
	if s == "" {
		return 0, fmt.Errorf("empty follower display")
	}

	multiplier := float64(1)
	switch s[len(s)-1] {
	case 'K':
		multiplier = 1_000
		s = s[:len(s)-1]
	case 'M':
		multiplier = 1_000_000
		s = s[:len(s)-1]
	case 'B':
		multiplier = 1_000_000_000
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid follower display %q: %w", display, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative follower display %q", display)
	}

	return int64(math.Round(value * multiplier)), nil
}

// FormatFollowerCount renders a numeric count in the short display form
// stored alongside it ("15M", "1.2K").
func FormatFollowerCount(count int64) string {
	switch {
	case count >= 1_000_000_000:
		return trimTrailingZero(float64(count)/1_000_000_000) + "B"
	case count >= 1_000_000:
		return trimTrailingZero(float64(count)/1_000_000) + "M"
	case count >= 1_000:
		return trimTrailingZero(float64(count)/1_000) + "K"
	default:
		return strconv.FormatInt(count, 10)
	}
}

func trimTrailingZero(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}
