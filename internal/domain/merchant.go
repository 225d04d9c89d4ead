package domain

import "strings"

// MerchantSettings holds a merchant's alert preferences. CategoryToggles is
// keyed by lowercase category tag; a missing key means the category is
// disabled, never "unknown/allow".
type MerchantSettings struct {
	ShopDomain      string          `json:"shopDomain"`
	CategoryToggles CategoryToggles `json:"categoryToggles"`
}

type CategoryToggles map[string]bool

// Normalized returns a copy with all keys lowercased, so lookups are
// case-insensitive regardless of how the toggles were stored.
func (t CategoryToggles) Normalized() CategoryToggles {
	out := make(CategoryToggles, len(t))
	for key, enabled := range t {
		out[strings.ToLower(strings.TrimSpace(key))] = enabled
	}
	return out
}
