package service

import "strings"

// IsRelevant decides whether a match should alert a merchant: it returns true
// on the first matched tag whose (lowercased) key is enabled in the toggle
// map. A tag absent from the map is disabled, not "unknown/allow", and an
// empty tag list is never relevant.
func IsRelevant(toggles map[string]bool, matchedCategories []string) bool {
	if len(toggles) == 0 || len(matchedCategories) == 0 {
		return false
	}

	for _, tag := range matchedCategories {
		if toggles[strings.ToLower(strings.TrimSpace(tag))] {
			return true
		}
	}
	return false
}
