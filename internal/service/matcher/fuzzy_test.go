package matcher

import (
	"math"
	"testing"
)

func identity(s string) string { return s }

func TestDistanceBounds(t *testing.T) {
	if d := Distance("emma stone", "emma stone"); d != 0 {
		t.Fatalf("identical strings should have distance 0, got %f", d)
	}
	if d := Distance("Emma Stone", "emma stone"); d != 0 {
		t.Fatalf("distance must be case-insensitive, got %f", d)
	}

	d := Distance("ema stone", "emma stone")
	if math.Abs(d-0.1) > 1e-9 {
		t.Fatalf("one edit over ten characters should score 0.1, got %f", d)
	}
}

func TestSearchOrdersBestFirst(t *testing.T) {
	candidates := []string{"emma watson", "emma stone", "emily blunt"}

	results := Search("ema stone", candidates, []func(string) string{identity}, 0.9)
	if len(results) == 0 {
		t.Fatalf("expected at least one result")
	}
	if results[0].Item != "emma stone" {
		t.Fatalf("expected best match first, got %q", results[0].Item)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score < results[i-1].Score {
			t.Fatalf("results not ordered by ascending score: %v", results)
		}
	}
}

func TestSearchThresholdExcludesAtBoundary(t *testing.T) {
	// Distance("kitten", "sitting") = 3/7 ≈ 0.4286: inside the admin
	// threshold (0.5), outside the stricter order threshold (0.4).
	if got := Search("kitten", []string{"sitting"}, []func(string) string{identity}, 0.5); len(got) != 1 {
		t.Fatalf("expected a match under the looser threshold, got %d results", len(got))
	}
	if got := Search("kitten", []string{"sitting"}, []func(string) string{identity}, 0.4); len(got) != 0 {
		t.Fatalf("expected no match under the stricter threshold, got %d results", len(got))
	}

	// A score exactly at the threshold is excluded.
	d := Distance("abcd", "abcx") // 0.25
	if got := Search("abcd", []string{"abcx"}, []func(string) string{identity}, d); len(got) != 0 {
		t.Fatalf("score equal to threshold must be excluded")
	}
}

func TestSearchStableTieBreak(t *testing.T) {
	// Both candidates are one substitution away from the query; the
	// first-encountered candidate must win.
	candidates := []string{"emma stome", "emma stoke"}

	results := Search("emma stone", candidates, []func(string) string{identity}, 0.5)
	if len(results) != 2 {
		t.Fatalf("expected both near-ties to pass the threshold, got %d", len(results))
	}
	if results[0].Score != results[1].Score {
		t.Fatalf("test assumes a tie, got %f vs %f", results[0].Score, results[1].Score)
	}
	if results[0].Item != "emma stome" {
		t.Fatalf("tie must break toward the first-encountered candidate, got %q", results[0].Item)
	}
}

type person struct {
	display string
	key     string
}

func TestSearchBestScoreAcrossFields(t *testing.T) {
	candidates := []person{{display: "Emma Stone", key: "zzzzzzzzzz"}}
	keys := []func(person) string{
		func(p person) string { return p.display },
		func(p person) string { return p.key },
	}

	results := Search("emma stone", candidates, keys, 0.4)
	if len(results) != 1 {
		t.Fatalf("expected the display-name field to carry the match")
	}
	if results[0].Score != 0 {
		t.Fatalf("best field score should win, got %f", results[0].Score)
	}
}

func TestSearchSkipsEmptyFields(t *testing.T) {
	candidates := []person{{display: "", key: ""}}
	keys := []func(person) string{
		func(p person) string { return p.display },
		func(p person) string { return p.key },
	}

	if got := Search("emma stone", candidates, keys, 0.9); len(got) != 0 {
		t.Fatalf("candidate with only empty fields must not match, got %v", got)
	}
}

func TestSearchEmptyInputs(t *testing.T) {
	keys := []func(string) string{identity}

	if got := Search("", []string{"emma stone"}, keys, 0.5); got != nil {
		t.Fatalf("empty query should return nil, got %v", got)
	}
	if got := Search("emma", nil, keys, 0.5); got != nil {
		t.Fatalf("no candidates should return nil, got %v", got)
	}
}
