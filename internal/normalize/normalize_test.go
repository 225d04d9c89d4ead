package normalize

import "testing"

func TestForQueryStripsHonorifics(t *testing.T) {
	cases := map[string]string{
		"Dr. Jane Doe":  "jane doe",
		"Dr Jane Doe":   "jane doe",
		"Mrs. Jane Doe": "jane doe",
		"mr jane doe":   "jane doe",
		"Ms.Jane":       "jane",
		"Mystery Man":   "mystery man", // "ms" prefix inside a word is not an honorific
		"Jane Doe":      "jane doe",
	}

	for input, want := range cases {
		if got := ForQuery(input); got != want {
			t.Fatalf("ForQuery(%q) = %q, want %q", input, got, want)
		}
	}

	if ForQuery("Dr. Jane Doe") != ForQuery("Jane Doe") {
		t.Fatalf("honorific-stripped form should equal the bare form")
	}
}

func TestForQueryStripsPunctuationAndCollapsesWhitespace(t *testing.T) {
	cases := map[string]string{
		"  Emma   Stone ":   "emma stone",
		"O'Neil, Shaq":      "oneil shaq",
		"Jean-Luc  Picard":  "jeanluc picard",
		"Lil' Wayne!!!":     "lil wayne",
		"A.$AP Rocky":       "aap rocky",
		"Beyoncé":           "beyonc", // non-ascii as typed is stripped
		"21 Savage":         "21 savage",
		"\tTab\tSeparated ": "tab separated",
	}

	for input, want := range cases {
		if got := ForQuery(input); got != want {
			t.Fatalf("ForQuery(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestForQueryEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "!!!", "...", "---"} {
		if got := ForQuery(input); got != "" {
			t.Fatalf("ForQuery(%q) = %q, want empty string", input, got)
		}
	}
}

func TestForQueryIdempotent(t *testing.T) {
	inputs := []string{
		"Dr. Jane Doe",
		"  Emma   Stone ",
		"O'Neil, Shaq",
		"21 Savage",
		"",
		"mrs smith",
		"Xyz Qqq",
	}

	for _, input := range inputs {
		once := ForQuery(input)
		twice := ForQuery(once)
		if once != twice {
			t.Fatalf("ForQuery not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestForStorageKey(t *testing.T) {
	cases := []struct {
		parts []string
		want  string
	}{
		{[]string{"Emma Stone", "Los Angeles", "California"}, "emma_stone_los_angeles_california"},
		{[]string{"Emma Stone", "", ""}, "emma_stone"},
		{[]string{"  LeBron   James ", "Akron", "Ohio"}, "lebron_james_akron_ohio"},
		{[]string{""}, ""},
		{nil, ""},
	}

	for _, tc := range cases {
		if got := ForStorageKey(tc.parts...); got != tc.want {
			t.Fatalf("ForStorageKey(%v) = %q, want %q", tc.parts, got, tc.want)
		}
	}
}

func TestQueryAndStorageKeyReconcile(t *testing.T) {
	// The exact-lookup key for a runtime query is the query normalization
	// passed through the storage-key convention.
	query := ForQuery("Dr. Emma Stone")
	key := ForStorageKey(query, "Los Angeles", "California")
	if key != "emma_stone_los_angeles_california" {
		t.Fatalf("reconciled key = %q", key)
	}
}
