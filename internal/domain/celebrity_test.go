package domain

import "testing"

func TestParseFollowerDisplay(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"45M", 45_000_000},
		{"15m", 15_000_000},
		{"1.2K", 1_200},
		{"2B", 2_000_000_000},
		{"980", 980},
		{" 3.5M ", 3_500_000},
	}

	for _, tt := range tests {
		got, err := ParseFollowerDisplay(tt.input)
		if err != nil {
			t.Fatalf("ParseFollowerDisplay(%q) returned error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("ParseFollowerDisplay(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}

	for _, input := range []string{"", "M", "abc", "-5K"} {
		if _, err := ParseFollowerDisplay(input); err == nil {
			t.Fatalf("ParseFollowerDisplay(%q) should fail", input)
		}
	}
}

func TestFormatFollowerCount(t *testing.T) {
	tests := []struct {
		count int64
		want  string
	}{
		{15_000_000, "15M"},
		{1_200, "1.2K"},
		{2_000_000_000, "2B"},
		{980, "980"},
		{45_500_000, "45.5M"},
	}

	for _, tt := range tests {
		if got := FormatFollowerCount(tt.count); got != tt.want {
			t.Fatalf("FormatFollowerCount(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestFollowerCountPrefersNumericColumn(t *testing.T) {
	c := &Celebrity{MaxFollowerCount: 500, MaxFollowerDisplay: "45M"}
	if n, ok := c.FollowerCount(); !ok || n != 500 {
		t.Fatalf("expected numeric column to win, got %d (%v)", n, ok)
	}

	c = &Celebrity{MaxFollowerDisplay: "45M"}
	if n, ok := c.FollowerCount(); !ok || n != 45_000_000 {
		t.Fatalf("expected display fallback, got %d (%v)", n, ok)
	}

	c = &Celebrity{}
	if _, ok := c.FollowerCount(); ok {
		t.Fatalf("record with no follower data should report none")
	}
}

func TestOrderEventCustomerName(t *testing.T) {
	e := &OrderEvent{Customer: OrderCustomer{FirstName: "  Emma ", LastName: "Stone"}}
	if got := e.CustomerName(); got != "Emma Stone" {
		t.Fatalf("CustomerName() = %q", got)
	}

	e = &OrderEvent{Customer: OrderCustomer{LastName: "Stone"}}
	if got := e.CustomerName(); got != "Stone" {
		t.Fatalf("CustomerName() with one part = %q", got)
	}

	e = &OrderEvent{}
	if got := e.CustomerName(); got != "" {
		t.Fatalf("CustomerName() with no parts = %q", got)
	}
}
