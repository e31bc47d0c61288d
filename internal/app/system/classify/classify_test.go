package classify

import "testing"

func TestReason(t *testing.T) {
	tests := []struct {
		reason string
		want   Category
	}{
		{"2 students sick", Health},
		{"FLU symptoms", Health},
		{"malaria outbreak", Health},
		{"bad weather, it was raining too much", Weather},
		{"Heavy RAIN", Weather},
		{"school fees", Fees},
		{"Fees not paid", Fees},
		{"family travel", Other},
		{"", Other},

		// precedence: health beats weather beats fees
		{"sick because of the rain", Health},
		{"rain, and fees too", Weather},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			if got := Reason(tt.reason); got != tt.want {
				t.Errorf("Reason(%q) = %v, want %v", tt.reason, got, tt.want)
			}
		})
	}
}

func TestCategoryLabelAndBadge(t *testing.T) {
	tests := []struct {
		c     Category
		label string
		badge string
	}{
		{Health, "Health Issues", "destructive"},
		{Weather, "Bad Weather", "secondary"},
		{Fees, "School Fees", "outline"},
		{Other, "Other Reasons", "default"},
	}

	for _, tt := range tests {
		if got := tt.c.Label(); got != tt.label {
			t.Errorf("Label() = %q, want %q", got, tt.label)
		}
		if got := tt.c.Badge(); got != tt.badge {
			t.Errorf("Badge() = %q, want %q", got, tt.badge)
		}
	}
}

func TestOrdered(t *testing.T) {
	want := []string{"Health Issues", "Bad Weather", "School Fees", "Other Reasons"}
	if len(Ordered) != len(want) {
		t.Fatalf("Ordered has %d categories, want %d", len(Ordered), len(want))
	}
	for i, c := range Ordered {
		if c.Label() != want[i] {
			t.Errorf("Ordered[%d] = %q, want %q", i, c.Label(), want[i])
		}
	}
}

func TestByLabel_RoundTrip(t *testing.T) {
	for _, c := range Ordered {
		got, ok := ByLabel(c.Label())
		if !ok || got != c {
			t.Errorf("ByLabel(%q) = %v, %v", c.Label(), got, ok)
		}
	}
	if _, ok := ByLabel("Stomach Ache"); ok {
		t.Error("unknown label should not match")
	}
}

func TestSlug_Distinct(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Ordered {
		if seen[c.Slug()] {
			t.Errorf("duplicate slug %q", c.Slug())
		}
		seen[c.Slug()] = true
	}
}
