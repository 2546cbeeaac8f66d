package calculator

import (
	"testing"

	"github.com/tabscan/tabscan/internal/models"
)

func TestExplain(t *testing.T) {
	s := session([]string{"Alice", "Bob", "Carol"}, "Alice", 7200,
		item("Steak", 1, 3000, "Bob"),
		item("Beer", 3, 1800, "Alice", "Bob"),
		item("Tax", 1, 900, models.SentinelAll),
		item("Bread", 1, 500),
		item("Salad", 1, 1000, "Alice", "Carol"),
	)

	tests := []struct {
		person string
		want   string
	}{
		{
			person: "Bob",
			want:   "Steak: $30.00\nBeer (×3): $18.00 ÷ 2 = $9.00\nTax: $9.00 ÷ 3 = $3.00",
		},
		{
			person: "Carol",
			want:   "Tax: $9.00 ÷ 3 = $3.00\nSalad: $10.00 ÷ 2 = $5.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.person, func(t *testing.T) {
			got := explain(s, tt.person)
			if got != tt.want {
				t.Errorf("explain(%s) =\n%s\nwant:\n%s", tt.person, got, tt.want)
			}
		})
	}
}

func TestExplain_NoItemsFallsBack(t *testing.T) {
	s := session([]string{"Alice", "Bob"}, "Alice", 2000,
		item("Lunch", 1, 2000, "Alice"),
	)
	if got := explain(s, "Bob"); got != defaultExplanation {
		t.Errorf("explain(Bob) = %q, want %q", got, defaultExplanation)
	}
}

func TestExplainLine_SingleAssigneeQuantityOne(t *testing.T) {
	line := explainLine(models.LineItem{Name: "Espresso", Quantity: 1, Amount: 350}, 1)
	if line != "Espresso: $3.50" {
		t.Errorf("line = %q", line)
	}
}

func TestGenerate_OrdersByAmountDescending(t *testing.T) {
	s := session([]string{"Alice", "Bob", "Carol", "Dan"}, "Alice", 6000,
		item("Mains", 1, 3000, "Bob"),
		item("Starters", 1, 2000, "Carol"),
		item("Sides", 1, 1000, "Dan"),
	)
	result, err := ComputeSplits(s, DefaultOptions())
	if err != nil {
		t.Fatalf("ComputeSplits() error = %v", err)
	}
	wantOrder := []string{"Bob", "Carol", "Dan"}
	if len(result.Settlements) != len(wantOrder) {
		t.Fatalf("settlements = %d, want %d", len(result.Settlements), len(wantOrder))
	}
	for i, want := range wantOrder {
		if result.Settlements[i].FromID != want {
			t.Errorf("settlement[%d] from %s, want %s", i, result.Settlements[i].FromID, want)
		}
	}
}
