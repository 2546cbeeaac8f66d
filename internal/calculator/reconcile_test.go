package calculator

import (
	"testing"

	"github.com/tabscan/tabscan/internal/models"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name         string
		raw          map[string]float64
		participants []string
		enteredTotal models.Cents
		want         map[string]models.Cents
	}{
		{
			name:         "already exact",
			raw:          map[string]float64{"Alice": 1000, "Bob": 1000},
			participants: []string{"Alice", "Bob"},
			enteredTotal: 2000,
			want:         map[string]models.Cents{"Alice": 1000, "Bob": 1000},
		},
		{
			name:         "missing penny goes to the first sorted name",
			raw:          map[string]float64{"Alice": 333.3334, "Bob": 333.3334, "Carol": 333.3334},
			participants: []string{"Carol", "Bob", "Alice"},
			enteredTotal: 1000,
			want:         map[string]models.Cents{"Alice": 334, "Bob": 333, "Carol": 333},
		},
		{
			name:         "surplus cents removed round-robin",
			raw:          map[string]float64{"Alice": 166.6667, "Bob": 166.6667, "Carol": 166.6667},
			participants: []string{"Alice", "Bob", "Carol"},
			enteredTotal: 500,
			want:         map[string]models.Cents{"Alice": 166, "Bob": 167, "Carol": 167},
		},
		{
			name:         "large deficit wraps the roster",
			raw:          map[string]float64{"Alice": 100, "Bob": 100},
			participants: []string{"Bob", "Alice"},
			enteredTotal: 205,
			want:         map[string]models.Cents{"Alice": 103, "Bob": 102},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcile(tt.raw, tt.participants, tt.enteredTotal)

			var sum models.Cents
			for person, want := range tt.want {
				if got[person] != want {
					t.Errorf("%s = %s, want %s", person, got[person], want)
				}
				sum += got[person]
			}
			if sum != tt.enteredTotal {
				t.Errorf("sum = %s, want exactly %s", sum, tt.enteredTotal)
			}
		})
	}
}
