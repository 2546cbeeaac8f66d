package calculator

import (
	"math"
	"sort"

	"github.com/tabscan/tabscan/internal/models"
)

// reconcile converts raw fractional-cent totals into whole cents that sum to
// the entered total exactly.
//
// Each person's total is rounded to the nearest cent, then the signed
// remainder against the entered total is distributed one cent at a time,
// round-robin over the lexicographically sorted roster. Sorting by name (not
// by allocation size) keeps the distribution deterministic and reproducible.
// By construction the adjusted totals sum to enteredTotal, so a $10.00 item
// split three ways yields $3.33/$3.33/$3.34 — never $9.99.
func reconcile(raw map[string]float64, participants []string, enteredTotal models.Cents) map[string]models.Cents {
	adjusted := make(map[string]models.Cents, len(raw))
	var sum models.Cents
	for person, v := range raw {
		c := models.Cents(math.Round(v))
		adjusted[person] = c
		sum += c
	}

	remainder := int64(enteredTotal - sum)
	if remainder == 0 || len(participants) == 0 {
		return adjusted
	}

	order := make([]string, len(participants))
	copy(order, participants)
	sort.Strings(order)

	step := models.Cents(1)
	if remainder < 0 {
		step = -1
		remainder = -remainder
	}
	for i := int64(0); i < remainder; i++ {
		adjusted[order[i%int64(len(order))]] += step
	}

	return adjusted
}
