package calculator

import (
	"github.com/tabscan/tabscan/internal/models"
)

// allocate distributes each item's cost across its assignment set, returning
// raw per-person totals in fractional cents. Every roster member gets an
// entry, zero-initialized, so downstream stages see the full roster.
//
// Quantity is already baked into the item amount and is never re-multiplied.
func allocate(session *models.Session) map[string]float64 {
	totals := make(map[string]float64, len(session.Participants))
	for _, p := range session.Participants {
		totals[p] = 0
	}

	for _, item := range session.Items {
		switch item.AssignedTo.Kind() {
		case models.Everyone:
			share := float64(item.Amount) / float64(len(session.Participants))
			for _, p := range session.Participants {
				totals[p] += share
			}

		case models.Subset:
			names := item.AssignedTo.Participants()
			if len(names) == 0 {
				// Cannot happen given the Assignment invariant, but a zero
				// divisor here would poison every total downstream.
				continue
			}
			share := float64(item.Amount) / float64(len(names))
			for _, p := range names {
				// Names not on the roster get no bucket; the lost share
				// surfaces through the variance check.
				if _, ok := totals[p]; ok {
					totals[p] += share
				}
			}

		default:
			// Unassigned: contributes nothing, already warned about.
		}
	}

	return totals
}
