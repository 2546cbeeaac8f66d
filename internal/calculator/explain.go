package calculator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tabscan/tabscan/internal/models"
)

// defaultExplanation is used when a debtor has no items of their own, which
// happens when their whole share comes from cent reconciliation noise.
const defaultExplanation = "Your share of the bill"

// generate converts adjusted per-person totals into payer-directed
// settlements. Every non-payer whose total clears the noise floor gets
// exactly one settlement; the payer's own share stays implicit.
//
// Settlements sort by amount descending (largest debt first, a display
// convenience), with debtor name as tie-break so repeated runs are
// byte-identical.
func generate(session *models.Session, adjusted map[string]models.Cents, minSettlement models.Cents) []Settlement {
	settlements := make([]Settlement, 0, len(session.Participants)-1)
	for _, p := range session.Participants {
		if p == session.PayerID {
			continue
		}
		owed := adjusted[p]
		if owed <= minSettlement {
			continue
		}
		settlements = append(settlements, Settlement{
			FromID:      p,
			ToID:        session.PayerID,
			Amount:      owed,
			Explanation: explain(session, p),
		})
	}

	sort.SliceStable(settlements, func(i, j int) bool {
		if settlements[i].Amount != settlements[j].Amount {
			return settlements[i].Amount > settlements[j].Amount
		}
		return settlements[i].FromID < settlements[j].FromID
	})
	return settlements
}

// explain derives one line per item the person shares, e.g.
//
//	Pizza: $20.00 ÷ 2 = $10.00
//	Steak: $30.00
//	Beer (×2): $12.00 ÷ 3 = $4.00
func explain(session *models.Session, person string) string {
	var lines []string
	for _, item := range session.Items {
		var n int
		switch item.AssignedTo.Kind() {
		case models.Everyone:
			n = len(session.Participants)
		case models.Subset:
			if !item.AssignedTo.Includes(person) {
				continue
			}
			n = item.AssignedTo.Count()
		default:
			continue
		}
		lines = append(lines, explainLine(item, n))
	}
	if len(lines) == 0 {
		return defaultExplanation
	}
	return strings.Join(lines, "\n")
}

func explainLine(item models.LineItem, n int) string {
	label := item.Name
	if item.Quantity > 1 {
		label = fmt.Sprintf("%s (×%d)", item.Name, item.Quantity)
	}
	if n <= 1 {
		return fmt.Sprintf("%s: %s", label, item.Amount)
	}
	share := models.Cents(math.Round(float64(item.Amount) / float64(n)))
	return fmt.Sprintf("%s: %s ÷ %d = %s", label, item.Amount, n, share)
}
