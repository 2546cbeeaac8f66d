package calculator

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/tabscan/tabscan/internal/models"
)

func session(participants []string, payer string, total models.Cents, items ...models.LineItem) *models.Session {
	return &models.Session{
		Participants: participants,
		PayerID:      payer,
		EnteredTotal: total,
		Items:        items,
	}
}

func item(name string, qty int, amount models.Cents, assignedTo ...string) models.LineItem {
	return models.LineItem{
		Name:       name,
		Quantity:   qty,
		Amount:     amount,
		AssignedTo: models.ParseAssignment(assignedTo),
	}
}

func TestComputeSplits(t *testing.T) {
	tests := []struct {
		name         string
		session      *models.Session
		wantErr      error
		validateFunc func(t *testing.T, result *Result)
	}{
		{
			name: "two-person shared pizza",
			session: session([]string{"Alice", "Bob"}, "Alice", 2000,
				item("Pizza", 1, 2000, "Alice", "Bob"),
			),
			validateFunc: func(t *testing.T, result *Result) {
				if len(result.Settlements) != 1 {
					t.Fatalf("settlements = %d, want 1", len(result.Settlements))
				}
				s := result.Settlements[0]
				if s.FromID != "Bob" || s.ToID != "Alice" {
					t.Errorf("settlement = %s -> %s, want Bob -> Alice", s.FromID, s.ToID)
				}
				if s.Amount != 1000 {
					t.Errorf("amount = %s, want $10.00", s.Amount)
				}
				if len(result.Warnings) != 0 {
					t.Errorf("warnings = %v, want none", result.Warnings)
				}
			},
		},
		{
			name: "everyone sentinel splits across the full roster",
			session: session([]string{"Alice", "Bob", "Carol"}, "Alice", 500,
				item("Tax", 1, 500, models.SentinelAll),
			),
			validateFunc: func(t *testing.T, result *Result) {
				if len(result.Settlements) != 2 {
					t.Fatalf("settlements = %d, want 2", len(result.Settlements))
				}
				// Raw shares are $1.67/$1.67/$1.67 after rounding; the extra
				// cent is removed from Alice (lexicographically first), so
				// both debtors owe $1.67 and Alice's implicit share is $1.66.
				var debtorSum models.Cents
				for _, s := range result.Settlements {
					if s.ToID != "Alice" {
						t.Errorf("settlement directed at %s, want Alice", s.ToID)
					}
					if s.Amount != 167 {
						t.Errorf("%s owes %s, want $1.67", s.FromID, s.Amount)
					}
					if !strings.Contains(s.Explanation, "÷ 3 =") {
						t.Errorf("explanation %q missing division by roster size", s.Explanation)
					}
					debtorSum += s.Amount
				}
				if debtorSum != 334 {
					t.Errorf("debtor sum = %s, want $3.34", debtorSum)
				}
			},
		},
		{
			name: "payer consumed everything, nothing to settle",
			session: session([]string{"Alice", "Bob"}, "Alice", 4500,
				item("Steak", 1, 3000, "Alice"),
				item("Wine", 1, 1500, "Alice"),
			),
			validateFunc: func(t *testing.T, result *Result) {
				if len(result.Settlements) != 0 {
					t.Errorf("settlements = %v, want none", result.Settlements)
				}
			},
		},
		{
			name: "ten dollars three ways reconciles exactly",
			session: session([]string{"Alice", "Bob", "Carol"}, "Alice", 1000,
				item("Cab", 1, 1000, models.SentinelAll),
			),
			validateFunc: func(t *testing.T, result *Result) {
				// Alice absorbs the extra cent, Bob and Carol owe $3.33 each.
				var sum models.Cents
				for _, s := range result.Settlements {
					sum += s.Amount
				}
				if sum != 666 {
					t.Errorf("debtor sum = %s, want $6.66 so the total is exactly $10.00", sum)
				}
			},
		},
		{
			name: "variance within warn threshold is silent",
			session: session([]string{"Alice", "Bob"}, "Alice", 10000,
				item("Dinner", 1, 9900, "Alice", "Bob"),
			),
			validateFunc: func(t *testing.T, result *Result) {
				// 1.0% variance sits exactly at the warn bound: no warning.
				if len(result.Warnings) != 0 {
					t.Errorf("warnings = %v, want none at exactly 1%%", result.Warnings)
				}
			},
		},
		{
			name: "variance between thresholds warns but still settles",
			session: session([]string{"Alice", "Bob"}, "Alice", 10000,
				item("Dinner", 1, 9500, "Alice", "Bob"),
			),
			validateFunc: func(t *testing.T, result *Result) {
				if len(result.Warnings) != 1 || result.Warnings[0].Code != WarnTotalVariance {
					t.Fatalf("warnings = %v, want one total_variance", result.Warnings)
				}
				w := result.Warnings[0]
				if w.Allocated != 9500 || w.Expected != 10000 {
					t.Errorf("warning amounts = %s vs %s, want $95.00 vs $100.00", w.Allocated, w.Expected)
				}
				// Reconciliation still forces the entered total: the missing
				// $5.00 is spread a cent at a time over both participants.
				if len(result.Settlements) != 1 || result.Settlements[0].Amount != 5000 {
					t.Errorf("settlements = %v, want Bob owing $50.00", result.Settlements)
				}
			},
		},
		{
			name: "variance at exactly the fatal bound is still a warning",
			session: session([]string{"Alice", "Bob"}, "Alice", 10000,
				item("Dinner", 1, 9000, "Alice", "Bob"),
			),
			validateFunc: func(t *testing.T, result *Result) {
				if len(result.Warnings) != 1 || result.Warnings[0].Code != WarnTotalVariance {
					t.Errorf("warnings = %v, want one total_variance at exactly 10%%", result.Warnings)
				}
			},
		},
		{
			name: "variance beyond the fatal bound aborts",
			session: session([]string{"Alice", "Bob"}, "Alice", 10000,
				item("Dinner", 1, 8900, "Alice", "Bob"),
			),
			wantErr: &TotalMismatchError{},
		},
		{
			name: "unassigned items warn and contribute nothing",
			session: session([]string{"Alice", "Bob"}, "Alice", 2000,
				item("Pizza", 1, 2000, "Alice", "Bob"),
				item("Mystery", 1, 300),
			),
			validateFunc: func(t *testing.T, result *Result) {
				if len(result.Warnings) != 1 || result.Warnings[0].Code != WarnUnassignedItems {
					t.Fatalf("warnings = %v, want one unassigned_items", result.Warnings)
				}
				if result.Warnings[0].UnassignedCount != 1 {
					t.Errorf("unassigned count = %d, want 1", result.Warnings[0].UnassignedCount)
				}
				if len(result.Settlements) != 1 || result.Settlements[0].Amount != 1000 {
					t.Errorf("settlements = %v, want Bob owing $10.00", result.Settlements)
				}
			},
		},
		{
			name: "single participant settles nothing",
			session: session([]string{"Alice"}, "Alice", 1000,
				item("Lunch", 1, 1000, "Alice"),
			),
			validateFunc: func(t *testing.T, result *Result) {
				if len(result.Settlements) != 0 {
					t.Errorf("settlements = %v, want none", result.Settlements)
				}
				if len(result.Warnings) != 1 || result.Warnings[0].Code != WarnSingleParticipant {
					t.Errorf("warnings = %v, want one single_participant", result.Warnings)
				}
			},
		},
		{
			name:    "empty roster",
			session: session(nil, "Alice", 1000, item("Lunch", 1, 1000, "Alice")),
			wantErr: ErrNoParticipants,
		},
		{
			name:    "no items",
			session: session([]string{"Alice", "Bob"}, "Alice", 1000),
			wantErr: ErrNoItems,
		},
		{
			name: "payer not on roster",
			session: session([]string{"Alice", "Bob"}, "Dave", 1000,
				item("Lunch", 1, 1000, "Alice"),
			),
			wantErr: &InvalidPayerError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeSplits(tt.session, DefaultOptions())
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("ComputeSplits() succeeded, want error %v", tt.wantErr)
				}
				switch want := tt.wantErr.(type) {
				case *InvalidPayerError:
					var got *InvalidPayerError
					if !errors.As(err, &got) {
						t.Fatalf("error = %v, want InvalidPayerError", err)
					}
					if got.PayerID != tt.session.PayerID {
						t.Errorf("payer in error = %q, want %q", got.PayerID, tt.session.PayerID)
					}
				case *TotalMismatchError:
					var got *TotalMismatchError
					if !errors.As(err, &got) {
						t.Fatalf("error = %v, want TotalMismatchError", err)
					}
					if got.VariancePct <= DefaultFatalVariancePct {
						t.Errorf("variance = %.2f%%, want above %.1f%%", got.VariancePct, DefaultFatalVariancePct)
					}
				default:
					if !errors.Is(err, want) {
						t.Fatalf("error = %v, want %v", err, want)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeSplits() error = %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, result)
			}
		})
	}
}

// Settlements plus the payer's implicit share always equal the entered total
// exactly, and no settlement ever targets the payer as debtor.
func TestComputeSplits_ExactSumInvariant(t *testing.T) {
	sessions := []*models.Session{
		session([]string{"Alice", "Bob", "Carol"}, "Alice", 1000,
			item("Cab", 1, 1000, models.SentinelAll)),
		session([]string{"Alice", "Bob", "Carol", "Dan"}, "Carol", 8750,
			item("Apps", 1, 2150, models.SentinelAll),
			item("Mains", 1, 5600, "Alice", "Bob", "Dan"),
			item("Dessert", 2, 1000, "Carol")),
		session([]string{"Bob", "Alice"}, "Bob", 33333,
			item("Rent share", 1, 33333, "Alice", "Bob")),
	}

	for _, s := range sessions {
		result, err := ComputeSplits(s, DefaultOptions())
		if err != nil {
			t.Fatalf("ComputeSplits() error = %v", err)
		}

		// Reconstruct the payer's implicit share from the adjusted totals.
		adjusted := reconcile(allocate(s), s.Participants, s.EnteredTotal)
		sum := adjusted[s.PayerID]
		for _, st := range result.Settlements {
			if st.FromID == s.PayerID {
				t.Errorf("payer %s appears as debtor", s.PayerID)
			}
			if st.Amount <= DefaultMinSettlement {
				t.Errorf("settlement amount %s at or below noise floor", st.Amount)
			}
			sum += st.Amount
		}
		// Participants filtered out by the noise floor contribute their
		// (tiny) adjusted totals too.
		for _, p := range s.Participants {
			if p == s.PayerID {
				continue
			}
			if adjusted[p] <= DefaultMinSettlement {
				sum += adjusted[p]
			}
		}
		if sum != s.EnteredTotal {
			t.Errorf("sum = %s, want %s", sum, s.EnteredTotal)
		}
	}
}

func TestComputeSplits_Deterministic(t *testing.T) {
	s := session([]string{"Dan", "Alice", "Carol", "Bob"}, "Carol", 10000,
		item("Tapas", 1, 4000, models.SentinelAll),
		item("Paella", 1, 3500, "Alice", "Bob"),
		item("Sangria", 2, 2500, models.SentinelAll),
	)

	first, err := ComputeSplits(s, DefaultOptions())
	if err != nil {
		t.Fatalf("ComputeSplits() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := ComputeSplits(s, DefaultOptions())
		if err != nil {
			t.Fatalf("ComputeSplits() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\nfirst = %+v\nagain = %+v", i, first, again)
		}
	}
}

func TestComputeSplits_CustomThresholds(t *testing.T) {
	// 5% variance: fatal with a tightened threshold, silent with a loose one.
	s := session([]string{"Alice", "Bob"}, "Alice", 10000,
		item("Dinner", 1, 9500, "Alice", "Bob"),
	)

	strict := Options{WarnVariancePct: 0.5, FatalVariancePct: 4, MinSettlement: 1}
	if _, err := ComputeSplits(s, strict); err == nil {
		t.Error("strict thresholds: want TotalMismatchError, got success")
	}

	loose := Options{WarnVariancePct: 6, FatalVariancePct: 20, MinSettlement: 1}
	result, err := ComputeSplits(s, loose)
	if err != nil {
		t.Fatalf("loose thresholds: error = %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("loose thresholds: warnings = %v, want none", result.Warnings)
	}
}
