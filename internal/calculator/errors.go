package calculator

import (
	"errors"
	"fmt"

	"github.com/tabscan/tabscan/internal/models"
)

// Fatal errors abort the pipeline before any settlement is generated.
var (
	ErrNoParticipants = errors.New("session has no participants")
	ErrNoItems        = errors.New("session has no items")
)

// InvalidPayerError reports a payer that is not on the session roster.
type InvalidPayerError struct {
	PayerID string
}

func (e *InvalidPayerError) Error() string {
	return fmt.Sprintf("payer %q is not a session participant", e.PayerID)
}

// TotalMismatchError reports item allocations that diverge from the entered
// total by more than the fatal variance threshold.
type TotalMismatchError struct {
	Allocated   models.Cents
	Expected    models.Cents
	VariancePct float64
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("allocated %s does not match entered total %s (%.1f%% variance)",
		e.Allocated, e.Expected, e.VariancePct)
}

// WarningCode identifies a non-fatal condition returned alongside a result.
type WarningCode string

const (
	WarnTotalVariance     WarningCode = "total_variance"
	WarnUnassignedItems   WarningCode = "unassigned_items"
	WarnSingleParticipant WarningCode = "single_participant"
)

// Warning is a non-fatal finding. Code discriminates the variant; the
// remaining fields are populated per code.
type Warning struct {
	Code    WarningCode
	Message string

	// Set for WarnTotalVariance.
	Allocated   models.Cents
	Expected    models.Cents
	VariancePct float64

	// Set for WarnUnassignedItems.
	UnassignedCount int
}

func newTotalVarianceWarning(allocated, expected models.Cents, pct float64) Warning {
	return Warning{
		Code: WarnTotalVariance,
		Message: fmt.Sprintf("items allocate to %s but the entered total is %s (%.1f%% variance)",
			allocated, expected, pct),
		Allocated:   allocated,
		Expected:    expected,
		VariancePct: pct,
	}
}

func newUnassignedItemsWarning(count int) Warning {
	return Warning{
		Code:            WarnUnassignedItems,
		Message:         fmt.Sprintf("%d item(s) have no assignees and contribute nothing to the split", count),
		UnassignedCount: count,
	}
}

func newSingleParticipantWarning() Warning {
	return Warning{
		Code:    WarnSingleParticipant,
		Message: "only one participant; nothing to settle",
	}
}
