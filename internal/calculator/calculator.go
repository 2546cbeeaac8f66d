// Package calculator implements the bill-split settlement engine.
//
// ComputeSplits converts a session (roster, payer, entered total, line items)
// into the minimal set of payer-directed settlements that reconcile exactly,
// to the cent, with the entered total. The computation is a strictly linear
// pipeline:
//
//	validate → allocate → reconcile → generate
//
// It is pure: no I/O, no shared state, safe to call concurrently for
// independent sessions.
package calculator

import (
	"math"

	"github.com/tabscan/tabscan/internal/models"
)

// Defaults for Options. The original product shipped these as fixed
// constants without documented rationale, so they are kept configurable.
const (
	DefaultWarnVariancePct  = 1.0
	DefaultFatalVariancePct = 10.0
	DefaultMinSettlement    = models.Cents(1)
)

// Options tunes the engine's thresholds.
type Options struct {
	// WarnVariancePct is the allocated-vs-entered variance (percent) above
	// which a non-fatal totalVariance warning is emitted.
	WarnVariancePct float64

	// FatalVariancePct is the variance above which computation aborts with
	// TotalMismatchError. Must be >= WarnVariancePct.
	FatalVariancePct float64

	// MinSettlement is the noise floor: a participant whose adjusted total
	// does not exceed it gets no settlement.
	MinSettlement models.Cents
}

// DefaultOptions returns the thresholds the product has always used:
// warn above 1% variance, fail above 10%, drop settlements of a cent or less.
func DefaultOptions() Options {
	return Options{
		WarnVariancePct:  DefaultWarnVariancePct,
		FatalVariancePct: DefaultFatalVariancePct,
		MinSettlement:    DefaultMinSettlement,
	}
}

// withDefaults fills zero-valued fields so a zero Options behaves like
// DefaultOptions.
func (o Options) withDefaults() Options {
	if o.WarnVariancePct == 0 {
		o.WarnVariancePct = DefaultWarnVariancePct
	}
	if o.FatalVariancePct == 0 {
		o.FatalVariancePct = DefaultFatalVariancePct
	}
	if o.MinSettlement == 0 {
		o.MinSettlement = DefaultMinSettlement
	}
	return o
}

// Settlement is one computed payment obligation: From owes To (the payer)
// Amount, with a line-by-line derivation in Explanation.
type Settlement struct {
	FromID      string
	ToID        string
	Amount      models.Cents
	Explanation string
}

// Result is the output of a successful computation. Warnings are non-fatal
// and accompany a fully consistent settlement list.
type Result struct {
	Settlements []Settlement
	Warnings    []Warning
}

// ComputeSplits runs the full pipeline for one session.
//
// Fatal conditions (empty roster, no items, payer not on the roster,
// variance beyond the fatal threshold) abort before any settlement is
// generated. Everything else is reported as warnings alongside the result.
// Identical input always yields identical output, byte for byte.
func ComputeSplits(session *models.Session, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	warnings, err := validate(session)
	if err != nil {
		return nil, err
	}

	// A single person "splitting" a bill is valid but produces no transfers.
	if len(session.Participants) == 1 {
		return &Result{Settlements: []Settlement{}, Warnings: warnings}, nil
	}

	rawTotals := allocate(session)

	var allocated float64
	for _, v := range rawTotals {
		allocated += v
	}
	varianceWarn, err := checkVariance(allocated, session.EnteredTotal, opts)
	if err != nil {
		return nil, err
	}
	if varianceWarn != nil {
		warnings = append(warnings, *varianceWarn)
	}

	adjusted := reconcile(rawTotals, session.Participants, session.EnteredTotal)
	settlements := generate(session, adjusted, opts.MinSettlement)

	return &Result{Settlements: settlements, Warnings: warnings}, nil
}

// validate checks structural preconditions and collects the pre-allocation
// warnings. The variance check runs later, once allocation totals exist.
func validate(session *models.Session) ([]Warning, error) {
	if len(session.Participants) == 0 {
		return nil, ErrNoParticipants
	}
	if len(session.Items) == 0 {
		return nil, ErrNoItems
	}
	if !containsString(session.Participants, session.PayerID) {
		return nil, &InvalidPayerError{PayerID: session.PayerID}
	}

	var warnings []Warning
	unassigned := 0
	for _, item := range session.Items {
		if item.AssignedTo.Kind() == models.Unassigned {
			unassigned++
		}
	}
	if unassigned > 0 {
		warnings = append(warnings, newUnassignedItemsWarning(unassigned))
	}
	if len(session.Participants) == 1 {
		warnings = append(warnings, newSingleParticipantWarning())
	}
	return warnings, nil
}

// checkVariance compares the allocated total (fractional cents) against the
// entered total. Strictly above the fatal threshold the data is too
// inconsistent to trust; strictly above the warn threshold the caller gets a
// warning but a result is still produced.
func checkVariance(allocated float64, entered models.Cents, opts Options) (*Warning, error) {
	if entered <= 0 {
		// Nothing sane to reconcile against. Only acceptable if nothing was
		// allocated either.
		if math.Round(allocated) == 0 {
			return nil, nil
		}
		return nil, &TotalMismatchError{
			Allocated:   models.Cents(math.Round(allocated)),
			Expected:    entered,
			VariancePct: 100,
		}
	}

	pct := math.Abs(allocated-float64(entered)) / float64(entered) * 100
	if pct > opts.FatalVariancePct {
		return nil, &TotalMismatchError{
			Allocated:   models.Cents(math.Round(allocated)),
			Expected:    entered,
			VariancePct: pct,
		}
	}
	if pct > opts.WarnVariancePct {
		w := newTotalVarianceWarning(models.Cents(math.Round(allocated)), entered, pct)
		return &w, nil
	}
	return nil, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
