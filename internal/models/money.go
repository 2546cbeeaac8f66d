package models

import (
	"fmt"
	"math"
)

// Cents is a monetary amount in whole US cents.
//
// All persisted and returned amounts use this type. Fractional cents exist
// only transiently inside the settlement engine, which reconciles them away
// before producing output.
type Cents int64

// CentsFromFloat converts a dollar amount (e.g. 12.34) to cents, rounding
// half away from zero. Used at JSON and storage boundaries only.
func CentsFromFloat(dollars float64) Cents {
	return Cents(math.Round(dollars * 100))
}

// Float returns the amount in dollars for JSON responses.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

// String formats the amount as a dollar string, e.g. "$3.34" or "-$0.05".
func (c Cents) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}
