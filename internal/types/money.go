// README: Common money value object used across modules.
package types

// Money holds an amount in minor units (cents) so rounding happens once, at pricing time.
type Money struct {
	Amount   int64
	Currency string
}

// Major returns the amount in major units with two decimal places.
func (m Money) Major() float64 {
	return float64(m.Amount) / 100
}
