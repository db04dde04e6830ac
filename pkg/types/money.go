package types

import "github.com/shopspring/decimal"

// Dollars renders integer cents as a fixed two-place decimal for the tool
// boundary. Money is stored and summed in cents everywhere else.
func Dollars(cents int) decimal.Decimal {
	return decimal.New(int64(cents), -2)
}
