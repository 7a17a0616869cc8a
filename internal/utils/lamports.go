package utils

import "github.com/shopspring/decimal"

const LamportsPerSOL = 1_000_000_000

// LamportsToSOL converts lamports to whole SOL.
func LamportsToSOL(lamports int64) decimal.Decimal {
	return decimal.New(lamports, 0).Div(decimal.New(LamportsPerSOL, 0))
}

// FormatSOL renders lamports as a SOL amount with up to nine decimals.
func FormatSOL(lamports int64) string {
	return LamportsToSOL(lamports).String()
}
