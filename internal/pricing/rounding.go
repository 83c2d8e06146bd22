package pricing

import "github.com/shopspring/decimal"

var five = decimal.NewFromInt(5)

// ApplyRounding snaps an amount per the rule. The operation is idempotent:
// applying a rule to an already-rounded value returns it unchanged.
func ApplyRounding(amount decimal.Decimal, rule RoundingRule) decimal.Decimal {
	switch rule {
	case RoundDollar:
		return amount.Round(0)
	case RoundNearest:
		return amount.Div(five).Round(0).Mul(five)
	default:
		return amount
	}
}

// roundMoney rounds to currency precision. Every emitted line amount goes
// through this so the renderer never does pricing math.
func roundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
