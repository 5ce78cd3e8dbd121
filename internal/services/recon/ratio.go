package recon

import "github.com/shopspring/decimal"

const reportPlaces = 2

var hundred = decimal.NewFromInt(100)

// pct returns num/den*100, or zero when den is zero.
func pct(num, den int64) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}

	return decimal.NewFromInt(num).Mul(hundred).Div(decimal.NewFromInt(den))
}

// ratio returns num/den, or zero when den is zero.
func ratio(num, den int64) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}

	return decimal.NewFromInt(num).Div(decimal.NewFromInt(den))
}

// avgMinor is num/den rounded half away from zero to a whole minor unit.
func avgMinor(num, den int64) int64 {
	return ratio(num, den).Round(0).IntPart()
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(reportPlaces)
}
