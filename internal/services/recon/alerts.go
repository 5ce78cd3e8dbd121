package recon

import "github.com/shopspring/decimal"

// Business policy thresholds, in percent.
const (
	BonusRatioThresholdPct = 30
	RTPFloorPct            = 30
)

const (
	AlertInsufficientCash = "insufficient_cash"
	AlertBonusRatioHigh   = "bonus_ratio_high"
	AlertRTPLow           = "rtp_low"
)

// AlertInput carries the figures the health alerts are judged on.
type AlertInput struct {
	AvailableToOperator int64

	Principal  int64
	Bonus      int64
	Commission int64

	ScratchRevenue int64
	ScratchPayout  int64
	ScratchPlays   int64
}

// Alerts is the outcome of one evaluation with the ratios behind it.
type Alerts struct {
	InsufficientCash bool `json:"insufficient_cash"`
	BonusRatioHigh   bool `json:"bonus_ratio_high"`
	RTPLow           bool `json:"rtp_low"`

	BonusRatioPct decimal.Decimal `json:"bonus_ratio_pct"`
	ScratchRTPPct decimal.Decimal `json:"scratch_rtp_pct"`
}

// Raised lists the names of raised alerts in a fixed order.
func (a Alerts) Raised() []string {
	raised := make([]string, 0, 3)

	if a.InsufficientCash {
		raised = append(raised, AlertInsufficientCash)
	}

	if a.BonusRatioHigh {
		raised = append(raised, AlertBonusRatioHigh)
	}

	if a.RTPLow {
		raised = append(raised, AlertRTPLow)
	}

	return raised
}

// Any reports whether at least one alert is raised.
func (a Alerts) Any() bool {
	return a.InsufficientCash || a.BonusRatioHigh || a.RTPLow
}

// EvaluateAlerts applies the policy thresholds to in. Ratios with a zero
// denominator evaluate to zero.
func EvaluateAlerts(in AlertInput) Alerts {
	bonusRatio := pct(in.Bonus, in.Bonus+in.Principal+in.Commission)
	rtp := pct(in.ScratchPayout, in.ScratchRevenue)

	return Alerts{
		InsufficientCash: in.AvailableToOperator < 0,
		BonusRatioHigh:   bonusRatio.GreaterThan(decimal.NewFromInt(BonusRatioThresholdPct)),
		// no plays means no evidence; do not alarm on idle periods
		RTPLow: in.ScratchPlays > 0 && rtp.LessThan(decimal.NewFromInt(RTPFloorPct)),

		BonusRatioPct: round(bonusRatio),
		ScratchRTPPct: round(rtp),
	}
}
