package recon

import (
	"github.com/shopspring/decimal"

	"github.com/fastprodman/finrecon/internal/domain"
)

// LineInput is the raw material for one product line. Payout is passed in
// explicitly so a line that pays cash prizes is handled like any other.
type LineInput struct {
	Line         domain.ProductLine
	Revenue      int64
	Payout       int64
	Plays        int64
	WinningPlays int64
}

// LineMargin is the margin and RTP of one product line.
type LineMargin struct {
	Line         domain.ProductLine `json:"line"`
	Revenue      int64              `json:"revenue"`
	Payout       int64              `json:"payout"`
	Plays        int64              `json:"plays"`
	WinningPlays int64              `json:"winning_plays"`
	MarginPct    decimal.Decimal    `json:"margin_pct"`
	RTPPct       decimal.Decimal    `json:"rtp_pct"`
}

// RevenueMargins holds per-line rows and the totals across lines.
type RevenueMargins struct {
	Lines     []LineMargin    `json:"lines"`
	Revenue   int64           `json:"revenue"`
	Payout    int64           `json:"payout"`
	Plays     int64           `json:"plays"`
	MarginPct decimal.Decimal `json:"margin_pct"`
}

// Line returns the margin row for l, zero-valued when absent.
func (m RevenueMargins) Line(l domain.ProductLine) LineMargin {
	for _, lm := range m.Lines {
		if lm.Line == l {
			return lm
		}
	}

	return LineMargin{Line: l}
}

// ComputeMargins derives margin and RTP percentages per line and overall,
// keeping the order of lines. A line with no revenue reports zero for both.
func ComputeMargins(lines []LineInput) RevenueMargins {
	out := RevenueMargins{Lines: make([]LineMargin, 0, len(lines))}

	for _, in := range lines {
		out.Lines = append(out.Lines, LineMargin{
			Line:         in.Line,
			Revenue:      in.Revenue,
			Payout:       in.Payout,
			Plays:        in.Plays,
			WinningPlays: in.WinningPlays,
			MarginPct:    round(pct(in.Revenue-in.Payout, in.Revenue)),
			RTPPct:       round(pct(in.Payout, in.Revenue)),
		})

		out.Revenue += in.Revenue
		out.Payout += in.Payout
		out.Plays += in.Plays
	}

	out.MarginPct = round(pct(out.Revenue-out.Payout, out.Revenue))

	return out
}

// LinesFromPlays groups plays into one LineInput per known product line, in
// domain.ProductLines order. Plays of an unknown line get their own entry after.
func LinesFromPlays(plays []domain.Play) []LineInput {
	idx := make(map[domain.ProductLine]int, len(domain.ProductLines))
	lines := make([]LineInput, 0, len(domain.ProductLines))

	for _, l := range domain.ProductLines {
		idx[l] = len(lines)
		lines = append(lines, LineInput{Line: l})
	}

	for _, p := range plays {
		i, ok := idx[p.Line]
		if !ok {
			i = len(lines)
			idx[p.Line] = i
			lines = append(lines, LineInput{Line: p.Line})
		}

		li := &lines[i]
		li.Revenue += p.Price
		li.Plays++

		if p.PrizeWon > 0 {
			li.Payout += p.PrizeWon
			li.WinningPlays++
		}
	}

	return lines
}
