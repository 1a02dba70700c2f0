package render

import (
	"FolioPull/internal/domain/models"
	"FolioPull/pkg/util"

	"github.com/shopspring/decimal"
)

// NA is shown wherever a metric is undefined.
const NA = "N/A"

// Sign classifies a cell for coloring.
type Sign int

const (
	Neutral Sign = iota
	Positive
	Negative
)

// Cell is one formatted value.
type Cell struct {
	Text string
	Sign Sign
}

// Columns is the export column set, in order.
var Columns = []string{
	"Stock", "Shares", "Current Price", "Daily $", "Daily %",
	"Current Value", "Gain/Loss", "% Change", "YTD %",
}

// SummaryLine is one row of the portfolio summary block.
type SummaryLine struct {
	Label   string
	Value   Cell
	Percent *Cell
}

// Report is a cycle formatted for display. Every sink renders from it so the
// terminal, CSV and web views always agree.
type Report struct {
	Rows      [][]Cell
	Summary   []SummaryLine
	Omissions []models.OmissionError
	Updated   string
	Empty     bool
}

// BuildReport formats c. Holdings keep definition order.
func BuildReport(c *models.Cycle) Report {
	r := Report{Empty: c.Empty()}
	if c == nil {
		return r
	}
	r.Updated = util.FormatStamp(c.At)
	r.Omissions = c.Omissions

	for _, h := range c.Holdings {
		daily := Cell{Text: NA}
		if h.HasDailyData() {
			daily = SignedMoney(h.DailyValueChange)
		}
		r.Rows = append(r.Rows, []Cell{
			{Text: h.Ticker},
			{Text: h.Shares.String()},
			Money(h.CurrentPrice),
			daily,
			SignedPercent(h.DailyChangePercent),
			Money(h.CurrentValue),
			SignedMoney(h.GainLoss),
			SignedPercent(h.GainLossPercent),
			SignedPercent(h.YTDChange),
		})
	}

	if s := c.Summary; s != nil {
		dailyPct := SignedPercent(decimal.NewNullDecimal(s.TotalDailyChangePercent))
		gainPct := SignedPercent(s.TotalGainLossPercent)
		ytdPct := SignedPercent(s.TotalYTDPercent)
		ytd := Cell{Text: NA}
		if s.TotalYTDGainLoss.Valid {
			ytd = SignedMoney(s.TotalYTDGainLoss.Decimal)
		}
		r.Summary = []SummaryLine{
			{Label: "Total Investment:", Value: Money(s.TotalInvestment)},
			{Label: "Current Value:", Value: Money(s.TotalCurrentValue)},
			{Label: "Daily Change:", Value: SignedMoney(s.TotalDailyChange), Percent: &dailyPct},
			{Label: "Total Gain/Loss:", Value: SignedMoney(s.TotalGainLoss), Percent: &gainPct},
			{Label: "YTD Performance:", Value: ytd, Percent: &ytdPct},
		}
	}
	return r
}

// Money formats d as "$1234.50".
func Money(d decimal.Decimal) Cell {
	return Cell{Text: "$" + d.StringFixed(2)}
}

// SignedMoney formats d as "$+12.00" or "$-12.00".
func SignedMoney(d decimal.Decimal) Cell {
	sign, s := signOf(d)
	return Cell{Text: "$" + sign + d.Abs().StringFixed(2), Sign: s}
}

// SignedPercent formats d as "+1.25%", or NA when undefined.
func SignedPercent(d decimal.NullDecimal) Cell {
	if !d.Valid {
		return Cell{Text: NA}
	}
	sign, s := signOf(d.Decimal)
	return Cell{Text: sign + d.Decimal.Abs().StringFixed(2) + "%", Sign: s}
}

func signOf(d decimal.Decimal) (string, Sign) {
	if d.IsNegative() {
		return "-", Negative
	}
	return "+", Positive
}

// Texts returns the text of each cell.
func Texts(cells []Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.Text
	}
	return out
}
