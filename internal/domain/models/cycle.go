package models

import "time"

// Cycle is the immutable result of one refresh pass, handed to every sink.
type Cycle struct {
	At         time.Time             `json:"at"`
	Holdings   []HoldingPerformance  `json:"holdings"`
	Omissions  []OmissionError       `json:"omissions,omitempty"`
	Rejections []Rejection           `json:"rejections,omitempty"`
	Summary    *PortfolioPerformance `json:"summary"`
}

// Empty reports that no holding produced a performance record.
func (c *Cycle) Empty() bool { return c == nil || c.Summary == nil }

// Holding returns the performance record for ticker, if it was evaluated.
func (c *Cycle) Holding(ticker string) (HoldingPerformance, bool) {
	if c == nil {
		return HoldingPerformance{}, false
	}
	for _, h := range c.Holdings {
		if h.Ticker == ticker {
			return h, true
		}
	}
	return HoldingPerformance{}, false
}
