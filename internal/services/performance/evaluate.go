package performance

import (
	"errors"

	"FolioPull/internal/domain/models"
)

// Input pairs a holding with what the provider returned for it.
// Err is set when the fetch failed; Snapshot is then ignored.
type Input struct {
	Holding  models.Holding
	Snapshot *models.MarketSnapshot
	Err      error
}

// Result is the outcome of a compute→aggregate pass.
type Result struct {
	Holdings  []models.HoldingPerformance
	Omissions []models.OmissionError
	// Summary is nil when no holding could be evaluated.
	Summary *models.PortfolioPerformance
}

// Evaluate runs the calculator over every input in order and aggregates the
// records that could be computed. A failed fetch omits only its own holding.
func Evaluate(inputs []Input) Result {
	var res Result
	res.Holdings = make([]models.HoldingPerformance, 0, len(inputs))

	for _, in := range inputs {
		if in.Err != nil {
			res.Omissions = append(res.Omissions, *models.OmissionFromFetch(in.Holding.Ticker, in.Err))
			continue
		}
		p, err := Compute(in.Holding, in.Snapshot)
		if err != nil {
			var om *models.OmissionError
			if errors.As(err, &om) {
				res.Omissions = append(res.Omissions, *om)
				continue
			}
			res.Omissions = append(res.Omissions, models.OmissionError{Ticker: in.Holding.Ticker, Reason: models.OmitMissingPrice, Detail: err.Error()})
			continue
		}
		res.Holdings = append(res.Holdings, p)
	}

	if summary, ok := Aggregate(res.Holdings, len(res.Omissions)); ok {
		res.Summary = &summary
	}
	return res
}
