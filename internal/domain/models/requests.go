package models

// Requests for the portfolio HTTP endpoints. Defined in domain for consistency and reuse.

type PortfolioRequest struct {
	Sort  string `query:"sort" json:"sort" default:"none" validate:"oneof=none ticker value gain daily ytd"`
	Order string `query:"order" json:"order" default:"desc" validate:"oneof=asc desc"`
}

type HoldingRequest struct {
	Ticker string `param:"ticker" json:"ticker" validate:"required,max=16"`
}

type QuotesRequest struct {
	Symbols string `query:"symbols" json:"symbols" validate:"omitempty,max=512"`
}
