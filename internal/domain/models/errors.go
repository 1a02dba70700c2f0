package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHolding marks a portfolio record that violates holding invariants.
	ErrInvalidHolding = errors.New("invalid holding")
	// ErrMissingCurrentPrice marks a holding that cannot be evaluated this cycle.
	ErrMissingCurrentPrice = errors.New("missing current price")
	// ErrEmptyAggregate is reported when no holding produced a record in a cycle.
	ErrEmptyAggregate = errors.New("no holding could be evaluated")
)

// ValidationError describes why a holding was rejected.
type ValidationError struct {
	Ticker string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("holding %q: %s", e.Ticker, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidHolding }

// OmitReason classifies why a holding was left out of a cycle.
type OmitReason string

const (
	OmitMissingPrice OmitReason = "missing_current_price"
	OmitNotFound     OmitReason = "not_found"
	OmitNetwork      OmitReason = "network"
	OmitNoData       OmitReason = "no_data"
)

// OmissionError reports a holding skipped for the current cycle.
type OmissionError struct {
	Ticker string     `json:"ticker"`
	Reason OmitReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

func (e *OmissionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s omitted (%s): %s", e.Ticker, e.Reason, e.Detail)
	}
	return fmt.Sprintf("%s omitted (%s)", e.Ticker, e.Reason)
}

func (e *OmissionError) Unwrap() error { return ErrMissingCurrentPrice }

// FetchErrorKind classifies provider failures.
type FetchErrorKind int

const (
	FetchNotFound FetchErrorKind = iota + 1
	FetchNetwork
	FetchNoData
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchNotFound:
		return "not_found"
	case FetchNetwork:
		return "network"
	case FetchNoData:
		return "no_data"
	default:
		return "unknown"
	}
}

// FetchError is returned by snapshot providers.
type FetchError struct {
	Kind   FetchErrorKind
	Ticker string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.Ticker, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.Ticker, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError builds a FetchError.
func NewFetchError(kind FetchErrorKind, ticker string, err error) *FetchError {
	return &FetchError{Kind: kind, Ticker: ticker, Err: err}
}

// OmissionFromFetch maps any provider error to an omission of the holding.
func OmissionFromFetch(ticker string, err error) *OmissionError {
	o := &OmissionError{Ticker: ticker, Reason: OmitNetwork, Detail: err.Error()}
	var fe *FetchError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case FetchNotFound:
			o.Reason = OmitNotFound
		case FetchNoData:
			o.Reason = OmitNoData
		}
	}
	return o
}
