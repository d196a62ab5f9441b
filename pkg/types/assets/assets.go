package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// HistoryWindow is the number of most recent daily points the detail view shows.
const HistoryWindow = 30

var ErrInvalidIdentifier = errors.New("invalid asset identifier")

// Summary mirrors the CoinCap asset payload. Numeric fields stay as the
// decimal strings the API sends.
type Summary struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Symbol            string `json:"symbol"`
	Rank              int    `json:"rank"`
	PriceUsd          string `json:"priceUsd"`
	MarketCapUsd      string `json:"marketCapUsd"`
	VolumeUsd24Hr     string `json:"volumeUsd24Hr"`
	Supply            string `json:"supply"`
	MaxSupply         string `json:"maxSupply,omitempty"`
	ChangePercent24Hr string `json:"changePercent24Hr,omitempty"`
	Vwap24Hr          string `json:"vwap24Hr,omitempty"`
}

// HistoryPoint is one daily price observation.
type HistoryPoint struct {
	Date     time.Time `json:"date"`
	PriceUsd string    `json:"priceUsd"`
	Time     int64     `json:"time,omitempty"`
}

type ViewModel struct {
	Asset   Summary        `json:"asset"`
	History []HistoryPoint `json:"history"`
}

// DetailFetcher loads everything the detail view needs for one asset.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, id string) (*ViewModel, error)
}

// ValidateIdentifier reports whether id can be used as a single URL path segment.
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	if id == "." || id == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	if strings.ContainsAny(id, "/?#%\\ \t\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return nil
}

// NetworkError is returned when the API answers with a non-success status.
type NetworkError struct {
	URL        string
	StatusCode int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network response was not ok: unexpected status code: %d (%s)", e.StatusCode, e.URL)
}

// TransportError is returned when a request could not be sent or its body read.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a body is not valid JSON or lacks the data field.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
