// Package market_hours decides whether a rebalance may execute at a given instant.
package market_hours

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
)

// DefaultTimezone is used when no market timezone is configured
const DefaultTimezone = "America/New_York"

// TradingWindow is the daily open interval [Open, Close)
type TradingWindow struct {
	OpenHour    int
	OpenMinute  int
	CloseHour   int
	CloseMinute int
}

// DefaultTradingWindow is 09:00-16:00
var DefaultTradingWindow = TradingWindow{OpenHour: 9, CloseHour: 16}

// MarketStatus describes the market at a point in time
type MarketStatus struct {
	Timezone  string `json:"timezone"`
	ClosesAt  string `json:"closes_at,omitempty"`
	OpensAt   string `json:"opens_at,omitempty"`
	OpensDate string `json:"opens_date,omitempty"`
	Open      bool   `json:"open"`
}

// MarketHoursService checks instants against a weekday trading window
type MarketHoursService struct {
	location *time.Location
	window   TradingWindow
	log      zerolog.Logger
}

// NewMarketHoursService creates a service for the named IANA timezone.
// An empty name uses DefaultTimezone.
func NewMarketHoursService(timezone string, log zerolog.Logger) (*MarketHoursService, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load market timezone %q: %w", timezone, err)
	}
	return NewMarketHoursServiceIn(loc, DefaultTradingWindow, log), nil
}

// NewMarketHoursServiceIn creates a service for an explicit location and window
func NewMarketHoursServiceIn(loc *time.Location, window TradingWindow, log zerolog.Logger) *MarketHoursService {
	return &MarketHoursService{
		location: loc,
		window:   window,
		log:      log.With().Str("component", "market_hours").Logger(),
	}
}

// Location returns the market timezone
func (s *MarketHoursService) Location() *time.Location {
	return s.location
}

// IsMarketOpen reports whether t falls on a weekday inside the trading window
func (s *MarketHoursService) IsMarketOpen(t time.Time) bool {
	marketTime := t.In(s.location)

	if marketTime.Weekday() == time.Saturday || marketTime.Weekday() == time.Sunday {
		return false
	}

	openTime, closeTime := s.bounds(marketTime)
	return !marketTime.Before(openTime) && marketTime.Before(closeTime)
}

// GetMarketStatus returns whether the market is open and when it next changes state
func (s *MarketHoursService) GetMarketStatus(t time.Time) *MarketStatus {
	marketTime := t.In(s.location)
	status := &MarketStatus{Timezone: s.location.String()}

	if s.IsMarketOpen(t) {
		_, closeTime := s.bounds(marketTime)
		status.Open = true
		status.ClosesAt = closeTime.Format("15:04")
		return status
	}

	next := s.nextOpen(marketTime)
	status.OpensAt = next.Format("15:04")
	status.OpensDate = next.Format("2006-01-02")
	return status
}

func (s *MarketHoursService) bounds(marketTime time.Time) (time.Time, time.Time) {
	y, m, d := marketTime.Date()
	openTime := time.Date(y, m, d, s.window.OpenHour, s.window.OpenMinute, 0, 0, s.location)
	closeTime := time.Date(y, m, d, s.window.CloseHour, s.window.CloseMinute, 0, 0, s.location)
	return openTime, closeTime
}

func (s *MarketHoursService) nextOpen(marketTime time.Time) time.Time {
	openTime, _ := s.bounds(marketTime)
	if marketTime.After(openTime) || marketTime.Equal(openTime) {
		openTime = openTime.AddDate(0, 0, 1)
	}
	for openTime.Weekday() == time.Saturday || openTime.Weekday() == time.Sunday {
		openTime = openTime.AddDate(0, 0, 1)
	}
	return openTime
}
