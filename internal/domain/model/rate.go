package model

import (
	"math"
	"time"
)

// ExchangeRate is the singleton USD-to-local conversion document. Reading it
// when absent seeds it with the configured default (the read path is also a
// lazy-initialization write path).
type ExchangeRate struct {
	Currency  string    `json:"currency"`
	Rate      float64   `json:"rate"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocalPrice converts a base USD price at the given rate, rounded to 2dp.
func LocalPrice(baseUSD, rate float64) float64 {
	return math.Round(baseUSD*rate*100) / 100
}
