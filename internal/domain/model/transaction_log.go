package model

import "time"

// TransactionRecord is one append-only audit row per webhook delivery (or
// per reconciler poll). Rows are never mutated after insert; duplicate
// deliveries of the same reference produce duplicate rows on purpose.
type TransactionRecord struct {
	ID              string            `json:"id"`
	UserID          string            `json:"user_id"` // parsed from the reference; empty when unparseable
	Reference       string            `json:"reference"`
	PaynowReference string            `json:"paynow_reference"`
	Amount          string            `json:"amount"` // kept as the gateway sent it, verbatim
	Currency        string            `json:"currency"`
	Status          string            `json:"status"`
	PollURL         string            `json:"poll_url"`
	Payload         map[string]string `json:"payload"` // full verified payload, stored as JSONB
	ProcessedAt     time.Time         `json:"processed_at"`
}
