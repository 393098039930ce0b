package model

import "time"

// UserEntitlement is the persistent record of a user's course access.
// It is mutated only by the webhook reconciliation path: a verified "paid"
// webhook flips Subscription to true with a flat overwrite of the payment
// fields, which makes repeated deliveries of the same webhook harmless.
// Nothing in the payment flow ever flips it back to false.
type UserEntitlement struct {
	UserID                string
	Subscription          bool
	SubscriptionStatus    string
	LastPaymentReference  string
	LastPaymentAmount     string
	SubscriptionUpdatedAt time.Time
}

const SubscriptionStatusActive = "active"
