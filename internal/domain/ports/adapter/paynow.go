package adapter

import "context"

// PaymentIntent is what we hand the gateway when creating a remote
// transaction. Amount is always resolved server-side, never client-supplied.
type PaymentIntent struct {
	Reference string  // merchant reference, MF-{userID}-{millis}
	Item      string  // product name shown on the gateway side
	Amount    float64 // price in the transaction currency, 2dp
	Email     string  // payer email for gateway receipts
}

// InitiateResult carries the remote transaction handle. Exactly one of
// PollURL (push payments) or RedirectURL (card rails) is set.
type InitiateResult struct {
	PollURL      string
	RedirectURL  string
	Instructions string // optional human-readable payment instructions
}

// TransactionStatus is the normalized poll result. Amount stays a string
// because the gateway returns it as one and we never do arithmetic on it.
type TransactionStatus struct {
	Reference string
	Amount    string
	Status    string // created | sent | paid | cancelled | ...
	Paid      bool
}

// PaynowGateway is the remote payment gateway for one credential set.
type PaynowGateway interface {
	InitiateTransaction(ctx context.Context, intent PaymentIntent) (*InitiateResult, error)
	InitiateMobile(ctx context.Context, intent PaymentIntent, phone, method string) (*InitiateResult, error)
	Poll(ctx context.Context, pollURL string) (*TransactionStatus, error)
}
