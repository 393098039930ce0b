// File: internal/domain/model/payment.go
package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"farm-course-payments/internal/domain"
)

// ReferencePrefix tags every merchant reference this service generates.
// The gateway echoes the reference back verbatim, so the prefix plus the
// embedded user ID is the only linkage from a webhook to an entitlement row.
const ReferencePrefix = "MF"

// Supported settlement currencies. Anything we do not recognize falls back
// to USD pricing and USD gateway credentials.
const (
	CurrencyUSD = "USD"
	CurrencyZWG = "ZWG"
)

type PaymentMethodKind int

const (
	MethodUnknown PaymentMethodKind = iota
	MethodMobile                    // wallet push prompt on the payer's phone
	MethodRedirect                  // browser redirect to the gateway's card page
	MethodManual                    // bank transfer; no gateway call at all
)

var (
	mobileMethods = map[string]bool{
		"ecocash":  true,
		"onemoney": true,
		"innbucks": true,
		"telecash": true,
	}
	redirectMethods = map[string]bool{
		"visa":       true,
		"mastercard": true,
		"zimswitch":  true,
		"paygo":      true,
	}

	// Zimbabwean mobile wallet numbers: known operator prefix, 10 digits.
	phonePattern = regexp.MustCompile(`^0(77|78|71|73|75|76)\d{7}$`)
)

// PurchaseRequest is the inbound body of a payment initiation.
type PurchaseRequest struct {
	PaymentMethod  string `json:"paymentMethod" validate:"required"`
	Currency       string `json:"currency" validate:"required"`
	PaymentDetails string `json:"paymentDetails" validate:"required"`
	UserID         string `json:"userId" validate:"required"`
	Email          string `json:"email" validate:"required"`
}

// NormalizeMethod lowercases and strips spaces, so "Bank Transfer" and
// "banktransfer" classify the same.
func NormalizeMethod(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
}

// ClassifyMethod buckets a payment method into exactly one dispatch kind.
func ClassifyMethod(s string) (string, PaymentMethodKind) {
	m := NormalizeMethod(s)
	switch {
	case mobileMethods[m]:
		return m, MethodMobile
	case redirectMethods[m]:
		return m, MethodRedirect
	case m == "banktransfer":
		return m, MethodManual
	default:
		return m, MethodUnknown
	}
}

// ValidMobileNumber reports whether s is a locally valid wallet number.
func ValidMobileNumber(s string) bool { return phonePattern.MatchString(s) }

// ResolveCurrency maps an inbound currency code onto one of the two
// credential sets. ZWL is the legacy alias of ZWG; both select the local set.
func ResolveCurrency(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "ZWG", "ZWL":
		return CurrencyZWG
	default:
		return CurrencyUSD
	}
}

// NewPaymentReference builds a globally unique merchant reference of the form
// MF-{userID}-{unixMillis}.
func NewPaymentReference(userID string) string {
	return fmt.Sprintf("%s-%s-%d", ReferencePrefix, userID, time.Now().UnixMilli())
}

// UserIDFromReference extracts the user ID from a merchant reference.
// The reference must split on "-" into at least three segments with our
// prefix in front; anything else is a reference we never issued. Reading
// only the second segment would truncate user IDs that themselves contain
// dashes, so everything between the prefix and the trailing timestamp
// belongs to the ID; for dash-free IDs the two readings agree, and
// NewPaymentReference guarantees the timestamp is always the last segment.
func UserIDFromReference(ref string) (string, error) {
	parts := strings.Split(ref, "-")
	if len(parts) < 3 || parts[0] != ReferencePrefix {
		return "", domain.Wrap(domain.ErrInvalidArgument, fmt.Sprintf("malformed payment reference %q", ref))
	}
	id := strings.Join(parts[1:len(parts)-1], "-")
	if id == "" {
		return "", domain.Wrap(domain.ErrInvalidArgument, fmt.Sprintf("malformed payment reference %q", ref))
	}
	return id, nil
}

// IsPaidStatus reports whether a gateway status string is the terminal
// "paid" state, case-insensitively.
func IsPaidStatus(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), "paid")
}
