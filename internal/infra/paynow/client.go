// File: internal/infra/paynow/client.go
package paynow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"farm-course-payments/internal/domain"
	"farm-course-payments/internal/domain/model"
	"farm-course-payments/internal/domain/ports/adapter"
	"farm-course-payments/internal/infra/metrics"
)

var _ adapter.PaynowGateway = (*Client)(nil)

const (
	liveBaseURL    = "https://www.paynow.co.zw"
	sandboxBaseURL = "https://sandbox.paynow.co.zw"

	initiatePath = "/interface/initiatetransaction"
	remotePath   = "/interface/remotetransaction"
)

// Client talks the Paynow merchant wire protocol for one credential set.
// Requests and responses are form-encoded; every message carries the SHA-512
// concatenation hash computed by Hash. Note that url.Values.Encode emits
// fields in sorted key order, which is exactly the order Hash assumes.
type Client struct {
	integrationID  string
	integrationKey string
	resultURL      string // webhook target the gateway calls server-to-server
	returnURL      string // confirmation page the browser comes back to
	baseURL        string
	client         *http.Client
	log            *zerolog.Logger
}

func NewClient(integrationID, integrationKey, resultURL, returnURL string, sandbox bool, logger *zerolog.Logger) (*Client, error) {
	if integrationID == "" || integrationKey == "" {
		return nil, domain.Wrap(domain.ErrNotConfigured, "paynow integration id/key empty")
	}
	for _, u := range []string{resultURL, returnURL} {
		if _, err := url.ParseRequestURI(u); err != nil {
			return nil, fmt.Errorf("invalid paynow callback url %q: %w", u, err)
		}
	}
	base := liveBaseURL
	if sandbox {
		base = sandboxBaseURL
	}
	return &Client{
		integrationID:  integrationID,
		integrationKey: integrationKey,
		resultURL:      resultURL,
		returnURL:      returnURL,
		baseURL:        base,
		client:         &http.Client{Timeout: 30 * time.Second},
		log:            logger,
	}, nil
}

// SetBaseURL points the client at a different gateway address. Tests use
// this to aim at an httptest server.
func (c *Client) SetBaseURL(u string) { c.baseURL = strings.TrimRight(u, "/") }

func (c *Client) InitiateTransaction(ctx context.Context, intent adapter.PaymentIntent) (*adapter.InitiateResult, error) {
	form := c.transactionForm(intent)
	vals, err := c.post(ctx, "initiate", c.baseURL+initiatePath, form)
	if err != nil {
		return nil, err
	}
	return &adapter.InitiateResult{
		RedirectURL: vals.Get("browserurl"),
		PollURL:     vals.Get("pollurl"),
	}, nil
}

func (c *Client) InitiateMobile(ctx context.Context, intent adapter.PaymentIntent, phone, method string) (*adapter.InitiateResult, error) {
	form := c.transactionForm(intent)
	form.Set("phone", phone)
	form.Set("method", method)
	vals, err := c.post(ctx, "remote", c.baseURL+remotePath, form)
	if err != nil {
		return nil, err
	}
	return &adapter.InitiateResult{
		PollURL:      vals.Get("pollurl"),
		Instructions: vals.Get("instructions"),
	}, nil
}

func (c *Client) Poll(ctx context.Context, pollURL string) (*adapter.TransactionStatus, error) {
	vals, err := c.postRaw(ctx, "poll", pollURL, url.Values{})
	if err != nil {
		return nil, err
	}
	// Poll responses are hashed like everything else; an unhashed or badly
	// hashed body is not trusted. The sentinel lets callers holding several
	// credential sets retry the poll against another client.
	if !Verify(flatten(vals), c.integrationKey) {
		return nil, domain.Wrap(domain.ErrHashMismatch, "paynow: poll response hash mismatch")
	}
	status := vals.Get("status")
	return &adapter.TransactionStatus{
		Reference: vals.Get("reference"),
		Amount:    vals.Get("amount"),
		Status:    status,
		Paid:      model.IsPaidStatus(status),
	}, nil
}

func (c *Client) transactionForm(intent adapter.PaymentIntent) url.Values {
	form := url.Values{}
	form.Set("id", c.integrationID)
	form.Set("reference", intent.Reference)
	form.Set("amount", strconv.FormatFloat(intent.Amount, 'f', 2, 64))
	form.Set("additionalinfo", intent.Item)
	form.Set("returnurl", c.returnURL)
	form.Set("resulturl", c.resultURL)
	form.Set("authemail", intent.Email)
	form.Set("status", "Message")
	return form
}

// post signs the form, sends it, and returns the parsed gateway reply after
// checking its status and hash.
func (c *Client) post(ctx context.Context, op, endpoint string, form url.Values) (url.Values, error) {
	form.Set("hash", Hash(flatten(form), c.integrationKey))
	vals, err := c.postRaw(ctx, op, endpoint, form)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(vals.Get("status")) {
	case "ok":
	case "error":
		msg := vals.Get("error")
		if msg == "" {
			msg = "unknown error from payment gateway"
		}
		return nil, domain.Wrap(domain.ErrGatewayRejected, msg)
	default:
		return nil, domain.Wrap(domain.ErrGatewayRejected, fmt.Sprintf("unexpected gateway status %q", vals.Get("status")))
	}

	if !Verify(flatten(vals), c.integrationKey) {
		return nil, errors.New("paynow: response hash mismatch, check integration id and key")
	}
	return vals, nil
}

func (c *Client) postRaw(ctx context.Context, op, endpoint string, form url.Values) (url.Values, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	defer func() { metrics.ObserveGateway(op, time.Since(start).Seconds()) }()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paynow request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("paynow response read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Str("endpoint", endpoint).Msg("paynow non-200 response")
		return nil, fmt.Errorf("paynow http %d", resp.StatusCode)
	}

	vals, err := url.ParseQuery(strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("paynow response parse: %w", err)
	}
	return vals, nil
}

func flatten(vals url.Values) map[string]string {
	m := make(map[string]string, len(vals))
	for k := range vals {
		m[k] = vals.Get(k)
	}
	return m
}
