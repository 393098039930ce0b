// File: internal/usecase/checkout_uc.go
package usecase

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"farm-course-payments/internal/domain"
	"farm-course-payments/internal/domain/model"
	"farm-course-payments/internal/domain/ports/adapter"
	"farm-course-payments/internal/domain/ports/repository"
	"farm-course-payments/internal/infra/metrics"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

// CheckoutResult is what the client needs to continue the payment: exactly
// one of PollURL (keep polling while the payer approves on their phone) or
// RedirectURL (send the browser to the gateway), or Instructions alone for
// manual methods.
type CheckoutResult struct {
	Message      string
	PollURL      string
	RedirectURL  string
	Instructions string
}

type CheckoutUseCase interface {
	// Initiate validates a purchase request, resolves price and credentials
	// by currency, and creates the remote transaction. It writes no local
	// state: entitlements change only when the webhook comes back.
	Initiate(ctx context.Context, req *model.PurchaseRequest) (*CheckoutResult, error)
}

type checkoutUC struct {
	gateways map[string]adapter.PaynowGateway // keyed by normalized currency
	rates    repository.ExchangeRateRepository
	product  string
	baseUSD  float64
	validate *validator.Validate
	log      *zerolog.Logger
}

func NewCheckoutUseCase(gateways map[string]adapter.PaynowGateway, rates repository.ExchangeRateRepository, productName string, basePriceUSD float64, logger *zerolog.Logger) *checkoutUC {
	v := validator.New()
	// Report missing fields under their wire names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &checkoutUC{
		gateways: gateways,
		rates:    rates,
		product:  productName,
		baseUSD:  basePriceUSD,
		validate: v,
		log:      logger,
	}
}

func (u *checkoutUC) Initiate(ctx context.Context, req *model.PurchaseRequest) (*CheckoutResult, error) {
	if err := u.validate.Struct(req); err != nil {
		var missing []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				missing = append(missing, fe.Field())
			}
		}
		return nil, domain.Wrap(domain.ErrInvalidArgument,
			fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
	}

	currency := model.ResolveCurrency(req.Currency)
	gateway, ok := u.gateways[currency]
	if !ok {
		return nil, domain.Wrap(domain.ErrNotConfigured,
			fmt.Sprintf("no gateway credentials configured for currency %s", currency))
	}

	// Price is resolved here, never taken from the payload.
	price := u.baseUSD
	if currency != model.CurrencyUSD {
		rate, err := u.rates.Get(ctx, currency)
		if err != nil {
			return nil, fmt.Errorf("resolve exchange rate: %w", err)
		}
		price = model.LocalPrice(u.baseUSD, rate.Rate)
	}

	method, kind := model.ClassifyMethod(req.PaymentMethod)
	if kind == model.MethodUnknown {
		metrics.IncInitiation(method, "rejected")
		return nil, domain.Wrap(domain.ErrInvalidArgument,
			fmt.Sprintf("Invalid payment method: %s", method))
	}

	if kind == model.MethodManual {
		// Bank transfer needs no gateway call at all.
		metrics.IncInitiation(method, "ok")
		return &CheckoutResult{
			Message: "Bank transfer selected.",
			Instructions: fmt.Sprintf(
				"Transfer %s %.2f to the account on the payment page and email proof of payment. Access is activated manually within 24 hours.",
				currency, price),
		}, nil
	}

	if kind == model.MethodMobile && !model.ValidMobileNumber(req.PaymentDetails) {
		metrics.IncInitiation(method, "rejected")
		return nil, domain.Wrap(domain.ErrInvalidArgument,
			"Invalid phone number format. Use 07xxxxxxxx")
	}

	reference := model.NewPaymentReference(req.UserID)
	intent := adapter.PaymentIntent{
		Reference: reference,
		Item:      u.product,
		Amount:    price,
		Email:     req.Email,
	}

	log := u.log.With().Str("reference", reference).Str("method", method).Str("currency", currency).Logger()

	var res *adapter.InitiateResult
	var err error
	if kind == model.MethodMobile {
		res, err = gateway.InitiateMobile(ctx, intent, req.PaymentDetails, method)
	} else {
		res, err = gateway.InitiateTransaction(ctx, intent)
	}
	if err != nil {
		metrics.IncInitiation(method, "failed")
		log.Warn().Err(err).Msg("payment initiation failed")
		return nil, err
	}

	metrics.IncInitiation(method, "ok")
	log.Info().Bool("mobile", kind == model.MethodMobile).Float64("amount", price).Msg("payment initiated")

	out := &CheckoutResult{Instructions: res.Instructions}
	if kind == model.MethodMobile {
		out.PollURL = res.PollURL
		out.Message = "Payment initiated. Please check your phone to approve."
		if out.Instructions == "" {
			out.Instructions = "Please complete payment on your device"
		}
	} else {
		// The gateway reply carries both handles for card payments. The
		// browser continues on the redirect; handing out the poll handle
		// too would break the one-continuation-per-initiation contract.
		out.RedirectURL = res.RedirectURL
		out.Message = "Redirecting to payment page..."
	}
	return out, nil
}
