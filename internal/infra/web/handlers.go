// File: internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"farm-course-payments/internal/domain"
	"farm-course-payments/internal/domain/model"
	"farm-course-payments/internal/infra/logging"
)

type apiMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// initiateResponse uses pointers so absent fields serialize as JSON null:
// the frontend branches on pollUrl/redirectUrl being null.
type initiateResponse struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	PollURL      *string `json:"pollUrl"`
	RedirectURL  *string `json:"redirectUrl"`
	Instructions *string `json:"instructions"`
}

type statusRequest struct {
	PollURL string `json:"pollUrl"`
}

type statusResponse struct {
	IsPaid    bool    `json:"isPaid"`
	Status    string  `json:"status"`
	Reference *string `json:"reference"`
	Amount    *string `json:"amount"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// writeUseCaseError maps domain errors onto the client contract. Messages on
// invalid-argument and gateway rejections pass through verbatim; everything
// else collapses into a generic 500 so internals never leak.
func writeUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, apiMessage{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrGatewayRejected):
		writeJSON(w, http.StatusBadRequest, apiMessage{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrNotConfigured):
		writeJSON(w, http.StatusInternalServerError, apiMessage{Success: false, Message: "Server configuration error. Please contact support."})
	default:
		writeJSON(w, http.StatusInternalServerError, apiMessage{Success: false, Message: "Payment processing failed. Please try again."})
	}
}

func (s *Server) initiateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.PurchaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, apiMessage{Success: false, Message: "Invalid request body"})
			return
		}

		ctx := logging.WithUserID(r.Context(), req.UserID)
		res, err := s.checkoutUC.Initiate(ctx, &req)
		if err != nil {
			writeUseCaseError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, initiateResponse{
			Success:      true,
			Message:      res.Message,
			PollURL:      optional(res.PollURL),
			RedirectURL:  optional(res.RedirectURL),
			Instructions: optional(res.Instructions),
		})
	}
}

func (s *Server) statusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, apiMessage{Success: false, Message: "Invalid request body"})
			return
		}

		st, err := s.statusUC.Check(r.Context(), req.PollURL)
		if err != nil {
			writeUseCaseError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, statusResponse{
			IsPaid:    st.Paid,
			Status:    st.Status,
			Reference: optional(st.Reference),
			Amount:    optional(st.Amount),
		})
	}
}

func (s *Server) webhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		// Keys go through exactly as the gateway sent them; the signature
		// covers that casing. Field lookups relax casing downstream.
		fields := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			fields[k] = r.PostForm.Get(k)
		}

		_, err := s.webhookUC.Reconcile(r.Context(), fields)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrHashMissing):
				http.Error(w, "Forbidden: Missing hash", http.StatusForbidden)
			case errors.Is(err, domain.ErrHashMismatch):
				http.Error(w, "Forbidden: Invalid hash", http.StatusForbidden)
			default:
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
			return
		}

		// Plain 200 acknowledgment; the gateway only looks at the status code.
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}

// ===== Admin API =====

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, apiMessage{Success: false, Message: "Invalid request body"})
			return
		}
		if !passwordEqual(req.Password, s.adminPass) {
			writeJSON(w, http.StatusUnauthorized, apiMessage{Success: false, Message: "Invalid credentials"})
			return
		}

		token, err := s.auth.Mint(w)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, apiMessage{Success: false, Message: "Could not create session"})
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Success bool   `json:"success"`
			Token   string `json:"token"`
		}{Success: true, Token: token})
	}
}

func (s *Server) logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.auth.Clear(w)
		writeJSON(w, http.StatusOK, apiMessage{Success: true, Message: "Logged out"})
	}
}

func (s *Server) transactionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 || limit > 500 {
			limit = 50
		}

		rows, err := s.txlog.ListRecent(r.Context(), limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, apiMessage{Success: false, Message: "Failed to list transactions"})
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Data  []*model.TransactionRecord `json:"data"`
			Limit int                        `json:"limit"`
		}{Data: rows, Limit: limit})
	}
}

func (s *Server) rateGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currency := model.ResolveCurrency(r.URL.Query().Get("currency"))
		if currency == model.CurrencyUSD {
			currency = model.CurrencyZWG
		}

		rate, err := s.rates.Get(r.Context(), currency)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, apiMessage{Success: false, Message: "Failed to read rate"})
			return
		}
		writeJSON(w, http.StatusOK, rate)
	}
}

type rateSetRequest struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}

func (s *Server) rateSetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rateSetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, apiMessage{Success: false, Message: "Invalid request body"})
			return
		}
		if req.Rate <= 0 {
			writeJSON(w, http.StatusBadRequest, apiMessage{Success: false, Message: "Rate must be positive"})
			return
		}

		currency := model.ResolveCurrency(req.Currency)
		if currency == model.CurrencyUSD {
			writeJSON(w, http.StatusBadRequest, apiMessage{Success: false, Message: "USD is the base currency"})
			return
		}

		rate, err := s.rates.Set(r.Context(), currency, req.Rate)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, apiMessage{Success: false, Message: "Failed to store rate"})
			return
		}

		s.log.Info().Str("currency", currency).Float64("rate", req.Rate).Msg("exchange rate updated")
		writeJSON(w, http.StatusOK, rate)
	}
}
