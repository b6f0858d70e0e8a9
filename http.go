package ibanledger

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func NewHTTPHandler(svc Service, log *zerolog.Logger) http.Handler {
	hndlr := &httpHandler{
		Svc: svc,
		Log: log,
	}
	mux := chi.NewMux()
	mux.Use(requestLogger(log))
	mux.NotFound(HTTPNotFound)
	mux.Route("/accounts", func(r chi.Router) {
		r.Get("/", hndlr.GetAll)
		r.Post("/", hndlr.CreateAccount)
		r.Route("/{iban:[A-Za-z0-9]+}", func(rr chi.Router) {
			rr.Get("/", hndlr.GetByIban)
			rr.Get("/statement", hndlr.Statement)
		})
	})
	mux.Route("/transactions", func(r chi.Router) {
		r.Post("/deposit", hndlr.Deposit)
		r.Post("/withdraw", hndlr.Withdraw)
		r.Post("/transfer", hndlr.Transfer)
	})

	return mux
}

type httpHandler struct {
	Svc Service
	Log *zerolog.Logger
}

func (h *httpHandler) GetByIban(w http.ResponseWriter, r *http.Request) {
	iban := chi.URLParam(r, "iban")
	acct, err := h.Svc.GetByIban(r.Context(), iban)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (h *httpHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	accts, err := h.Svc.GetAll(r.Context())
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accts)
}

func (h *httpHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountReq
	if !h.decode(w, r, "create_account", &req) {
		return
	}
	acct, err := h.Svc.CreateAccount(r.Context(), req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, acct)
}

func (h *httpHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req ChargeReq
	if !h.decode(w, r, "deposit", &req) {
		return
	}
	acct, err := h.Svc.Deposit(r.Context(), req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (h *httpHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req ChargeReq
	if !h.decode(w, r, "withdraw", &req) {
		return
	}
	acct, err := h.Svc.Withdraw(r.Context(), req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (h *httpHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferReq
	if !h.decode(w, r, "transfer", &req) {
		return
	}
	accts, err := h.Svc.Transfer(r.Context(), req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accts)
}

func (h *httpHandler) Statement(w http.ResponseWriter, r *http.Request) {
	req := StatementReq{Iban: chi.URLParam(r, "iban")}
	w.Header().Set("Content-Type", "application/pdf")
	if err := h.Svc.Statement(r.Context(), w, req); err != nil {
		w.Header().Del("Content-Type")
		WriteHTTPError(w, err)
		return
	}
}

func (h *httpHandler) decode(w http.ResponseWriter, r *http.Request, method string, v interface{}) bool {
	buf, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		h.Log.Err(err).Str("method", method).Msg("error reading HTTP request")
		WriteHTTPError(w, ErrInternalServer)
		return false
	}
	if err = json.Unmarshal(buf, v); err != nil {
		h.Log.Err(err).Str("method", method).Msg("error unmarshalling JSON")
		WriteHTTPError(w, ErrBadRequest{Fields: map[string]string{"request body": "malformed JSON"}})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encoding failed")
	}
}

// WriteHTTPError maps error kinds to status codes: not found to 404,
// forbidden to 403, bad request to 400, everything else to 500. The error
// description is carried to the body unchanged.
func WriteHTTPError(w http.ResponseWriter, err error) {
	var ne error
	defer func() {
		if ne != nil {
			log.Error().
				Err(ne).
				Msg("error response encoding failed")
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	errnf := &ErrNotFound{}
	errfb := &ErrForbidden{}
	errbr := &ErrBadRequest{}
	errux := &ErrUnexpected{}
	if errors.As(err, errnf) {
		w.WriteHeader(http.StatusNotFound)
		ne = json.NewEncoder(w).Encode(map[string]string{"error": errnf.Error()})
	} else if errors.As(err, errfb) {
		w.WriteHeader(http.StatusForbidden)
		ne = json.NewEncoder(w).Encode(errfb)
	} else if errors.As(err, errbr) {
		w.WriteHeader(http.StatusBadRequest)
		ne = json.NewEncoder(w).Encode(errbr)
	} else if errors.As(err, errux) {
		w.WriteHeader(http.StatusInternalServerError)
		ne = json.NewEncoder(w).Encode(map[string]string{"error": errux.Error()})
	} else {
		w.WriteHeader(http.StatusInternalServerError)
		ne = json.NewEncoder(w).Encode(map[string]string{"error": "server error"})
	}
}

func HTTPNotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	w.Header().Set("Content-Type", "application/json")
	resp := map[string]string{
		"path": r.URL.Path,
	}
	json.NewEncoder(w).Encode(resp)
}

func requestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := uuid.NewString()
			rl := logger.With().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()
			w.Header().Set("X-Request-Id", reqID)
			start := time.Now()
			next.ServeHTTP(w, r.WithContext(rl.WithContext(r.Context())))
			rl.Info().Dur("elapsed", time.Since(start)).Msg("request served")
		})
	}
}
