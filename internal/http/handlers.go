package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"finnova/internal/analytics"
	"finnova/internal/core"
	"finnova/internal/log"
)

const topCategories = 4

type sessionRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// handleSession stands in for login and signup: it stamps the profile
// with the given identity and returns it.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req sessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	profile, err := s.ledger.Authenticate(r.Context(), req.Email, strings.TrimSpace(req.Name))
	if err != nil {
		s.internalError(w, r, "authenticate", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		profile, err := s.ledger.Profile(r.Context())
		if err != nil {
			s.internalError(w, r, "read profile", err)
			return
		}
		writeJSON(w, http.StatusOK, profile)

	case http.MethodPatch:
		var upd core.ProfileUpdate
		if err := decodeJSON(w, r, &upd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		profile, err := s.ledger.UpdateProfile(r.Context(), upd)
		if err != nil {
			s.internalError(w, r, "update profile", err)
			return
		}
		writeJSON(w, http.StatusOK, profile)

	default:
		methodNotAllowed(w, "GET, PATCH")
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	txs, err := s.ledger.Transactions(r.Context())
	if err != nil {
		s.internalError(w, r, "read transactions", err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	card, err := s.ledger.Card(r.Context())
	if err != nil {
		s.internalError(w, r, "read card", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

type cardFreezeRequest struct {
	CardID string `json:"cardId"`
	Frozen bool   `json:"frozen"`
}

func (s *Server) handleCardFreeze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req cardFreezeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	card, err := s.ledger.SetCardFrozen(r.Context(), req.CardID, req.Frozen)
	if errors.Is(err, core.ErrNotFound) {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	if err != nil {
		s.internalError(w, r, "freeze card", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

type depositRequest struct {
	Amount string `json:"amount"`
	Source string `json:"source"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req depositRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents := parseAmount(req.Amount)
	if cents <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "Invalid amount")
		return
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = "Bank Transfer"
	}

	profile, err := s.ledger.Deposit(r.Context(), cents, source)
	if errors.Is(err, core.ErrInvalidAmount) {
		writeError(w, http.StatusUnprocessableEntity, "Invalid amount")
		return
	}
	if err != nil {
		s.internalError(w, r, "deposit", err)
		return
	}

	s.invalidateAnalytics()
	writeJSON(w, http.StatusOK, profile)
}

type transferRequest struct {
	Amount      string `json:"amount"`
	Recipient   string `json:"recipient"`
	Description string `json:"description"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req transferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents := parseAmount(req.Amount)
	if cents <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "Invalid amount")
		return
	}
	recipient := strings.TrimSpace(req.Recipient)
	if recipient == "" {
		writeError(w, http.StatusBadRequest, "recipient is required")
		return
	}

	// The funds check runs on a balance read before the mutation, so a
	// concurrent write can slip between check and transfer. The ledger
	// accepts overdraws; the check here is a courtesy, not a guarantee.
	current, err := s.ledger.Profile(r.Context())
	if err != nil {
		s.internalError(w, r, "read profile", err)
		return
	}
	if cents > current.Balance {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf(
			"You don't have enough funds. You are trying to send $%s and you have $%s.",
			core.FormatForDisplay(core.MajorUnits(cents)),
			core.FormatForDisplay(core.MajorUnits(current.Balance))))
		return
	}

	profile, err := s.ledger.Transfer(r.Context(), cents, recipient, strings.TrimSpace(req.Description))
	if errors.Is(err, core.ErrInvalidAmount) {
		writeError(w, http.StatusUnprocessableEntity, "Invalid amount")
		return
	}
	if err != nil {
		s.internalError(w, r, "transfer", err)
		return
	}

	s.invalidateAnalytics()
	writeJSON(w, http.StatusOK, profile)
}

type pixRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

func (s *Server) handlePix(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req pixRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents := parseAmount(req.Amount)
	if cents <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "Invalid amount")
		return
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Pix Transfer"
	}

	tx, err := s.ledger.SendPix(r.Context(), cents, description)
	if errors.Is(err, core.ErrInvalidAmount) {
		writeError(w, http.StatusUnprocessableEntity, "Invalid amount")
		return
	}
	if err != nil {
		s.internalError(w, r, "pix", err)
		return
	}

	s.invalidateAnalytics()
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleAnalyticsDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	if days, ok := s.dailyCache.Get("daily"); ok {
		writeJSON(w, http.StatusOK, days)
		return
	}

	txs, err := s.ledger.Transactions(r.Context())
	if err != nil {
		s.internalError(w, r, "read transactions", err)
		return
	}
	days := analytics.DailySpend(txs, time.Now())
	s.dailyCache.Set("daily", days)
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleAnalyticsCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	if cats, ok := s.categoriesCache.Get("categories"); ok {
		writeJSON(w, http.StatusOK, cats)
		return
	}

	txs, err := s.ledger.Transactions(r.Context())
	if err != nil {
		s.internalError(w, r, "read transactions", err)
		return
	}
	cats := analytics.CategoryBreakdown(txs, topCategories)
	s.categoriesCache.Set("categories", cats)
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	if table, ok := s.ratesCache.Get("rates"); ok {
		writeJSON(w, http.StatusOK, table)
		return
	}

	table := s.rates.Fetch(r.Context())
	s.ratesCache.Set("rates", table)
	writeJSON(w, http.StatusOK, table)
}

type assistantRequest struct {
	Prompt string `json:"prompt"`
}

type assistantResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req assistantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	profile, err := s.ledger.Profile(r.Context())
	if err != nil {
		s.internalError(w, r, "read profile", err)
		return
	}
	txs, err := s.ledger.Transactions(r.Context())
	if err != nil {
		s.internalError(w, r, "read transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, assistantResponse{
		Reply: s.assistant.AnalyzeLedger(r.Context(), prompt, profile, txs),
	})
}

// parseAmount converts a localized display string ("1.234,56") into minor
// units. Unparseable input yields 0, which callers reject.
func parseAmount(raw string) int64 {
	return core.ToMinorUnits(core.ParseToMajorUnits(strings.TrimSpace(raw)))
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
		"operation", op,
		log.FieldError, err,
		log.FieldPath, r.URL.Path)
	writeError(w, http.StatusInternalServerError, "internal error")
}
