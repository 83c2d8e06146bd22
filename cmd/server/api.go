package main

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/blainea-sys/kcj-quote-app/internal/pricing"
	"github.com/blainea-sys/kcj-quote-app/internal/quotedoc"
	"github.com/blainea-sys/kcj-quote-app/internal/settings"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

type loginRequest struct {
	Password string `json:"password"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	valid, err := s.auth.validatePassword(req.Password)
	if err != nil {
		s.logger.Error("validate password", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "authentication error")
		return
	}
	if !valid {
		respondError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	s.auth.setSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type metaResponse struct {
	Metals []string `json:"metals"`
	Styles []string `json:"setting_styles"`
}

// handleMeta exposes the option lists the quote form is built from.
func (s *server) handleMeta(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.Load()
	if err != nil {
		s.logger.Error("load settings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	metals := make([]string, 0, len(cfg.MetalRates))
	for name := range cfg.MetalRates {
		metals = append(metals, name)
	}
	sort.Strings(metals)

	respondJSON(w, http.StatusOK, metaResponse{
		Metals: metals,
		Styles: pricing.StyleOptions(cfg.LaborRates),
	})
}

func (s *server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.Load()
	if err != nil {
		s.logger.Error("load settings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func (s *server) handleSettingsPut(w http.ResponseWriter, r *http.Request) {
	var cfg pricing.Settings
	if err := decodeJSON(r, &cfg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := cfg.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.Save(cfg); err != nil {
		s.logger.Error("save settings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	if s.settingsPath != "" {
		if err := settings.SaveFile(s.settingsPath, cfg); err != nil {
			s.logger.Warn("mirror settings to file", zap.Error(err), zap.String("path", s.settingsPath))
		}
	}

	respondJSON(w, http.StatusOK, cfg)
}

// loadQuoteInputs decodes and normalizes a quote request against the current
// settings. Decoding on top of NewQuoteRequest keeps the taxability defaults
// for categories the client left out.
func (s *server) loadQuoteInputs(r *http.Request) (pricing.QuoteRequest, pricing.Settings, int, string) {
	cfg, err := s.store.Load()
	if err != nil {
		s.logger.Error("load settings", zap.Error(err))
		return pricing.QuoteRequest{}, pricing.Settings{}, http.StatusInternalServerError, "failed to load settings"
	}

	req := pricing.NewQuoteRequest()
	if err := decodeJSON(r, &req); err != nil {
		return pricing.QuoteRequest{}, pricing.Settings{}, http.StatusBadRequest, "invalid request body"
	}

	req.Normalize(cfg)

	if err := req.Validate(); err != nil {
		return pricing.QuoteRequest{}, pricing.Settings{}, http.StatusUnprocessableEntity, err.Error()
	}
	if len(req.Metals) == 0 {
		return pricing.QuoteRequest{}, pricing.Settings{}, http.StatusUnprocessableEntity, "at least one metal must be selected"
	}
	for _, mk := range req.Metals {
		if _, ok := cfg.MetalRates[mk]; !ok {
			return pricing.QuoteRequest{}, pricing.Settings{}, http.StatusUnprocessableEntity, "unknown metal: " + mk
		}
	}

	return req, cfg, 0, ""
}

type quoteResponse struct {
	Document quotedoc.Document       `json:"quote_doc"`
	Computed []pricing.ComputedQuote `json:"computed"`
}

func (s *server) handleQuotePreview(w http.ResponseWriter, r *http.Request) {
	req, cfg, status, msg := s.loadQuoteInputs(r)
	if status != 0 {
		respondError(w, status, msg)
		return
	}

	quotes := pricing.ComputeQuoteMulti(cfg, req)
	respondJSON(w, http.StatusOK, quoteResponse{
		Document: quotedoc.Build("", req, quotes),
		Computed: quotes,
	})
}

func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
	req, cfg, status, msg := s.loadQuoteInputs(r)
	if status != 0 {
		respondError(w, status, msg)
		return
	}

	quotes := pricing.ComputeQuoteMulti(cfg, req)
	id := quotedoc.NewQuoteID(time.Now())
	record := quotedoc.BuildExport(id, req, quotes)

	if err := s.insertQuote(record); err != nil {
		s.logger.Error("archive quote", zap.Error(err), zap.String("quote_id", id))
		respondError(w, http.StatusInternalServerError, "failed to archive quote")
		return
	}

	s.logger.Info("archived quote",
		zap.String("quote_id", id),
		zap.String("customer", req.CustomerName),
		zap.Strings("metals", req.Metals),
	)
	respondJSON(w, http.StatusCreated, record)
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	quotes, err := s.listQuotes(query)
	if err != nil {
		s.logger.Error("list quotes", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load quotes")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"quotes": quotes})
}

func (s *server) handleQuoteGet(w http.ResponseWriter, r *http.Request) {
	record, found, err := s.getQuote(chi.URLParam(r, "id"))
	if err != nil {
		s.logger.Error("get quote", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "quote not found")
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	record, found, err := s.getQuote(chi.URLParam(r, "id"))
	if err != nil {
		s.logger.Error("get quote", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "quote not found")
		return
	}

	doc := record.Document
	if r.URL.Query().Get("view") == "customer" {
		doc = doc.ForCustomer()
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(renderQuoteText(doc)))
}
