package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/leadforge/internal/model"
	"github.com/sells-group/leadforge/internal/store"
	"github.com/sells-group/leadforge/pkg/apollo"
)

// contactsRequest is the shared request body for the contact pipelines.
type contactsRequest struct {
	Contacts    []model.Contact   `json:"contacts"`
	UserProfile model.UserProfile `json:"userProfile"`
}

func decodeContactsRequest(w http.ResponseWriter, r *http.Request) (*contactsRequest, bool) {
	var req contactsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid request body")
		return nil, false
	}
	if len(req.Contacts) == 0 {
		writeValidationError(w, "contacts is required")
		return nil, false
	}
	return &req, true
}

// handleEnrichContacts runs the enrichment pipeline over the submitted
// contacts. Per-contact failures degrade to sentinel values inside the
// pipeline; the response always carries one record per submitted contact.
func (s *Server) handleEnrichContacts(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeContactsRequest(w, r)
	if !ok {
		return
	}
	if s.cfg.Serper.Key == "" || s.cfg.Anthropic.Key == "" {
		writeServerError(w, "enrichment services not configured", nil, nil)
		return
	}

	contacts := s.enricher.EnrichAll(r.Context(), req.Contacts, req.UserProfile)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"contacts": contacts,
	})
}

func (s *Server) handleCategorizeContacts(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeContactsRequest(w, r)
	if !ok {
		return
	}
	if s.cfg.Anthropic.Key == "" {
		writeServerError(w, "categorization service not configured", nil, nil)
		return
	}

	contacts := s.categorizer.CategorizeAll(r.Context(), req.Contacts, req.UserProfile)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"contacts": contacts,
	})
}

func (s *Server) handleEnrichPerson(w http.ResponseWriter, r *http.Request) {
	var req apollo.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid request body")
		return
	}
	if req.Email == "" && (req.Name == "" || req.Company == "") {
		writeValidationError(w, "email, or name and company, is required")
		return
	}
	if s.cfg.Apollo.Key == "" {
		writeServerError(w, "person enrichment not configured", nil, nil)
		return
	}

	match, err := s.apollo.MatchPerson(r.Context(), req)
	if err != nil {
		zap.L().Error("server: person enrichment failed", zap.Error(err))
		writeServerError(w, "person enrichment failed", err, map[string]any{
			"person":       nil,
			"organization": nil,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"person":       match.Person,
		"organization": match.Organization,
	})
}

type magnetRequest struct {
	UserProfile model.UserProfile `json:"userProfile"`
	Topic       string            `json:"topic"`
}

func (s *Server) handleGenerateMagnet(w http.ResponseWriter, r *http.Request) {
	var req magnetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid request body")
		return
	}
	if req.Topic == "" {
		writeValidationError(w, "topic is required")
		return
	}
	if s.cfg.Anthropic.Key == "" {
		writeServerError(w, "generation service not configured", nil, nil)
		return
	}

	magnet, err := s.generator.LeadMagnet(r.Context(), req.UserProfile, req.Topic)
	if err != nil {
		zap.L().Error("server: lead magnet generation failed", zap.Error(err))
		writeServerError(w, "lead magnet generation failed", err, model.LeadMagnet{
			Title:       model.SentinelNotFound,
			Description: model.SentinelNotFound,
			Type:        "guide",
			Content:     model.SentinelNotFound,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"magnet":  magnet,
	})
}

func (s *Server) handleListMagnets(w http.ResponseWriter, r *http.Request) {
	magnets, err := s.store.ListLeadMagnets(r.Context(), 50)
	if err != nil {
		zap.L().Error("server: list magnets failed", zap.Error(err))
		writeServerError(w, "failed to list lead magnets", err, nil)
		return
	}
	if magnets == nil {
		magnets = []model.LeadMagnet{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"magnets": magnets,
	})
}

func (s *Server) handleDownloadMagnet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	downloads, err := s.store.IncrementDownloads(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeValidationError(w, "lead magnet not found")
		return
	}
	if err != nil {
		zap.L().Error("server: download magnet failed", zap.Error(err))
		writeServerError(w, "failed to record download", err, nil)
		return
	}

	magnet, err := s.store.GetLeadMagnet(r.Context(), id)
	if err != nil {
		writeServerError(w, "failed to load lead magnet", err, nil)
		return
	}
	magnet.Downloads = downloads

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"magnet":  magnet,
	})
}

func (s *Server) handleGenerateStrategy(w http.ResponseWriter, r *http.Request) {
	var req contactsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid request body")
		return
	}
	if s.cfg.Anthropic.Key == "" {
		writeServerError(w, "generation service not configured", nil, nil)
		return
	}

	strategy, err := s.generator.Strategy(r.Context(), req.UserProfile, req.Contacts)
	if err != nil {
		zap.L().Error("server: strategy generation failed", zap.Error(err))
		writeServerError(w, "strategy generation failed", err, model.Strategy{
			Content: model.SentinelNotFound,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"strategy": strategy,
	})
}

func (s *Server) handleGenerateMessages(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeContactsRequest(w, r)
	if !ok {
		return
	}
	if s.cfg.Anthropic.Key == "" {
		writeServerError(w, "generation service not configured", nil, nil)
		return
	}

	messages := s.generator.Messages(r.Context(), req.Contacts, req.UserProfile)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"messages": messages,
	})
}
