package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sandevgo/kinbot/internal/core"
	"github.com/sandevgo/kinbot/internal/service/companion"
	"github.com/sandevgo/kinbot/pkg/log"
)

const maxBodyBytes = 1 << 20

type chatRequest struct {
	UserID      string `json:"userId"`
	CompanionID string `json:"companionId"`
	Message     string `json:"message"`
}

type toneRequest struct {
	ToneLevel *int `json:"toneLevel"`
}

type memoryRequest struct {
	CompanionID string `json:"companionId"`
	Key         string `json:"key"`
	Value       string `json:"value"`
	Importance  *int   `json:"importance,omitempty"`
}

type recapRequest struct {
	CompanionID string `json:"companionId"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"ts": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCreateCompanion(w http.ResponseWriter, r *http.Request) {
	var req companion.CreateInput
	if !decode(w, r, &req) {
		return
	}
	c, err := s.companions.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"companion": c})
}

func (s *Server) handleGetCompanion(w http.ResponseWriter, r *http.Request) {
	p, err := s.companions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSetTone(w http.ResponseWriter, r *http.Request) {
	var req toneRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ToneLevel == nil {
		writeError(w, http.StatusBadRequest, "toneLevel is required")
		return
	}
	c, err := s.companions.SetTone(r.Context(), chi.URLParam(r, "id"), *req.ToneLevel)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"companion": c})
}

func (s *Server) handleUpsertMemory(w http.ResponseWriter, r *http.Request) {
	var req memoryRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := s.companions.Remember(r.Context(), req.CompanionID, req.Key, req.Value, req.Importance)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"memory": m})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decode(w, r, &req) {
		return
	}
	if err := core.ValidateChatMessage(req.UserID, req.CompanionID, req.Message); err != nil {
		writeServiceError(w, r, err)
		return
	}
	reply, err := s.chat.Turn(r.Context(), req.UserID, req.CompanionID, req.Message)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reply": reply})
}

func (s *Server) handleRecapOne(w http.ResponseWriter, r *http.Request) {
	var req recapRequest
	if !decode(w, r, &req) {
		return
	}
	if req.CompanionID == "" {
		writeError(w, http.StatusBadRequest, "companionId is required")
		return
	}
	out, err := s.recaps.RecapOne(r.Context(), req.CompanionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRecapAll(w http.ResponseWriter, r *http.Request) {
	res, err := s.recaps.RecapAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, core.ErrCompletion):
		log.FromCtx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("completion failed")
		writeError(w, http.StatusBadGateway, "completion failed")
	default:
		log.FromCtx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
