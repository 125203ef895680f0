package server

import (
	"encoding/json"
	"net/http"

	"github.com/careerpath/advisor/internal/models"
	"go.uber.org/zap"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "online",
		"message": s.config.App.Message,
	})
}

// handleQuery always answers 200 once the body is valid; pipeline failures
// are reported in the answer text.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	if req.Question == nil {
		s.respondError(w, http.StatusUnprocessableEntity, "field required: question")
		return
	}
	s.logger.Debug("query request", zap.Int("question_len", len(*req.Question)))
	answer := s.runtime.Service.Query(r.Context(), *req.Question)
	s.respondJSON(w, http.StatusOK, answer.Response())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.runtime.Status())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"detail": message})
}
