package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	talkservice "toolbox/contexts/safety-training/talk-service"
	talkerrors "toolbox/contexts/safety-training/talk-service/domain/errors"
	talkhttp "toolbox/contexts/safety-training/talk-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "toolbox/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	talks  talkservice.Module
}

func New(talks talkservice.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		talks:  talks,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/talks", s.handleCreateTalk)
	s.mux.HandleFunc("GET /api/talks/{talk_id}", s.handleTalkDetails)
	s.mux.HandleFunc("DELETE /api/talks/{talk_id}", s.handleDeleteTalk)
	s.mux.HandleFunc("POST /api/talks/{talk_id}/distribute", s.handleDistribute)
	s.mux.HandleFunc("POST /api/talks/{talk_id}/archive", s.handleArchive)
	s.mux.HandleFunc("POST /api/talks/{talk_id}/unarchive", s.handleUnarchive)
	s.mux.HandleFunc("POST /api/talks/{talk_id}/quiz", s.handleSaveQuiz)
	s.mux.HandleFunc("GET /api/talks/{talk_id}/quiz", s.handleGetQuiz)
	s.mux.HandleFunc("POST /api/talks/{talk_id}/test-link", s.handleTestLink)

	s.mux.HandleFunc("POST /api/distributions/{distribution_id}/remind", s.handleReminder)
	s.mux.HandleFunc("POST /api/distributions/{distribution_id}/confirm", s.handleConfirm)
	s.mux.HandleFunc("POST /api/distributions/{distribution_id}/quiz-result", s.handleQuizResult)

	s.mux.HandleFunc("GET /api/reports/pending-signatures", s.handlePendingSignatures)
	s.mux.HandleFunc("GET /api/reports/overall", s.handleOverallStatus)

	s.mux.HandleFunc("POST /api/maintenance/test-links/purge", s.handlePurgeTestLinks)
}

func (s *Server) handleCreateTalk(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req talkhttp.CreateTalkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTalkError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.talks.Handler.CreateTalkHandler(r.Context(), actorID, req)
	if err != nil {
		writeTalkDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleTalkDetails(w http.ResponseWriter, r *http.Request) {
	resp, err := s.talks.Handler.TalkDetailsHandler(r.Context(), r.PathValue("talk_id"))
	if err != nil {
		writeTalkDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTalk(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := s.talks.Handler.DeleteTalkHandler(r.Context(), actorID, r.PathValue("talk_id")); err != nil {
		writeTalkDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req talkhttp.DistributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTalkError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.talks.Handler.DistributeHandler(r.Context(), actorID, r.PathValue("talk_id"), req)
	if err != nil {
		writeTalkDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := s.talks.Handler.ArchiveHandler(r.Context(), actorID, r.PathValue("talk_id")); err != nil {
		writeTalkDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnarchive(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := s.talks.Handler.UnarchiveHandler(r.Context(), actorID, r.PathValue("talk_id")); err != nil {
		writeTalkDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSaveQuiz(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req talkhttp.SaveQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTalkError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	if err := s.talks.Handler.SaveQuizHandler(r.Context(), actorID, r.PathValue("talk_id"), req); err != nil {
		writeTalkDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	resp, err := s.talks.Handler.GetQuizHandler(r.Context(), r.PathValue("talk_id"))
	if err != nil {
		writeTalkDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTestLink(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	resp, err := s.talks.Handler.TestLinkHandler(r.Context(), actorID, r.PathValue("talk_id"))
	if err != nil {
		writeTalkDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleReminder(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req talkhttp.ReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTalkError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.talks.Handler.ReminderHandler(r.Context(), actorID, r.PathValue("distribution_id"), req)
	if err != nil {
		writeTalkDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req talkhttp.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTalkError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.talks.Handler.ConfirmHandler(
		r.Context(),
		r.PathValue("distribution_id"),
		resolveClientIP(r),
		req,
	)
	if err != nil {
		writeTalkDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleQuizResult(w http.ResponseWriter, r *http.Request) {
	var req talkhttp.QuizResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTalkError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.talks.Handler.QuizResultHandler(r.Context(), r.PathValue("distribution_id"), req)
	if err != nil {
		writeTalkDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePendingSignatures(w http.ResponseWriter, r *http.Request) {
	windowDays := 0
	if raw := r.URL.Query().Get("window_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeTalkError(w, http.StatusBadRequest, "invalid_window", "window_days must be an integer")
			return
		}
		windowDays = parsed
	}

	resp, err := s.talks.Handler.PendingSignaturesHandler(r.Context(), windowDays)
	if err != nil {
		writeTalkDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOverallStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.talks.Handler.OverallStatusHandler(r.Context())
	if err != nil {
		writeTalkDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePurgeTestLinks(w http.ResponseWriter, r *http.Request) {
	retentionDays := 0
	if raw := r.URL.Query().Get("retention_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeTalkError(w, http.StatusBadRequest, "invalid_retention", "retention_days must be an integer")
			return
		}
		retentionDays = parsed
	}

	resp, err := s.talks.Handler.PurgeTestLinksHandler(r.Context(), retentionDays)
	if err != nil {
		writeTalkDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireActor(w http.ResponseWriter, r *http.Request) (string, bool) {
	actorID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if actorID == "" {
		writeTalkError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return actorID, true
}

func writeTalkDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, talkerrors.ErrInvalidTalkInput),
		errors.Is(err, talkerrors.ErrInvalidQuizInput),
		errors.Is(err, talkerrors.ErrInvalidQuizResult),
		errors.Is(err, talkerrors.ErrInvalidConfirmation),
		errors.Is(err, talkerrors.ErrInvalidChannel),
		errors.Is(err, talkerrors.ErrEmptyRecipients):
		writeTalkError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, talkerrors.ErrTalkNotFound),
		errors.Is(err, talkerrors.ErrDistributionNotFound),
		errors.Is(err, talkerrors.ErrRecipientNotFound),
		errors.Is(err, talkerrors.ErrQuizNotFound):
		writeTalkError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, talkerrors.ErrAlreadyConfirmed),
		errors.Is(err, talkerrors.ErrDuplicateDistribution):
		writeTalkError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, talkerrors.ErrTokenGenerationExhausted):
		writeTalkError(w, http.StatusServiceUnavailable, "token_exhausted", err.Error())
	case errors.Is(err, talkerrors.ErrCascadeFailed):
		writeTalkError(w, http.StatusInternalServerError, "cascade_failed", err.Error())
	default:
		writeTalkError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeTalkError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, talkhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func resolveClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
