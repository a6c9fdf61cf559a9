package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/quiztree"
	"github.com/aretw0/quiztree/internal/logging"
	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/aretw0/quiztree/pkg/runner"
	"github.com/aretw0/quiztree/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// Server serves questionnaire runs over HTTP. Sessions live in the session
// manager's store; the engine itself holds no run state.
type Server struct {
	Engine   *quiztree.Engine
	Sessions *session.Manager
	Streams  *StreamManager
	Logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// StartRequest is the body of POST /sessions.
type StartRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

// AnswerRequest is the body of POST /sessions/{id}/answers.
type AnswerRequest struct {
	Option string `json:"option"`
}

// RestoreRequest is the body of POST /sessions/{id}/restore. Index selects an
// entry of the session history; otherwise QuestionID and Trail describe the
// entry directly.
type RestoreRequest struct {
	Index      *int         `json:"index,omitempty"`
	QuestionID string       `json:"question_id,omitempty"`
	Trail      domain.Trail `json:"trail,omitempty"`
}

// SessionView is returned by the session endpoints. Question is set while
// the run is in progress, Resolution once it is finished.
type SessionView struct {
	State      *domain.State      `json:"state"`
	Question   *domain.Question   `json:"question,omitempty"`
	Resolution *domain.Resolution `json:"resolution,omitempty"`
}

// QuestionnaireView is returned by GET /questionnaire.
type QuestionnaireView struct {
	Title     string            `json:"title,omitempty"`
	Start     string            `json:"start"`
	Questions []domain.Question `json:"questions"`
}

// SessionEvent is broadcast to session subscribers after each answer
// ("answer") and after each restore ("restore").
type SessionEvent struct {
	Type     string               `json:"type"`
	Option   string               `json:"option,omitempty"`
	Result   domain.AdvanceResult `json:"result"`
	Question string               `json:"question_id"`
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine *quiztree.Engine, sessions *session.Manager, opts ...Option) http.Handler {
	server := &Server{
		Engine:   engine,
		Sessions: sessions,
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams = NewStreamManager(server.Logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/questionnaire", server.GetQuestionnaire)
	r.Get("/events", server.SubscribeReload)

	r.Post("/sessions", server.StartSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", server.withSessionID(server.GetSession))
		r.Delete("/", server.withSessionID(server.DeleteSession))
		r.Post("/answers", server.withSessionID(server.Answer))
		r.Get("/result", server.withSessionID(server.GetResult))
		r.Get("/history", server.withSessionID(server.GetHistory))
		r.Post("/restore", server.withSessionID(server.Restore))
		r.Get("/events", server.withSessionID(server.SubscribeSession))
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, id string)

// withSessionID binds the {id} path parameter the way generated chi servers do.
func (s *Server) withSessionID(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id string
		err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil || strings.TrimSpace(id) == "" {
			http.Error(w, fmt.Sprintf("Invalid format for parameter id: %v", err), http.StatusBadRequest)
			return
		}
		next(w, r, id)
	}
}

// StartSession handles POST /sessions.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.Logger.Warn("StartSession: invalid request body", "err", err)
			return
		}
	}
	id := body.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	var state *domain.State
	err := s.Sessions.WithLock(r.Context(), id, func(ctx context.Context) error {
		if _, err := s.Sessions.Store().Load(ctx, id); err == nil {
			return errSessionExists
		} else if !errors.Is(err, domain.ErrSessionNotFound) {
			return err
		}
		state = s.Engine.Start(ctx, id)
		return s.Sessions.Store().Save(ctx, id, state)
	})
	if err != nil {
		s.writeError(w, "StartSession", err)
		return
	}

	s.Logger.Info("session started", "session_id", id, "question_id", state.CurrentQuestionID)
	s.writeJSON(w, http.StatusCreated, s.view(r, state))
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request, id string) {
	state, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, "GetSession", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.view(r, state))
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Answer handles POST /sessions/{id}/answers.
func (s *Server) Answer(w http.ResponseWriter, r *http.Request, id string) {
	var body AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Answer: invalid request body", "err", err)
		return
	}

	option, err := runner.CleanAnswer(body.Option)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid answer: %v", err), http.StatusBadRequest)
		s.Logger.Warn("Answer: answer rejected", "err", err, "size", len(body.Option))
		return
	}

	var result domain.AdvanceResult
	next, err := s.Sessions.Update(r.Context(), id, func(state *domain.State) (*domain.State, error) {
		var next *domain.State
		var err error
		next, result, err = s.Engine.Advance(r.Context(), state, option)
		return next, err
	})
	if err != nil {
		s.writeError(w, "Answer", err)
		return
	}

	s.broadcast(id, SessionEvent{Type: "answer", Option: option, Result: result, Question: next.CurrentQuestionID})
	s.writeJSON(w, http.StatusOK, s.view(r, next))
}

// GetResult handles GET /sessions/{id}/result.
func (s *Server) GetResult(w http.ResponseWriter, r *http.Request, id string) {
	state, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, "GetResult", err)
		return
	}
	if !state.Finished {
		http.Error(w, "Run is not finished", http.StatusConflict)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Engine.Resolve(r.Context(), state))
}

// GetHistory handles GET /sessions/{id}/history.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request, id string) {
	state, err := s.Sessions.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, "GetHistory", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Engine.History(state))
}

// Restore handles POST /sessions/{id}/restore.
func (s *Server) Restore(w http.ResponseWriter, r *http.Request, id string) {
	var body RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Restore: invalid request body", "err", err)
		return
	}

	next, err := s.Sessions.Update(r.Context(), id, func(state *domain.State) (*domain.State, error) {
		entry := domain.HistoryEntry{QuestionID: body.QuestionID, Trail: body.Trail}
		if body.Index != nil {
			history := s.Engine.History(state)
			if *body.Index < 0 || *body.Index >= len(history) {
				return nil, fmt.Errorf("%w: history index %d out of range", errUnprocessable, *body.Index)
			}
			entry = history[*body.Index]
		}
		if !s.Engine.Questionnaire().Graph.Has(entry.QuestionID) {
			return nil, fmt.Errorf("%w: unknown question %q", errUnprocessable, entry.QuestionID)
		}
		return s.Engine.Restore(r.Context(), id, entry)
	})
	if err != nil {
		s.writeError(w, "Restore", err)
		return
	}
	s.broadcast(id, SessionEvent{Type: "restore", Question: next.CurrentQuestionID})
	s.writeJSON(w, http.StatusOK, s.view(r, next))
}

// GetQuestionnaire handles GET /questionnaire.
func (s *Server) GetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	q := s.Engine.Questionnaire()
	s.writeJSON(w, http.StatusOK, QuestionnaireView{
		Title:     q.Title,
		Start:     q.Graph.Start(),
		Questions: q.Graph.Questions(),
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":           "quiztree-http",
		"version":       strings.TrimSpace(quiztree.Version),
		"api_version":   apiVersion,
		"questionnaire": s.Engine.Name,
	})
}

// SubscribeReload handles GET /events (SSE) for questionnaire reloads.
func (s *Server) SubscribeReload(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	events, err := s.Engine.Watch(r.Context())
	if errors.Is(err, quiztree.ErrNotWatchable) {
		http.Error(w, err.Error(), http.StatusNotImplemented)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusInternalServerError)
		return
	}

	setStreamHeaders(w)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: reload\n\n")
			flusher.Flush()
		}
	}
}

// SubscribeSession handles GET /sessions/{id}/events (SSE).
func (s *Server) SubscribeSession(w http.ResponseWriter, r *http.Request, id string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()
	s.Logger.Info("SSE: subscribing to session updates", "session_id", id)

	setStreamHeaders(w)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func setStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// -- Helpers --

var (
	errSessionExists = errors.New("session already exists")
	errUnprocessable = errors.New("unprocessable request")
)

func (s *Server) view(r *http.Request, state *domain.State) SessionView {
	v := SessionView{State: state}
	if state.Finished {
		res := s.Engine.Resolve(r.Context(), state)
		v.Resolution = &res
		return v
	}
	if q, err := s.Engine.Current(state); err == nil {
		v.Question = &q
	}
	return v
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownOption), errors.Is(err, errUnprocessable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, errSessionExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) broadcast(id string, event SessionEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		s.Logger.Error("failed to encode session event", "session_id", id, "err", err)
		return
	}
	s.Streams.Broadcast(id, string(data))
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error(op+" failed", "err", err)
	} else {
		s.Logger.Debug(op+" rejected", "err", err, "status", status)
	}
	http.Error(w, err.Error(), status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}
