package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/quiztree"
	"github.com/aretw0/quiztree/internal/logging"
	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/aretw0/quiztree/pkg/runner"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

// QuestionnaireURI is the resource exposing the loaded questionnaire.
const QuestionnaireURI = "quiztree://questionnaire"

// StepResponse aligns with the HTTP SessionView and provides a unified structure across adapters.
type StepResponse struct {
	State      *domain.State      `json:"state" jsonschema_description:"Run state; pass it back verbatim on the next call"`
	Question   *domain.Question   `json:"question,omitempty" jsonschema_description:"The question awaiting an answer"`
	Resolution *domain.Resolution `json:"resolution,omitempty" jsonschema_description:"The result once the run is finished"`
}

// StartArgs are the arguments of start_questionnaire.
type StartArgs struct {
	SessionID string `json:"session_id,omitempty"`
}

// AnswerArgs are the arguments of answer_question.
type AnswerArgs struct {
	State  string `json:"state"`
	Option string `json:"option"`
}

// StateArgs are the arguments of tools that only need the run state.
type StateArgs struct {
	State string `json:"state"`
}

// Server wraps the quiztree Engine and exposes it as an MCP Server.
// It keeps no run state: every tool receives and returns the full state.
type Server struct {
	engine    *quiztree.Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *quiztree.Engine, opts ...Option) *Server {
	srv := server.NewMCPServer("quiztree-mcp", strings.TrimSpace(quiztree.Version),
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)
	s := &Server{
		engine:    engine,
		mcpServer: srv,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_questionnaire",
		mcp.WithDescription("Start a new questionnaire run. Returns the first question and the run state."),
		mcp.WithString("session_id", mcp.Description("Identifier for the run (optional, generated when omitted)")),
		mcp.WithOutputSchema[StepResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	answerTool := mcp.NewTool("answer_question",
		mcp.WithDescription("Answer the current question by option key. Returns the next question, or the result when the run is finished."),
		mcp.WithString("state", mcp.Required(), mcp.Description("Run state JSON as returned by the previous call")),
		mcp.WithString("option", mcp.Required(), mcp.Description("Key of the chosen option")),
		mcp.WithOutputSchema[StepResponse](),
	)
	s.mcpServer.AddTool(answerTool, mcp.NewStructuredToolHandler(s.handleAnswer))

	backTool := mcp.NewTool("go_back",
		mcp.WithDescription("Return to the previous question, discarding its answer."),
		mcp.WithString("state", mcp.Required(), mcp.Description("Run state JSON as returned by the previous call")),
		mcp.WithOutputSchema[StepResponse](),
	)
	s.mcpServer.AddTool(backTool, mcp.NewStructuredToolHandler(s.handleBack))

	resultTool := mcp.NewTool("get_result",
		mcp.WithDescription("Resolve the result of a finished run."),
		mcp.WithString("state", mcp.Required(), mcp.Description("Run state JSON of a finished run")),
		mcp.WithOutputSchema[domain.Resolution](),
	)
	s.mcpServer.AddTool(resultTool, mcp.NewStructuredToolHandler(s.handleResult))
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args StartArgs) (StepResponse, error) {
	id := args.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	return s.step(ctx, s.engine.Start(ctx, id)), nil
}

func (s *Server) handleAnswer(ctx context.Context, request mcp.CallToolRequest, args AnswerArgs) (StepResponse, error) {
	state, err := decodeState(args.State)
	if err != nil {
		return StepResponse{}, err
	}

	option, err := runner.CleanAnswer(args.Option)
	if err != nil {
		s.logger.Warn("MCP answer: answer rejected", "err", err, "size", len(args.Option))
		return StepResponse{}, fmt.Errorf("answer rejected: %w", err)
	}

	next, _, err := s.engine.Advance(ctx, state, option)
	if err != nil {
		if q, qerr := s.engine.Current(state); qerr == nil && errors.Is(err, domain.ErrUnknownOption) {
			return StepResponse{}, fmt.Errorf("%w: choose one of %s", err, strings.Join(q.OptionKeys(), ", "))
		}
		return StepResponse{}, err
	}
	return s.step(ctx, next), nil
}

func (s *Server) handleBack(ctx context.Context, request mcp.CallToolRequest, args StateArgs) (StepResponse, error) {
	state, err := decodeState(args.State)
	if err != nil {
		return StepResponse{}, err
	}
	prev, err := s.engine.Back(ctx, state)
	if err != nil {
		return StepResponse{}, fmt.Errorf("cannot go back: %w", err)
	}
	return s.step(ctx, prev), nil
}

func (s *Server) handleResult(ctx context.Context, request mcp.CallToolRequest, args StateArgs) (domain.Resolution, error) {
	state, err := decodeState(args.State)
	if err != nil {
		return domain.Resolution{}, err
	}
	if !state.Finished {
		return domain.Resolution{}, fmt.Errorf("%w: run is not finished", domain.ErrInvalidState)
	}
	return s.engine.Resolve(ctx, state), nil
}

func (s *Server) step(ctx context.Context, state *domain.State) StepResponse {
	resp := StepResponse{State: state}
	if state.Finished {
		res := s.engine.Resolve(ctx, state)
		resp.Resolution = &res
		return resp
	}
	if q, err := s.engine.Current(state); err == nil {
		resp.Question = &q
	}
	return resp
}

func decodeState(raw string) (*domain.State, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("state is required")
	}
	var state domain.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}
	if state.CurrentQuestionID == "" {
		return nil, fmt.Errorf("invalid state: current_question_id is required")
	}
	if state.Trail == nil {
		state.Trail = domain.Trail{}
	}
	return &state, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(QuestionnaireURI, "Current Questionnaire",
		mcp.WithResourceDescription("Questions in authoring order, with the start question"),
		mcp.WithMIMEType("application/json"),
	), s.readQuestionnaire)
}

func (s *Server) readQuestionnaire(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	q := s.engine.Questionnaire()
	jsonBytes, err := json.Marshal(map[string]any{
		"title":     q.Title,
		"start":     q.Graph.Start(),
		"questions": q.Graph.Questions(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode questionnaire: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      QuestionnaireURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
