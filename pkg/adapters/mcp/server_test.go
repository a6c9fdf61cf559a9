package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/quiztree"
	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/aretw0/quiztree/pkg/dsl"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	b := dsl.New("Review")
	b.Question("1", "Is the site public?").
		Option("yes", "public").Go("2").
		Option("no", "internal").
		Question("2", "Personal data?").
		Option("yes", "pii").
		Option("no", "anon")
	b.Pattern("public|pii|", "Full review.", "High")

	loader, err := b.Loader()
	require.NoError(t, err)
	eng, err := quiztree.New("", quiztree.WithLoader(loader))
	require.NoError(t, err)
	return NewServer(eng)
}

func encode(t *testing.T, state *domain.State) string {
	t.Helper()
	data, err := json.Marshal(state)
	require.NoError(t, err)
	return string(data)
}

func TestServer_Run(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	step, err := s.handleStart(ctx, req, StartArgs{SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "s1", step.State.SessionID)
	require.NotNil(t, step.Question)
	assert.Equal(t, "1", step.Question.ID)

	step, err = s.handleAnswer(ctx, req, AnswerArgs{State: encode(t, step.State), Option: "yes"})
	require.NoError(t, err)
	assert.Equal(t, "2", step.Question.ID)

	_, err = s.handleResult(ctx, req, StateArgs{State: encode(t, step.State)})
	assert.True(t, errors.Is(err, domain.ErrInvalidState))

	step, err = s.handleAnswer(ctx, req, AnswerArgs{State: encode(t, step.State), Option: " no "})
	require.NoError(t, err)
	assert.True(t, step.State.Finished)
	require.NotNil(t, step.Resolution)
	assert.Equal(t, domain.TierFallback, step.Resolution.Tier)

	res, err := s.handleResult(ctx, req, StateArgs{State: encode(t, step.State)})
	require.NoError(t, err)
	assert.Equal(t, domain.FallbackContent, res.Result.Content)
}

func TestServer_StartGeneratesID(t *testing.T) {
	s := newTestServer(t)
	step, err := s.handleStart(context.Background(), mcp.CallToolRequest{}, StartArgs{})
	require.NoError(t, err)
	assert.NotEmpty(t, step.State.SessionID)
}

func TestServer_Back(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	step, _ := s.handleStart(ctx, req, StartArgs{SessionID: "s1"})
	_, err := s.handleBack(ctx, req, StateArgs{State: encode(t, step.State)})
	assert.Error(t, err, "nothing to go back to")

	step, err = s.handleAnswer(ctx, req, AnswerArgs{State: encode(t, step.State), Option: "yes"})
	require.NoError(t, err)

	step, err = s.handleBack(ctx, req, StateArgs{State: encode(t, step.State)})
	require.NoError(t, err)
	assert.Equal(t, "1", step.Question.ID)
	assert.Empty(t, step.State.Trail)
}

func TestServer_AnswerErrors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	start := encode(t, domain.NewState("s1", "1"))

	tests := []struct {
		name string
		args AnswerArgs
		want string
	}{
		{name: "Missing State", args: AnswerArgs{Option: "yes"}, want: "state is required"},
		{name: "Bad State", args: AnswerArgs{State: "{", Option: "yes"}, want: "invalid state"},
		{name: "No Current Question", args: AnswerArgs{State: `{"trail":[]}`, Option: "yes"}, want: "current_question_id"},
		{name: "Unknown Option", args: AnswerArgs{State: start, Option: "maybe"}, want: "choose one of yes, no"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.handleAnswer(ctx, mcp.CallToolRequest{}, tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestServer_QuestionnaireResource(t *testing.T) {
	s := newTestServer(t)

	contents, err := s.readQuestionnaire(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, QuestionnaireURI, text.URI)

	var doc struct {
		Title     string            `json:"title"`
		Start     string            `json:"start"`
		Questions []domain.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &doc))
	assert.Equal(t, "Review", doc.Title)
	assert.Equal(t, "1", doc.Start)
	assert.Len(t, doc.Questions, 2)
}

func TestServer_ToolsRegistered(t *testing.T) {
	s := newTestServer(t)
	resp := s.MCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{"start_questionnaire", "answer_question", "go_back", "get_result"} {
		assert.Contains(t, string(data), `"name":"`+name+`"`)
	}
}
