package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/quiztree/internal/config"
	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewDoc = `
title: Review
questions:
  1:
    question: Public?
    options:
      yes: {label: "Yes", val: public, nextQ: 2}
      no: {label: "No", val: internal}
  2:
    question: Personal data?
    options:
      yes: {val: pii}
      no: {val: anon}
answers:
  patterns:
    "public|pii|": {content: Full review, position: High}
    internal: {content: No review}
`

// withIO swaps the package stdin/stdout for the duration of a test.
func withIO(t *testing.T, input string) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	oldIn, oldOut := stdin, stdout
	stdin, stdout = strings.NewReader(input), &out
	t.Cleanup(func() { stdin, stdout = oldIn, oldOut })
	return &out
}

func writeDoc(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questionnaire.yaml"), []byte(reviewDoc), 0644))
	return dir
}

func TestRunSession_Text(t *testing.T) {
	out := withIO(t, "yes\n1\n")
	path, err := ResolveQuestionnairePath(writeDoc(t))
	require.NoError(t, err)

	res, err := RunSession(context.Background(), RunOptions{File: path, Config: config.Default()})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, domain.Result{Content: "Full review", Position: "High"}, res.Result)
	assert.Contains(t, out.String(), "High: Full review")
}

func TestRunSession_JSON(t *testing.T) {
	out := withIO(t, "\"no\"\n")
	path, err := ResolveQuestionnairePath(writeDoc(t))
	require.NoError(t, err)

	res, err := RunSession(context.Background(), RunOptions{File: path, JSON: true, Config: config.Default()})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "No review", res.Result.Content)
	assert.Contains(t, out.String(), `"type":"result"`)
}

func TestExecute_ResumesNamedSession(t *testing.T) {
	withIO(t, "yes\n")
	dir := writeDoc(t)
	cfg := config.Default()
	cfg.Session.Dir = filepath.Join(t.TempDir(), "sessions")

	// Input ends after the first answer: the run is paused, not failed.
	err := Execute(context.Background(), RunOptions{File: dir, SessionID: "s1", Config: cfg})
	require.NoError(t, err)

	withIO(t, "no\n")
	res, err := RunSession(context.Background(), RunOptions{File: filepath.Join(dir, "questionnaire.yaml"), SessionID: "s1", Config: cfg})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, domain.FallbackContent, res.Result.Content, "public|anon| matches nothing")

	// --fresh discards the stored run.
	withIO(t, "no\n")
	err = Execute(context.Background(), RunOptions{File: dir, SessionID: "s1", Fresh: true, Config: cfg})
	require.NoError(t, err)
}

func TestExecute_InvalidFlags(t *testing.T) {
	assert.Error(t, Execute(context.Background(), RunOptions{Watch: true, JSON: true}))
	assert.Error(t, Execute(context.Background(), RunOptions{TUI: true, JSON: true}))
}

func TestRunStoreConfig(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, config.StoreMemory, runStoreConfig(cfg, "").Session.Store)
	assert.Equal(t, config.StoreFile, runStoreConfig(cfg, "s1").Session.Store)

	cfg.Session.Store = config.StoreRedis
	assert.Equal(t, config.StoreRedis, runStoreConfig(cfg, "s1").Session.Store)
}
