package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/quiztree/pkg/adapters/memory"
	"github.com/aretw0/quiztree/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `
title: Tiny
questions:
  1:
    question: Continue?
    options:
      yes: {val: y, nextQ: 2}
      no: {val: n}
  2:
    question: Sure?
    options:
      ok: {val: k}
answers:
  patterns:
    "y|k|": {content: Done, position: End}
`

func TestInMemoryLoader_Contract(t *testing.T) {
	loader, err := memory.NewFromBytes([]byte(doc))
	require.NoError(t, err)

	ports.RunLoaderContract(t, loader)
}

func TestInMemoryLoader_Content(t *testing.T) {
	loader, err := memory.NewFromBytes([]byte(doc))
	require.NoError(t, err)

	q, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Tiny", q.Title)
	assert.Equal(t, []string{"1", "2"}, q.Graph.IDs())
	assert.Equal(t, 1, q.Patterns.Len())
}

func TestInMemoryLoader_Invalid(t *testing.T) {
	_, err := memory.NewFromBytes([]byte("questions: 3"))
	assert.Error(t, err)

	_, err = memory.NewLoader(nil).Load(context.Background())
	assert.Error(t, err)
}
