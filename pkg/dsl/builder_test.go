package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := New("Review")

	b.Question("1", "Is the site public?").
		Option("yes", "public").Label("Yes").Go("2").
		Option("no", "internal").Label("No").Classes("muted").
		Question("2", "Personal data?").
		Option("yes", "pii").
		Option("no", "anon")

	b.Pattern("public|pii|", "Full review.", "High").
		Pattern("internal", "None needed.", "")

	q, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "Review", q.Title)
	assert.Equal(t, "1", q.Graph.Start())
	assert.Equal(t, []string{"1", "2"}, q.Graph.IDs())

	first, ok := q.Graph.Question("1")
	require.True(t, ok)
	assert.Equal(t, []domain.Option{
		{Key: "yes", Label: "Yes", Value: "public", Next: "2"},
		{Key: "no", Label: "No", Value: "internal", Classes: "muted"},
	}, first.Options)

	second, _ := q.Graph.Question("2")
	assert.True(t, second.Options[0].Ends())
	assert.Equal(t, "yes", second.Options[0].Label)

	entry, ok := q.Patterns.Pattern("internal")
	require.True(t, ok)
	assert.Equal(t, "unknown", entry.Result().Position)
}

func TestBuilder_ExplicitStartAndReopen(t *testing.T) {
	b := New("")
	b.Question("a", "A").Option("x", "x")
	b.Question("b", "B").Option("y", "y").Go("a")
	b.Question("a", "A again").Option("z", "z")
	b.Start("b")

	q, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "b", q.Graph.Start())

	a, _ := q.Graph.Question("a")
	assert.Equal(t, "A again", a.Prompt)
	assert.Equal(t, []string{"x", "z"}, a.OptionKeys())
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("Duplicate Option", func(t *testing.T) {
		b := New("")
		b.Question("1", "Q").Option("x", "a").Option("x", "b")
		_, err := b.Build()
		assert.Error(t, err)
	})

	t.Run("Modifier Without Option", func(t *testing.T) {
		b := New("")
		b.Question("1", "Q").Go("2")
		_, err := b.Build()
		assert.Error(t, err)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := New("").Build()
		assert.Error(t, err)
	})
}

func TestBuilder_Loader(t *testing.T) {
	b := New("")
	b.Question("1", "Q").Option("ok", "k")

	loader, err := b.Loader()
	require.NoError(t, err)

	q, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, q.Graph.Len())
}
