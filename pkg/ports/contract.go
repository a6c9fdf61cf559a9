package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID, "1")
		state.CurrentQuestionID = "3"
		state.Trail = domain.Trail{"public", "new"}
		state.History = []string{"1", "2", "3"}

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "3", loaded.CurrentQuestionID)
		assert.Equal(t, "public|new|", loaded.Trail.Key())
		assert.Equal(t, []string{"1", "2", "3"}, loaded.History)
		assert.False(t, loaded.Finished)
	})

	t.Run("Save Copies State", func(t *testing.T) {
		state := domain.NewState(sessionID, "1")
		require.NoError(t, store.Save(ctx, sessionID, state))

		state.Trail = append(state.Trail, "late")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, loaded.Trail, "mutating the saved value must not leak into the store")
	})

	t.Run("Finished Flag", func(t *testing.T) {
		state := domain.NewState(sessionID, "1")
		state.Trail = domain.Trail{"internal"}
		state.Finished = true
		require.NoError(t, store.Save(ctx, sessionID, state))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.True(t, loaded.Finished)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, "1"))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, "1"))
		_ = store.Save(ctx, id2, domain.NewState(id2, "1"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunLoaderContract verifies that a QuestionnaireLoader returns a usable
// questionnaire on every call.
func RunLoaderContract(t *testing.T, loader QuestionnaireLoader) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load", func(t *testing.T) {
		q, err := loader.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, q)
		require.NotNil(t, q.Graph)
		assert.True(t, q.Graph.Has(q.Graph.Start()), "start question must exist")
	})

	t.Run("Load Twice", func(t *testing.T) {
		first, err := loader.Load(ctx)
		require.NoError(t, err)
		second, err := loader.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.Graph.IDs(), second.Graph.IDs())
	})
}
