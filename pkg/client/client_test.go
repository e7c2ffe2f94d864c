package client_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alwat83/ifyoumind/pkg/client"
	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleVote(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/ideas/idea-1/vote", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		data, err := sonic.Marshal(client.VoteResult{Upvoted: true, Upvotes: 5})
		require.NoError(t, err)
		w.Write(data)
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithToken("token-1"))

	result, err := c.ToggleVote(t.Context(), "idea-1")
	require.NoError(t, err)
	assert.True(t, result.Upvoted)
	assert.Equal(t, 5, result.Upvotes)
}

func TestToggleVoteNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Idea not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := client.New(srv.URL)

	_, err := c.ToggleVote(t.Context(), "missing")
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Idea not found", apiErr.Message)
}

func TestListIdeasQueryParams(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "trending", r.URL.Query().Get("sort"))
		assert.Equal(t, "25", r.URL.Query().Get("limit"))

		data, err := sonic.Marshal([]*client.Idea{{ID: "idea-1"}})
		require.NoError(t, err)
		w.Write(data)
	}))
	defer srv.Close()

	c := client.New(srv.URL)

	ideas, err := c.ListIdeas(t.Context(), client.ListOptions{Sort: "trending", Limit: 25})
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, "idea-1", ideas[0].ID)
}

func TestIdeaStoreOptimisticSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		data, err := sonic.Marshal(client.VoteResult{Upvoted: true, Upvotes: 4})
		require.NoError(t, err)
		w.Write(data)
	}))
	defer srv.Close()

	store := client.NewIdeaStore(client.New(srv.URL), "user-1")
	store.Put(&client.Idea{
		ID:        "idea-1",
		Upvotes:   3,
		UpvotedBy: []string{"a", "b", "c"},
	})

	result, err := store.ToggleVote(t.Context(), "idea-1")
	require.NoError(t, err)
	assert.True(t, result.Upvoted)

	// The authoritative count overwrites the optimistic one
	idea, ok := store.Get("idea-1")
	require.True(t, ok)
	assert.Equal(t, 4, idea.Upvotes)
	assert.Contains(t, idea.UpvotedBy, "user-1")
}

func TestIdeaStoreRollbackOnFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Vote conflict, please try again", http.StatusConflict)
	}))
	defer srv.Close()

	store := client.NewIdeaStore(client.New(srv.URL), "user-1")
	store.Put(&client.Idea{
		ID:        "idea-1",
		Upvotes:   3,
		UpvotedBy: []string{"a", "b", "c"},
	})

	_, err := store.ToggleVote(t.Context(), "idea-1")
	require.Error(t, err)

	// The exact pre-toggle state is restored
	idea, ok := store.Get("idea-1")
	require.True(t, ok)
	assert.Equal(t, 3, idea.Upvotes)
	assert.Equal(t, []string{"a", "b", "c"}, idea.UpvotedBy)
}

func TestIdeaStoreRollbackOfRemoval(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := client.NewIdeaStore(client.New(srv.URL), "user-1")
	store.Put(&client.Idea{
		ID:        "idea-1",
		Upvotes:   2,
		UpvotedBy: []string{"a", "user-1"},
	})

	_, err := store.ToggleVote(t.Context(), "idea-1")
	require.Error(t, err)

	idea, ok := store.Get("idea-1")
	require.True(t, ok)
	assert.Equal(t, 2, idea.Upvotes)
	assert.Equal(t, []string{"a", "user-1"}, idea.UpvotedBy)
}

func TestIdeaStoreUnknownIdeaStillCallsServer(t *testing.T) {
	t.Parallel()

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true

		data, err := sonic.Marshal(client.VoteResult{Upvoted: true, Upvotes: 1})
		require.NoError(t, err)
		w.Write(data)
	}))
	defer srv.Close()

	store := client.NewIdeaStore(client.New(srv.URL), "user-1")

	result, err := store.ToggleVote(t.Context(), "idea-1")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, 1, result.Upvotes)
}

func TestDeleteIdeaForbidden(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Moderator access required", http.StatusForbidden)
	}))
	defer srv.Close()

	c := client.New(srv.URL)

	err := c.DeleteIdea(t.Context(), "idea-1")
	require.Error(t, err)

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}
