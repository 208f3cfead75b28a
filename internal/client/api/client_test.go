package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"latrones/internal/core"
)

func TestInteractSendsSquare(t *testing.T) {
	var got core.InteractRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/games/g1/squares", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(core.GameResponse{GameID: "g1", ActionCount: 1})
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	c.Out = io.Discard
	c.SetToken("tok")

	resp, err := c.Interact("g1", 0)
	require.NoError(t, err)
	require.NotNil(t, got.Square)
	assert.Equal(t, 0, *got.Square)
	assert.Equal(t, 1, resp.ActionCount)
}

func TestErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(core.ErrorResponse{Error: "no effect", Code: core.ErrIllegalAction})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Out = io.Discard

	_, err := c.GetGame("g1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, core.ErrIllegalAction, apiErr.Response.Code)
}

func TestPollQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		assert.Equal(t, "3", r.URL.Query().Get("actionCount"))
		json.NewEncoder(w).Encode(core.GameResponse{ActionCount: 4})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Out = io.Discard

	resp, err := c.GetGameWithPoll("g1", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.ActionCount)
}
