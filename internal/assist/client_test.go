package assist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatClientSuccess(t *testing.T) {
	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Hello there. "}}]}`))
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL+"/v1/", "k", "test-model", nil)
	reply, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", reply)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 0.2, got.Temperature)
	assert.Equal(t, 350, got.MaxTokens)
}

func TestChatClientFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":`))
		},
		"empty": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		},
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(fn)
			defer srv.Close()

			c := NewChatClient(srv.URL, "k", "m", nil)
			_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
			assert.Error(t, err)
		})
	}
}

func TestChatClientBreakerOpens(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL, "k", "m", nil)
	for i := 0; i < 8; i++ {
		_, err := c.Complete(context.Background(), nil)
		assert.Error(t, err)
	}
	assert.Equal(t, 5, hits)
}
