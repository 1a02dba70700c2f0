package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "v1", r.URL.Query().Get("keep"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"c": 187.5}`))
	}))
	defer srv.Close()

	var out struct {
		C float64 `json:"c"`
	}
	err := NewClient(WithUserAgent("test-agent")).
		GetJSON(context.Background(), srv.URL+"/quote?keep=v1", url.Values{"symbol": {"AAPL"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, 187.5, out.C)
}

func TestGetJSONStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewClient().GetJSON(context.Background(), srv.URL, nil, nil)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.Equal(t, "slow down", se.Body)
}

func TestGetJSONBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	var out map[string]any
	err := NewClient().GetJSON(context.Background(), srv.URL, nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode json")
}
