package utils

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-resolver-cache/internal/models"
)

func TestFetchJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		_, _ = w.Write([]byte(`{"matic-network":{"usd":0.73}}`))
	}))
	defer server.Close()

	var out map[string]map[string]float64
	err := FetchJSON(context.Background(), server.Client(), "aggregator", server.URL,
		map[string]string{"X-Api-Key": "secret"}, &out)

	require.NoError(t, err)
	assert.Equal(t, 0.73, out["matic-network"]["usd"])
}

func TestFetchJSON_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `oops`, models.ErrSourceUnavailable},
		{"rate limited", http.StatusTooManyRequests, `{}`, models.ErrSourceUnavailable},
		{"not found", http.StatusNotFound, `{}`, models.ErrSourceUnavailable},
		{"bad json", http.StatusOK, `{"usd":`, models.ErrMalformedResponse},
		{"html page", http.StatusOK, `<html></html>`, models.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			var out map[string]interface{}
			err := FetchJSON(context.Background(), server.Client(), "test", server.URL, nil, &out)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Contains(t, err.Error(), "test:")
		})
	}
}

func TestFetchJSON_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	var out interface{}
	err := FetchJSON(context.Background(), http.DefaultClient, "test", url, nil, &out)

	assert.ErrorIs(t, err, models.ErrSourceUnavailable)
}

func TestFetchJSON_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var out interface{}
	err := FetchJSON(ctx, server.Client(), "slow", server.URL, nil, &out)

	assert.ErrorIs(t, err, models.ErrSourceUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPostJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"crop":"maize"}`, string(body))
		_, _ = w.Write([]byte(`{"text":"ok"}`))
	}))
	defer server.Close()

	var out struct {
		Text string `json:"text"`
	}
	err := PostJSON(context.Background(), server.Client(), "llm", server.URL,
		map[string]string{"Authorization": "Bearer k"}, map[string]string{"crop": "maize"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "ok", out.Text)
}

func TestCallJSONRPC(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantResult string
		wantErr    error
	}{
		{
			name:       "result",
			response:   `{"jsonrpc":"2.0","id":1,"result":"0x01"}`,
			wantResult: `"0x01"`,
		},
		{
			name:     "rpc error",
			response: `{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"execution reverted"}}`,
			wantErr:  models.ErrSourceUnavailable,
		},
		{
			name:     "null result",
			response: `{"jsonrpc":"2.0","id":1,"result":null}`,
			wantErr:  models.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req models.JSONRPCRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "eth_call", req.Method)
				assert.Equal(t, "2.0", req.Jsonrpc)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			result, err := CallJSONRPC(context.Background(), server.Client(), "chainlink", server.URL, "eth_call", []interface{}{"x"})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantResult, string(result))
		})
	}
}
