package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/models"
)

func newTestPaid(url, key string) *PaidAPI {
	return NewPaidAPI(config.PaidConfig{
		SourceConfig: config.SourceConfig{Name: "paid", URL: url, APIKey: key, Priority: 2, Timeout: time.Second},
	}, http.DefaultClient, zap.NewNop())
}

func TestPaidAPI_Available(t *testing.T) {
	assert.True(t, newTestPaid("http://api", "k").Available())
	assert.False(t, newTestPaid("http://api", "").Available())
	assert.False(t, newTestPaid("", "k").Available())
}

func TestPaidAPI_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/cryptocurrency/quotes/latest", r.URL.Path)
		assert.Equal(t, "ETH", r.URL.Query().Get("symbol"))
		assert.Equal(t, "USD", r.URL.Query().Get("convert"))
		assert.Equal(t, "secret", r.Header.Get(paidAPIKeyHeader))
		_, _ = w.Write([]byte(`{
			"status": {"error_code": 0, "error_message": null},
			"data": {"ETH": [{"symbol": "ETH", "quote": {"USD": {"price": 2000.5}}}]}
		}`))
	}))
	defer server.Close()

	price, err := newTestPaid(server.URL, "secret").Fetch(context.Background(), models.NewPair("ETH", "USD"))

	require.NoError(t, err)
	assert.Equal(t, 2000.5, price)
}

func TestPaidAPI_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"api error", `{"status":{"error_code":1002,"error_message":"API key missing"}}`, models.ErrSourceUnavailable},
		{"no data", `{"status":{"error_code":0},"data":{}}`, models.ErrSourceUnavailable},
		{"no quote", `{"status":{"error_code":0},"data":{"ETH":[{"quote":{}}]}}`, models.ErrSourceUnavailable},
		{"null price", `{"status":{"error_code":0},"data":{"ETH":[{"quote":{"USD":{"price":null}}}]}}`, models.ErrSourceUnavailable},
		{"negative price", `{"status":{"error_code":0},"data":{"ETH":[{"quote":{"USD":{"price":-1}}}]}}`, models.ErrMalformedResponse},
		{"wrong shape", `{"status":{"error_code":0},"data":{"ETH":{"quote":{}}}}`, models.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestPaid(server.URL, "secret").Fetch(context.Background(), models.NewPair("ETH", "USD"))

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
