package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go-resolver-cache/internal/models"
)

// maxResponseSize bounds how much of a remote body is read
const maxResponseSize = 4 << 20

// FetchJSON makes a GET request and decodes the JSON body into out.
// Every failure comes back tagged as unavailable or malformed for the named source.
func FetchJSON(ctx context.Context, client *http.Client, source, url string, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Unavailable(source, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	return doJSON(client, req, source, headers, out)
}

// PostJSON makes a POST request with body encoded as JSON and decodes the response into out
func PostJSON(ctx context.Context, client *http.Client, source, url string, headers map[string]string, body, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return models.Unavailable(source, fmt.Errorf("failed to marshal request body: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return models.Unavailable(source, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return doJSON(client, req, source, headers, out)
}

// CallJSONRPC performs a single JSON-RPC 2.0 call and returns the raw result
func CallJSONRPC(ctx context.Context, client *http.Client, source, url, method string, params interface{}) (json.RawMessage, error) {
	request := models.JSONRPCRequest{
		ID:      1,
		Method:  method,
		Params:  params,
		Jsonrpc: "2.0",
	}

	var response models.JSONRPCResponse
	if err := PostJSON(ctx, client, source, url, nil, request, &response); err != nil {
		return nil, err
	}

	if response.Error != nil {
		return nil, models.Unavailable(source,
			fmt.Errorf("JSON-RPC error: %s (code %d)", response.Error.Message, response.Error.Code))
	}
	if len(response.Result) == 0 || string(response.Result) == "null" {
		return nil, models.Malformed(source, fmt.Errorf("JSON-RPC response has no result"))
	}

	return response.Result, nil
}

func doJSON(client *http.Client, req *http.Request, source string, headers map[string]string, out interface{}) error {
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return models.Unavailable(source, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return models.Unavailable(source, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return models.Unavailable(source, fmt.Errorf("failed to read response: %w", err))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return models.Malformed(source, fmt.Errorf("failed to parse JSON response: %w", err))
	}

	return nil
}
