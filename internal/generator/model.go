package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StaticModel answers every prompt with the same text (demos, tests, offline mode).
type StaticModel struct {
	Text string
}

func (m StaticModel) Complete(_ context.Context, _ string) (string, error) {
	return m.Text, nil
}

// HTTPModel calls a completion endpoint that accepts {"prompt": "..."} and
// responds with {"text": "..."}.
type HTTPModel struct {
	endpoint string
	client   *http.Client
}

func NewHTTPModel(endpoint string, timeout time.Duration) *HTTPModel {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPModel{endpoint: endpoint, client: &http.Client{Timeout: timeout}}
}

func (m *HTTPModel) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("completion endpoint returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	return out.Text, nil
}
