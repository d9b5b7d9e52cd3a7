// Package httpapi talks to a remote assessment API that owns score persistence.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"assessment-service/internal/domain"
)

// ScoreClient sends PATCH {baseURL}/assessment/{id} with body {"score": n}.
type ScoreClient struct {
	baseURL string
	client  *http.Client
}

// NewScoreClient uses http.DefaultClient when client is nil; call deadlines come from ctx.
func NewScoreClient(baseURL string, client *http.Client) *ScoreClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &ScoreClient{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (c *ScoreClient) SubmitScore(ctx context.Context, assessmentID string, score int) error {
	body, err := json.Marshal(struct {
		Score int `json:"score"`
	}{Score: score})
	if err != nil {
		return err
	}
	endpoint := c.baseURL + "/assessment/" + url.PathEscape(assessmentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("score request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrAssessmentNotFound
	case resp.StatusCode/100 != 2:
		return fmt.Errorf("score endpoint returned %d", resp.StatusCode)
	}
	return nil
}
