package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to an annotation service over HTTP. The service is
// expected to accept POST <base>/annotate with {"sentence": ...} and
// answer {"relations": [...]}.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates an annotation client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

type annotateRequest struct {
	Sentence string `json:"sentence"`
}

type annotateResponse struct {
	Relations []Relation `json:"relations"`
}

// Annotate sends one sentence and returns the service's tuples.
func (c *Client) Annotate(ctx context.Context, sentence string) ([]Relation, error) {
	data, err := json.Marshal(annotateRequest{Sentence: sentence})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/annotate"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("annotation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading annotation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("annotation service error %d: %s", resp.StatusCode, string(body))
	}

	var parsed annotateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding annotation response: %w", err)
	}
	return parsed.Relations, nil
}
