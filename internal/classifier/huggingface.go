// Package classifier talks to an external text-classification model served
// over HTTP. The wire format is the Hugging Face Inference API's: a JSON body
// {"inputs": "..."} answered with label/score pairs.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/msomdec/sentiment-board/internal/nlp"
)

// DefaultEndpoint serves the model transformers' "sentiment-analysis"
// pipeline uses when no model is named, through the Inference Providers router.
const DefaultEndpoint = "https://router.huggingface.co/hf-inference/models/distilbert/distilbert-base-uncased-finetuned-sst-2-english"

// maxErrorBody bounds how much of an error response is echoed into errors.
const maxErrorBody = 512

// ErrEmptyResult is returned when the endpoint answers with no labels.
var ErrEmptyResult = errors.New("classifier returned no labels")

// Observer is notified after every classification call.
type Observer interface {
	ObserveClassifier(d time.Duration, err error)
}

// Client implements nlp.Classifier against an inference endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	logger     *slog.Logger
	observer   Observer
}

// Config configures a Client. Endpoint defaults to DefaultEndpoint and
// Timeout to 30 seconds.
type Config struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// NewClient creates a Client. observer may be nil.
func NewClient(cfg Config, logger *slog.Logger, observer Observer) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   cfg.Endpoint,
		token:      cfg.Token,
		logger:     logger,
		observer:   observer,
	}
}

var _ nlp.Classifier = (*Client)(nil)

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify sends text to the endpoint and returns the highest-scoring label.
func (c *Client) Classify(ctx context.Context, text string) (result nlp.Sentiment, err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveClassifier(time.Since(start), err)
		}
	}()

	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nlp.Sentiment{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nlp.Sentiment{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("classifier request failed", "error", err)
		return nlp.Sentiment{}, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nlp.Sentiment{}, fmt.Errorf("read classifier response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := payload
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		c.logger.Error("classifier returned error status", "status", resp.StatusCode)
		return nlp.Sentiment{}, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	scores, err := decodeScores(payload)
	if err != nil {
		return nlp.Sentiment{}, err
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}

	c.logger.Debug("text classified", "label", best.Label, "score", best.Score, "duration", time.Since(start))
	return nlp.Sentiment{Label: best.Label, Score: best.Score}, nil
}

// decodeScores accepts both the flat [{...}] and the nested [[{...}]] shapes
// the Inference API returns depending on the task configuration.
func decodeScores(payload []byte) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(payload, &nested); err == nil {
		if len(nested) == 0 || len(nested[0]) == 0 {
			return nil, ErrEmptyResult
		}
		return nested[0], nil
	}

	var flat []labelScore
	if err := json.Unmarshal(payload, &flat); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}
	if len(flat) == 0 {
		return nil, ErrEmptyResult
	}
	return flat, nil
}
