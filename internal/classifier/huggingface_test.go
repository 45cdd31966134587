package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type recordingObserver struct {
	calls int
	errs  int
}

func (o *recordingObserver) ObserveClassifier(_ time.Duration, err error) {
	o.calls++
	if err != nil {
		o.errs++
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) (*Client, *recordingObserver) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	obs := &recordingObserver{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	c := NewClient(Config{Endpoint: server.URL, Token: token, Timeout: 5 * time.Second}, logger, obs)
	return c, obs
}

func TestClient_Classify_NestedResponse(t *testing.T) {
	c, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["inputs"] != "I love it" {
			t.Errorf("inputs = %q", body["inputs"])
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[[{"label":"NEGATIVE","score":0.0002},{"label":"POSITIVE","score":0.9998}]]`)
	}, "secret")

	got, err := c.Classify(context.Background(), "I love it")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Label != "POSITIVE" || got.Score != 0.9998 {
		t.Fatalf("unexpected result %+v", got)
	}
	if obs.calls != 1 || obs.errs != 0 {
		t.Fatalf("observer calls=%d errs=%d", obs.calls, obs.errs)
	}
}

func TestClient_Classify_FlatResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("no Authorization header expected without a token")
		}
		io.WriteString(w, `[{"label":"NEGATIVE","score":0.87}]`)
	}, "")

	got, err := c.Classify(context.Background(), "dinosaur")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Label != "NEGATIVE" || got.Score != 0.87 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestClient_Classify_ErrorStatus(t *testing.T) {
	c, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"error":"Model is currently loading"}`)
	}, "")

	_, err := c.Classify(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error for 503")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "currently loading") {
		t.Fatalf("error should carry status and body, got %v", err)
	}
	if obs.errs != 1 {
		t.Fatalf("observer errs = %d, want 1", obs.errs)
	}
}

func TestClient_Classify_ErrorBodyTruncated(t *testing.T) {
	long := strings.Repeat("x", 4*maxErrorBody)
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, long)
	}, "")

	_, err := c.Classify(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(err.Error()) > 2*maxErrorBody {
		t.Fatalf("error message not truncated: %d bytes", len(err.Error()))
	}
}

func TestClient_Classify_EmptyResult(t *testing.T) {
	for _, payload := range []string{`[]`, `[[]]`} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, payload)
		}, "")

		_, err := c.Classify(context.Background(), "text")
		if !errors.Is(err, ErrEmptyResult) {
			t.Fatalf("payload %s: expected ErrEmptyResult, got %v", payload, err)
		}
	}
}

func TestClient_Classify_BadJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"label":"POSITIVE"}`)
	}, "")

	if _, err := c.Classify(context.Background(), "text"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestClient_Classify_ContextCancelled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"label":"POSITIVE","score":0.9}]`)
	}, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Classify(ctx, "text"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	var buf bytes.Buffer
	c := NewClient(Config{}, slog.New(slog.NewTextHandler(&buf, nil)), nil)
	if c.endpoint != DefaultEndpoint {
		t.Fatalf("endpoint = %q", c.endpoint)
	}
	if !strings.HasPrefix(c.endpoint, "https://router.huggingface.co/hf-inference/models/") {
		t.Fatalf("endpoint %q is not served by the inference router", c.endpoint)
	}
	if c.httpClient.Timeout != 30*time.Second {
		t.Fatalf("timeout = %v", c.httpClient.Timeout)
	}
}
