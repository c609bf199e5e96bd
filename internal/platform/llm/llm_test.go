package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mestudy/mestudy-core/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/tmc/langchaingo/llms/openai"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		kind   ErrorKind
		status int
	}{
		{openai.ErrMissingToken, KindAPIKeyMissing, 0},
		{fmt.Errorf("wrapped: %w", openai.ErrEmptyResponse), KindInvalidResponseFormat, 0},
		{errors.New("API returned unexpected status code: 429: rate limited"), KindHTTPError, 429},
		{context.DeadlineExceeded, KindNetworkError, 0},
		{errors.New("dial tcp: connection refused"), KindNetworkError, 0},
	}
	for _, tc := range cases {
		got := classify(tc.err)
		if got.Kind != tc.kind || got.StatusCode != tc.status {
			t.Fatalf("classify(%v) = %s/%d want %s/%d", tc.err, got.Kind, got.StatusCode, tc.kind, tc.status)
		}
	}
	if !classify(errors.New("status code: 503")).Retryable() {
		t.Fatalf("503 should be retryable")
	}
	if classify(errors.New("status code: 401")).Retryable() {
		t.Fatalf("401 should not be retryable")
	}
}

func TestNewOpenAIGenerator_Config(t *testing.T) {
	if _, err := NewOpenAIGenerator(nil, nil, Config{}); KindOf(err) != KindAPIKeyMissing {
		t.Fatalf("expected api_key_missing, got %v", err)
	}
	if _, err := NewOpenAIGenerator(nil, nil, Config{APIKey: "k", BaseURL: "not a url"}); KindOf(err) != KindInvalidURL {
		t.Fatalf("expected invalid_url, got %v", err)
	}
}

const completion = `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
"choices":[{"index":0,"message":{"role":"assistant","content":"{\"tips\":[\"Rest\"]}"},"finish_reason":"stop"}],
"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`

func TestOpenAIGenerator_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion))
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	g, err := NewOpenAIGenerator(nil, metrics, Config{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := g.Generate(WithRequestKind(context.Background(), "study_tips"), "tips please")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != `{"tips":["Rest"]}` {
		t.Fatalf("unexpected output %q", out)
	}
	if n, err := testutil.GatherAndCount(reg, "mestudy_llm_requests_total"); err != nil || n != 1 {
		t.Fatalf("expected one llm request series, got %d %v", n, err)
	}

	bad, err := NewOpenAIGenerator(nil, nil, Config{APIKey: "wrong", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = bad.Generate(context.Background(), "tips please")
	var typed *Error
	if !errors.As(err, &typed) || typed.Kind != KindHTTPError || typed.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected http_error 401, got %v", err)
	}
}

func TestOpenAIGenerator_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion))
	}))
	defer srv.Close()

	g, err := NewOpenAIGenerator(nil, nil, Config{APIKey: "test-key", BaseURL: srv.URL, RequestsPerMinute: 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := g.Generate(context.Background(), "first"); err != nil {
		t.Fatalf("first: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := g.Generate(ctx, "second"); KindOf(err) != KindNetworkError {
		t.Fatalf("expected network_error from limiter, got %v", err)
	}
}
