package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mestudy/mestudy-core/internal/observability"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

// Generator turns one prompt into raw model text, expected to be JSON.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type requestKindKey struct{}

// WithRequestKind labels the calls made with ctx for metrics (lesson_plan, quiz, study_tips).
func WithRequestKind(ctx context.Context, kind string) context.Context {
	return context.WithValue(ctx, requestKindKey{}, kind)
}

func requestKind(ctx context.Context) string {
	if v, ok := ctx.Value(requestKindKey{}).(string); ok {
		return v
	}
	return ""
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float64

	// RequestsPerMinute caps outgoing calls; zero means unlimited.
	RequestsPerMinute int
}

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

type OpenAIGenerator struct {
	llm     llms.Model
	model   string
	timeout time.Duration
	temp    float64
	limiter *rate.Limiter
	log     *logger.Logger
	metrics *observability.Metrics
}

// NewOpenAIGenerator validates the key and base URL before building the client,
// so configuration mistakes surface as typed errors at startup.
func NewOpenAIGenerator(log *logger.Logger, metrics *observability.Metrics, cfg Config) (*OpenAIGenerator, error) {
	if log == nil {
		log = logger.Nop()
	}
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, &Error{Kind: KindAPIKeyMissing, Err: errors.New("llm api key not configured")}
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &Error{Kind: KindInvalidURL, Err: fmt.Errorf("invalid base url %q", base)}
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	client, err := openai.New(
		openai.WithToken(key),
		openai.WithBaseURL(base),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, classify(err)
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	return &OpenAIGenerator{
		llm:     client,
		limiter: limiter,
		model:   model,
		timeout: cfg.Timeout,
		temp:    cfg.Temperature,
		log:     log.With("client", "OpenAIGenerator", "model", model),
		metrics: metrics,
	}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	kind := requestKind(ctx)
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "llm.generate",
		attribute.String("llm.model", g.model),
		attribute.String("llm.kind", kind),
	)

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			typed := &Error{Kind: KindNetworkError, Err: err}
			g.metrics.ObserveLLMRequest(g.model, kind, string(typed.Kind), time.Since(start))
			observability.EndSpan(span, typed)
			return "", typed
		}
	}

	opts := []llms.CallOption{}
	if g.temp > 0 {
		opts = append(opts, llms.WithTemperature(g.temp))
	}
	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, opts...)
	if err == nil && strings.TrimSpace(out) == "" {
		err = openai.ErrEmptyResponse
	}
	if err != nil {
		typed := classify(err)
		g.metrics.ObserveLLMRequest(g.model, kind, string(typed.Kind), time.Since(start))
		observability.EndSpan(span, typed)
		g.log.Warn("llm request failed", "kind", kind, "error_kind", typed.Kind, "status", typed.StatusCode, "error", err)
		return "", typed
	}
	g.metrics.ObserveLLMRequest(g.model, kind, "ok", time.Since(start))
	observability.EndSpan(span, nil)
	g.log.Debug("llm request ok", "kind", kind, "bytes", len(out), "duration_ms", time.Since(start).Milliseconds())
	return out, nil
}

type unavailable struct{ err error }

// Unavailable is a Generator that fails every call with err, used when the
// client could not be configured.
func Unavailable(err error) Generator { return unavailable{err: classify(err)} }

func (u unavailable) Generate(context.Context, string) (string, error) { return "", u.err }
