package services

import (
	"context"
	"errors"

	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/modules/learning/codec"
	"github.com/mestudy/mestudy-core/internal/modules/learning/prompts"
	"github.com/mestudy/mestudy-core/internal/platform/blobstore"
	"github.com/mestudy/mestudy-core/internal/platform/llm"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// GenerationConfig is shared by every service that asks the model for JSON.
type GenerationConfig struct {
	Generator llm.Generator
	Blobs     blobstore.Store
	// Offline serves only cached blobs and never calls Generator.
	Offline bool
}

// generation runs prompt -> model -> raw JSON, deduplicating identical
// in-flight prompts, and falls back to the blob cache when offline.
type generation struct {
	cfg   GenerationConfig
	log   *logger.Logger
	group singleflight.Group
}

func newGeneration(log *logger.Logger, cfg GenerationConfig) *generation {
	return &generation{cfg: cfg, log: log}
}

// cached returns the blob under key, or ok=false on a miss. Cache errors are
// logged and treated as a miss.
func (g *generation) cached(ctx context.Context, key string) (string, bool) {
	if g.cfg.Blobs == nil {
		return "", false
	}
	raw, ok, err := g.cfg.Blobs.Load(ctx, key)
	if err != nil {
		g.log.Warn("blob load failed", "key", key, "error", err)
		return "", false
	}
	if !ok {
		g.log.Debug("blob cache miss", "key", key)
	}
	return raw, ok
}

func (g *generation) save(ctx context.Context, key, raw string) {
	if g.cfg.Blobs == nil {
		return
	}
	if err := g.cfg.Blobs.Save(ctx, key, raw); err != nil {
		g.log.Warn("blob save failed", "key", key, "error", err)
	}
}

// offlineRaw is the offline path: the cached blob or not_found.
func (g *generation) offlineRaw(ctx context.Context, op, key string) (string, error) {
	raw, ok := g.cached(ctx, key)
	if !ok {
		return "", domainagg.NewError(domainagg.CodeNotFound, op, "no cached document "+key, nil)
	}
	return raw, nil
}

// generate builds the named prompt and calls the model. Concurrent calls with
// the same rendered prompt share one request. The shared request does not
// inherit any caller's cancellation; each caller stops waiting on its own ctx.
func (g *generation) generate(ctx context.Context, op string, name prompts.PromptName, in prompts.Input) (string, error) {
	if g.cfg.Generator == nil {
		return "", domainagg.NewError(domainagg.CodeValidation, op, "no generator configured", nil)
	}
	p, err := prompts.Build(name, in)
	if err != nil {
		return "", domainagg.Wrap(domainagg.CodeValidation, op, err)
	}
	flightCtx := llm.WithRequestKind(context.WithoutCancel(ctx), string(name))
	ch := g.group.DoChan(p.Fingerprint(), func() (any, error) {
		return g.cfg.Generator.Generate(flightCtx, p.Text())
	})
	select {
	case <-ctx.Done():
		return "", generationErr(op, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			g.log.Warn("generation failed", "prompt", name, "error", res.Err)
			return "", generationErr(op, res.Err)
		}
		if res.Shared {
			g.log.Debug("generation shared", "prompt", name)
		}
		return res.Val.(string), nil
	}
}

// generationErr maps model failures onto the aggregate taxonomy; the
// *llm.Error stays reachable through errors.As.
func generationErr(op string, err error) error {
	var le *llm.Error
	if errors.As(err, &le) {
		switch {
		case le.Retryable():
			return domainagg.Wrap(domainagg.CodeRetryable, op, err)
		case le.Kind == llm.KindInvalidResponseFormat:
			return domainagg.Wrap(domainagg.CodeDecode, op, err)
		case le.Kind == llm.KindEncodingError:
			return domainagg.Wrap(domainagg.CodeSerialization, op, err)
		}
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	}
	return domainagg.Wrap(domainagg.CodeInternal, op, err)
}

func decodeErr(op string, err error) error {
	var de *codec.DecodeError
	if errors.As(err, &de) {
		return domainagg.Wrap(domainagg.CodeDecode, op, err)
	}
	return domainagg.Wrap(domainagg.CodeSerialization, op, err)
}
