package chat

import (
	"context"
	"time"

	"github.com/citypulse-ai/citypulse/pkg/adapter"
	"github.com/citypulse-ai/citypulse/pkg/interfaces"
	"github.com/citypulse-ai/citypulse/pkg/model"
	"github.com/citypulse-ai/citypulse/pkg/mood"
	"github.com/citypulse-ai/citypulse/pkg/tool"
)

// FallbackMode selects what the generic fallback tries before the final
// plain LLM answer.
type FallbackMode string

const (
	// FallbackKnowledge runs the LLM with the tool registry so it can
	// call any registered source itself
	FallbackKnowledge FallbackMode = "knowledge"
	// FallbackSearch goes straight to a web search on the raw message
	FallbackSearch FallbackMode = "search"
)

const defaultCacheTTL = 24 * time.Hour

// Extractor classifies a user message. Satisfied by intent.Extractor.
type Extractor interface {
	Extract(ctx context.Context, message string) model.ParsedQuery
}

// UseCase is the dispatcher: it routes a parsed query to the right
// source, reuses cached payloads, and guarantees a non-empty reply no
// matter which collaborators are down. Every dependency except the
// extractor is optional; a missing one degrades the affected intents to
// the generic fallback.
type UseCase struct {
	extractor Extractor

	repo   interfaces.Repository
	cache  interfaces.Cache
	gemini adapter.Gemini

	twitter   interfaces.TwitterSource
	reddit    interfaces.RedditSource
	news      interfaces.NewsSource
	maps      interfaces.MapsSource
	search    interfaces.SearchSource
	knowledge interfaces.KnowledgeSource

	registry *tool.Registry
	mood     *mood.Aggregator

	cacheTTL     time.Duration
	fallbackMode FallbackMode
	now          func() time.Time
}

type Option func(*UseCase)

func WithRepo(repo interfaces.Repository) Option {
	return func(uc *UseCase) { uc.repo = repo }
}

func WithCache(cache interfaces.Cache) Option {
	return func(uc *UseCase) { uc.cache = cache }
}

func WithGemini(gemini adapter.Gemini) Option {
	return func(uc *UseCase) { uc.gemini = gemini }
}

func WithTwitter(src interfaces.TwitterSource) Option {
	return func(uc *UseCase) { uc.twitter = src }
}

func WithReddit(src interfaces.RedditSource) Option {
	return func(uc *UseCase) { uc.reddit = src }
}

func WithNews(src interfaces.NewsSource) Option {
	return func(uc *UseCase) { uc.news = src }
}

func WithMaps(src interfaces.MapsSource) Option {
	return func(uc *UseCase) { uc.maps = src }
}

func WithSearch(src interfaces.SearchSource) Option {
	return func(uc *UseCase) { uc.search = src }
}

func WithKnowledge(src interfaces.KnowledgeSource) Option {
	return func(uc *UseCase) { uc.knowledge = src }
}

// WithRegistry provides the tool registry used by the LLM-with-tools
// fallback.
func WithRegistry(registry *tool.Registry) Option {
	return func(uc *UseCase) { uc.registry = registry }
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(uc *UseCase) { uc.cacheTTL = ttl }
}

func WithFallbackMode(mode FallbackMode) Option {
	return func(uc *UseCase) { uc.fallbackMode = mode }
}

// WithClock injects the time source for cache freshness checks.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) { uc.now = now }
}

// New creates the dispatcher UseCase.
func New(extractor Extractor, opts ...Option) *UseCase {
	uc := &UseCase{
		extractor:    extractor,
		cacheTTL:     defaultCacheTTL,
		fallbackMode: FallbackKnowledge,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.mood == nil {
		uc.mood = mood.New()
	}
	return uc
}
