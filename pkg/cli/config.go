package cli

import (
	"context"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/citypulse-ai/citypulse/pkg/adapter"
	"github.com/citypulse-ai/citypulse/pkg/interfaces"
	"github.com/citypulse-ai/citypulse/pkg/repository"
	"github.com/citypulse-ai/citypulse/pkg/service/mcp"
	"github.com/citypulse-ai/citypulse/pkg/tool"
	"github.com/citypulse-ai/citypulse/pkg/tool/knowledge"
	mapstool "github.com/citypulse-ai/citypulse/pkg/tool/maps"
	newstool "github.com/citypulse-ai/citypulse/pkg/tool/news"
	reddittool "github.com/citypulse-ai/citypulse/pkg/tool/reddit"
	searchtool "github.com/citypulse-ai/citypulse/pkg/tool/search"
	twittertool "github.com/citypulse-ai/citypulse/pkg/tool/twitter"
	"github.com/citypulse-ai/citypulse/pkg/usecase/chat"
	"github.com/citypulse-ai/citypulse/pkg/usecase/intent"
	"github.com/citypulse-ai/citypulse/pkg/utils/logging"
	"github.com/citypulse-ai/citypulse/pkg/workflow"
)

// config holds configuration values
type config struct {
	// Repository
	project  string
	database string

	// Cache
	cacheBackend  string
	redisAddr     string
	redisPassword string
	redisDB       int64
	cacheTTL      time.Duration

	// Logging
	logLevel  string
	logFormat string

	// Adapters
	geminiProject  string
	geminiLocation string
	geminiModel    string

	// Assistant behavior
	mcpConfig    string
	policyDir    string
	fallbackMode string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID (empty runs on the in-memory store)",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("CITYPULSE_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json)",
			Value:       "console",
			Sources:     cli.EnvVars("CITYPULSE_LOG_FORMAT"),
			Destination: &cfg.logFormat,
		},
	}
}

// cacheFlags returns flags for the source payload cache
func cacheFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "cache",
			Usage:       "Cache backend (firestore, redis, memory)",
			Value:       "firestore",
			Sources:     cli.EnvVars("CITYPULSE_CACHE_BACKEND"),
			Destination: &cfg.cacheBackend,
		},
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address for the redis cache backend",
			Value:       "localhost:6379",
			Sources:     cli.EnvVars("CITYPULSE_REDIS_ADDR"),
			Destination: &cfg.redisAddr,
		},
		&cli.StringFlag{
			Name:        "redis-password",
			Usage:       "Redis password",
			Sources:     cli.EnvVars("CITYPULSE_REDIS_PASSWORD"),
			Destination: &cfg.redisPassword,
		},
		&cli.IntFlag{
			Name:        "redis-db",
			Usage:       "Redis database number",
			Value:       0,
			Sources:     cli.EnvVars("CITYPULSE_REDIS_DB"),
			Destination: &cfg.redisDB,
		},
		&cli.DurationFlag{
			Name:        "cache-ttl",
			Usage:       "How long cached source payloads stay fresh",
			Value:       24 * time.Hour,
			Sources:     cli.EnvVars("CITYPULSE_CACHE_TTL"),
			Destination: &cfg.cacheTTL,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini (empty disables the LLM)",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name",
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
	}
}

// assistantFlags returns flags controlling dispatcher behavior
func assistantFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "mcp-config",
			Usage:       "Path to MCP servers YAML config",
			Sources:     cli.EnvVars("CITYPULSE_MCP_CONFIG"),
			Destination: &cfg.mcpConfig,
		},
		&cli.StringFlag{
			Name:        "policy-dir",
			Usage:       "Directory of Rego advisory policies",
			Sources:     cli.EnvVars("CITYPULSE_POLICY_DIR"),
			Destination: &cfg.policyDir,
		},
		&cli.StringFlag{
			Name:        "fallback",
			Usage:       "Fallback mode for unmatched queries (knowledge, search)",
			Value:       "knowledge",
			Sources:     cli.EnvVars("CITYPULSE_FALLBACK_MODE"),
			Destination: &cfg.fallbackMode,
		},
	}
}

// setupContext installs the configured logger as the default and
// attaches it to the context.
func (cfg *config) setupContext(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	if cfg.logFormat == "json" {
		logger = logging.NewJSON(cfg.logLevel, os.Stderr)
	}
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// newRepository creates the history and report store. Without a project
// it falls back to the in-memory store for local runs.
func (cfg *config) newRepository(ctx context.Context) (interfaces.Repository, error) {
	if cfg.project == "" {
		logging.From(ctx).Info("no project configured, using in-memory store")
		return repository.NewMemory(), nil
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newCache creates the source payload cache, reusing the repository
// when it doubles as the cache backend.
func (cfg *config) newCache(ctx context.Context, repo interfaces.Repository) (interfaces.Cache, error) {
	switch cfg.cacheBackend {
	case "redis":
		cache, err := repository.NewRedisCache(ctx,
			cfg.redisAddr, cfg.redisPassword, int(cfg.redisDB),
			repository.WithRedisTTL(cfg.cacheTTL))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create redis cache")
		}
		return cache, nil

	case "memory":
		if mem, ok := repo.(*repository.Memory); ok {
			return mem, nil
		}
		return repository.NewMemory(), nil

	case "firestore", "":
		if cache, ok := repo.(interfaces.Cache); ok {
			return cache, nil
		}
		logging.From(ctx).Info("firestore cache unavailable, using in-memory cache")
		return repository.NewMemory(), nil

	default:
		return nil, goerr.New("unknown cache backend",
			goerr.V("backend", cfg.cacheBackend),
			goerr.V("supported", []string{"firestore", "redis", "memory"}))
	}
}

// newGemini creates the Gemini adapter. Returns nil without error when
// no project is configured; the assistant then runs without an LLM.
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	if cfg.geminiProject == "" {
		logging.From(ctx).Info("no gemini project configured, running without LLM")
		return nil, nil
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}

	var opts []adapter.GeminiOption
	if cfg.geminiModel != "" {
		opts = append(opts, adapter.WithGenerativeModel(cfg.geminiModel))
	}
	gemini, err := adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create gemini adapter")
	}
	return gemini, nil
}

// newStorage creates a new Storage adapter instance
func (cfg *config) newStorage(ctx context.Context, bucketName string) (adapter.Storage, error) {
	if bucketName == "" {
		return nil, goerr.New("bucket name is required")
	}

	storage, err := adapter.NewStorage(ctx, bucketName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}

// newBigQuery creates a new BigQuery adapter instance
func (cfg *config) newBigQuery(ctx context.Context) (adapter.BigQuery, error) {
	if cfg.project == "" {
		return nil, goerr.New("project is required for BigQuery")
	}

	bq, err := adapter.NewBigQuery(ctx, cfg.project)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create bigquery client")
	}
	return bq, nil
}

// newAdvisor creates the advisory policy engine when a policy directory
// is configured.
func (cfg *config) newAdvisor(ctx context.Context) (*workflow.Engine, error) {
	if cfg.policyDir == "" {
		return nil, nil
	}
	return workflow.New(ctx, cfg.policyDir)
}

type twitterSource interface {
	tool.Tool
	interfaces.TwitterSource
}

type redditSource interface {
	tool.Tool
	interfaces.RedditSource
}

type newsSource interface {
	tool.Tool
	interfaces.NewsSource
}

type mapsSource interface {
	tool.Tool
	interfaces.MapsSource
}

type searchSource interface {
	tool.Tool
	interfaces.SearchSource
}

type knowledgeSource interface {
	tool.Tool
	interfaces.KnowledgeSource
}

// toolSet bundles the live data tools so their flags can be registered
// up front and the enabled ones wired into the dispatcher.
type toolSet struct {
	twitter   twitterSource
	reddit    redditSource
	news      newsSource
	maps      mapsSource
	search    searchSource
	knowledge knowledgeSource
}

func newToolSet() *toolSet {
	return &toolSet{
		twitter:   twittertool.New(),
		reddit:    reddittool.New(),
		news:      newstool.New(),
		maps:      mapstool.New(),
		search:    searchtool.New(),
		knowledge: knowledge.New(),
	}
}

func (s *toolSet) all() []tool.Tool {
	return []tool.Tool{s.twitter, s.reddit, s.news, s.maps, s.search, s.knowledge}
}

func (s *toolSet) flags() []cli.Flag {
	var flags []cli.Flag
	for _, t := range s.all() {
		flags = append(flags, t.Flags()...)
	}
	return flags
}

// newDispatcher wires the full assistant: repository, cache, LLM, tools
// and the intent extractor.
func (cfg *config) newDispatcher(ctx context.Context, tools *toolSet) (*chat.UseCase, error) {
	logger := logging.From(ctx)

	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, err
	}
	cache, err := cfg.newCache(ctx, repo)
	if err != nil {
		return nil, err
	}
	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, err
	}

	client := &tool.Client{Repo: repo, Cache: cache, Gemini: gemini}

	candidates := tools.all()
	if cfg.mcpConfig != "" {
		provider, err := mcp.LoadAndConnect(ctx, cfg.mcpConfig)
		if err != nil {
			logger.Warn("failed to set up MCP tools, skipping", "error", err)
		} else if provider != nil {
			candidates = append(candidates, provider)
		}
	}

	registry, registered := tool.Build(ctx, client, candidates...)
	enabled := make(map[tool.Tool]bool, len(registered))
	for _, t := range registered {
		enabled[t] = true
	}

	opts := []chat.Option{
		chat.WithRepo(repo),
		chat.WithCache(cache),
		chat.WithRegistry(registry),
		chat.WithCacheTTL(cfg.cacheTTL),
	}
	if gemini != nil {
		opts = append(opts, chat.WithGemini(gemini))
	}
	if enabled[tools.twitter] {
		opts = append(opts, chat.WithTwitter(tools.twitter))
	}
	if enabled[tools.reddit] {
		opts = append(opts, chat.WithReddit(tools.reddit))
	}
	if enabled[tools.news] {
		opts = append(opts, chat.WithNews(tools.news))
	}
	if enabled[tools.maps] {
		opts = append(opts, chat.WithMaps(tools.maps))
	}
	if enabled[tools.search] {
		opts = append(opts, chat.WithSearch(tools.search))
	}
	if enabled[tools.knowledge] {
		opts = append(opts, chat.WithKnowledge(tools.knowledge))
	}
	if cfg.fallbackMode == "search" {
		opts = append(opts, chat.WithFallbackMode(chat.FallbackSearch))
	}

	return chat.New(intent.New(gemini), opts...), nil
}
