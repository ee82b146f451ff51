package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"smarttest-quiz-service/internal/app"
	"smarttest-quiz-service/internal/auth"
	"smarttest-quiz-service/internal/catalog"
	"smarttest-quiz-service/internal/config"
	"smarttest-quiz-service/internal/infra/memory"
	pgstore "smarttest-quiz-service/internal/infra/postgres"
	"smarttest-quiz-service/internal/infra/rabbitmq"
	infraredis "smarttest-quiz-service/internal/infra/redis"
	"smarttest-quiz-service/internal/llm"
	"smarttest-quiz-service/internal/metrics"
	transport "smarttest-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

type stores struct {
	users      app.UserRepository
	cache      app.GenerationCache
	answerKeys app.AnswerKeyStore
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "3001"
	}

	m := metrics.New()

	cat, closePG, err := buildCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closePG()

	st, closeRedis, err := buildStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRedis()

	backend, err := llm.New(llm.Options{
		Provider: cfg.LLM.Provider,
		BaseURL:  cfg.LLM.BaseURL,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		Timeout:  config.TTLDuration(cfg.LLM.Timeout, 30*time.Second),
	})
	if err != nil {
		return err
	}
	if backend == nil {
		logger.Warn("no llm api key configured, serving questions from the static bank")
	}

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	genTimeout := config.TTLDuration(cfg.Quiz.GenerationTimeout, 15*time.Second)
	provider := app.NewQuestionProvider(cat, backend, st.cache, app.ProviderConfig{
		DefaultCount:      cfg.Quiz.DefaultCount,
		MaxCount:          cfg.Quiz.MaxCount,
		GenerationTimeout: genTimeout,
		Language:          cfg.LLM.Language,
	}, logger, m)
	scoring := app.NewScoringEngine(backend, pointsPolicy(cfg), genTimeout, cfg.LLM.Language, logger)

	hub := app.NewRankingHub()
	quiz := app.NewQuizService(app.QuizDeps{
		Catalog:    cat,
		Provider:   provider,
		Scoring:    scoring,
		Users:      st.users,
		AnswerKeys: st.answerKeys,
		Events:     publisher,
		Hub:        hub,
		Seed:       app.SeedRanking(),
		Logger:     logger,
		Metrics:    m,
	})
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))
	accounts := app.NewAuthService(st.users, tokens, m)

	router := transport.NewRouter(transport.RouterConfig{
		API:            transport.NewAPI(quiz, accounts, logger),
		Ranking:        transport.NewRankingStream(quiz, logger),
		Metrics:        m.Handler(),
		AllowedOrigins: splitOrigins(cfg.Server.FrontendURL),
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// generation can take up to genTimeout before the fallback kicks in
		WriteTimeout: genTimeout + 15*time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting quiz service", "port", finalPort, "llm", backend != nil, "events", publisher.Enabled())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// buildCatalog overlays question banks stored in Postgres on top of the built-in catalog.
func buildCatalog(ctx context.Context, cfg config.Config, logger *slog.Logger) (*catalog.Catalog, func(), error) {
	cat := catalog.Default()
	if cfg.Postgres.URL == "" {
		return cat, func() {}, nil
	}
	if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
		return nil, nil, err
	}
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, nil, err
	}
	banks, err := pgstore.NewBankLoader(pool).LoadBanks(ctx)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("loaded question banks from postgres", "subjects", len(banks))
	return cat.WithBanks(banks), pool.Close, nil
}

func buildStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (stores, func(), error) {
	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, time.Hour)
	keyTTL := config.TTLDuration(cfg.Quiz.AnswerKeyTTL, time.Hour)
	if cacheTTL <= 0 {
		logger.Warn("quiz.cache_ttl is not positive, generated questions will not be cached", "cache_ttl", cacheTTL)
	}

	if cfg.Redis.Addr == "" {
		logger.Info("using in-memory stores")
		return stores{
			users:      memory.NewUserStore(),
			cache:      memory.NewGenerationCache(cacheTTL),
			answerKeys: memory.NewAnswerKeyStore(keyTTL),
		}, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return stores{}, nil, err
	}
	logger.Info("using redis stores", "addr", cfg.Redis.Addr)
	return stores{
		users:      infraredis.NewUserStore(client),
		cache:      infraredis.NewGenerationCache(client, cacheTTL),
		answerKeys: infraredis.NewAnswerKeyStore(client, keyTTL),
	}, func() { _ = client.Close() }, nil
}

func pointsPolicy(cfg config.Config) app.PointsPolicy {
	if strings.EqualFold(cfg.Quiz.PointsMode, app.PointsModeDifficulty) {
		return app.DifficultyPointsPolicy()
	}
	return app.FlatPointsPolicy(cfg.Quiz.PointsPerCorrect)
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
