package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"assessment-service/internal/app"
	"assessment-service/internal/config"
	"assessment-service/internal/domain"
	"assessment-service/internal/generator"
	"assessment-service/internal/infra/httpapi"
	"assessment-service/internal/infra/memory"
	"assessment-service/internal/infra/postgres"
	redisinfra "assessment-service/internal/infra/redis"
	"assessment-service/internal/infra/sqlite"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// assessmentBackend is a store that can also feed the question caches and accept scores.
type assessmentBackend interface {
	app.AssessmentStore
	app.ScoreSubmitter
	LoadQuestions(ctx context.Context, assessmentID string) ([]domain.Question, error)
}

// backend holds the infrastructure shared by the start, seed and generate commands.
type backend struct {
	store       assessmentBackend
	redis       *redis.Client
	assessments *app.AssessmentService
	closers     []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("config file not found, using defaults", "path", path)
		return config.Default(), nil
	}
	return cfg, err
}

func newBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (*backend, error) {
	b := &backend{}

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		if err := runMigrations(ctx, cfg.Postgres.URL); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		b.store = postgres.NewAssessmentStore(pool)
	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = store.Close() })
		b.store = store
	default:
		store := memory.NewAssessmentStore()
		for _, a := range sampleAssessments() {
			_ = store.Create(ctx, a)
		}
		b.store = store
	}

	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = b.redis.Close() })
	}

	count := cfg.Generator.QuestionCount
	var model generator.Model = generator.StaticModel{Text: sampleModelOutput}
	if cfg.Generator.Endpoint != "" {
		model = generator.NewHTTPModel(cfg.Generator.Endpoint, config.TTLDuration(cfg.Generator.Timeout, 60*time.Second))
	} else {
		logger.Warn("generator.endpoint not set, serving a canned question set")
	}
	gen := generator.New(model, count, logger)
	b.assessments = app.NewAssessmentService(b.store, gen, logger)
	return b, nil
}

// sessionService builds the lifecycle service with the configured caches and score gateway.
func (b *backend) sessionService(cfg config.Config, logger *slog.Logger) *app.SessionService {
	questionTTL := config.TTLDuration(cfg.Assessment.QuestionTTL, 10*time.Minute)
	var questions app.QuestionRepository
	var sessions app.SessionRepository
	if b.redis != nil {
		questions = redisinfra.NewQuestionRepository(b.redis, b.store, questionTTL)
		sessions = redisinfra.NewSessionStore(b.redis, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute), logger)
	} else {
		questions = memory.NewQuestionRepository(b.store, questionTTL)
		sessions = memory.NewSessionStore()
	}

	var submitter app.ScoreSubmitter = b.store
	if cfg.Gateway.Mode == config.GatewayHTTP {
		submitter = httpapi.NewScoreClient(cfg.Gateway.BaseURL, &http.Client{})
	}

	return app.NewSessionService(sessions, questions, submitter,
		app.WithPointsPerQuestion(cfg.Assessment.PointsPerQuestion),
		app.WithSubmitTimeout(config.TTLDuration(cfg.Assessment.SubmitTimeout, 5*time.Second)),
		app.WithLogger(logger),
	)
}

// sampleAssessments provides a demo assessment for the in-memory store.
func sampleAssessments() []domain.Assessment {
	return []domain.Assessment{
		{
			ID:     "sample-go-basics",
			UserID: "demo",
			Topic:  "Go basics",
			Questions: []domain.Question{
				{
					Question: "Which keyword starts a goroutine?",
					Options:  []string{"go", "async", "spawn", "thread"},
					Answer:   "go",
				},
				{
					Question: "What is the zero value of a map?",
					Options:  []string{"an empty map", "nil", "0", "undefined"},
					Answer:   "nil",
				},
				{
					Question: "Which package provides sync.WaitGroup?",
					Options:  []string{"runtime", "sync", "context", "os"},
					Answer:   "sync",
				},
			},
			CreatedAt: time.Date(2024, 11, 22, 0, 0, 0, 0, time.UTC),
		},
	}
}

const sampleModelOutput = "```json\n" + `[
  {"question": "What does HTTP stand for?", "options": ["HyperText Transfer Protocol", "High Transfer Text Protocol", "Hyperlink Text Protocol", "Host Transfer Protocol"], "answer": "HyperText Transfer Protocol"},
  {"question": "Which status code means Not Found?", "options": ["200", "301", "404", "500"], "answer": "404"},
  {"question": "Which method is idempotent?", "options": ["POST", "PUT", "PATCH", "CONNECT"], "answer": "PUT"}
]` + "\n```"
