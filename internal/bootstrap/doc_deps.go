package bootstrap

import (
	"context"
	"os"
	"time"

	"document_server/adapter/out/extractor"
	"document_server/adapter/out/mongodb"
	"document_server/adapter/out/persistence"
	"document_server/config"
	"document_server/core/port/in"
	"document_server/core/port/out"
	"document_server/core/service/classification"
	"document_server/core/service/document"
	"document_server/infra/database"
	"document_server/pkg/cache"
	"document_server/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies wires every adapter and service the API needs.
type Dependencies struct {
	Config  *config.Config
	DB      *pgxpool.Pool
	SQLDB   *sqlx.DB
	Redis   *redis.Client
	MongoDB *mongo.Client

	// Classification engine
	RuleTable  *classification.RuleTable
	Classifier *classification.Classifier

	// Adapters
	DocumentRepo out.DocumentRepository
	TextArchive  out.TextArchive
	Extractor    out.TextExtractor

	// Services
	DocumentService in.DocumentService
}

// NewDependencies constructs all dependencies. Redis and MongoDB are
// optional; the service runs without caching and text archiving when their
// URLs are not configured. PostgreSQL is required.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// Rule table is compiled-in configuration; an invalid table must stop
	// the process here, never at request time.
	table, err := classification.NewDefaultRuleTable()
	if err != nil {
		return nil, nil, err
	}
	deps.RuleTable = table
	deps.Classifier = classification.NewClassifier(table)

	// PostgreSQL
	pool, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	deps.DB = pool
	cleanups = append(cleanups, pool.Close)

	sqlDB, err := database.NewSQLX(cfg.DatabaseURL)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	deps.SQLDB = sqlDB
	cleanups = append(cleanups, func() { _ = sqlDB.Close() })

	deps.DocumentRepo = persistence.NewDocumentAdapter(sqlDB)

	// Redis (optional)
	var resultCache out.ResultCache
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		deps.Redis = redisClient
		cleanups = append(cleanups, func() { _ = redisClient.Close() })
		resultCache = cache.NewRedisCache(redisClient)
	} else {
		logger.Warn("REDIS_URL not configured, result caching disabled")
	}

	// MongoDB (optional)
	if cfg.MongoDBURL != "" {
		mongoClient, err := mongodb.NewClient(cfg.MongoDBURL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		deps.MongoDB = mongoClient
		cleanups = append(cleanups, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongoClient.Disconnect(ctx)
		})

		archive := mongodb.NewTextArchiveAdapter(mongoClient.Database(cfg.MongoDBName))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := archive.EnsureIndexes(ctx); err != nil {
			logger.WithError(err).Warn("Failed to ensure MongoDB indexes")
		}
		cancel()
		deps.TextArchive = archive
	} else {
		logger.Warn("MONGODB_URL not configured, text archiving disabled")
	}

	// Extractor
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	deps.Extractor = extractor.NewPDFExtractor(zlog)

	// Document service
	deps.DocumentService = document.NewService(
		deps.Classifier,
		deps.Extractor,
		deps.DocumentRepo,
		deps.TextArchive,
		resultCache,
		cfg.ResultCacheTTL,
	)

	return deps, cleanup, nil
}
