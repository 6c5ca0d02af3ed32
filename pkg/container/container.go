package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"bookbuddy-backend/internal/config"
	infraCache "bookbuddy-backend/internal/infrastructure/cache"
	"bookbuddy-backend/internal/infrastructure/catalog"
	"bookbuddy-backend/internal/infrastructure/database"
	"bookbuddy-backend/internal/infrastructure/push"
	"bookbuddy-backend/pkg/cache"

	"bookbuddy-backend/internal/domains/book"
	bookHandler "bookbuddy-backend/internal/domains/book/handler"
	bookService "bookbuddy-backend/internal/domains/book/service"
	"bookbuddy-backend/internal/domains/library"
	libraryHandler "bookbuddy-backend/internal/domains/library/handler"
	libraryRepo "bookbuddy-backend/internal/domains/library/repository"
	libraryService "bookbuddy-backend/internal/domains/library/service"
	"bookbuddy-backend/internal/domains/recommendation"
	recHandler "bookbuddy-backend/internal/domains/recommendation/handler"
	recRepo "bookbuddy-backend/internal/domains/recommendation/repository"
	recService "bookbuddy-backend/internal/domains/recommendation/service"
	"bookbuddy-backend/internal/domains/user"
	userHandler "bookbuddy-backend/internal/domains/user/handler"
	userRepo "bookbuddy-backend/internal/domains/user/repository"
	userService "bookbuddy-backend/internal/domains/user/service"
)

// Container holds the application dependency graph. Everything here is a
// singleton wired once at startup.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	Catalog     book.Catalog
	Notifier    push.Sender
	AsynqClient *asynq.Client

	// Repositories
	UserRepo    user.Repository
	LibraryRepo library.Repository
	RecRepo     recommendation.Repository

	// Services
	UserService    user.Service
	BookService    book.Service
	LibraryService library.Service
	RecService     recommendation.Service

	// HTTP handlers
	UserHandler    *userHandler.UserHandler
	BookHandler    *bookHandler.BookHandler
	LibraryHandler *libraryHandler.LibraryHandler
	RecHandler     *recHandler.RecommendationHandler
}

// NewContainer builds the dependency graph bottom-up: config, then
// infrastructure, then repositories, services, handlers. Order matters.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("[Container] Config loaded (environment: %s)", cfg.App.Environment)

	if err := c.initDatabase(); err != nil {
		return nil, err
	}

	if err := c.initCache(); err != nil {
		return nil, err
	}

	c.Catalog = catalog.NewGoogleBooksClient(cfg.Catalog)
	c.Notifier = newSender(cfg.Notifier)
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Println("[Container] Initialized")
	return c, nil
}

func (c *Container) initDatabase() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	c.DB = db
	log.Println("[Container] Database connected")
	return nil
}

func (c *Container) initCache() error {
	redisCache := infraCache.NewRedisCache(
		c.Config.Redis.Host,
		c.Config.Redis.Password,
		c.Config.Redis.DB,
	)

	if err := redisCache.Connect(context.Background()); err != nil {
		// The book cache and queue both need Redis; fail fast rather than
		// run with liking silently broken.
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	c.Cache = redisCache
	log.Println("[Container] Redis connected")
	return nil
}

func newSender(cfg config.NotifierConfig) push.Sender {
	if cfg.Provider == "webhook" && cfg.WebhookURL != "" {
		return push.NewWebhookSender(cfg)
	}
	return push.NewMockSender()
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.LibraryRepo = libraryRepo.NewPostgresRepository(pool)
	c.RecRepo = recRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo)
	c.BookService = bookService.NewBookService(c.Catalog, c.Cache, c.LibraryRepo)
	c.LibraryService = libraryService.NewLibraryService(c.LibraryRepo, c.Cache)
	c.RecService = recService.NewRecommendationService(
		c.RecRepo,
		c.LibraryRepo, // preference history is the library's like list
		c.Catalog,
		c.UserService,
		c.AsynqClient,
		nil, // time-seeded randomness
	)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.LibraryHandler = libraryHandler.NewLibraryHandler(c.LibraryService)
	c.RecHandler = recHandler.NewRecommendationHandler(c.RecService)
}

// Cleanup releases held resources during graceful shutdown.
func (c *Container) Cleanup() {
	log.Println("[Container] Cleaning up...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("[Container] Failed to close asynq client: %v", err)
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("[Container] Failed to close redis: %v", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	log.Println("[Container] Cleanup complete")
}
