package di

import (
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/handler"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/ratelimit"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/repository"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/seed"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/service"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/config"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/database"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/redis"
)

// Container holds all dependencies of the API process
type Container struct {
	// Infrastructure
	DB      *database.PostgresDB
	Redis   *redis.Client // nil when disabled
	Limiter ratelimit.Limiter

	// Repositories
	UserRepo      repository.UserRepository
	PersonnelRepo repository.PersonnelRepository
	RankRepo      repository.RankRepository
	VehicleRepo   repository.VehicleRepository
	SessionRepo   repository.SessionRepository

	// Services
	TokenService     service.TokenService
	AuthService      service.AuthService
	PersonnelService service.PersonnelService
	RankService      service.RankService
	VehicleService   service.VehicleService

	// Handlers
	AuthHandler      *handler.AuthHandler
	PersonnelHandler *handler.PersonnelHandler
	RankHandler      *handler.RankHandler
	VehicleHandler   *handler.VehicleHandler
	HealthHandler    *handler.HealthHandler

	// Seeder, nil unless seeding is enabled
	Seeder *seed.Seeder

	memoryLimiter *ratelimit.MemoryLimiter
}

// NewContainer wires the dependency graph
func NewContainer(cfg *config.Config, db *database.PostgresDB, redisClient *redis.Client) *Container {
	c := &Container{
		DB:    db,
		Redis: redisClient,
	}

	pool := db.Pool()
	c.UserRepo = repository.NewPostgresUserRepository(pool)
	c.PersonnelRepo = repository.NewPostgresPersonnelRepository(pool)
	c.RankRepo = repository.NewPostgresRankRepository(pool)
	c.VehicleRepo = repository.NewPostgresVehicleRepository(pool)
	c.SessionRepo = repository.NewPostgresSessionRepository(pool)

	if cfg.RateLimit.UseRedis && redisClient != nil {
		c.Limiter = ratelimit.NewRedisLimiter(redisClient)
	} else {
		c.memoryLimiter = ratelimit.NewMemoryLimiter()
		c.Limiter = c.memoryLimiter
	}

	c.TokenService = service.NewTokenService(&service.TokenServiceConfig{
		AccessSecret:    cfg.JWT.AccessSecret,
		RefreshSecret:   cfg.JWT.RefreshSecret,
		AccessTokenTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
	})

	hasher := service.NewBcryptHasher(0)

	c.AuthService = service.NewAuthService(
		c.UserRepo,
		c.PersonnelRepo,
		c.SessionRepo,
		c.TokenService,
		hasher,
		c.Limiter,
		&service.AuthServiceConfig{AccessTokenTTL: cfg.JWT.AccessTokenTTL},
	)
	c.PersonnelService = service.NewPersonnelService(c.PersonnelRepo, c.RankRepo)
	c.RankService = service.NewRankService(c.RankRepo)
	c.VehicleService = service.NewVehicleService(c.VehicleRepo, c.PersonnelRepo)

	c.AuthHandler = handler.NewAuthHandler(c.AuthService, c.TokenService)
	c.PersonnelHandler = handler.NewPersonnelHandler(c.PersonnelService)
	c.RankHandler = handler.NewRankHandler(c.RankService)
	c.VehicleHandler = handler.NewVehicleHandler(c.VehicleService)
	c.HealthHandler = handler.NewHealthHandler(db, redisClient)

	if cfg.Seed.Enabled {
		c.Seeder = seed.NewSeeder(c.PersonnelRepo, c.RankRepo, c.UserRepo, hasher, &seed.Config{
			AdminRG:       cfg.Seed.AdminRG,
			AdminPassword: cfg.Seed.AdminPassword,
		})
	}

	return c
}

// Close releases container-owned resources
func (c *Container) Close() {
	if c.memoryLimiter != nil {
		c.memoryLimiter.Stop()
	}
}
