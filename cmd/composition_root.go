package cmd

import (
	"context"

	httpadapter "tracking/internal/adapters/in/http"
	"tracking/internal/adapters/out/postgres"
	"tracking/internal/adapters/out/redis"
	"tracking/internal/core/application/lifecycle"
	"tracking/internal/core/application/usecases/commands"
	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/ports"
	"tracking/internal/jobs"
	"tracking/internal/pkg/metrics"
	"tracking/internal/tasks"
	"tracking/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config      Config
	gormDB      *gorm.DB
	redisClient goredis.UniversalClient
	uowFactory  *postgres.GormUnitOfWorkFactory
	queue       *redis.JobQueue
	registry    *prometheus.Registry
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient goredis.UniversalClient,
	logger *zap.Logger,
) CompositionRoot {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	routes := make(map[string]redis.Route, len(tasks.Specs()))
	for _, spec := range tasks.Specs() {
		routes[spec.Name] = redis.Route{Queue: spec.Queue, MaxRetries: spec.MaxRetries}
	}

	return CompositionRoot{
		config:      config,
		gormDB:      gormDB,
		redisClient: redisClient,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		queue:       redis.NewJobQueue(redisClient, routes),
		registry:    registry,
		metrics:     metrics.New(registry),
		logger:      logger,
	}
}

func (c *CompositionRoot) Policy() lifecycle.Policy {
	return lifecycle.Policy{AutoCreateUnits: c.config.Tracking.AutoCreateUnits}
}

func (c *CompositionRoot) CreateRegisterCheckpointCommandHandler() commands.RegisterCheckpointCommandHandler {
	return commands.NewRegisterCheckpointCommandHandler(c.commandUoWFactory(), c.queue, c.Policy(), c.logger)
}

func (c *CompositionRoot) CreateCreateUnitCommandHandler() commands.CreateUnitCommandHandler {
	return commands.NewCreateUnitCommandHandler(c.commandUoWFactory())
}

func (c *CompositionRoot) CreateGetTrackingHistoryQueryHandler() queries.GetTrackingHistoryQueryHandler {
	return queries.NewGetTrackingHistoryQueryHandler(c.queryUoWFactory())
}

func (c *CompositionRoot) CreateListUnitsByStatusQueryHandler() queries.ListUnitsByStatusQueryHandler {
	return queries.NewListUnitsByStatusQueryHandler(c.queryUoWFactory())
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	registerCheckpoint := c.CreateRegisterCheckpointCommandHandler()
	createUnit := c.CreateCreateUnitCommandHandler()

	return httpadapter.NewServer(
		&registerCheckpoint,
		&createUnit,
		c.CreateGetTrackingHistoryQueryHandler(),
		c.CreateListUnitsByStatusQueryHandler(),
		httpadapter.JobMonitor{
			Queues:    tasks.Queues(),
			Queue:     c.queue,
			Heartbeat: c.CreateHeartbeat(),
		},
		c.metrics,
		c.logger,
	)
}

func (c *CompositionRoot) CreateHealthHandler() *httpadapter.HealthHandler {
	heartbeat := c.CreateHeartbeat()

	return httpadapter.NewHealthHandler(c.logger,
		httpadapter.HealthCheck{Name: "database", Probe: func(ctx context.Context) error {
			return postgres.Ping(ctx, c.gormDB)
		}},
		httpadapter.HealthCheck{Name: "redis", Probe: func(ctx context.Context) error {
			return redis.Ping(ctx, c.redisClient)
		}},
		httpadapter.HealthCheck{Name: "worker", Probe: heartbeat.Check},
	)
}

func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	return httpadapter.NewRouter(
		c.CreateHTTPServer(),
		c.CreateHealthHandler(),
		redis.NewSlidingWindowLimiter(c.redisClient),
		c.metrics,
		c.registry,
		httpadapter.RouterConfig{
			APIKey: c.config.Security.APIKey,
			RateLimit: httpadapter.RateLimitConfig{
				Window: c.config.Security.RateLimitWindow,
				Limits: map[string]int{
					"/api/v1/checkpoints":          c.config.Security.RateLimitRegister,
					"/api/v1/units":                c.config.Security.RateLimitRegister,
					"/api/v1/tracking/:trackingId": c.config.Security.RateLimitTracking,
					"/api/v1/shipments":            c.config.Security.RateLimitList,
					"/api/v1/jobs/status":          c.config.Security.RateLimitList,
				},
			},
		},
		c.logger,
	)
}

func (c *CompositionRoot) CreateWorker() *worker.Worker {
	history := c.CreateGetTrackingHistoryQueryHandler()
	notifier := tasks.NewLogNotifier(c.logger)

	handlers := map[string]worker.Handler{
		ports.JobProcessCheckpoint: tasks.NewProcessCheckpointHandler(history, c.logger),
		ports.JobSendNotification:  tasks.NewSendNotificationHandler(notifier, c.config.Tracking.NotificationRecipient),
	}

	registrations := make(map[string]worker.Registration, len(handlers))
	for _, spec := range tasks.Specs() {
		registrations[spec.Name] = worker.Registration{
			Handler:     handlers[spec.Name],
			BaseBackoff: spec.BaseBackoff,
		}
	}

	return worker.New(c.queue, registrations, worker.Config{
		Queues:      tasks.Queues(),
		Concurrency: c.config.Worker.Concurrency,
		JobTimeout:  c.config.Worker.JobTimeout,
	}, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.queue, c.config.Worker.DeadLetterRetention, c.logger)
}

func (c *CompositionRoot) CreateHeartbeat() *redis.Heartbeat {
	return redis.NewHeartbeat(c.redisClient)
}

// Registry exposes the collectors served on /metrics.
func (c *CompositionRoot) Registry() *prometheus.Registry {
	return c.registry
}

func (c *CompositionRoot) commandUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) queryUoWFactory() queries.ReadUoWFactory {
	return FuncReadUoWFactory(func() queries.ReadUoW {
		return c.uowFactory.Create()
	})
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncReadUoWFactory func() queries.ReadUoW

func (f FuncReadUoWFactory) Create() queries.ReadUoW {
	return f()
}
