package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"

	"partnerlab-agent-be/internal/config"
	"partnerlab-agent-be/internal/controller"
	"partnerlab-agent-be/internal/pkg/logger"
	"partnerlab-agent-be/internal/pkg/mailer"
	"partnerlab-agent-be/internal/repository/memory"
	redisRepo "partnerlab-agent-be/internal/repository/redis"
	"partnerlab-agent-be/internal/repository/unitofwork"
	"partnerlab-agent-be/internal/service"
	"partnerlab-agent-be/pkg/events"
	"partnerlab-agent-be/pkg/labform"
	"partnerlab-agent-be/pkg/metrics"
	pktNats "partnerlab-agent-be/pkg/nats"
	"partnerlab-agent-be/pkg/session"
)

type Container struct {
	// Controllers
	LabRequestController controller.ILabRequestController

	// Services (the MCP server talks to these directly)
	FormSessionService service.IFormSessionService
	LabRequestService  service.ILabRequestService
	ConsumerService    service.IConsumerService

	SessionManager *session.Manager
	Metrics        *metrics.Recorder
	Logger         logger.ILogger
	DB             *gorm.DB

	// sessionTTL is the backend's own eviction backstop.
	sessionTTL time.Duration
	closers    []func() error
}

func NewContainer(db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{
		DB:      db,
		Logger:  sysLogger,
		Metrics: metrics.New(),
	}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	engine := labform.NewEngine(labform.WithLogger(sysLogger))

	var emailService mailer.IEmailService
	if cfg.SMTP.Host == "" {
		emailService = mailer.NewNoopEmailService(sysLogger)
	} else {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			sysLogger,
		)
	}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub.Close)

	var external events.Publisher
	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("EVENTS", "NATS unavailable, events stay in process", map[string]interface{}{"error": err.Error()})
		} else {
			external = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	// 3. Sessions
	expiry := session.ResolveExpiry(cfg.Session.Expiry)
	c.sessionTTL = expiry + cfg.Session.SweepInterval

	sessionRepo, err := c.newSessionRepository(cfg.Session)
	if err != nil {
		return nil, err
	}
	c.SessionManager = session.NewManager(sessionRepo, engine,
		session.WithExpiry(expiry),
		session.WithLogger(sysLogger),
		session.WithMetrics(c.Metrics),
	)

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Events.SubmissionTopic, external, sysLogger)
	c.LabRequestService = service.NewLabRequestService(uowFactory, engine, publisherService, c.Metrics, sysLogger)
	c.FormSessionService = service.NewFormSessionService(c.SessionManager, engine, c.LabRequestService, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Events.SubmissionTopic, uowFactory, emailService, sysLogger)

	// 5. Controllers
	c.LabRequestController = controller.NewLabRequestController(c.FormSessionService, c.LabRequestService)

	return c, nil
}

func (c *Container) newSessionRepository(cfg config.SessionConfig) (session.Repository, error) {
	backstop := c.sessionTTL

	switch cfg.Backend {
	case "", "memory":
		return memory.NewSessionRepository(backstop, cfg.SweepInterval), nil
	case "redis":
		repo, err := redisRepo.NewSessionRepository(cfg.RedisURL, redisRepo.WithTTL(backstop))
		if err != nil {
			return nil, err
		}
		if err := repo.Ping(context.Background()); err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		c.closers = append(c.closers, repo.Close)
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
