package bootstrap

import (
	"context"
	"log"

	"howdy-portal-be/internal/config"
	"howdy-portal-be/internal/controller"
	"howdy-portal-be/internal/handler"
	"howdy-portal-be/internal/pkg/logger"
	"howdy-portal-be/internal/pkg/mailer"
	"howdy-portal-be/internal/pkg/serverutils"
	"howdy-portal-be/internal/repository/contract"
	"howdy-portal-be/internal/repository/memory"
	"howdy-portal-be/internal/repository/redisstore"
	"howdy-portal-be/internal/service"
	"howdy-portal-be/internal/websocket"
	"howdy-portal-be/pkg/chatbot"
	pktNats "howdy-portal-be/pkg/nats"
	"howdy-portal-be/pkg/navigation"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	AuthController    controller.IAuthController
	PortalController  controller.IPortalController
	ChatController    controller.IChatController
	NewsController    controller.INewsController
	PaymentController controller.IPaymentController
	WebSocketHandler  *handler.WebSocketHandler

	// AuthMiddleware guards every route that needs a logged-in session.
	AuthMiddleware fiber.Handler

	// Background
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	closers []func()
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	categories := navigation.Taxonomy()
	synonyms := navigation.Synonyms()
	if err := navigation.Validate(categories, synonyms); err != nil {
		log.Fatalf("[FATAL] Navigation tables are inconsistent: %v", err)
	}

	c := &Container{Logger: sysLogger}

	// 2. Infrastructure
	rdb := newRedisClient(cfg.App.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	var sessions contract.SessionRepository
	switch cfg.Session.Store {
	case "redis":
		if rdb == nil {
			log.Fatalf("[FATAL] SESSION_STORE=redis requires REDIS_URL")
		}
		sessions = redisstore.NewSessionRepository(rdb, cfg.Session.TTL)
		log.Printf("[INFO] Using Redis session store")
	default:
		sessions = memory.NewSessionRepository(cfg.Session.TTL)
		log.Printf("[INFO] Using in-memory session store")
	}
	orders := memory.NewOrderRepository()

	// 3. Event Bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	publisherService := service.NewPublisherService(cfg.App.EventTopic, pubSub, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.EventTopic, forwarder, sysLogger)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			cfg.App.ClientURL,
			sysLogger,
		)
	} else {
		emailService = mailer.NewLogOnlyEmailService(sysLogger)
	}

	// 4. AI Gateway
	if cfg.Ai.GeminiAPIKey == "" {
		log.Printf("[WARN] GOOGLE_GEMINI_API_KEY is empty; chat replies will fall back")
	}
	gateway := chatbot.NewGateway(
		chatbot.NewGeminiTransport(cfg.Ai.GeminiBaseURL, cfg.Ai.GeminiModel, cfg.Ai.GeminiAPIKey),
		sysLogger,
	)

	// 5. Services
	portalService := service.NewPortalService(sessions, publisherService, categories, synonyms)
	authService := service.NewAuthService(sessions, publisherService, cfg.Auth)
	chatService := service.NewChatService(sessions, gateway, c.WebSocketHub, publisherService, sysLogger)
	newsService := service.NewNewsService(sessions, gateway, publisherService)
	paymentService := service.NewPaymentService(
		sessions,
		orders,
		service.NewSnapClient(cfg.Midtrans),
		publisherService,
		emailService,
		sysLogger,
		cfg.Midtrans,
		cfg.App.ClientURL,
	)

	// 6. Controllers
	c.AuthMiddleware = serverutils.JwtMiddleware(cfg.Auth.JwtSecret, portalService)
	c.AuthController = controller.NewAuthController(authService)
	c.PortalController = controller.NewPortalController(portalService)
	c.ChatController = controller.NewChatController(chatService)
	c.NewsController = controller.NewNewsController(newsService)
	c.PaymentController = controller.NewPaymentController(paymentService, sysLogger)
	c.WebSocketHandler = handler.NewWebSocketHandler(c.WebSocketHub, wsLogger)

	c.closers = append(c.closers, func() {
		_ = wsLogger.Sync()
		_ = sysLogger.Sync()
	})
	return c
}

// Start launches the hub and the audit consumer. Both stop with ctx.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)
	return c.ConsumerService.Consume(ctx)
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// newRedisClient returns nil when no URL is configured or Redis is
// unreachable; callers treat nil as single-instance mode.
func newRedisClient(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}
