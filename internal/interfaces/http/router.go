package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	ticketingUsecases "github.com/nrjbutsecond/tessera/internal/application/ticketing/usecases"
	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/auth"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/cache"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/config"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/email"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/eventprovider"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/identity"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/pubsub"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/qrcode"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/ratelimit"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/repository"
	ticketinghandlers "github.com/nrjbutsecond/tessera/internal/interfaces/http/handlers/ticketing"
	"github.com/nrjbutsecond/tessera/internal/interfaces/http/middleware"
	"github.com/nrjbutsecond/tessera/internal/interfaces/http/routes"
	"github.com/nrjbutsecond/tessera/internal/shared/db"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"

	_ "github.com/nrjbutsecond/tessera/docs"
)

// Router wires repositories, use cases, and handlers into a gin engine.
type Router struct {
	engine           *gin.Engine
	ticketingHandler *ticketinghandlers.TicketingHandler
	scannerAuth      *middleware.ScannerAuth
	rateLimiter      *middleware.RateLimiter
	allowedOrigins   []string
	logger           logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(database *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Router, error) {
	engine := gin.New()

	registerCustomValidators()

	ticketRepo := repository.NewTicketRepository(database)
	classRepo := repository.NewTicketClassRepository(database)
	scanLogRepo := repository.NewScanLogRepository(database)

	eventProv := eventprovider.NewProvider(database)
	identityProv := identity.NewProvider(database)

	codec, err := qrcode.NewCodec(cfg.Ticketing.QR.KeyHex, cfg.Ticketing.QR.MaxTokenAge())
	if err != nil {
		return nil, err
	}
	imageRenderer := qrcode.NewImageRenderer()

	delivery := email.NewSMTPDelivery(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
	})

	availability := cache.NewAvailabilityCache(redisClient)
	publisher := pubsub.NewRedisPublisher(redisClient)
	txManager := db.NewTransactionManager(database)
	codeGen := ticketing.NewCodeGenerator()
	clock := ticketing.NewSystemClock()
	holdTTL := cfg.Ticketing.HoldTTL()

	createClassUC := ticketingUsecases.NewCreateTicketClassUseCase(classRepo, eventProv, codeGen, log)
	listClassesUC := ticketingUsecases.NewListTicketClassesUseCase(classRepo, clock, log)
	getAvailabilityUC := ticketingUsecases.NewGetAvailabilityUseCase(classRepo, availability, clock, log)
	reserveUC := ticketingUsecases.NewReserveTicketUseCase(
		ticketRepo, classRepo, eventProv, codeGen, txManager, availability, publisher, clock, holdTTL, log)
	confirmPaymentUC := ticketingUsecases.NewConfirmPaymentUseCase(
		ticketRepo, classRepo, eventProv, identityProv, delivery, codec, imageRenderer, publisher, clock, log)
	cancelUC := ticketingUsecases.NewCancelTicketUseCase(
		ticketRepo, classRepo, txManager, availability, publisher, clock, log)
	getTicketUC := ticketingUsecases.NewGetTicketUseCase(ticketRepo, log)
	listTicketsUC := ticketingUsecases.NewListTicketsUseCase(ticketRepo, log)
	scanUC := ticketingUsecases.NewScanTicketUseCase(
		ticketRepo, classRepo, scanLogRepo, eventProv, identityProv, codec, txManager, publisher, clock, log)

	ticketingHandler := ticketinghandlers.NewTicketingHandler(
		createClassUC,
		listClassesUC,
		getAvailabilityUC,
		reserveUC,
		confirmPaymentUC,
		cancelUC,
		getTicketUC,
		listTicketsUC,
		scanUC,
	)

	scannerTokens := auth.NewScannerTokenService(cfg.Ticketing.Scanner.JWTSecret, 24)
	scannerAuth := middleware.NewScannerAuth(scannerTokens, log)
	rateLimiter := middleware.NewRateLimiter(ratelimit.NewRedisRateLimiter(redisClient), log)

	return &Router{
		engine:           engine,
		ticketingHandler: ticketingHandler,
		scannerAuth:      scannerAuth,
		rateLimiter:      rateLimiter,
		allowedOrigins:   cfg.Server.AllowedOrigins,
		logger:           log,
	}, nil
}

// registerCustomValidators installs binding validators shared by the request
// DTOs. event_kind mirrors the domain value object so malformed kinds are
// rejected before a use case runs.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("event_kind", func(fl validator.FieldLevel) bool {
		kind := fl.Field().String()
		return kind == "talk_event" || kind == "workshop"
	})
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.allowedOrigins))

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupTicketingRoutes(r.engine, &routes.TicketingRouteConfig{
		Handler:     r.ticketingHandler,
		ScannerAuth: r.scannerAuth,
		RateLimiter: r.rateLimiter,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
