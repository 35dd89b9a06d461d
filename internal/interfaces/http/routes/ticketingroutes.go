package routes

import (
	"github.com/gin-gonic/gin"

	ticketinghandlers "github.com/nrjbutsecond/tessera/internal/interfaces/http/handlers/ticketing"
	"github.com/nrjbutsecond/tessera/internal/interfaces/http/middleware"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/ratelimit"
)

type TicketingRouteConfig struct {
	Handler     *ticketinghandlers.TicketingHandler
	ScannerAuth *middleware.ScannerAuth
	RateLimiter *middleware.RateLimiter
}

func SetupTicketingRoutes(engine *gin.Engine, config *TicketingRouteConfig) {
	classes := engine.Group("/ticket-classes")
	{
		classes.POST("", config.Handler.CreateTicketClass)
		classes.GET("", config.Handler.ListTicketClasses)
		classes.GET("/:id/availability", config.Handler.GetAvailability)
	}

	tickets := engine.Group("/tickets")
	{
		// Reservation is the hot path during on-sales; keep the budget tight.
		tickets.POST("/reserve",
			config.RateLimiter.LimitByIP("reserve", ratelimit.RateLimitConfig{
				RequestsPerMinute: 30,
				RequestsPerHour:   300,
			}),
			config.Handler.ReserveTicket)
		tickets.GET("", config.Handler.ListTickets)

		// Specific action endpoints registered before the generic /:guid route.
		tickets.POST("/:guid/confirm", config.Handler.ConfirmPayment)
		tickets.POST("/:guid/cancel", config.Handler.CancelTicket)
		tickets.GET("/:guid", config.Handler.GetTicket)
	}

	engine.POST("/scan",
		config.ScannerAuth.RequireScanner(),
		config.RateLimiter.LimitByScanner("scan", ratelimit.RateLimitConfig{
			RequestsPerMinute: 120,
		}),
		config.Handler.ScanTicket)
}
