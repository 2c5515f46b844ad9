// Package quoteflow serves the public quote pages, shared quote links and
// booking management.
package quoteflow

import (
	"context"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/booking"
	"bitbucket.org/crgw/transfers-web/internal/booking/flowstore"
	"bitbucket.org/crgw/transfers-web/internal/grouping"
	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/session"
	"bitbucket.org/crgw/transfers-web/internal/tools/caching"
	"bitbucket.org/crgw/transfers-web/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// API is the part of the pricing and booking API the pages use.
type API interface {
	booking.QuoteAPI
	booking.QuoteSaver
	booking.BookingAPI
	GetQuoteByToken(ctx context.Context, token string) (schema.SharedQuote, error)
	GetBooking(ctx context.Context, access schema.BookingAccess, id string) (schema.Booking, error)
	UpdateBooking(ctx context.Context, access schema.BookingAccess, id string, update schema.BookingUpdate) (schema.Booking, error)
	CancelBooking(ctx context.Context, access schema.BookingAccess, id string, request schema.CancellationRequest) (schema.Booking, error)
	AmendBooking(ctx context.Context, access schema.BookingAccess, id string, request schema.AmendmentRequest) (schema.Booking, error)
	ListZonePrices(ctx context.Context, query schema.ZonePriceQuery) ([]schema.ZonePrice, error)
	ListVehicleTypes(ctx context.Context) ([]schema.VehicleType, error)
}

type Options struct {
	API   API
	Flows *flowstore.Store
	// Catalog caches the vehicle type catalog
	Catalog    *caching.Cacher
	CatalogTTL time.Duration
	// GroupingRedis enables request grouping for comparisons when set
	GroupingRedis redis.Cmdable
	// Sessions and SessionCookie guard flows started from the corporate portal
	Sessions      *session.Manager
	SessionCookie string
	Location      *time.Location
}

type Handler struct {
	Options
	fetcher   *booking.Fetcher
	submitter *booking.Submitter
	now       func() time.Time
}

func NewHandler(o Options) *Handler {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.CatalogTTL <= 0 {
		o.CatalogTTL = time.Hour
	}

	return &Handler{
		Options:   o,
		fetcher:   booking.NewFetcher(o.API),
		submitter: booking.NewSubmitter(o.API),
		now:       time.Now,
	}
}

func (h *Handler) Register(router gin.IRouter) {
	flows := router.Group("/api/flows")
	flows.POST("", web.TapLogger("createFlow", ""), h.createFlow)
	flows.GET("/:id", web.TapLogger("getFlow", "id"), h.getFlow)
	flows.PUT("/:id/journey", web.TapLogger("updateJourney", "id"), web.PrepareParams[schema.JourneyRequest](), h.updateJourney)
	flows.POST("/:id/quote", web.TapLogger("requestQuote", "id"), h.requestQuote)
	flows.POST("/:id/vehicle", web.TapLogger("selectVehicle", "id"), web.PrepareParams[vehicleParams](), h.selectVehicle)
	flows.POST("/:id/confirm", web.TapLogger("confirmQuote", "id"), h.confirmQuote)
	flows.POST("/:id/contact", web.TapLogger("submitContact", "id"), web.PrepareParams[contactParams](), h.submitContact)
	flows.POST("/:id/payment", web.TapLogger("submitPayment", "id"), web.PrepareParams[paymentParams](), h.submitPayment)
	flows.POST("/:id/back", web.TapLogger("back", "id"), h.back)
	flows.POST("/:id/new-quote", web.TapLogger("newQuote", "id"), h.newQuote)

	compareHandlers := []gin.HandlerFunc{web.TapLogger("compareVehicles", "")}
	if h.GroupingRedis != nil {
		compareHandlers = append(compareHandlers, grouping.Middleware(grouping.MiddlewareOptions{
			CreateManager: grouping.NewRequestManager,
			RedisClient:   h.GroupingRedis,
			CacheKey:      CompareCacheKey,
		}))
	}
	compareHandlers = append(compareHandlers, web.PrepareParams[schema.JourneyRequest](), h.compare)
	router.POST("/api/quotes/compare", compareHandlers...)

	router.GET("/api/shared-quotes/:token", web.TapLogger("openSharedQuote", ""), h.openSharedQuote)
	router.GET("/api/vehicle-types", web.TapLogger("listVehicleTypes", ""), h.listVehicleTypes)
	router.GET("/api/zone-prices", web.TapLogger("listZonePrices", ""), web.PrepareParams[schema.ZonePriceQuery](), h.listZonePrices)

	bookings := router.Group("/api/bookings")
	bookings.GET("/:id", web.TapLogger("getBooking", "id"), h.getBooking)
	bookings.PATCH("/:id", web.TapLogger("updateBooking", "id"), web.PrepareParams[schema.BookingUpdate](), h.updateBooking)
	bookings.POST("/:id/cancel", web.TapLogger("cancelBooking", "id"), h.cancelBooking)
	bookings.POST("/:id/amend", web.TapLogger("amendBooking", "id"), web.PrepareParams[schema.AmendmentRequest](), h.amendBooking)
}
