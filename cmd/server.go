//go:build !integration

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bitbucket.org/crgw/transfers-web/api"
	"bitbucket.org/crgw/transfers-web/internal/booking/flowstore"
	"bitbucket.org/crgw/transfers-web/internal/chat"
	"bitbucket.org/crgw/transfers-web/internal/config"
	"bitbucket.org/crgw/transfers-web/internal/portal"
	"bitbucket.org/crgw/transfers-web/internal/quoteflow"
	"bitbucket.org/crgw/transfers-web/internal/session"
	"bitbucket.org/crgw/transfers-web/internal/tools/caching"
	"bitbucket.org/crgw/transfers-web/internal/tools/client"
	"bitbucket.org/crgw/transfers-web/internal/tools/client/assistant"
	"bitbucket.org/crgw/transfers-web/internal/tools/client/bookingapi"
	"bitbucket.org/crgw/transfers-web/internal/tools/client/corporate"
	"bitbucket.org/crgw/transfers-web/internal/tools/logger"
	"bitbucket.org/crgw/transfers-web/internal/tools/redisfactory"
	"bitbucket.org/crgw/transfers-web/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const chatTTL = 24 * time.Hour

func serverApp(httpServer *http.Server, logger *zerolog.Logger) int {
	shutdown := false
	done := make(chan error, 1)
	stop := make(chan os.Signal, 1)
	go func() {
		logger.
			Info().
			Msg("Listening on address " + httpServer.Addr)
		done <- httpServer.ListenAndServe()
	}()
	go func() {
		<-stop
		shutdown = true
		logger.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(ctx)
	}()

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	err := <-done
	if err != nil && !shutdown {
		logger.
			Error().
			Err(err).
			Msg("Server failed")
		return 1
	}
	return 0
}

type stores struct {
	flows    *flowstore.Store
	chats    *chat.Store
	catalog  *caching.Cacher
	sessions func(auth session.Authenticator) *session.Manager
}

// newStores keeps everything in redis when it is configured and in process
// memory otherwise, which only suits a single local instance.
func newStores(cfg config.Config, redisFactory *redisfactory.Factory, log *zerolog.Logger) stores {
	if flowsClient := redisFactory.FlowsClient(); flowsClient != nil {
		s := stores{
			flows: flowstore.NewRedisStore(flowsClient, cfg.FlowTTL),
			chats: chat.NewRedisStore(flowsClient, chatTTL),
			sessions: func(auth session.Authenticator) *session.Manager {
				return session.NewRedisManager(auth, flowsClient, cfg.SessionTTL)
			},
			catalog: caching.NewCacher(caching.NewMemoryEngine(), "catalog:"),
		}
		if cacheClient := redisFactory.CacheClient(); cacheClient != nil {
			s.catalog = caching.NewRedisCache(cacheClient, "catalog:")
		}
		return s
	}

	log.Warn().Msg("Redis is not configured, keeping flows and sessions in memory")

	return stores{
		flows: flowstore.NewMemoryStore(cfg.FlowTTL),
		chats: chat.NewMemoryStore(chatTTL),
		sessions: func(auth session.Authenticator) *session.Manager {
			return session.NewMemoryManager(auth, cfg.SessionTTL)
		},
		catalog: caching.NewCacher(caching.NewMemoryEngine(), "catalog:"),
	}
}

func run() int {
	cfg, err := config.Load(".env", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	log := logger.New(cfg.LogLevel, cfg.LogFile)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	redisFactory, err := redisfactory.New(cfg.FlowRedisURI, cfg.CacheRedisURI)
	if err != nil {
		log.Error().Err(err).Msg("Invalid redis configuration")
		return 1
	}
	defer redisFactory.Close()

	clientOptions := func(baseURL string) []client.OptionFunc {
		return []client.OptionFunc{
			client.WithBaseURL(baseURL),
			client.WithTimeout(cfg.APITimeout),
		}
	}

	bookingClient, err := bookingapi.NewClient(log, clientOptions(cfg.BookingAPIURL)...)
	if err != nil {
		log.Error().Err(err).Msg("Could not create booking api client")
		return 1
	}

	corporateClient, err := corporate.NewClient(log, clientOptions(cfg.CorporateAPIURL)...)
	if err != nil {
		log.Error().Err(err).Msg("Could not create corporate api client")
		return 1
	}

	assistantClient, err := assistant.NewClient(log, clientOptions(cfg.AssistantAPIURL)...)
	if err != nil {
		log.Error().Err(err).Msg("Could not create assistant client")
		return 1
	}

	s := newStores(cfg, redisFactory, log)
	sessions := s.sessions(corporateClient)

	// the limiter store is nil safe, counters stay local without redis
	limiterStore, err := web.NewLimiterStore(redisFactory.CacheClient())
	if err != nil {
		log.Error().Err(err).Msg("Could not create rate limiter store")
		return 1
	}

	loginLimit, err := web.RateLimit(limiterStore, "login", cfg.LoginRateLimit)
	if err != nil {
		log.Error().Err(err).Msg("Invalid login rate limit")
		return 1
	}

	chatLimit, err := web.RateLimit(limiterStore, "chat", cfg.ChatRateLimit)
	if err != nil {
		log.Error().Err(err).Msg("Invalid chat rate limit")
		return 1
	}

	doc, content, err := web.LoadOpenapi(cfg.OpenAPILocation, api.Openapi)
	if err != nil {
		log.Error().Err(err).Msg("Could not load openapi document")
		return 1
	}

	quoteOptions := quoteflow.Options{
		API:           bookingClient,
		Flows:         s.flows,
		Catalog:       s.catalog,
		Sessions:      sessions,
		SessionCookie: cfg.SessionCookieName,
		Location:      cfg.Location(),
	}
	if cacheClient := redisFactory.CacheClient(); cacheClient != nil {
		quoteOptions.GroupingRedis = cacheClient
	}

	quotes := quoteflow.NewHandler(quoteOptions)

	corporatePortal := portal.NewHandler(portal.Options{
		API:          corporateClient,
		Sessions:     sessions,
		Flows:        s.flows,
		Location:     cfg.Location(),
		CookieName:   cfg.SessionCookieName,
		CookieSecure: cfg.SessionCookieSecure,
		CookieMaxAge: cfg.SessionTTL,
		LoginLimit:   loginLimit,
	})

	chatWidget := chat.NewHandler(chat.NewService(assistantClient, s.chats), s.flows, cfg.Location(), chatLimit)

	appRouter, err := web.SetupRouter(web.Options{
		Config:      cfg,
		Logger:      log,
		Openapi:     doc,
		OpenapiYAML: content,
		Ping: func(c *gin.Context) error {
			return redisFactory.Ping(c.Request.Context())
		},
		Routes: []func(router gin.IRouter){
			quotes.Register,
			corporatePortal.Register,
			chatWidget.Register,
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("Could not set up router")
		return 1
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           appRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return serverApp(httpServer, log)
}

func main() {
	os.Exit(run())
}
