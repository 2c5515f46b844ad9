package web

import (
	"net/http"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/config"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Options struct {
	Config      config.Config
	Logger      *zerolog.Logger
	Openapi     *openapi3.T
	OpenapiYAML []byte
	// Ping reports whether the backing stores are reachable
	Ping func(c *gin.Context) error
	// Routes registers the application route groups
	Routes []func(router gin.IRouter)
}

func SetupRouter(o Options) (*gin.Engine, error) {
	startTime := time.Now()

	if o.Config.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.
		Use(StartRequest).
		Use(CorrelationId).
		Use(RegisterLogger(o.Logger)).
		Use(TraceLog).
		Use(PanicRecovery).
		Use(LegacyHostRedirect(o.Config.LegacyHost, o.Config.CanonicalHost)).
		Use(Cors(o.Config.CORSAllowedOrigins))

	if o.Openapi != nil {
		validator, err := OpenapiValidator(o.Openapi)
		if err != nil {
			return nil, err
		}
		router.Use(validator)
	}

	router.GET("/status", func(c *gin.Context) {
		response := struct {
			Uptime float64 `json:"uptime"`
			Redis  string  `json:"redis"`
		}{
			Uptime: time.Since(startTime).Seconds(),
			Redis:  "ok",
		}

		status := http.StatusOK
		if o.Ping != nil {
			if err := o.Ping(c); err != nil {
				Logger(c).Err(err).Msg("Status check failed")
				response.Redis = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}

		c.JSON(status, response)
	})

	router.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", o.OpenapiYAML)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if !o.Config.Production() {
		pprof.Register(router)
	}

	router.NoRoute(func(c *gin.Context) {
		HandleError(c, http.StatusNotFound, "Not found", nil)
	})
	router.NoMethod(func(c *gin.Context) {
		HandleError(c, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	for _, register := range o.Routes {
		register(router)
	}

	return router, nil
}
