package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/userdocs/userdocs/internal/health"
	"github.com/userdocs/userdocs/internal/users"
)

// Options tunes router behavior
type Options struct {
	// AllowOrigins lists CORS origins. "*" allows any origin, echoed back so credentials work.
	AllowOrigins      []string
	ExposeFaultDetail bool
}

// NewRouter builds the gin engine with CORS, request logging and all routes registered
func NewRouter(userService users.UserService, healthManager *health.Manager, opts Options, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsCfg := corsConfig(opts.AllowOrigins)
	router.Use(Preflight(corsCfg))
	router.Use(cors.New(corsCfg))
	router.Use(RequestLogger(logger))
	router.Use(Recovery(logger))

	router.GET("/", rootHandler(userService))
	router.GET("/health", healthHandler(healthManager))

	handlers := NewUserHandlers(userService, opts.ExposeFaultDetail, logger)
	handlers.RegisterRoutes(router.Group("/"))

	return router
}

// corsMethods is also what Preflight advertises
var corsMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = corsMethods
	cfg.AllowHeaders = []string{
		"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Language",
		"Authorization", "X-Requested-With", RequestIDHeader,
	}
	cfg.ExposeHeaders = []string{RequestIDHeader}
	cfg.AllowCredentials = true

	allowAny := len(origins) == 0
	for _, origin := range origins {
		if origin == "*" {
			allowAny = true
		}
	}
	if allowAny {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Preflight answers CORS preflights for allowed origins, echoing whatever
// headers the browser asks for. cors.New only ever replies with its fixed
// AllowHeaders list, so any custom header would otherwise be refused.
func Preflight(cfg cors.Config) gin.HandlerFunc {
	methods := strings.Join(corsMethods, ",")
	maxAge := strconv.FormatInt(int64(cfg.MaxAge/time.Second), 10)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if c.Request.Method != http.MethodOptions || origin == "" ||
			c.GetHeader("Access-Control-Request-Method") == "" || !originAllowed(cfg, origin) {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Add("Vary", "Origin")
		h.Add("Vary", "Access-Control-Request-Method")
		h.Add("Vary", "Access-Control-Request-Headers")
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", methods)
		if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
			h.Set("Access-Control-Allow-Headers", requested)
		}
		if cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		if cfg.MaxAge > 0 {
			h.Set("Access-Control-Max-Age", maxAge)
		}
		c.AbortWithStatus(http.StatusNoContent)
	}
}

func originAllowed(cfg cors.Config, origin string) bool {
	if cfg.AllowAllOrigins || (cfg.AllowOriginFunc != nil && cfg.AllowOriginFunc(origin)) {
		return true
	}
	for _, allowed := range cfg.AllowOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}
