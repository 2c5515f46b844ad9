package web

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Cors allows the browser front ends on allowedOrigins to call the API with
// the session cookie. No origins means same origin only.
func Cors(allowedOrigins []string) gin.HandlerFunc {
	if len(allowedOrigins) == 0 {
		return func(c *gin.Context) {}
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", CorrelationIdHeader},
		ExposeHeaders:    []string{CorrelationIdHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
