package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// LegacyHostRedirect permanently redirects requests for legacyHost to
// canonicalHost keeping path and query.
func LegacyHostRedirect(legacyHost string, canonicalHost string) gin.HandlerFunc {
	legacyHost = strings.ToLower(legacyHost)

	return func(c *gin.Context) {
		if legacyHost == "" || canonicalHost == "" {
			return
		}

		host := strings.ToLower(c.Request.Host)
		if i := strings.LastIndexByte(host, ':'); i != -1 && !strings.Contains(host[i:], "]") {
			host = host[:i]
		}

		if host != legacyHost {
			return
		}

		target := *c.Request.URL
		target.Scheme = "https"
		target.Host = canonicalHost

		c.Redirect(http.StatusMovedPermanently, target.String())
		c.Abort()
	}
}
