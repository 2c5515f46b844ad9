package portal

import (
	"net/http"

	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/session"
	"bitbucket.org/crgw/transfers-web/internal/web"
	"github.com/gin-gonic/gin"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type loginParams struct {
	Email    openapi_types.Email `json:"email" binding:"required"`
	Password string              `json:"password" binding:"required"`
}

func (h *Handler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.CookieName, value, maxAge, "/", "", h.CookieSecure, true)
}

func (h *Handler) login(c *gin.Context) {
	params := web.Params[loginParams](c)

	current, err := h.Sessions.Login(c.Request.Context(), schema.Credentials{
		Email:    string(params.Email),
		Password: params.Password,
	})
	if err != nil {
		web.RespondError(c, err)
		return
	}

	web.Logger(c).Info().
		Str("accountId", current.Account.ID).
		Str("userId", current.User.ID).
		Msg("Signed in")

	h.setCookie(c, current.ID, int(h.CookieMaxAge.Seconds()))
	c.JSON(http.StatusOK, current)
}

func (h *Handler) logout(c *gin.Context) {
	if id, err := c.Cookie(h.CookieName); err == nil && id != "" {
		if err := h.Sessions.Logout(c.Request.Context(), id); err != nil {
			web.RespondError(c, err)
			return
		}
	}

	h.setCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

func (h *Handler) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, session.FromContext(c))
}
