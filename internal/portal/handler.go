// Package portal serves the corporate account pages. Every route but login
// and logout acts for the signed in user of the session cookie.
package portal

import (
	"context"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/booking/flowstore"
	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/session"
	"bitbucket.org/crgw/transfers-web/internal/web"
	"github.com/gin-gonic/gin"
)

// API is the corporate account service as the portal uses it.
type API interface {
	GetPreferences(ctx context.Context, token string) (schema.Preferences, error)
	UpdatePreferences(ctx context.Context, token string, preferences schema.Preferences) (schema.Preferences, error)
	LogoUploadURL(ctx context.Context, token string, contentType string) (schema.LogoUpload, error)
	ListFavourites(ctx context.Context, token string) ([]schema.FavouriteTrip, error)
	CreateFavourite(ctx context.Context, token string, favourite schema.FavouriteTrip) (schema.FavouriteTrip, error)
	UpdateFavourite(ctx context.Context, token string, id string, favourite schema.FavouriteTrip) (schema.FavouriteTrip, error)
	DeleteFavourite(ctx context.Context, token string, id string) error
	ListPassengers(ctx context.Context, token string) ([]schema.Passenger, error)
	CreatePassenger(ctx context.Context, token string, passenger schema.Passenger) (schema.Passenger, error)
	UpdatePassenger(ctx context.Context, token string, id string, passenger schema.Passenger) (schema.Passenger, error)
	DeletePassenger(ctx context.Context, token string, id string) error
}

type Options struct {
	API      API
	Sessions *session.Manager
	Flows    *flowstore.Store
	Location *time.Location

	CookieName   string
	CookieSecure bool
	CookieMaxAge time.Duration

	// LoginLimit guards the login route and may be nil
	LoginLimit gin.HandlerFunc
}

type Handler struct {
	Options
}

func NewHandler(o Options) *Handler {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.CookieName == "" {
		o.CookieName = "tw_session"
	}

	return &Handler{Options: o}
}

func (h *Handler) Register(router gin.IRouter) {
	group := router.Group("/api/corporate")

	login := []gin.HandlerFunc{}
	if h.LoginLimit != nil {
		login = append(login, h.LoginLimit)
	}
	group.POST("/login", append(login,
		web.TapLogger("corporateLogin", ""),
		web.PrepareParams[loginParams](),
		h.login,
	)...)
	group.POST("/logout", web.TapLogger("corporateLogout", ""), h.logout)

	signedIn := group.Group("", session.RequireSession(h.Sessions, h.CookieName))
	signedIn.GET("/session", web.TapLogger("getSession", ""), h.getSession)
	signedIn.GET("/overview", web.TapLogger("getOverview", ""), h.getOverview)

	signedIn.GET("/preferences", web.TapLogger("getPreferences", ""), h.getPreferences)
	signedIn.PUT("/preferences", web.TapLogger("updatePreferences", ""), web.PrepareParams[preferencesParams](), h.updatePreferences)
	signedIn.POST("/logo-upload-url", web.TapLogger("createLogoUploadURL", ""), web.PrepareParams[logoParams](), h.createLogoUploadURL)

	signedIn.GET("/favourites", web.TapLogger("listFavourites", ""), h.listFavourites)
	signedIn.POST("/favourites", web.TapLogger("createFavourite", ""), web.PrepareParams[favouriteParams](), h.createFavourite)
	signedIn.PUT("/favourites/:id", web.TapLogger("updateFavourite", "id"), web.PrepareParams[favouriteParams](), h.updateFavourite)
	signedIn.DELETE("/favourites/:id", web.TapLogger("deleteFavourite", "id"), h.deleteFavourite)

	signedIn.GET("/passengers", web.TapLogger("listPassengers", ""), h.listPassengers)
	signedIn.POST("/passengers", web.TapLogger("createPassenger", ""), web.PrepareParams[passengerParams](), h.createPassenger)
	signedIn.PUT("/passengers/:id", web.TapLogger("updatePassenger", "id"), web.PrepareParams[passengerParams](), h.updatePassenger)
	signedIn.DELETE("/passengers/:id", web.TapLogger("deletePassenger", "id"), h.deletePassenger)

	signedIn.POST("/flows", web.TapLogger("createCorporateFlow", ""), h.createFlow)
}
