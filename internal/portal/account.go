package portal

import (
	"net/http"

	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/session"
	"bitbucket.org/crgw/transfers-web/internal/web"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type overviewResponse struct {
	Session     *session.Context       `json:"session"`
	Preferences schema.Preferences     `json:"preferences"`
	Favourites  []schema.FavouriteTrip `json:"favourites"`
	Passengers  []schema.Passenger     `json:"passengers"`
}

type preferencesParams struct {
	NameBoardFormat    schema.NameBoardFormat `json:"nameBoardFormat" binding:"required,oneof=passenger company passenger-company logo"`
	LogoURL            *string                `json:"logoUrl" binding:"omitempty,url"`
	DefaultPassengerID *string                `json:"defaultPassengerId"`
	DefaultPassengers  *int                   `json:"defaultPassengers" binding:"omitempty,gte=1,lte=16"`
	DefaultLuggage     *int                   `json:"defaultLuggage" binding:"omitempty,gte=0,lte=20"`
	DefaultVehicle     *string                `json:"defaultVehicleClass"`
}

type logoParams struct {
	ContentType string `json:"contentType" binding:"required,oneof=image/png image/jpeg image/svg+xml"`
}

// getOverview loads everything the portal landing page shows at once.
func (h *Handler) getOverview(c *gin.Context) {
	current := session.FromContext(c)
	group, ctx := errgroup.WithContext(c.Request.Context())

	overview := overviewResponse{Session: current}

	group.Go(func() error {
		preferences, err := h.API.GetPreferences(ctx, current.Token)
		overview.Preferences = preferences
		return err
	})

	group.Go(func() error {
		favourites, err := h.API.ListFavourites(ctx, current.Token)
		overview.Favourites = favourites
		return err
	})

	group.Go(func() error {
		passengers, err := h.API.ListPassengers(ctx, current.Token)
		overview.Passengers = passengers
		return err
	})

	if err := group.Wait(); err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (h *Handler) getPreferences(c *gin.Context) {
	preferences, err := h.API.GetPreferences(c.Request.Context(), session.FromContext(c).Token)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, preferences)
}

func (h *Handler) updatePreferences(c *gin.Context) {
	params := web.Params[preferencesParams](c)

	if params.NameBoardFormat == schema.NameBoardLogo && params.LogoURL == nil {
		web.RespondError(c, schema.NewValidationError("logoUrl", "upload a logo before choosing the logo name board"))
		return
	}

	preferences, err := h.API.UpdatePreferences(c.Request.Context(), session.FromContext(c).Token, schema.Preferences{
		NameBoardFormat:    params.NameBoardFormat,
		LogoURL:            params.LogoURL,
		DefaultPassengerID: params.DefaultPassengerID,
		DefaultPassengers:  params.DefaultPassengers,
		DefaultLuggage:     params.DefaultLuggage,
		DefaultVehicle:     params.DefaultVehicle,
	})
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, preferences)
}

// createLogoUploadURL hands out a pre-signed URL, the browser uploads the
// file there directly.
func (h *Handler) createLogoUploadURL(c *gin.Context) {
	params := web.Params[logoParams](c)

	upload, err := h.API.LogoUploadURL(c.Request.Context(), session.FromContext(c).Token, params.ContentType)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, upload)
}
