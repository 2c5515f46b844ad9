package portal

import (
	"net/http"

	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/session"
	"bitbucket.org/crgw/transfers-web/internal/tools/validating"
	"bitbucket.org/crgw/transfers-web/internal/view"
	"bitbucket.org/crgw/transfers-web/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type createFlowParams struct {
	FavouriteID *string `json:"favouriteId"`
	PassengerID *string `json:"passengerId"`
}

// createFlow starts a quote for the account, prefilled from the account
// preferences and optionally from a favourite trip.
func (h *Handler) createFlow(c *gin.Context) {
	var params createFlowParams
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&params); err != nil {
			web.RespondError(c, validating.FromError(err))
			return
		}
	}

	ctx := c.Request.Context()
	current := session.FromContext(c)

	var preferences *schema.Preferences
	loaded, err := h.API.GetPreferences(ctx, current.Token)
	if err != nil {
		web.Logger(c).Warn().Err(err).Msg("Starting corporate flow without account preferences")
	} else {
		preferences = &loaded
	}

	corporate := current.Corporate(preferences)
	if params.PassengerID != nil {
		corporate.PassengerID = params.PassengerID
	}

	flow, err := h.Flows.Create(ctx, corporate)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	if params.FavouriteID != nil {
		favourites, err := h.API.ListFavourites(ctx, current.Token)
		if err != nil {
			web.RespondError(c, err)
			return
		}

		favourite, found := lo.Find(favourites, func(f schema.FavouriteTrip) bool {
			return f.ID == *params.FavouriteID
		})
		if !found {
			web.RespondError(c, schema.NewValidationError("favouriteId", "favourite trip not found"))
			return
		}

		if err := flow.UpdateJourney(favourite.Journey); err != nil {
			web.RespondError(c, err)
			return
		}
		flow.Source = "favourite"

		if err := h.Flows.Save(ctx, flow); err != nil {
			web.RespondError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, view.Render(flow, h.Location))
}
