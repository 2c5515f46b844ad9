package portal

import (
	"net/http"
	"strings"

	"bitbucket.org/crgw/transfers-web/internal/journey"
	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/session"
	"bitbucket.org/crgw/transfers-web/internal/web"
	"github.com/gin-gonic/gin"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type favouriteParams struct {
	Name    string                `json:"name" binding:"required,max=80"`
	Journey schema.JourneyRequest `json:"journey"`
}

type passengerParams struct {
	Name  string               `json:"name" binding:"required,max=120"`
	Email *openapi_types.Email `json:"email"`
	Phone string               `json:"phone" binding:"omitempty,min=6,max=32"`
	Notes *string              `json:"notes" binding:"omitempty,max=500"`
}

func (p favouriteParams) favourite() (schema.FavouriteTrip, error) {
	request := journey.Normalize(p.Journey)
	if request.Pickup.Address == "" {
		return schema.FavouriteTrip{}, schema.NewValidationError("journey.pickup.address", "pickup address is required")
	}

	return schema.FavouriteTrip{Name: strings.TrimSpace(p.Name), Journey: request}, nil
}

func (p passengerParams) passenger() schema.Passenger {
	passenger := schema.Passenger{
		Name:  strings.TrimSpace(p.Name),
		Phone: strings.TrimSpace(p.Phone),
		Notes: p.Notes,
	}
	if p.Email != nil {
		passenger.Email = string(*p.Email)
	}

	return passenger
}

func (h *Handler) listFavourites(c *gin.Context) {
	favourites, err := h.API.ListFavourites(c.Request.Context(), session.FromContext(c).Token)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, favourites)
}

func (h *Handler) createFavourite(c *gin.Context) {
	favourite, err := web.Params[favouriteParams](c).favourite()
	if err != nil {
		web.RespondError(c, err)
		return
	}

	created, err := h.API.CreateFavourite(c.Request.Context(), session.FromContext(c).Token, favourite)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateFavourite(c *gin.Context) {
	favourite, err := web.Params[favouriteParams](c).favourite()
	if err != nil {
		web.RespondError(c, err)
		return
	}

	updated, err := h.API.UpdateFavourite(c.Request.Context(), session.FromContext(c).Token, c.Param("id"), favourite)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteFavourite(c *gin.Context) {
	if err := h.API.DeleteFavourite(c.Request.Context(), session.FromContext(c).Token, c.Param("id")); err != nil {
		web.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) listPassengers(c *gin.Context) {
	passengers, err := h.API.ListPassengers(c.Request.Context(), session.FromContext(c).Token)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, passengers)
}

func (h *Handler) createPassenger(c *gin.Context) {
	passenger := web.Params[passengerParams](c).passenger()

	created, err := h.API.CreatePassenger(c.Request.Context(), session.FromContext(c).Token, passenger)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updatePassenger(c *gin.Context) {
	passenger := web.Params[passengerParams](c).passenger()

	updated, err := h.API.UpdatePassenger(c.Request.Context(), session.FromContext(c).Token, c.Param("id"), passenger)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deletePassenger(c *gin.Context) {
	if err := h.API.DeletePassenger(c.Request.Context(), session.FromContext(c).Token, c.Param("id")); err != nil {
		web.RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
