package quoteflow

import (
	"net/http"
	"strings"

	"bitbucket.org/crgw/transfers-web/internal/journey"
	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/tools/validating"
	"bitbucket.org/crgw/transfers-web/internal/web"
	"github.com/gin-gonic/gin"
)

// Bookings are owned by the booking API, these handlers only relay the last
// snapshot of it. Every call carries the caller's proof of ownership.

// bookingAccess is the signed in corporate session when there is one,
// otherwise the booking reference and contact email headers.
func (h *Handler) bookingAccess(c *gin.Context) (schema.BookingAccess, bool) {
	if current, ok := h.currentSession(c); ok {
		return schema.BookingAccess{Token: current.Token}, true
	}

	access := schema.BookingAccess{
		Reference: strings.TrimSpace(c.GetHeader(schema.BookingReferenceHeader)),
		Email:     strings.TrimSpace(c.GetHeader(schema.BookingEmailHeader)),
	}
	if !access.Valid() {
		web.RespondError(c, schema.ErrMissingBookingAccess)
		return access, false
	}

	return access, true
}

func (h *Handler) getBooking(c *gin.Context) {
	access, ok := h.bookingAccess(c)
	if !ok {
		return
	}

	b, err := h.API.GetBooking(c.Request.Context(), access, c.Param("id"))
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *Handler) updateBooking(c *gin.Context) {
	update := web.Params[schema.BookingUpdate](c)

	if update.Contact != nil {
		if err := validating.Struct(*update.Contact); err != nil {
			web.RespondError(c, err)
			return
		}
	}

	access, ok := h.bookingAccess(c)
	if !ok {
		return
	}

	b, err := h.API.UpdateBooking(c.Request.Context(), access, c.Param("id"), *update)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *Handler) cancelBooking(c *gin.Context) {
	access, ok := h.bookingAccess(c)
	if !ok {
		return
	}

	var request schema.CancellationRequest
	if !bindOptional(c, &request) {
		return
	}

	b, err := h.API.CancelBooking(c.Request.Context(), access, c.Param("id"), request)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *Handler) amendBooking(c *gin.Context) {
	request := web.Params[schema.AmendmentRequest](c)

	if err := h.checkAmendment(*request); err != nil {
		web.RespondError(c, err)
		return
	}

	access, ok := h.bookingAccess(c)
	if !ok {
		return
	}

	b, err := h.API.AmendBooking(c.Request.Context(), access, c.Param("id"), *request)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *Handler) checkAmendment(request schema.AmendmentRequest) error {
	if request.PickupAt == nil && request.Passengers == nil && request.Luggage == nil && request.Extras == nil {
		return schema.NewValidationError("", "nothing to amend")
	}

	if request.PickupAt != nil && request.PickupAt.Before(h.now()) {
		return schema.NewValidationError("pickupAt", "pickup time is in the past")
	}

	if request.Passengers != nil && (*request.Passengers < 1 || *request.Passengers > journey.MaxPassengers) {
		return schema.NewValidationError("passengers", "passengers must be between 1 and 16")
	}

	if request.Luggage != nil && *request.Luggage < 0 {
		return schema.NewValidationError("luggage", "luggage can not be negative")
	}

	return nil
}
