package quoteflow

import (
	"net/http"

	"bitbucket.org/crgw/transfers-web/internal/booking"
	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/session"
	"bitbucket.org/crgw/transfers-web/internal/tools/validating"
	"bitbucket.org/crgw/transfers-web/internal/view"
	"bitbucket.org/crgw/transfers-web/internal/web"
	"github.com/gin-gonic/gin"
)

type createFlowParams struct {
	Journey *schema.JourneyRequest `json:"journey"`
}

type vehicleParams struct {
	VehicleClass  string                `json:"vehicleClass" binding:"required"`
	PricingOption *schema.PricingOption `json:"pricingOption" binding:"omitempty,oneof=one-way return hourly"`
}

// contact and payment are checked by the flow so the failure is kept inline
type contactParams struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type paymentParams struct {
	Method    schema.PaymentMethod `json:"method"`
	Reference string               `json:"reference"`
}

func (h *Handler) createFlow(c *gin.Context) {
	var params createFlowParams
	if !bindOptional(c, &params) {
		return
	}

	ctx := c.Request.Context()

	flow, err := h.Flows.Create(ctx, nil)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	if params.Journey != nil {
		if err := flow.UpdateJourney(*params.Journey); err != nil {
			web.RespondError(c, err)
			return
		}
		if err := h.Flows.Save(ctx, flow); err != nil {
			web.RespondError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, view.Render(flow, h.Location))
}

// bindOptional binds a JSON body when one was sent.
func bindOptional(c *gin.Context, params any) bool {
	if c.Request.ContentLength <= 0 {
		return true
	}

	if err := c.ShouldBindJSON(params); err != nil {
		web.RespondError(c, validating.FromError(err))
		return false
	}

	return true
}

// loadFlow returns the flow named by the route. Corporate flows are only
// visible to a signed in user of the same account.
func (h *Handler) loadFlow(c *gin.Context) (*booking.Flow, bool) {
	ctx := c.Request.Context()

	flow, err := h.Flows.Get(ctx, c.Param("id"))
	if err != nil {
		web.RespondError(c, err)
		return nil, false
	}

	if flow.IsCorporate() && !h.ownsFlow(c, flow) {
		web.RespondError(c, schema.ErrFlowNotFound)
		return nil, false
	}

	return flow, true
}

func (h *Handler) ownsFlow(c *gin.Context, flow *booking.Flow) bool {
	current, ok := h.currentSession(c)
	return ok && current.Account.ID == flow.Corporate.AccountID
}

// currentSession is the signed in corporate user behind the session cookie.
func (h *Handler) currentSession(c *gin.Context) (*session.Context, bool) {
	if h.Sessions == nil {
		return nil, false
	}

	id, err := c.Cookie(h.SessionCookie)
	if err != nil {
		return nil, false
	}

	current, err := h.Sessions.Load(c.Request.Context(), id)
	if err != nil {
		web.Logger(c).Info().Err(err).Msg("Session cookie without a usable session")
		return nil, false
	}

	return current, true
}

// apply runs op on the flow, keeps the outcome and renders the flow. A failed
// op still stores the flow so the page shows the inline error. Requests on
// the same flow run one at a time, a later one sees the stage the earlier
// one left behind.
func (h *Handler) apply(c *gin.Context, op func(flow *booking.Flow) error) {
	release, err := h.Flows.Lock(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.RespondError(c, err)
		return
	}
	defer release()

	flow, ok := h.loadFlow(c)
	if !ok {
		return
	}

	opErr := op(flow)

	if err := h.Flows.Save(c.Request.Context(), flow); err != nil {
		web.RespondError(c, err)
		return
	}

	status := http.StatusOK
	if opErr != nil {
		status = web.StatusFor(opErr)

		event := web.Logger(c).Warn()
		if status >= http.StatusInternalServerError {
			event = web.Logger(c).Error()
		}
		event.
			Err(opErr).
			Str("stage", string(flow.Stage)).
			Int("code", status).
			Msg("Flow operation failed")
	}

	c.JSON(status, view.Render(flow, h.Location))
}

func (h *Handler) getFlow(c *gin.Context) {
	flow, ok := h.loadFlow(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, view.Render(flow, h.Location))
}

func (h *Handler) updateJourney(c *gin.Context) {
	request := web.Params[schema.JourneyRequest](c)

	h.apply(c, func(flow *booking.Flow) error {
		return flow.UpdateJourney(*request)
	})
}

func (h *Handler) requestQuote(c *gin.Context) {
	h.apply(c, func(flow *booking.Flow) error {
		return flow.RequestQuote(c.Request.Context(), h.fetcher)
	})
}

func (h *Handler) selectVehicle(c *gin.Context) {
	params := web.Params[vehicleParams](c)

	h.apply(c, func(flow *booking.Flow) error {
		return flow.SelectVehicle(params.VehicleClass, params.PricingOption)
	})
}

func (h *Handler) confirmQuote(c *gin.Context) {
	h.apply(c, func(flow *booking.Flow) error {
		return flow.ConfirmQuote(c.Request.Context(), h.API, h.now())
	})
}

func (h *Handler) submitContact(c *gin.Context) {
	params := web.Params[contactParams](c)

	h.apply(c, func(flow *booking.Flow) error {
		return flow.SubmitContact(c.Request.Context(), schema.ContactDetails{
			Name:  params.Name,
			Email: params.Email,
			Phone: params.Phone,
		}, h.submitter)
	})
}

func (h *Handler) submitPayment(c *gin.Context) {
	params := web.Params[paymentParams](c)

	h.apply(c, func(flow *booking.Flow) error {
		return flow.SubmitPayment(c.Request.Context(), schema.PaymentOutcome{
			Method:    params.Method,
			Reference: params.Reference,
		}, h.submitter)
	})
}

func (h *Handler) back(c *gin.Context) {
	h.apply(c, func(flow *booking.Flow) error {
		return flow.Back()
	})
}

func (h *Handler) newQuote(c *gin.Context) {
	h.apply(c, func(flow *booking.Flow) error {
		flow.NewQuote()
		return nil
	})
}
