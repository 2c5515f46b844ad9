package quoteflow

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"bitbucket.org/crgw/transfers-web/internal/booking"
	"bitbucket.org/crgw/transfers-web/internal/booking/flowstore"
	"bitbucket.org/crgw/transfers-web/internal/journey"
	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/tools/caching"
	"bitbucket.org/crgw/transfers-web/internal/view"
	"bitbucket.org/crgw/transfers-web/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

const vehicleTypesKey = "vehicle-types"

type compareResponse struct {
	schema.Comparison
	// SeatingParty lists the available vehicle classes that seat every passenger
	SeatingParty []string `json:"seatingParty"`
}

// CompareCacheKey groups comparisons of the same normalized journey. Requests
// that do not decode are not grouped.
func CompareCacheKey(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var request schema.JourneyRequest
	if err := json.Unmarshal(body, &request); err != nil {
		return ""
	}

	request = journey.Normalize(request)
	request.VehicleClass = nil

	normalized, err := json.Marshal(request)
	if err != nil {
		return ""
	}

	sum := sha256.Sum256(normalized)
	return "compare:" + hex.EncodeToString(sum[:])
}

func (h *Handler) compare(c *gin.Context) {
	request := *web.Params[schema.JourneyRequest](c)
	request.VehicleClass = nil

	result, err := h.fetcher.Fetch(c.Request.Context(), request)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	seating := booking.SeatingAtLeast(result.Comparison.Options, request.Passengers)

	c.JSON(http.StatusOK, compareResponse{
		Comparison: *result.Comparison,
		SeatingParty: lo.Map(seating, func(o schema.VehicleOption, _ int) string {
			return o.VehicleClass
		}),
	})
}

// openSharedQuote starts a flow from a shared quote link.
func (h *Handler) openSharedQuote(c *gin.Context) {
	ctx := c.Request.Context()

	shared, err := h.API.GetQuoteByToken(ctx, c.Param("token"))
	if err != nil {
		web.RespondError(c, err)
		return
	}

	flow := booking.NewSharedFlow(flowstore.NewID(), shared, h.now())
	if shared.Quote.Expired(h.now()) {
		flow.Error = "This quote has expired, please request a new one."
	}

	if err := h.Flows.Save(ctx, flow); err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view.Render(flow, h.Location))
}

func (h *Handler) listVehicleTypes(c *gin.Context) {
	ctx := c.Request.Context()

	var vehicleTypes []schema.VehicleType
	if h.Catalog != nil {
		err := h.Catalog.Fetch(ctx, vehicleTypesKey, &vehicleTypes)
		if err == nil {
			c.JSON(http.StatusOK, vehicleTypes)
			return
		}
		if !errors.Is(err, caching.ErrMiss) {
			web.Logger(c).Warn().Err(err).Msg("Could not read vehicle types from cache")
		}
	}

	vehicleTypes, err := h.API.ListVehicleTypes(ctx)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	if h.Catalog != nil {
		if err := h.Catalog.Store(ctx, vehicleTypesKey, vehicleTypes, h.CatalogTTL); err != nil {
			web.Logger(c).Warn().Err(err).Msg("Could not cache vehicle types")
		}
	}

	c.JSON(http.StatusOK, vehicleTypes)
}

func (h *Handler) listZonePrices(c *gin.Context) {
	query := web.Params[schema.ZonePriceQuery](c)

	if query.Page < 0 || query.PerPage < 0 {
		web.RespondError(c, schema.NewValidationError("page", "paging can not be negative"))
		return
	}

	prices, err := h.API.ListZonePrices(c.Request.Context(), *query)
	if err != nil {
		web.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, prices)
}
