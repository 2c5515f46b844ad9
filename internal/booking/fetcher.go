package booking

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/journey"
	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/tools/slowlog"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

type QuoteAPI interface {
	CalculateQuote(ctx context.Context, request schema.JourneyRequest) (schema.Quote, error)
	CompareVehicles(ctx context.Context, request schema.JourneyRequest) (schema.Comparison, error)
}

// QuoteResult holds either a single quote or a comparison.
type QuoteResult struct {
	Quote      *schema.Quote
	Comparison *schema.Comparison
}

type Fetcher struct {
	api QuoteAPI
	now func() time.Time
}

func NewFetcher(api QuoteAPI) *Fetcher {
	return &Fetcher{
		api: api,
		now: time.Now,
	}
}

func incomplete(reason string) error {
	return schema.APIError{StatusCode: http.StatusBadGateway, Err: errors.New(reason)}
}

// Fetch validates the journey and prices it. Nothing is sent for a journey that
// can not be quoted, and incomplete answers are rejected as a whole.
func (f *Fetcher) Fetch(ctx context.Context, request schema.JourneyRequest) (QuoteResult, error) {
	request = journey.Normalize(request)

	if err := journey.CanProceed(request); err != nil {
		return QuoteResult{}, err
	}

	if journey.InPast(request, f.now()) {
		return QuoteResult{}, schema.NewValidationError("pickupAt", "pickup time is in the past")
	}

	slowLogger := slowlog.CreateLogger(zerolog.Ctx(ctx), slowlog.DefaultThreshold)

	if request.VehicleClass != nil && *request.VehicleClass != "" {
		slowLogger.Start("calculateQuote")
		quote, err := f.api.CalculateQuote(ctx, request)
		slowLogger.Stop("calculateQuote")
		if err != nil {
			return QuoteResult{}, err
		}

		if quote.ID == "" || quote.Total.Currency == "" {
			return QuoteResult{}, incomplete("quote without id or price")
		}

		return QuoteResult{Quote: &quote}, nil
	}

	slowLogger.Start("compareVehicles")
	comparison, err := f.api.CompareVehicles(ctx, request)
	slowLogger.Stop("compareVehicles")
	if err != nil {
		return QuoteResult{}, err
	}

	if len(comparison.Options) == 0 {
		return QuoteResult{}, schema.APIError{
			StatusCode: http.StatusNotFound,
			Message:    "No vehicles are available for this journey.",
		}
	}

	if lo.SomeBy(comparison.Options, func(o schema.VehicleOption) bool {
		return o.Available && (o.QuoteID == "" || o.OneWay.Currency == "")
	}) {
		return QuoteResult{}, incomplete("comparison option without quote id or price")
	}

	return QuoteResult{Comparison: &comparison}, nil
}

// SeatingAtLeast returns the available options that seat the passengers.
func SeatingAtLeast(options []schema.VehicleOption, passengers int) []schema.VehicleOption {
	return lo.Filter(options, func(o schema.VehicleOption, _ int) bool {
		return o.Available && o.Capacity >= passengers
	})
}
