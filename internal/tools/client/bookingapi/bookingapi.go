package bookingapi

import (
	"context"
	"fmt"

	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/tools/client"
	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
)

const destination = "booking-api"

// QuoteTokenHeader carries the token issued when the quote was saved.
const QuoteTokenHeader = "X-Quote-Token"

// Client talks to the remote pricing and booking API.
type Client struct {
	client *client.Client
}

func NewClient(logger *zerolog.Logger, optionFuncs ...client.OptionFunc) (*Client, error) {
	c, err := client.New(logger, destination, optionFuncs...)
	if err != nil {
		return nil, err
	}

	return &Client{client: c}, nil
}

// CalculateQuote prices the journey for the vehicle class set on the request.
func (c *Client) CalculateQuote(ctx context.Context, request schema.JourneyRequest) (schema.Quote, error) {
	var quote schema.Quote
	err := c.client.Post(ctx, "/quotes/calculate", request, &quote)
	return quote, err
}

// CompareVehicles prices the journey for every vehicle class.
func (c *Client) CompareVehicles(ctx context.Context, request schema.JourneyRequest) (schema.Comparison, error) {
	var comparison schema.Comparison
	err := c.client.Post(ctx, "/quotes/compare", request, &comparison)
	return comparison, err
}

func (c *Client) SaveQuote(ctx context.Context, quote schema.Quote) (schema.SavedQuote, error) {
	var saved schema.SavedQuote
	err := c.client.Post(ctx, client.PathEscape("quotes", quote.ID, "save"), quote, &saved)
	return saved, err
}

func (c *Client) GetQuoteByToken(ctx context.Context, token string) (schema.SharedQuote, error) {
	var shared schema.SharedQuote
	err := c.client.Get(ctx, client.PathEscape("quotes", "shared", token), &shared)
	return shared, err
}

func (c *Client) CreateBooking(ctx context.Context, token string, request schema.BookingRequest) (schema.Booking, error) {
	var booking schema.Booking
	err := c.client.Post(ctx, "/bookings", request, &booking, client.WithHeader(QuoteTokenHeader, token))
	return booking, err
}

// withAccess sends the session bearer when there is one, the booking
// reference and contact email otherwise.
func withAccess(access schema.BookingAccess) []client.RequestOption {
	if access.Token != "" {
		return []client.RequestOption{client.WithBearer(access.Token)}
	}

	return []client.RequestOption{
		client.WithHeader(schema.BookingReferenceHeader, access.Reference),
		client.WithHeader(schema.BookingEmailHeader, access.Email),
	}
}

func (c *Client) GetBooking(ctx context.Context, access schema.BookingAccess, id string) (schema.Booking, error) {
	var booking schema.Booking
	err := c.client.Get(ctx, client.PathEscape("bookings", id), &booking, withAccess(access)...)
	return booking, err
}

func (c *Client) UpdateBooking(ctx context.Context, access schema.BookingAccess, id string, update schema.BookingUpdate) (schema.Booking, error) {
	var booking schema.Booking
	err := c.client.Patch(ctx, client.PathEscape("bookings", id), update, &booking, withAccess(access)...)
	return booking, err
}

func (c *Client) CancelBooking(ctx context.Context, access schema.BookingAccess, id string, request schema.CancellationRequest) (schema.Booking, error) {
	var booking schema.Booking
	err := c.client.Post(ctx, client.PathEscape("bookings", id, "cancel"), request, &booking, withAccess(access)...)
	return booking, err
}

func (c *Client) AmendBooking(ctx context.Context, access schema.BookingAccess, id string, request schema.AmendmentRequest) (schema.Booking, error) {
	var booking schema.Booking
	err := c.client.Post(ctx, client.PathEscape("bookings", id, "amend"), request, &booking, withAccess(access)...)
	return booking, err
}

func (c *Client) ListZonePrices(ctx context.Context, zoneQuery schema.ZonePriceQuery) ([]schema.ZonePrice, error) {
	values, err := query.Values(zoneQuery)
	if err != nil {
		return nil, fmt.Errorf("could not encode zone price query: %w", err)
	}

	var prices []schema.ZonePrice
	err = c.client.Get(ctx, "/zone-prices", &prices, client.WithQuery(values))
	return prices, err
}

func (c *Client) ListVehicleTypes(ctx context.Context) ([]schema.VehicleType, error) {
	var vehicleTypes []schema.VehicleType
	err := c.client.Get(ctx, "/vehicle-types", &vehicleTypes)
	return vehicleTypes, err
}
