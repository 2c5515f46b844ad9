package booking

import (
	"context"

	"bitbucket.org/crgw/transfers-web/internal/schema"
)

type quoteAPIMock struct {
	calculateQuoteMock  func(ctx context.Context, request schema.JourneyRequest) (schema.Quote, error)
	compareVehiclesMock func(ctx context.Context, request schema.JourneyRequest) (schema.Comparison, error)
	calls               int
}

func (m *quoteAPIMock) CalculateQuote(ctx context.Context, request schema.JourneyRequest) (schema.Quote, error) {
	m.calls++
	return m.calculateQuoteMock(ctx, request)
}

func (m *quoteAPIMock) CompareVehicles(ctx context.Context, request schema.JourneyRequest) (schema.Comparison, error) {
	m.calls++
	return m.compareVehiclesMock(ctx, request)
}

type bookingAPIMock struct {
	createBookingMock func(ctx context.Context, token string, request schema.BookingRequest) (schema.Booking, error)
	calls             int
}

func (m *bookingAPIMock) CreateBooking(ctx context.Context, token string, request schema.BookingRequest) (schema.Booking, error) {
	m.calls++
	return m.createBookingMock(ctx, token, request)
}

type saverMock struct {
	saveQuoteMock func(ctx context.Context, quote schema.Quote) (schema.SavedQuote, error)
	calls         int
}

func (m *saverMock) SaveQuote(ctx context.Context, quote schema.Quote) (schema.SavedQuote, error) {
	m.calls++
	return m.saveQuoteMock(ctx, quote)
}

func pendingBooking(ctx context.Context, token string, request schema.BookingRequest) (schema.Booking, error) {
	return schema.Booking{
		ID:            "bk-1",
		Reference:     "TW-1001",
		Status:        schema.BookingPending,
		PaymentMethod: request.PaymentMethod,
		QuoteID:       request.QuoteID,
		AccountID:     request.AccountID,
		Contact:       request.Contact,
	}, nil
}

func savedQuote(ctx context.Context, quote schema.Quote) (schema.SavedQuote, error) {
	return schema.SavedQuote{QuoteID: quote.ID, Token: "tok-" + quote.ID}, nil
}
