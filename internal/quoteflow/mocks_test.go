package quoteflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/tools/client/corporate"
	"bitbucket.org/crgw/transfers-web/internal/tools/converting"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

type apiMock struct {
	calculateQuoteMock   func(ctx context.Context, request schema.JourneyRequest) (schema.Quote, error)
	compareVehiclesMock  func(ctx context.Context, request schema.JourneyRequest) (schema.Comparison, error)
	saveQuoteMock        func(ctx context.Context, quote schema.Quote) (schema.SavedQuote, error)
	createBookingMock    func(ctx context.Context, token string, request schema.BookingRequest) (schema.Booking, error)
	getQuoteByTokenMock  func(ctx context.Context, token string) (schema.SharedQuote, error)
	getBookingMock       func(ctx context.Context, access schema.BookingAccess, id string) (schema.Booking, error)
	updateBookingMock    func(ctx context.Context, access schema.BookingAccess, id string, update schema.BookingUpdate) (schema.Booking, error)
	cancelBookingMock    func(ctx context.Context, access schema.BookingAccess, id string, request schema.CancellationRequest) (schema.Booking, error)
	amendBookingMock     func(ctx context.Context, access schema.BookingAccess, id string, request schema.AmendmentRequest) (schema.Booking, error)
	listZonePricesMock   func(ctx context.Context, query schema.ZonePriceQuery) ([]schema.ZonePrice, error)
	listVehicleTypesMock func(ctx context.Context) ([]schema.VehicleType, error)
	calls                map[string]int
	mu                   sync.Mutex
}

func (m *apiMock) called(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[name]++
}

func (m *apiMock) CalculateQuote(ctx context.Context, request schema.JourneyRequest) (schema.Quote, error) {
	m.called("CalculateQuote")
	return m.calculateQuoteMock(ctx, request)
}

func (m *apiMock) CompareVehicles(ctx context.Context, request schema.JourneyRequest) (schema.Comparison, error) {
	m.called("CompareVehicles")
	return m.compareVehiclesMock(ctx, request)
}

func (m *apiMock) SaveQuote(ctx context.Context, quote schema.Quote) (schema.SavedQuote, error) {
	m.called("SaveQuote")
	return m.saveQuoteMock(ctx, quote)
}

func (m *apiMock) CreateBooking(ctx context.Context, token string, request schema.BookingRequest) (schema.Booking, error) {
	m.called("CreateBooking")
	return m.createBookingMock(ctx, token, request)
}

func (m *apiMock) GetQuoteByToken(ctx context.Context, token string) (schema.SharedQuote, error) {
	m.called("GetQuoteByToken")
	return m.getQuoteByTokenMock(ctx, token)
}

func (m *apiMock) GetBooking(ctx context.Context, access schema.BookingAccess, id string) (schema.Booking, error) {
	m.called("GetBooking")
	return m.getBookingMock(ctx, access, id)
}

func (m *apiMock) UpdateBooking(ctx context.Context, access schema.BookingAccess, id string, update schema.BookingUpdate) (schema.Booking, error) {
	m.called("UpdateBooking")
	return m.updateBookingMock(ctx, access, id, update)
}

func (m *apiMock) CancelBooking(ctx context.Context, access schema.BookingAccess, id string, request schema.CancellationRequest) (schema.Booking, error) {
	m.called("CancelBooking")
	return m.cancelBookingMock(ctx, access, id, request)
}

func (m *apiMock) AmendBooking(ctx context.Context, access schema.BookingAccess, id string, request schema.AmendmentRequest) (schema.Booking, error) {
	m.called("AmendBooking")
	return m.amendBookingMock(ctx, access, id, request)
}

func (m *apiMock) ListZonePrices(ctx context.Context, query schema.ZonePriceQuery) ([]schema.ZonePrice, error) {
	m.called("ListZonePrices")
	return m.listZonePricesMock(ctx, query)
}

func (m *apiMock) ListVehicleTypes(ctx context.Context) ([]schema.VehicleType, error) {
	m.called("ListVehicleTypes")
	return m.listVehicleTypesMock(ctx)
}

func gbp(amount int64) schema.Money {
	return schema.Money{AmountMinor: amount, Currency: "GBP"}
}

// bookingAPI answers like a healthy pricing and booking API.
func bookingAPI() *apiMock {
	return &apiMock{
		compareVehiclesMock: func(ctx context.Context, request schema.JourneyRequest) (schema.Comparison, error) {
			return schema.Comparison{
				ComparisonID: "cmp-1",
				ExpiresAt:    time.Now().Add(30 * time.Minute),
				Options: []schema.VehicleOption{
					{QuoteID: "q-saloon", VehicleClass: "saloon", Name: "Saloon", Capacity: 3, OneWay: gbp(18000), Return: converting.PointerToValue(gbp(34000)), Available: true},
					{QuoteID: "q-estate", VehicleClass: "estate", Name: "Estate", Capacity: 1, OneWay: gbp(19000), Available: true},
				},
			}, nil
		},
		saveQuoteMock: func(ctx context.Context, quote schema.Quote) (schema.SavedQuote, error) {
			return schema.SavedQuote{QuoteID: quote.ID, Token: "tok-" + quote.ID, ExpiresAt: time.Now().Add(15 * time.Minute)}, nil
		},
		createBookingMock: func(ctx context.Context, token string, request schema.BookingRequest) (schema.Booking, error) {
			return schema.Booking{ID: "bk-1", Status: schema.BookingPending, PaymentMethod: request.PaymentMethod, QuoteID: request.QuoteID}, nil
		},
	}
}

type authMock struct {
	token string
}

func (m *authMock) Login(ctx context.Context, credentials schema.Credentials) (schema.LoginResult, error) {
	return schema.LoginResult{Token: m.token}, nil
}

func (m *authMock) VerifySession(ctx context.Context, token string) (schema.VerifiedSession, error) {
	return schema.VerifiedSession{
		User:    schema.User{ID: "u-1", Name: "Ada Lovelace", Email: "ada@acme.example"},
		Account: schema.Account{ID: "acc-1", Name: "Acme Ltd", PaymentTerms: schema.PaymentTermsNet30},
	}, nil
}

func (m *authMock) Logout(ctx context.Context, token string) error {
	return nil
}

func signedToken(t *testing.T) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, corporate.Claims{
		UserID:    "u-1",
		AccountID: "acc-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return signed
}
