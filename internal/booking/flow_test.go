package booking

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/tools/converting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func gbp(amount int64) schema.Money {
	return schema.Money{AmountMinor: amount, Currency: "GBP"}
}

func heathrowToBournemouth() schema.JourneyRequest {
	return schema.JourneyRequest{
		Pickup:     schema.Location{Address: "Heathrow T5"},
		Dropoff:    &schema.Location{Address: "Bournemouth"},
		PickupAt:   testNow.Add(48 * time.Hour),
		Passengers: 2,
		Type:       schema.OneWay,
	}
}

func comparison() schema.Comparison {
	return schema.Comparison{
		ComparisonID: "cmp-1",
		ExpiresAt:    testNow.Add(30 * time.Minute),
		Options: []schema.VehicleOption{
			{QuoteID: "q-saloon", VehicleClass: "saloon", Name: "Saloon", Capacity: 3, OneWay: gbp(18000), Return: converting.PointerToValue(gbp(34000)), Discount: converting.PointerToValue(gbp(2000)), Available: true},
			{QuoteID: "q-exec", VehicleClass: "executive", Name: "Executive", Capacity: 3, OneWay: gbp(24000), Available: true},
			{QuoteID: "q-mini", VehicleClass: "minibus", Name: "Minibus", Capacity: 8, OneWay: gbp(32000), HourlyRate: converting.PointerToValue(gbp(6500)), Available: false},
		},
	}
}

func newTestFetcher(api QuoteAPI) *Fetcher {
	fetcher := NewFetcher(api)
	fetcher.now = func() time.Time { return testNow }
	return fetcher
}

func comparingFetcher() (*Fetcher, *quoteAPIMock) {
	api := &quoteAPIMock{
		compareVehiclesMock: func(ctx context.Context, request schema.JourneyRequest) (schema.Comparison, error) {
			return comparison(), nil
		},
	}
	return newTestFetcher(api), api
}

func quotedFlow(t *testing.T, corporate *CorporateContext) *Flow {
	t.Helper()

	ctx := context.Background()
	fetcher, _ := comparingFetcher()

	flow := NewFlow("flow-1", corporate, testNow)
	require.NoError(t, flow.UpdateJourney(heathrowToBournemouth()))
	require.NoError(t, flow.RequestQuote(ctx, fetcher))
	require.NoError(t, flow.SelectVehicle("saloon", nil))

	return flow
}

func netTermsAccount(terms schema.PaymentTerms) *CorporateContext {
	return &CorporateContext{
		AccountID:    "acc-1",
		AccountName:  "Acme Ltd",
		PaymentTerms: terms,
		Profile:      schema.ContactDetails{Name: "Ada Lovelace", Email: "ada@acme.example", Phone: "+447700900123"},
		Defaults:     JourneyDefaults{Passengers: 2, Luggage: 1},
	}
}

var validContact = schema.ContactDetails{Name: "Grace Hopper", Email: "grace@example.com", Phone: "+447700900456"}

func TestPublicBookingScenario(t *testing.T) {
	ctx := context.Background()
	fetcher, _ := comparingFetcher()
	saver := &saverMock{saveQuoteMock: savedQuote}
	bookingAPI := &bookingAPIMock{createBookingMock: pendingBooking}
	submitter := NewSubmitter(bookingAPI)

	flow := NewFlow("flow-1", nil, testNow)
	assert.Equal(t, StageQuote, flow.Stage)

	require.NoError(t, flow.UpdateJourney(heathrowToBournemouth()))
	require.NoError(t, flow.RequestQuote(ctx, fetcher))
	require.NotNil(t, flow.Comparison)
	assert.NotEmpty(t, SeatingAtLeast(flow.Comparison.Options, 2))

	require.NoError(t, flow.SelectVehicle("saloon", nil))
	assert.Equal(t, schema.PricingOneWay, flow.Quote.PricingOption)
	assert.Equal(t, gbp(18000), flow.Quote.Total)

	require.NoError(t, flow.ConfirmQuote(ctx, saver, testNow))
	assert.Equal(t, StageContact, flow.Stage)
	assert.Equal(t, "tok-q-saloon", flow.SavedQuote.Token)

	require.NoError(t, flow.SubmitContact(ctx, validContact, submitter))
	assert.Equal(t, StagePayment, flow.Stage)
	assert.Equal(t, 0, bookingAPI.calls)

	require.NoError(t, flow.SubmitPayment(ctx, schema.PaymentOutcome{Method: schema.PaymentMethodCard, Reference: "pi_123"}, submitter))
	assert.Equal(t, StageConfirmation, flow.Stage)
	require.NotNil(t, flow.Booking)
	assert.Equal(t, schema.BookingPending, flow.Booking.Status)
	assert.NotEmpty(t, flow.Booking.ID)
	assert.Equal(t, schema.PaymentMethodCard, flow.Booking.PaymentMethod)
	assert.Empty(t, flow.Error)
}

func TestInvoicedCorporateScenario(t *testing.T) {
	ctx := context.Background()
	saver := &saverMock{saveQuoteMock: savedQuote}
	bookingAPI := &bookingAPIMock{createBookingMock: pendingBooking}

	flow := quotedFlow(t, netTermsAccount(schema.PaymentTermsNet30))
	assert.Equal(t, "Ada Lovelace", flow.Contact.Name)

	require.NoError(t, flow.ConfirmQuote(ctx, saver, testNow))
	require.NoError(t, flow.SubmitContact(ctx, flow.Contact, NewSubmitter(bookingAPI)))

	assert.Equal(t, StageConfirmation, flow.Stage)
	assert.Equal(t, 1, bookingAPI.calls)
	require.NotNil(t, flow.Booking)
	assert.Equal(t, schema.PaymentMethodInvoice, flow.Booking.PaymentMethod)
	assert.Equal(t, "acc-1", converting.Unwrap(flow.Booking.AccountID))
	assert.Equal(t, schema.InvoicePayment(), *flow.Payment)
}

func TestImmediateCorporateAccountPays(t *testing.T) {
	ctx := context.Background()
	flow := quotedFlow(t, netTermsAccount(schema.PaymentTermsImmediate))

	require.NoError(t, flow.ConfirmQuote(ctx, &saverMock{saveQuoteMock: savedQuote}, testNow))
	require.NoError(t, flow.SubmitContact(ctx, flow.Contact, NewSubmitter(&bookingAPIMock{createBookingMock: pendingBooking})))

	assert.Equal(t, StagePayment, flow.Stage)
}

func TestSelectVehicle(t *testing.T) {
	t.Run("should default round trips to the return price", func(t *testing.T) {
		ctx := context.Background()
		fetcher, _ := comparingFetcher()

		request := heathrowToBournemouth()
		request.Type = schema.RoundTrip
		request.ReturnAt = converting.PointerToValue(testNow.Add(96 * time.Hour))

		flow := NewFlow("flow-1", nil, testNow)
		require.NoError(t, flow.UpdateJourney(request))
		require.NoError(t, flow.RequestQuote(ctx, fetcher))
		require.NoError(t, flow.SelectVehicle("saloon", nil))

		assert.Equal(t, schema.PricingReturn, flow.Quote.PricingOption)
		assert.Equal(t, gbp(34000), flow.Quote.Total)
		assert.Equal(t, gbp(2000), *flow.Quote.Discount)
	})

	t.Run("should allow choosing one-way on a round trip", func(t *testing.T) {
		flow := quotedFlow(t, nil)
		flow.Journey.Type = schema.RoundTrip

		option := schema.PricingOneWay
		require.NoError(t, flow.SelectVehicle("saloon", &option))
		assert.Equal(t, gbp(18000), flow.Quote.Total)
	})

	t.Run("should default hourly hires to the hourly rate", func(t *testing.T) {
		flow := quotedFlow(t, nil)
		flow.Journey.Type = schema.Hourly
		flow.Comparison.Options[2].Available = true

		require.NoError(t, flow.SelectVehicle("minibus", nil))
		assert.Equal(t, schema.PricingHourly, flow.Quote.PricingOption)
		assert.Equal(t, gbp(6500), flow.Quote.Total)
	})

	t.Run("should reject options that are not offered", func(t *testing.T) {
		flow := quotedFlow(t, nil)
		option := schema.PricingReturn

		err := flow.SelectVehicle("executive", &option)
		assert.True(t, schema.IsValidation(err))
		assert.Equal(t, "pricingOption", flow.ErrorField)
		assert.Equal(t, "q-saloon", flow.Quote.ID)
	})

	t.Run("should reject unavailable vehicles", func(t *testing.T) {
		flow := quotedFlow(t, nil)

		err := flow.SelectVehicle("minibus", nil)
		assert.True(t, schema.IsValidation(err))
		assert.NotEmpty(t, flow.Error)
	})

	t.Run("should reject vehicles too small for the party", func(t *testing.T) {
		flow := quotedFlow(t, nil)
		flow.Journey.Passengers = 5

		err := flow.SelectVehicle("saloon", nil)
		assert.True(t, schema.IsValidation(err))
	})
}

func TestFailuresKeepTheStage(t *testing.T) {
	ctx := context.Background()

	t.Run("quote fetch failure", func(t *testing.T) {
		api := &quoteAPIMock{
			compareVehiclesMock: func(ctx context.Context, request schema.JourneyRequest) (schema.Comparison, error) {
				return schema.Comparison{}, schema.APIError{StatusCode: http.StatusUnprocessableEntity, Message: "Pickup is outside our service area"}
			},
		}

		flow := NewFlow("flow-1", nil, testNow)
		require.NoError(t, flow.UpdateJourney(heathrowToBournemouth()))

		err := flow.RequestQuote(ctx, newTestFetcher(api))
		assert.True(t, schema.IsAPI(err))
		assert.Equal(t, StageQuote, flow.Stage)
		assert.Equal(t, "Pickup is outside our service area", flow.Error)
		assert.Nil(t, flow.Comparison)
	})

	t.Run("invalid journey makes no call", func(t *testing.T) {
		fetcher, api := comparingFetcher()

		flow := NewFlow("flow-1", nil, testNow)
		request := heathrowToBournemouth()
		request.Dropoff = nil
		require.NoError(t, flow.UpdateJourney(request))

		err := flow.RequestQuote(ctx, fetcher)
		assert.True(t, schema.IsValidation(err))
		assert.Equal(t, 0, api.calls)
		assert.Equal(t, "dropoff.address", flow.ErrorField)
	})

	t.Run("saving the quote fails", func(t *testing.T) {
		flow := quotedFlow(t, nil)
		saver := &saverMock{saveQuoteMock: func(ctx context.Context, quote schema.Quote) (schema.SavedQuote, error) {
			return schema.SavedQuote{}, schema.APIError{StatusCode: http.StatusServiceUnavailable}
		}}

		err := flow.ConfirmQuote(ctx, saver, testNow)
		assert.Error(t, err)
		assert.Equal(t, StageQuote, flow.Stage)
		assert.Equal(t, schema.GenericErrorMessage, flow.Error)
	})

	t.Run("expired quote", func(t *testing.T) {
		flow := quotedFlow(t, nil)
		saver := &saverMock{saveQuoteMock: savedQuote}

		err := flow.ConfirmQuote(ctx, saver, testNow.Add(time.Hour))
		assert.True(t, schema.IsValidation(err))
		assert.Equal(t, 0, saver.calls)
		assert.Equal(t, StageQuote, flow.Stage)
	})

	t.Run("confirm without quote", func(t *testing.T) {
		flow := NewFlow("flow-1", nil, testNow)

		err := flow.ConfirmQuote(ctx, &saverMock{saveQuoteMock: savedQuote}, testNow)
		assert.ErrorIs(t, err, ErrNoQuote)
		assert.Equal(t, StageQuote, flow.Stage)
	})

	t.Run("payment declined", func(t *testing.T) {
		flow := quotedFlow(t, nil)
		require.NoError(t, flow.ConfirmQuote(ctx, &saverMock{saveQuoteMock: savedQuote}, testNow))

		bookingAPI := &bookingAPIMock{createBookingMock: func(ctx context.Context, token string, request schema.BookingRequest) (schema.Booking, error) {
			return schema.Booking{}, schema.APIError{StatusCode: http.StatusPaymentRequired, Message: "Your card was declined"}
		}}
		submitter := NewSubmitter(bookingAPI)

		require.NoError(t, flow.SubmitContact(ctx, validContact, submitter))

		err := flow.SubmitPayment(ctx, schema.PaymentOutcome{Method: schema.PaymentMethodCard, Reference: "pi_1"}, submitter)
		assert.Error(t, err)
		assert.Equal(t, StagePayment, flow.Stage)
		assert.Equal(t, "Your card was declined", flow.Error)
		assert.Nil(t, flow.Booking)
		assert.Equal(t, 1, bookingAPI.calls)
	})

	t.Run("invalid contact", func(t *testing.T) {
		flow := quotedFlow(t, nil)
		require.NoError(t, flow.ConfirmQuote(ctx, &saverMock{saveQuoteMock: savedQuote}, testNow))

		bookingAPI := &bookingAPIMock{createBookingMock: pendingBooking}
		err := flow.SubmitContact(ctx, schema.ContactDetails{Name: "Grace", Email: "not-an-email", Phone: "+447700900456"}, NewSubmitter(bookingAPI))

		assert.True(t, schema.IsValidation(err))
		assert.Equal(t, "email", flow.ErrorField)
		assert.Equal(t, StageContact, flow.Stage)
		assert.Equal(t, 0, bookingAPI.calls)
	})

	t.Run("actions out of order", func(t *testing.T) {
		flow := NewFlow("flow-1", nil, testNow)
		submitter := NewSubmitter(&bookingAPIMock{createBookingMock: pendingBooking})

		assert.ErrorIs(t, flow.SubmitContact(ctx, validContact, submitter), ErrWrongStage)
		assert.ErrorIs(t, flow.SubmitPayment(ctx, schema.PaymentOutcome{Method: schema.PaymentMethodCard, Reference: "x"}, submitter), ErrWrongStage)
		assert.ErrorIs(t, flow.Back(), ErrWrongStage)
		assert.Equal(t, StageQuote, flow.Stage)
	})
}

func TestBackKeepsData(t *testing.T) {
	ctx := context.Background()
	saver := &saverMock{saveQuoteMock: savedQuote}
	submitter := NewSubmitter(&bookingAPIMock{createBookingMock: pendingBooking})

	flow := quotedFlow(t, nil)
	require.NoError(t, flow.ConfirmQuote(ctx, saver, testNow))
	require.NoError(t, flow.SubmitContact(ctx, validContact, submitter))

	require.NoError(t, flow.Back())
	assert.Equal(t, StageContact, flow.Stage)
	assert.Equal(t, validContact, flow.Contact)

	require.NoError(t, flow.Back())
	assert.Equal(t, StageQuote, flow.Stage)
	assert.Equal(t, "q-saloon", flow.Quote.ID)
	assert.Equal(t, validContact, flow.Contact)

	// confirming the same quote again reuses the saved token
	require.NoError(t, flow.ConfirmQuote(ctx, saver, testNow))
	assert.Equal(t, 1, saver.calls)
}

func TestUpdateJourneyClearsQuote(t *testing.T) {
	flow := quotedFlow(t, nil)

	request := heathrowToBournemouth()
	request.Passengers = 3
	require.NoError(t, flow.UpdateJourney(request))

	assert.Nil(t, flow.Quote)
	assert.Nil(t, flow.Comparison)
	assert.Nil(t, flow.SavedQuote)
	assert.Equal(t, 3, flow.Journey.Passengers)
}

func TestNewQuote(t *testing.T) {
	ctx := context.Background()

	stages := []struct {
		name    string
		advance func(t *testing.T, flow *Flow)
	}{
		{"from quote", func(t *testing.T, flow *Flow) {}},
		{"from contact", func(t *testing.T, flow *Flow) {
			require.NoError(t, flow.ConfirmQuote(ctx, &saverMock{saveQuoteMock: savedQuote}, testNow))
		}},
		{"from payment", func(t *testing.T, flow *Flow) {
			require.NoError(t, flow.ConfirmQuote(ctx, &saverMock{saveQuoteMock: savedQuote}, testNow))
			require.NoError(t, flow.SubmitContact(ctx, validContact, NewSubmitter(&bookingAPIMock{createBookingMock: pendingBooking})))
		}},
		{"from confirmation", func(t *testing.T, flow *Flow) {
			submitter := NewSubmitter(&bookingAPIMock{createBookingMock: pendingBooking})
			require.NoError(t, flow.ConfirmQuote(ctx, &saverMock{saveQuoteMock: savedQuote}, testNow))
			require.NoError(t, flow.SubmitContact(ctx, validContact, submitter))
			require.NoError(t, flow.SubmitPayment(ctx, schema.PaymentOutcome{Method: schema.PaymentMethodCard, Reference: "pi_1"}, submitter))
		}},
	}

	for _, stage := range stages {
		t.Run("public "+stage.name, func(t *testing.T) {
			flow := quotedFlow(t, nil)
			stage.advance(t, flow)

			flow.NewQuote()

			assert.Equal(t, StageQuote, flow.Stage)
			assert.Nil(t, flow.Quote)
			assert.Nil(t, flow.Comparison)
			assert.Nil(t, flow.SavedQuote)
			assert.Nil(t, flow.Booking)
			assert.Nil(t, flow.Payment)
			assert.True(t, flow.Contact.IsEmpty())
			assert.Empty(t, flow.Error)
		})
	}

	t.Run("corporate keeps the profile contact", func(t *testing.T) {
		account := netTermsAccount(schema.PaymentTermsNet30)
		flow := quotedFlow(t, account)
		require.NoError(t, flow.ConfirmQuote(ctx, &saverMock{saveQuoteMock: savedQuote}, testNow))
		require.NoError(t, flow.SubmitContact(ctx, validContact, NewSubmitter(&bookingAPIMock{createBookingMock: pendingBooking})))
		require.Equal(t, StageConfirmation, flow.Stage)

		flow.NewQuote()

		assert.Equal(t, StageQuote, flow.Stage)
		assert.Equal(t, account.Profile, flow.Contact)
		assert.Equal(t, 2, flow.Journey.Passengers)
		assert.Equal(t, 1, flow.Journey.Luggage)
	})
}

func TestSharedFlow(t *testing.T) {
	ctx := context.Background()
	saver := &saverMock{saveQuoteMock: func(ctx context.Context, quote schema.Quote) (schema.SavedQuote, error) {
		return schema.SavedQuote{}, errors.New("should not save again")
	}}

	flow := NewSharedFlow("flow-2", schema.SharedQuote{
		Journey: heathrowToBournemouth(),
		Quote:   schema.Quote{ID: "q-1", Total: gbp(18000), ExpiresAt: testNow.Add(time.Hour)},
		Saved:   schema.SavedQuote{QuoteID: "q-1", Token: "shared-token", ExpiresAt: testNow.Add(time.Hour)},
	}, testNow)

	require.NoError(t, flow.ConfirmQuote(ctx, saver, testNow))
	assert.Equal(t, StageContact, flow.Stage)
	assert.Equal(t, "shared-token", flow.SavedQuote.Token)
	assert.Equal(t, 0, saver.calls)
}
