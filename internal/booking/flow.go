package booking

import (
	"context"
	"strings"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/journey"
	"bitbucket.org/crgw/transfers-web/internal/metrics"
	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/tools/validating"
	"github.com/samber/lo"
)

var (
	ErrWrongStage = schema.PreconditionError{Reason: "this action is not available at the current step"}
	ErrNoQuote    = schema.PreconditionError{Reason: "no quote has been selected"}
)

type QuoteFetcher interface {
	Fetch(ctx context.Context, request schema.JourneyRequest) (QuoteResult, error)
}

type QuoteSaver interface {
	SaveQuote(ctx context.Context, quote schema.Quote) (schema.SavedQuote, error)
}

type BookingSubmitter interface {
	Submit(ctx context.Context, submission Submission) (schema.Booking, error)
}

// CorporateContext is what a corporate flow knows about the signed in user.
type CorporateContext struct {
	AccountID    string                `json:"accountId"`
	AccountName  string                `json:"accountName"`
	PaymentTerms schema.PaymentTerms   `json:"paymentTerms"`
	Profile      schema.ContactDetails `json:"profile"`
	PassengerID  *string               `json:"passengerId,omitempty"`
	Defaults     JourneyDefaults       `json:"defaults"`
}

// JourneyDefaults prefill a fresh journey form.
type JourneyDefaults struct {
	Passengers   int     `json:"passengers,omitempty"`
	Luggage      int     `json:"luggage,omitempty"`
	VehicleClass *string `json:"vehicleClass,omitempty"`
}

func (d JourneyDefaults) Journey() schema.JourneyRequest {
	passengers := d.Passengers
	if passengers < 1 {
		passengers = 1
	}

	return schema.JourneyRequest{
		Type:         schema.OneWay,
		Passengers:   passengers,
		Luggage:      d.Luggage,
		VehicleClass: d.VehicleClass,
	}
}

// Flow is the transient state of one quote to confirmation run. It is only
// changed through its operations, a failed operation leaves the stage as it was
// and keeps the user facing message in Error.
type Flow struct {
	ID         string                 `json:"id"`
	Corporate  *CorporateContext      `json:"corporate,omitempty"`
	Stage      Stage                  `json:"stage"`
	Journey    schema.JourneyRequest  `json:"journey"`
	Comparison *schema.Comparison     `json:"comparison,omitempty"`
	Quote      *schema.Quote          `json:"quote,omitempty"`
	SavedQuote *schema.SavedQuote     `json:"savedQuote,omitempty"`
	Contact    schema.ContactDetails  `json:"contact"`
	Payment    *schema.PaymentOutcome `json:"payment,omitempty"`
	Booking    *schema.Booking        `json:"booking,omitempty"`
	Error      string                 `json:"error,omitempty"`
	ErrorField string                 `json:"errorField,omitempty"`
	Source     string                 `json:"source,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

func NewFlow(id string, corporate *CorporateContext, now time.Time) *Flow {
	flow := &Flow{
		ID:        id,
		Corporate: corporate,
		Stage:     StageQuote,
		CreatedAt: now,
		UpdatedAt: now,
	}
	flow.resetForm()

	return flow
}

// NewSharedFlow opens a flow from a shared quote link. The quote was saved when
// it was shared, so confirming does not save it again.
func NewSharedFlow(id string, shared schema.SharedQuote, now time.Time) *Flow {
	flow := NewFlow(id, nil, now)
	flow.Journey = shared.Journey
	flow.Quote = &shared.Quote
	flow.SavedQuote = &shared.Saved
	flow.Source = "shared-quote"

	return flow
}

func (f *Flow) IsCorporate() bool {
	return f.Corporate != nil
}

// Terms are the payment terms of the account, public flows pay immediately.
func (f *Flow) Terms() schema.PaymentTerms {
	if f.Corporate == nil || f.Corporate.PaymentTerms == "" {
		return schema.PaymentTermsImmediate
	}

	return f.Corporate.PaymentTerms
}

func (f *Flow) kind() string {
	if f.IsCorporate() {
		return "corporate"
	}
	return "public"
}

func (f *Flow) resetForm() {
	defaults := JourneyDefaults{}
	f.Contact = schema.ContactDetails{}

	if f.Corporate != nil {
		defaults = f.Corporate.Defaults
		f.Contact = f.Corporate.Profile
	}

	f.Journey = defaults.Journey()
}

func (f *Flow) clearError() {
	f.Error = ""
	f.ErrorField = ""
}

// fail keeps the inline message for err and hands err back.
func (f *Flow) fail(err error) error {
	f.Error = schema.UserMessage(err)

	class := "unknown"
	switch {
	case schema.IsValidation(err):
		class = "validation"
		if validationErr, ok := lo.ErrorsAs[schema.ValidationError](err); ok {
			f.ErrorField = validationErr.Field
		}
	case schema.IsAPI(err):
		class = "api"
	case schema.IsPrecondition(err):
		class = "precondition"
	}
	metrics.FlowErrors.WithLabelValues(string(f.Stage), class).Inc()

	return err
}

func (f *Flow) moveTo(to Stage) error {
	kind, ok := lookupTransition(f.Stage, to, f.Terms())
	if !ok {
		return f.fail(ErrWrongStage)
	}

	metrics.StageTransitions.WithLabelValues(string(f.Stage), string(to), string(kind)).Inc()
	f.Stage = to

	return nil
}

func (f *Flow) requireStage(stage Stage) error {
	if f.Stage != stage {
		return f.fail(ErrWrongStage)
	}

	return nil
}

func (f *Flow) clearQuote() {
	f.Comparison = nil
	f.Quote = nil
	f.SavedQuote = nil
}

// UpdateJourney replaces the journey form. Any quote for the previous inputs is
// dropped and has to be requested again.
func (f *Flow) UpdateJourney(request schema.JourneyRequest) error {
	f.clearError()
	if err := f.requireStage(StageQuote); err != nil {
		return err
	}

	f.Journey = journey.Normalize(request)
	f.clearQuote()

	return nil
}

// RequestQuote fetches a single quote when the journey names a vehicle class and
// a comparison otherwise.
func (f *Flow) RequestQuote(ctx context.Context, fetcher QuoteFetcher) error {
	f.clearError()
	if err := f.requireStage(StageQuote); err != nil {
		return err
	}

	result, err := fetcher.Fetch(ctx, f.Journey)
	if err != nil {
		return f.fail(err)
	}

	f.clearQuote()
	f.Quote = result.Quote
	f.Comparison = result.Comparison

	return nil
}

// SelectVehicle turns a comparison option into the quote. A nil option picks
// the default pricing option for the journey type.
func (f *Flow) SelectVehicle(vehicleClass string, option *schema.PricingOption) error {
	f.clearError()
	if err := f.requireStage(StageQuote); err != nil {
		return err
	}

	if f.Comparison == nil {
		return f.fail(schema.NewValidationError("vehicleClass", "request a quote before choosing a vehicle"))
	}

	vehicle, found := lo.Find(f.Comparison.Options, func(o schema.VehicleOption) bool {
		return o.VehicleClass == vehicleClass
	})
	if !found || !vehicle.Available {
		return f.fail(schema.NewValidationError("vehicleClass", "this vehicle is not available for your journey"))
	}

	if vehicle.Capacity > 0 && vehicle.Capacity < f.Journey.Passengers {
		return f.fail(schema.NewValidationError("vehicleClass", "this vehicle does not seat all passengers"))
	}

	pricingOption := schema.DefaultPricingOption(f.Journey.Type)
	if option != nil {
		pricingOption = *option
	}

	total, ok := vehicle.Price(pricingOption)
	if !ok {
		return f.fail(schema.NewValidationError("pricingOption", "this price option is not offered for the vehicle"))
	}

	quote := schema.Quote{
		ID:              vehicle.QuoteID,
		VehicleClass:    vehicle.VehicleClass,
		VehicleName:     vehicle.Name,
		Capacity:        vehicle.Capacity,
		LuggageCapacity: vehicle.LuggageCapacity,
		PricingOption:   pricingOption,
		Total:           total,
		OneWay:          vehicle.OneWay,
		Return:          vehicle.Return,
		Discount:        vehicle.Discount,
		HourlyRate:      vehicle.HourlyRate,
		ExpiresAt:       f.Comparison.ExpiresAt,
	}

	f.Quote = &quote
	f.SavedQuote = nil

	return nil
}

// ConfirmQuote saves the quote for the short lived booking token and moves on
// to the contact step.
func (f *Flow) ConfirmQuote(ctx context.Context, saver QuoteSaver, now time.Time) error {
	f.clearError()
	if err := f.requireStage(StageQuote); err != nil {
		return err
	}

	if f.Quote == nil {
		return f.fail(ErrNoQuote)
	}

	if f.Quote.Expired(now) {
		return f.fail(schema.NewValidationError("quote", "this quote has expired, please request a new one"))
	}

	if f.SavedQuote == nil || f.SavedQuote.QuoteID != f.Quote.ID || (!f.SavedQuote.ExpiresAt.IsZero() && now.After(f.SavedQuote.ExpiresAt)) {
		saved, err := saver.SaveQuote(ctx, *f.Quote)
		if err != nil {
			return f.fail(err)
		}
		if saved.Token == "" {
			return f.fail(schema.ErrMissingQuoteToken)
		}
		if saved.QuoteID == "" {
			saved.QuoteID = f.Quote.ID
		}
		f.SavedQuote = &saved
	}

	return f.moveTo(StageContact)
}

func (f *Flow) submission(payment schema.PaymentOutcome) Submission {
	submission := Submission{
		SavedQuote: f.SavedQuote,
		Contact:    f.Contact,
		Payment:    payment,
	}

	if f.Corporate != nil {
		submission.Corporate = true
		submission.AccountID = f.Corporate.AccountID
		submission.PassengerID = f.Corporate.PassengerID
	}

	return submission
}

func (f *Flow) submit(ctx context.Context, payment schema.PaymentOutcome, submitter BookingSubmitter) error {
	booking, err := submitter.Submit(ctx, f.submission(payment))
	if err != nil {
		return f.fail(err)
	}

	f.Payment = &payment
	f.Booking = &booking

	return f.moveTo(StageConfirmation)
}

// SubmitContact keeps the contact details and continues to payment, or books
// straight away on invoice for accounts with credit terms.
func (f *Flow) SubmitContact(ctx context.Context, contact schema.ContactDetails, submitter BookingSubmitter) error {
	f.clearError()
	if err := f.requireStage(StageContact); err != nil {
		return err
	}

	contact.Name = strings.TrimSpace(contact.Name)
	contact.Email = strings.TrimSpace(contact.Email)
	contact.Phone = strings.TrimSpace(contact.Phone)

	if err := validating.Struct(contact); err != nil {
		return f.fail(err)
	}

	f.Contact = contact

	if !f.Terms().Invoiced() {
		return f.moveTo(StagePayment)
	}

	return f.submit(ctx, schema.InvoicePayment(), submitter)
}

// SubmitPayment books with the outcome the payment processor returned.
func (f *Flow) SubmitPayment(ctx context.Context, outcome schema.PaymentOutcome, submitter BookingSubmitter) error {
	f.clearError()
	if err := f.requireStage(StagePayment); err != nil {
		return err
	}

	if outcome.Method != schema.PaymentMethodCard {
		return f.fail(schema.NewValidationError("method", "card payment is required"))
	}

	if strings.TrimSpace(outcome.Reference) == "" {
		return f.fail(schema.NewValidationError("reference", "payment reference is required"))
	}

	return f.submit(ctx, outcome, submitter)
}

// Back returns to the previous step keeping everything entered so far.
func (f *Flow) Back() error {
	f.clearError()

	switch f.Stage {
	case StageContact:
		return f.moveTo(StageQuote)
	case StagePayment:
		return f.moveTo(StageContact)
	default:
		return f.fail(ErrWrongStage)
	}
}

// NewQuote starts over from any stage. Only the profile derived contact and the
// account defaults survive.
func (f *Flow) NewQuote() {
	metrics.StageTransitions.WithLabelValues(string(f.Stage), string(StageQuote), string(TransitionReset)).Inc()

	f.Stage = StageQuote
	f.clearQuote()
	f.Payment = nil
	f.Booking = nil
	f.Source = ""
	f.clearError()
	f.resetForm()
}
