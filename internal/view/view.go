// Package view turns a booking flow into what the page renders for its current
// stage. Everything here is a pure function of the flow.
package view

import (
	"time"

	"bitbucket.org/crgw/transfers-web/internal/booking"
	"bitbucket.org/crgw/transfers-web/internal/journey"
	"bitbucket.org/crgw/transfers-web/internal/schema"
	"github.com/samber/lo"
)

const TimeLayout = "Mon 2 Jan 2006, 15:04 MST"

type Action string

const (
	ActionUpdateJourney Action = "update-journey"
	ActionRequestQuote  Action = "request-quote"
	ActionSelectVehicle Action = "select-vehicle"
	ActionConfirmQuote  Action = "confirm-quote"
	ActionSubmitContact Action = "submit-contact"
	ActionSubmitPayment Action = "submit-payment"
	ActionBack          Action = "back"
	ActionNewQuote      Action = "new-quote"
)

type ErrorView struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type StageView struct {
	FlowID       string          `json:"flowId"`
	Stage        booking.Stage   `json:"stage"`
	IsCorporate  bool            `json:"isCorporate"`
	Actions      []Action        `json:"actions"`
	Error        *ErrorView      `json:"error,omitempty"`
	Journey      JourneyView     `json:"journey"`
	Comparison   *ComparisonView `json:"comparison,omitempty"`
	Quote        *QuoteSummary   `json:"quote,omitempty"`
	Contact      *ContactForm    `json:"contact,omitempty"`
	Payment      *PaymentForm    `json:"payment,omitempty"`
	Confirmation *Confirmation   `json:"confirmation,omitempty"`
}

// JourneyView is the input form, Missing names the first field still needed
// before a quote can be requested.
type JourneyView struct {
	Request    schema.JourneyRequest `json:"request"`
	PickupAt   string                `json:"pickupAt,omitempty"`
	ReturnAt   string                `json:"returnAt,omitempty"`
	CanProceed bool                  `json:"canProceed"`
	Missing    string                `json:"missing,omitempty"`
}

type VehicleCard struct {
	VehicleClass    string               `json:"vehicleClass"`
	Name            string               `json:"name"`
	Capacity        int                  `json:"capacity"`
	LuggageCapacity int                  `json:"luggageCapacity"`
	ImageURL        *string              `json:"imageUrl,omitempty"`
	OneWay          string               `json:"oneWay"`
	Return          string               `json:"return,omitempty"`
	Discount        string               `json:"discount,omitempty"`
	HourlyRate      string               `json:"hourlyRate,omitempty"`
	Available       bool                 `json:"available"`
	SeatsParty      bool                 `json:"seatsParty"`
	DefaultOption   schema.PricingOption `json:"defaultOption"`
	Selected        bool                 `json:"selected"`
}

type ComparisonView struct {
	Vehicles    []VehicleCard `json:"vehicles"`
	ExpiresAt   string        `json:"expiresAt"`
	ZonePricing bool          `json:"zonePricing,omitempty"`
}

type QuoteSummary struct {
	QuoteID       string               `json:"quoteId"`
	VehicleClass  string               `json:"vehicleClass"`
	VehicleName   string               `json:"vehicleName"`
	PricingOption schema.PricingOption `json:"pricingOption"`
	Total         string               `json:"total"`
	Discount      string               `json:"discount,omitempty"`
	ExpiresAt     string               `json:"expiresAt,omitempty"`
	Route         string               `json:"route"`
	PickupAt      string               `json:"pickupAt"`
	Passengers    int                  `json:"passengers"`
}

type ContactForm struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	FromProfile bool   `json:"fromProfile"`
}

type PaymentForm struct {
	AmountDue string       `json:"amountDue"`
	Amount    schema.Money `json:"amount"`
}

// Confirmation is the single receipt for public and corporate bookings, the
// account fields are only set for corporate ones.
type Confirmation struct {
	BookingID     string                `json:"bookingId"`
	Reference     string                `json:"reference,omitempty"`
	Status        schema.BookingStatus  `json:"status"`
	PaymentMethod schema.PaymentMethod  `json:"paymentMethod"`
	Total         string                `json:"total,omitempty"`
	Route         string                `json:"route"`
	PickupAt      string                `json:"pickupAt"`
	Contact       schema.ContactDetails `json:"contact"`
	IsCorporate   bool                  `json:"isCorporate"`
	AccountName   *string               `json:"accountName,omitempty"`
	PaymentTerms  *schema.PaymentTerms  `json:"paymentTerms,omitempty"`
	Invoiced      bool                  `json:"invoiced"`
}

func formatTime(t time.Time, location *time.Location) string {
	if t.IsZero() {
		return ""
	}

	return t.In(location).Format(TimeLayout)
}

func formatMoney(m *schema.Money) string {
	if m == nil {
		return ""
	}

	return m.Display()
}

func route(request schema.JourneyRequest) string {
	dropoff := request.DropoffAddress()
	if dropoff == "" {
		return request.Pickup.Address
	}

	return request.Pickup.Address + " → " + dropoff
}

// Render builds the view of flow with times shown in location.
func Render(flow *booking.Flow, location *time.Location) StageView {
	if location == nil {
		location = time.UTC
	}

	view := StageView{
		FlowID:      flow.ID,
		Stage:       flow.Stage,
		IsCorporate: flow.IsCorporate(),
		Actions:     Actions(flow),
		Journey:     renderJourney(flow.Journey, location),
	}

	if flow.Error != "" {
		view.Error = &ErrorView{Message: flow.Error, Field: flow.ErrorField}
	}

	switch flow.Stage {
	case booking.StageQuote:
		if flow.Comparison != nil {
			view.Comparison = renderComparison(flow, location)
		}
		if flow.Quote != nil {
			view.Quote = renderQuote(flow, location)
		}
	case booking.StageContact:
		view.Quote = renderQuote(flow, location)
		view.Contact = renderContact(flow)
	case booking.StagePayment:
		view.Quote = renderQuote(flow, location)
		view.Payment = renderPayment(flow)
	case booking.StageConfirmation:
		view.Confirmation = renderConfirmation(flow, location)
	}

	return view
}

// Actions lists what the page may offer at the current stage.
func Actions(flow *booking.Flow) []Action {
	switch flow.Stage {
	case booking.StageQuote:
		actions := []Action{ActionUpdateJourney, ActionRequestQuote}
		if flow.Comparison != nil {
			actions = append(actions, ActionSelectVehicle)
		}
		if flow.Quote != nil {
			actions = append(actions, ActionConfirmQuote)
		}
		return append(actions, ActionNewQuote)
	case booking.StageContact:
		return []Action{ActionSubmitContact, ActionBack, ActionNewQuote}
	case booking.StagePayment:
		return []Action{ActionSubmitPayment, ActionBack, ActionNewQuote}
	default:
		return []Action{ActionNewQuote}
	}
}

func renderJourney(request schema.JourneyRequest, location *time.Location) JourneyView {
	view := JourneyView{
		Request:  request,
		PickupAt: formatTime(request.PickupAt, location),
	}

	if request.ReturnAt != nil {
		view.ReturnAt = formatTime(*request.ReturnAt, location)
	}

	if err := journey.CanProceed(request); err != nil {
		if validationErr, ok := lo.ErrorsAs[schema.ValidationError](err); ok {
			view.Missing = validationErr.Field
		}
	} else {
		view.CanProceed = true
	}

	return view
}

func renderComparison(flow *booking.Flow, location *time.Location) *ComparisonView {
	defaultOption := schema.DefaultPricingOption(flow.Journey.Type)

	vehicles := lo.Map(flow.Comparison.Options, func(o schema.VehicleOption, _ int) VehicleCard {
		return VehicleCard{
			VehicleClass:    o.VehicleClass,
			Name:            o.Name,
			Capacity:        o.Capacity,
			LuggageCapacity: o.LuggageCapacity,
			ImageURL:        o.ImageURL,
			OneWay:          o.OneWay.Display(),
			Return:          formatMoney(o.Return),
			Discount:        formatMoney(o.Discount),
			HourlyRate:      formatMoney(o.HourlyRate),
			Available:       o.Available,
			SeatsParty:      o.Capacity >= flow.Journey.Passengers,
			DefaultOption:   defaultOption,
			Selected:        flow.Quote != nil && flow.Quote.VehicleClass == o.VehicleClass,
		}
	})

	return &ComparisonView{
		Vehicles:    vehicles,
		ExpiresAt:   formatTime(flow.Comparison.ExpiresAt, location),
		ZonePricing: flow.Comparison.ZonePricing,
	}
}

func renderQuote(flow *booking.Flow, location *time.Location) *QuoteSummary {
	if flow.Quote == nil {
		return nil
	}

	quote := flow.Quote
	total := quote.Total.Display()
	if display, ok := quote.Display["total"]; ok && display != "" {
		total = display
	}

	return &QuoteSummary{
		QuoteID:       quote.ID,
		VehicleClass:  quote.VehicleClass,
		VehicleName:   quote.VehicleName,
		PricingOption: quote.PricingOption,
		Total:         total,
		Discount:      formatMoney(quote.Discount),
		ExpiresAt:     formatTime(quote.ExpiresAt, location),
		Route:         route(flow.Journey),
		PickupAt:      formatTime(flow.Journey.PickupAt, location),
		Passengers:    flow.Journey.Passengers,
	}
}

func renderContact(flow *booking.Flow) *ContactForm {
	form := &ContactForm{
		Name:  flow.Contact.Name,
		Email: flow.Contact.Email,
		Phone: flow.Contact.Phone,
	}

	if flow.Corporate != nil && !flow.Contact.IsEmpty() {
		form.FromProfile = flow.Contact == flow.Corporate.Profile
	}

	return form
}

func renderPayment(flow *booking.Flow) *PaymentForm {
	if flow.Quote == nil {
		return &PaymentForm{}
	}

	return &PaymentForm{
		AmountDue: flow.Quote.Total.Display(),
		Amount:    flow.Quote.Total,
	}
}

func renderConfirmation(flow *booking.Flow, location *time.Location) *Confirmation {
	if flow.Booking == nil {
		return nil
	}

	b := flow.Booking
	confirmation := &Confirmation{
		BookingID:     b.ID,
		Reference:     b.Reference,
		Status:        b.Status,
		PaymentMethod: b.PaymentMethod,
		Route:         route(flow.Journey),
		PickupAt:      formatTime(flow.Journey.PickupAt, location),
		Contact:       flow.Contact,
		IsCorporate:   flow.IsCorporate(),
		Invoiced:      b.PaymentMethod == schema.PaymentMethodInvoice,
	}

	switch {
	case b.Total != nil:
		confirmation.Total = b.Total.Display()
	case flow.Quote != nil:
		confirmation.Total = flow.Quote.Total.Display()
	}

	if flow.Corporate != nil {
		terms := flow.Terms()
		confirmation.AccountName = &flow.Corporate.AccountName
		confirmation.PaymentTerms = &terms
	}

	return confirmation
}
