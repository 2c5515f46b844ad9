package schema

import "time"

type ContactDetails struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required,min=6,max=32"`
}

func (c ContactDetails) IsEmpty() bool {
	return c.Name == "" && c.Email == "" && c.Phone == ""
}

type PaymentTerms string

const (
	PaymentTermsImmediate PaymentTerms = "immediate"
	PaymentTermsNet7      PaymentTerms = "net7"
	PaymentTermsNet14     PaymentTerms = "net14"
	PaymentTermsNet30     PaymentTerms = "net30"
)

// Invoiced accounts skip the payment stage. Unknown terms count as invoiced, the
// account attribute comes from the server and is not second guessed here.
func (t PaymentTerms) Invoiced() bool {
	return t != "" && t != PaymentTermsImmediate
}

type PaymentMethod string

const (
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodInvoice PaymentMethod = "invoice"
)

// PaymentOutcome is what the payment processor handed back to the browser, or the
// invoice marker for accounts on credit terms.
type PaymentOutcome struct {
	Method    PaymentMethod `json:"method"`
	Reference string        `json:"reference,omitempty"`
}

func InvoicePayment() PaymentOutcome {
	return PaymentOutcome{Method: PaymentMethodInvoice}
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingAmended   BookingStatus = "amended"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingAmended, BookingCancelled, BookingCompleted:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// Booking is the last fetched snapshot of a server owned booking.
type Booking struct {
	ID            string          `json:"id"`
	Reference     string          `json:"reference,omitempty"`
	Status        BookingStatus   `json:"status"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	QuoteID       string          `json:"quoteId"`
	AccountID     *string         `json:"accountId,omitempty"`
	Contact       ContactDetails  `json:"contact"`
	Journey       *JourneyRequest `json:"journey,omitempty"`
	Total         *Money          `json:"total,omitempty"`
	CreatedAt     *time.Time      `json:"createdAt,omitempty"`
}

// BookingRequest is the single request that creates a booking.
type BookingRequest struct {
	QuoteID       string         `json:"quoteId"`
	AccountID     *string        `json:"accountId,omitempty"`
	Contact       ContactDetails `json:"contact"`
	PaymentMethod PaymentMethod  `json:"paymentMethod"`
	PaymentRef    string         `json:"paymentReference,omitempty"`
	PassengerID   *string        `json:"passengerId,omitempty"`
}

const (
	BookingReferenceHeader = "X-Booking-Reference"
	BookingEmailHeader     = "X-Booking-Email"
)

// BookingAccess proves the caller may manage a booking. Corporate callers
// carry their session token, public callers the booking reference and the
// contact email used when booking.
type BookingAccess struct {
	Token     string
	Reference string
	Email     string
}

func (a BookingAccess) Valid() bool {
	return a.Token != "" || (a.Reference != "" && a.Email != "")
}

type BookingUpdate struct {
	Contact         *ContactDetails `json:"contact,omitempty"`
	FlightNumber    *string         `json:"flightNumber,omitempty"`
	NameBoard       *string         `json:"nameBoard,omitempty"`
	SpecialRequests *string         `json:"specialRequests,omitempty"`
}

type AmendmentRequest struct {
	PickupAt   *time.Time `json:"pickupAt,omitempty"`
	Passengers *int       `json:"passengers,omitempty"`
	Luggage    *int       `json:"luggage,omitempty"`
	Extras     *Extras    `json:"extras,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

type CancellationRequest struct {
	Reason string `json:"reason,omitempty"`
}
