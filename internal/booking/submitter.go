package booking

import (
	"context"
	"errors"
	"net/http"

	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/tools/validating"
)

type BookingAPI interface {
	CreateBooking(ctx context.Context, token string, request schema.BookingRequest) (schema.Booking, error)
}

// Submission is everything a booking is created from.
type Submission struct {
	SavedQuote  *schema.SavedQuote
	AccountID   string
	Corporate   bool
	Contact     schema.ContactDetails
	Payment     schema.PaymentOutcome
	PassengerID *string
}

type Submitter struct {
	api BookingAPI
}

func NewSubmitter(api BookingAPI) *Submitter {
	return &Submitter{api: api}
}

// Submit creates the booking with a single request. Missing token or account
// and invalid contact details are refused before anything is sent.
func (s *Submitter) Submit(ctx context.Context, submission Submission) (schema.Booking, error) {
	if submission.SavedQuote == nil || submission.SavedQuote.Token == "" {
		return schema.Booking{}, schema.ErrMissingQuoteToken
	}

	if submission.Corporate && submission.AccountID == "" {
		return schema.Booking{}, schema.ErrMissingAccount
	}

	if err := validating.Struct(submission.Contact); err != nil {
		return schema.Booking{}, err
	}

	request := schema.BookingRequest{
		QuoteID:       submission.SavedQuote.QuoteID,
		Contact:       submission.Contact,
		PaymentMethod: submission.Payment.Method,
		PaymentRef:    submission.Payment.Reference,
		PassengerID:   submission.PassengerID,
	}

	if submission.Corporate {
		accountID := submission.AccountID
		request.AccountID = &accountID
	}

	booking, err := s.api.CreateBooking(ctx, submission.SavedQuote.Token, request)
	if err != nil {
		return schema.Booking{}, err
	}

	if booking.ID == "" {
		return schema.Booking{}, schema.APIError{StatusCode: http.StatusBadGateway, Err: errors.New("booking without id")}
	}

	return booking, nil
}
