// Package chat is the assisted booking widget. The assistant answers with a
// reply and a structured intent, the intent decides which control the widget
// shows next.
package chat

import (
	"context"
	"strings"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/booking"
	"bitbucket.org/crgw/transfers-web/internal/metrics"
	"bitbucket.org/crgw/transfers-web/internal/schema"
	"github.com/rs/zerolog"
)

const (
	// MaxTranscript is how many of the latest messages are sent to the assistant.
	MaxTranscript    = 40
	MaxMessageLength = 2000
)

type ControlKind string

const (
	ControlVehiclePicker    ControlKind = "vehicle_picker"
	ControlDateTimePicker   ControlKind = "datetime_picker"
	ControlPassengerStepper ControlKind = "passenger_stepper"
	ControlContactForm      ControlKind = "contact_form"
	ControlQuoteHandoff     ControlKind = "quote_handoff"
)

var ErrNothingToHandOff = schema.PreconditionError{Reason: "the conversation has no journey to quote yet"}

// Control is a structured input rendered under the assistant reply.
type Control struct {
	Kind    ControlKind            `json:"kind"`
	Options []string               `json:"options,omitempty"`
	Slots   map[string]string      `json:"slots,omitempty"`
	Journey *schema.JourneyRequest `json:"journey,omitempty"`
}

type Turn struct {
	Session *Session           `json:"session"`
	Reply   schema.ChatMessage `json:"reply"`
	Control *Control           `json:"control,omitempty"`
}

type Assistant interface {
	Converse(ctx context.Context, request schema.AssistantRequest) (schema.AssistantReply, error)
}

type FlowCreator interface {
	Create(ctx context.Context, corporate *booking.CorporateContext) (*booking.Flow, error)
	Save(ctx context.Context, flow *booking.Flow) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	assistant Assistant
	store     *Store
	now       func() time.Time
}

func NewService(assistant Assistant, store *Store) *Service {
	return &Service{
		assistant: assistant,
		store:     store,
		now:       time.Now,
	}
}

// ControlFor maps an intent to the control to show. Missing, unknown and small
// talk intents show none, the user just answers in text.
func ControlFor(intent *schema.Intent) *Control {
	if intent == nil {
		return nil
	}

	control := &Control{
		Options: intent.Options,
		Slots:   intent.Slots,
	}

	switch intent.Kind {
	case schema.IntentVehicle:
		control.Kind = ControlVehiclePicker
	case schema.IntentDateTime:
		control.Kind = ControlDateTimePicker
	case schema.IntentPassengers:
		control.Kind = ControlPassengerStepper
	case schema.IntentContact:
		control.Kind = ControlContactForm
	case schema.IntentQuoteReady:
		if intent.Journey == nil {
			return nil
		}
		control.Kind = ControlQuoteHandoff
		control.Journey = intent.Journey
	default:
		return nil
	}

	return control
}

func (s *Service) Start(ctx context.Context) (*Session, error) {
	now := s.now()
	session := &Session{
		ID:         newSessionID(),
		Transcript: []schema.ChatMessage{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

// Send forwards the user message. The transcript is only stored once the
// assistant answered, a failed turn can simply be sent again.
func (s *Service) Send(ctx context.Context, id string, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, schema.NewValidationError("text", "message is required")
	}
	if len(text) > MaxMessageLength {
		return Turn{}, schema.NewValidationError("text", "message is too long")
	}

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return Turn{}, err
	}

	history := session.Transcript
	if len(history) > MaxTranscript {
		history = history[len(history)-MaxTranscript:]
	}

	reply, err := s.assistant.Converse(ctx, schema.AssistantRequest{
		SessionID:  session.ID,
		Transcript: history,
		Message:    text,
	})
	if err != nil {
		return Turn{}, err
	}

	kind := "none"
	if reply.Intent != nil && reply.Intent.Kind != schema.IntentUnspecified {
		kind = string(reply.Intent.Kind)
	}
	metrics.ChatIntents.WithLabelValues(kind).Inc()

	zerolog.Ctx(ctx).
		Debug().
		Str("chatId", session.ID).
		Str("intent", kind).
		Msg("Assistant replied")

	now := s.now()
	answer := schema.ChatMessage{Role: schema.ChatRoleAssistant, Text: reply.Reply, At: now}
	session.Transcript = append(session.Transcript,
		schema.ChatMessage{Role: schema.ChatRoleUser, Text: text, At: now},
		answer,
	)
	session.LastIntent = reply.Intent
	session.UpdatedAt = now

	if err := s.store.Save(ctx, session); err != nil {
		return Turn{}, err
	}

	return Turn{
		Session: session,
		Reply:   answer,
		Control: ControlFor(reply.Intent),
	}, nil
}

// Handoff opens a public booking flow prefilled with the journey the
// assistant collected. A flow that could not be linked to the conversation
// is removed again.
func (s *Service) Handoff(ctx context.Context, id string, flows FlowCreator) (*booking.Flow, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	control := ControlFor(session.LastIntent)
	if control == nil || control.Kind != ControlQuoteHandoff {
		return nil, ErrNothingToHandOff
	}

	flow, err := flows.Create(ctx, nil)
	if err != nil {
		return nil, err
	}

	if err := s.linkFlow(ctx, session, flow, *control.Journey, flows); err != nil {
		if deleteErr := flows.Delete(ctx, flow.ID); deleteErr != nil {
			zerolog.Ctx(ctx).Warn().Err(deleteErr).Str("flowId", flow.ID).Msg("Could not remove unlinked chat flow")
		}
		return nil, err
	}

	return flow, nil
}

func (s *Service) linkFlow(ctx context.Context, session *Session, flow *booking.Flow, journey schema.JourneyRequest, flows FlowCreator) error {
	if err := flow.UpdateJourney(journey); err != nil {
		return err
	}
	flow.Source = "chat"

	if err := flows.Save(ctx, flow); err != nil {
		return err
	}

	session.FlowID = flow.ID
	session.UpdatedAt = s.now()
	return s.store.Save(ctx, session)
}
