package schema

import "time"

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role ChatRole  `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

type IntentKind string

const (
	IntentVehicle     IntentKind = "vehicle"
	IntentDateTime    IntentKind = "datetime"
	IntentPassengers  IntentKind = "passengers"
	IntentContact     IntentKind = "contact"
	IntentQuoteReady  IntentKind = "quote_ready"
	IntentSmallTalk   IntentKind = "small_talk"
	IntentUnspecified IntentKind = ""
)

// Intent is the structured signal the assistant emits next to its reply.
type Intent struct {
	Kind    IntentKind        `json:"kind"`
	Slots   map[string]string `json:"slots,omitempty"`
	Options []string          `json:"options,omitempty"`
	Journey *JourneyRequest   `json:"journey,omitempty"`
}

type AssistantRequest struct {
	SessionID  string        `json:"sessionId"`
	Transcript []ChatMessage `json:"transcript"`
	Message    string        `json:"message"`
}

type AssistantReply struct {
	Reply  string  `json:"reply"`
	Intent *Intent `json:"intent,omitempty"`
}
