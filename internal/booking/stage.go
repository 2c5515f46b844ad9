package booking

import "bitbucket.org/crgw/transfers-web/internal/schema"

type Stage string

const (
	StageQuote        Stage = "quote"
	StageContact      Stage = "contact"
	StagePayment      Stage = "payment"
	StageConfirmation Stage = "confirmation"
)

type TransitionKind string

const (
	TransitionForward TransitionKind = "forward"
	TransitionBack    TransitionKind = "back"
	TransitionReset   TransitionKind = "reset"
)

type transition struct {
	from Stage
	to   Stage
}

// transitions lists every forward and back move. invoiced is nil when the rule
// does not depend on the account payment terms. Starting a new quote is allowed
// from anywhere and is not listed.
var transitions = map[transition]struct {
	kind     TransitionKind
	invoiced *bool
}{
	{StageQuote, StageContact}:        {kind: TransitionForward},
	{StageContact, StagePayment}:      {kind: TransitionForward, invoiced: boolPtr(false)},
	{StageContact, StageConfirmation}: {kind: TransitionForward, invoiced: boolPtr(true)},
	{StagePayment, StageConfirmation}: {kind: TransitionForward, invoiced: boolPtr(false)},
	{StageContact, StageQuote}:        {kind: TransitionBack},
	{StagePayment, StageContact}:      {kind: TransitionBack},
}

func boolPtr(b bool) *bool {
	return &b
}

func lookupTransition(from Stage, to Stage, terms schema.PaymentTerms) (TransitionKind, bool) {
	rule, ok := transitions[transition{from: from, to: to}]
	if !ok {
		return "", false
	}

	if rule.invoiced != nil && *rule.invoiced != terms.Invoiced() {
		return "", false
	}

	return rule.kind, true
}

// CanTransition reports whether a flow with the given payment terms may move
// from one stage to the other. Invoiced accounts never visit payment. Every
// later stage may start over at quote.
func CanTransition(from Stage, to Stage, terms schema.PaymentTerms) bool {
	if to == StageQuote && from != StageQuote && from.Valid() {
		return true
	}

	_, ok := lookupTransition(from, to, terms)
	return ok
}

func (s Stage) Valid() bool {
	switch s {
	case StageQuote, StageContact, StagePayment, StageConfirmation:
		return true
	}

	return false
}
