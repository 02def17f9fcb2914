package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Event is a chronology event label from the closed vocabulary.
type Event string

// The closed event vocabulary. EventGeneric doubles as the fallback for
// rows that carry a date but no recognized label, and for out-of-vocabulary
// labels returned by the secondary extractor.
const (
	EventFiling      Event = "Filing"
	EventHearing     Event = "Hearing"
	EventOrder       Event = "Order"
	EventAdjournment Event = "Adjournment"
	EventNotice      Event = "Notice"
	EventBail        Event = "Bail"
	EventCharge      Event = "Charge"
	EventEvidence    Event = "Evidence"
	EventJudgment    Event = "Judgment"
	EventApplication Event = "Application"
	EventService     Event = "Service"
	EventSettlement  Event = "Settlement"
	EventLease       Event = "Lease"
	EventAppeal      Event = "Appeal"
	EventGeneric     Event = "Event"
)

var vocabulary = map[Event]bool{
	EventFiling:      true,
	EventHearing:     true,
	EventOrder:       true,
	EventAdjournment: true,
	EventNotice:      true,
	EventBail:        true,
	EventCharge:      true,
	EventEvidence:    true,
	EventJudgment:    true,
	EventApplication: true,
	EventService:     true,
	EventSettlement:  true,
	EventLease:       true,
	EventAppeal:      true,
	EventGeneric:     true,
}

var titleCaser = cases.Title(language.English)

// Known reports whether e belongs to the closed vocabulary.
func (e Event) Known() bool {
	return vocabulary[e]
}

// ClampEvent title-cases a free-form label and clamps it to the closed
// vocabulary, falling back to EventGeneric. This is the boundary where
// untrusted labels enter the system.
func ClampEvent(s string) Event {
	e := Event(titleCaser.String(strings.TrimSpace(s)))
	if e.Known() {
		return e
	}
	return EventGeneric
}
