package nostr

import (
	"fmt"
	"strconv"
)

// Kind is the numeric event kind. Any integer is a valid Kind: codes outside
// the known table below are carried through untouched, so converting a wire
// code to a Kind and back always yields the original code.
type Kind int

const (
	KindSetMetadata            Kind = 0
	KindTextNote               Kind = 1
	KindFollowList             Kind = 3
	KindEncryptedDirectMessage Kind = 4
	KindDeletion               Kind = 5
	KindRepost                 Kind = 6
	KindReaction               Kind = 7
	KindGenericRepost          Kind = 16
	KindReport                 Kind = 1984
	KindMuteList               Kind = 10000
	KindBookmarksList          Kind = 10003
	KindLongformContent        Kind = 30023
	KindDateBasedCalendarEvent Kind = 31922
	KindTimeBasedCalendarEvent Kind = 31923
	KindCalendar               Kind = 31924
	KindCalendarEventRSVP      Kind = 31925
)

// Range is the NIP-01 range classification of a kind code.
type Range uint8

const (
	Regular Range = iota
	Replaceable
	Ephemeral
	Addressable
)

// Shape identifies the concrete content/tag structure that the decoding
// layer expects for a kind. Unknown kinds resolve to ShapeBase, which
// carries no structural requirements beyond the event envelope itself.
type Shape uint8

const (
	ShapeBase Shape = iota
	ShapeSetMetadata
	ShapeTextNote
	ShapeFollowList
	ShapeDirectMessage
	ShapeDeletion
	ShapeRepost
	ShapeReaction
	ShapeGenericRepost
	ShapeReport
	ShapeMuteList
	ShapeBookmarksList
	ShapeLongformContent
	ShapeCalendarEvent
	ShapeCalendar
	ShapeCalendarEventRSVP
)

// kindShapes is the closed dispatch table from known kind codes to shapes.
// Supporting a new protocol kind means adding one entry here (and a name
// below), nothing else.
var kindShapes = map[Kind]Shape{
	KindSetMetadata:            ShapeSetMetadata,
	KindTextNote:               ShapeTextNote,
	KindFollowList:             ShapeFollowList,
	KindEncryptedDirectMessage: ShapeDirectMessage,
	KindDeletion:               ShapeDeletion,
	KindRepost:                 ShapeRepost,
	KindReaction:               ShapeReaction,
	KindGenericRepost:          ShapeGenericRepost,
	KindReport:                 ShapeReport,
	KindMuteList:               ShapeMuteList,
	KindBookmarksList:          ShapeBookmarksList,
	KindLongformContent:        ShapeLongformContent,
	KindDateBasedCalendarEvent: ShapeCalendarEvent,
	KindTimeBasedCalendarEvent: ShapeCalendarEvent,
	KindCalendar:               ShapeCalendar,
	KindCalendarEventRSVP:      ShapeCalendarEventRSVP,
}

var kindNames = map[Kind]string{
	KindSetMetadata:            "setMetadata",
	KindTextNote:               "textNote",
	KindFollowList:             "followList",
	KindEncryptedDirectMessage: "directMessage",
	KindDeletion:               "deletion",
	KindRepost:                 "repost",
	KindReaction:               "reaction",
	KindGenericRepost:          "genericRepost",
	KindReport:                 "report",
	KindMuteList:               "muteList",
	KindBookmarksList:          "bookmarksList",
	KindLongformContent:        "longformContent",
	KindDateBasedCalendarEvent: "dateBasedCalendarEvent",
	KindTimeBasedCalendarEvent: "timeBasedCalendarEvent",
	KindCalendar:               "calendar",
	KindCalendarEventRSVP:      "calendarEventRSVP",
}

// IsKnown reports whether k is one of the kinds in the fixed table.
// An unknown kind is not an error anywhere in this package: it still
// round-trips and classifies by its numeric range.
func (k Kind) IsKnown() bool {
	_, ok := kindShapes[k]
	return ok
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(k)) + ")"
}

// Shape resolves k to the concrete shape the decoding layer should use.
func (k Kind) Shape() Shape {
	if s, ok := kindShapes[k]; ok {
		return s
	}
	return ShapeBase
}

// IsRegular checks if the kind is in the Regular range.
func (k Kind) IsRegular() bool {
	return !k.IsReplaceable() && !k.IsEphemeral() && !k.IsAddressable()
}

// IsReplaceable checks if the kind is in the Replaceable range:
// 0, 3 or [10000, 20000).
func (k Kind) IsReplaceable() bool {
	return k == KindSetMetadata || k == KindFollowList ||
		(10000 <= k && k < 20000)
}

// IsEphemeral checks if the kind is in the Ephemeral range: [20000, 30000).
func (k Kind) IsEphemeral() bool {
	return 20000 <= k && k < 30000
}

// IsAddressable checks if the kind is in the Addressable
// (parameterized-replaceable) range: [30000, 40000).
func (k Kind) IsAddressable() bool {
	return 30000 <= k && k < 40000
}

// Range returns the kind range based on NIP-01. The range boundaries do not
// overlap, so exactly one classification applies to any code.
func (k Kind) Range() Range {
	switch {
	case k.IsReplaceable():
		return Replaceable
	case k.IsEphemeral():
		return Ephemeral
	case k.IsAddressable():
		return Addressable
	}
	return Regular
}

// Check runs the structural validation the decoding layer applies once a
// kind has been resolved to a shape. It looks only at the envelope (tags),
// never at content semantics.
func (s Shape) Check(evt *Event) error {
	switch s {
	case ShapeDirectMessage:
		if evt.Tags.Find("p") == nil {
			return fmt.Errorf("direct message has no recipient \"p\" tag")
		}
	case ShapeDeletion:
		if evt.Tags.Find("e") == nil && evt.Tags.Find("a") == nil {
			return fmt.Errorf("deletion references no \"e\" or \"a\" tag")
		}
	case ShapeRepost, ShapeGenericRepost:
		if evt.Tags.Find("e") == nil {
			return fmt.Errorf("repost has no \"e\" tag")
		}
	case ShapeReport:
		if evt.Tags.Find("p") == nil {
			return fmt.Errorf("report has no reported \"p\" tag")
		}
	case ShapeLongformContent, ShapeCalendarEvent, ShapeCalendar, ShapeCalendarEventRSVP:
		// addressable kinds need an identifier to be replaceable at all
		if evt.Tags.Find("d") == nil {
			return fmt.Errorf("%s has no \"d\" identifier tag", evt.Kind)
		}
	}
	return nil
}
