package rcrelay

import "github.com/rcrelay/rcrelay-go/pkg/rcrelay/event"

// Event is a parsed feed line. See the event package for the variants.
type Event = event.Event

// EventType is the event variant tag.
type EventType = event.Type

// Channel identifies the feed a line came from.
type Channel = event.Channel

// Event types.
const (
	EventEdit         = event.TypeEdit
	EventLog          = event.TypeLog
	EventBlock        = event.TypeBlock
	EventChatban      = event.TypeChatban
	EventDelete       = event.TypeDelete
	EventMove         = event.TypeMove
	EventPatrol       = event.TypePatrol
	EventProtect      = event.TypeProtect
	EventRights       = event.TypeRights
	EventUpload       = event.TypeUpload
	EventAbuseFilter  = event.TypeAbuseFilter
	EventWikiFeatures = event.TypeWikiFeatures
	EventNewUsers     = event.TypeNewUsers
	EventUserAvatar   = event.TypeUserAvatar
	EventDiscussion   = event.TypeDiscussion
)

// Feed channels.
const (
	ChannelRC          = event.ChannelRC
	ChannelDiscussions = event.ChannelDiscussions
	ChannelNewUsers    = event.ChannelNewUsers
)
