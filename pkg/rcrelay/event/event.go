// Package event defines the structured records produced from wiki
// recent-changes feed lines.
//
// An Event is a tagged union: the envelope fields are present on every
// event, and Details holds the variant selected by Type.
package event

import (
	"encoding/json"
	"fmt"
)

// Channel identifies the feed a line was read from.
type Channel string

const (
	// ChannelRC is the IRC-formatted recent changes feed (edits and logs).
	ChannelRC Channel = "rc"
	// ChannelDiscussions is the JSON discussions feed.
	ChannelDiscussions Channel = "discussions"
	// ChannelNewUsers is the IRC-formatted new user registration feed.
	ChannelNewUsers Channel = "newusers"
)

// ParseChannel validates a channel name.
func ParseChannel(s string) (Channel, error) {
	switch c := Channel(s); c {
	case ChannelRC, ChannelDiscussions, ChannelNewUsers:
		return c, nil
	}
	return "", fmt.Errorf("unknown channel %q (valid: rc, discussions, newusers)", s)
}

// Category is the structural category fixed by the first-stage match.
type Category string

const (
	CategoryEdit        Category = "edit"
	CategoryLog         Category = "log"
	CategoryDiscussions Category = "discussions"
)

// Type is the event variant tag.
type Type string

const (
	TypeEdit         Type = "edit"
	TypeLog          Type = "log" // log entry whose summary was not decomposed
	TypeBlock        Type = "block"
	TypeChatban      Type = "chatban"
	TypeDelete       Type = "delete"
	TypeMove         Type = "move"
	TypePatrol       Type = "patrol"
	TypeProtect      Type = "protect"
	TypeRights       Type = "rights"
	TypeUpload       Type = "upload"
	TypeAbuseFilter  Type = "abusefilter"
	TypeWikiFeatures Type = "wikifeatures"
	TypeNewUsers     Type = "newusers"
	TypeUserAvatar   Type = "useravatar"
	TypeDiscussion   Type = "discussion"
)

// AllTypes returns every event type in a stable order.
func AllTypes() []Type {
	return []Type{
		TypeEdit, TypeLog, TypeBlock, TypeChatban, TypeDelete, TypeMove,
		TypePatrol, TypeProtect, TypeRights, TypeUpload, TypeAbuseFilter,
		TypeWikiFeatures, TypeNewUsers, TypeUserAvatar, TypeDiscussion,
	}
}

// Event is one parsed feed line.
type Event struct {
	Type       Type     `json:"type"`
	Channel    Channel  `json:"channel"`
	Category   Category `json:"category"`
	Recognized bool     `json:"recognized"`
	Wiki       string   `json:"wiki"`

	// User is the actor (editor, log performer, discussions poster).
	User string `json:"user,omitempty"`

	// LogType and Action are set for the log category.
	LogType string `json:"log_type,omitempty"`
	Action  string `json:"action,omitempty"`

	// Summary carries the undecomposed log summary of a degraded event.
	Summary string `json:"summary,omitempty"`

	// DegradedSource marks log lines the wiki engine emitted in an error
	// state (log type "0"). Their summary is not parseable.
	DegradedSource bool `json:"degraded_source,omitempty"`

	Details Details `json:"details,omitempty"`

	// Raw is the original feed line or payload.
	Raw string `json:"raw,omitempty"`
}

// Details is implemented by every event variant payload.
type Details interface {
	detailsType() Type
}

// Edit is a page edit or page creation.
type Edit struct {
	Page    string           `json:"page"`
	Flags   []string         `json:"flags"`
	Params  map[string]int64 `json:"params"`
	Diff    int64            `json:"diff"`
	Summary string           `json:"summary"`
}

// Block is a block, reblock or unblock log entry. Expiry and Flags are
// empty on unblock.
type Block struct {
	Target string   `json:"target"`
	Expiry string   `json:"expiry,omitempty"`
	Flags  []string `json:"flags,omitempty"`
	Reason string   `json:"reason"`
}

// Chatban is a chat ban log entry.
type Chatban struct {
	Target  string `json:"target"`
	Length  string `json:"length,omitempty"`
	Expires string `json:"expires,omitempty"`
	Reason  string `json:"reason"`
}

// Delete is a deletion or restoration. Page is set for page deletions,
// Target for legacy revision and log event visibility changes.
type Delete struct {
	Page   string `json:"page,omitempty"`
	Target string `json:"target,omitempty"`
	Reason string `json:"reason"`
}

// Move is a page move.
type Move struct {
	Page   string `json:"page"`
	Target string `json:"target"`
	Reason string `json:"reason"`
}

// Patrol marks a revision as patrolled.
type Patrol struct {
	Revision int64  `json:"revision"`
	Page     string `json:"page"`
}

// ProtectLevel is one restriction of a protection log entry.
type ProtectLevel struct {
	Feature string `json:"feature"`
	Level   string `json:"level"`
	Expiry  string `json:"expiry"`
}

// Protect is a protection change. Target is set when protection settings
// were moved along with the page; Levels is empty on unprotect.
type Protect struct {
	Page   string         `json:"page"`
	Target string         `json:"target,omitempty"`
	Levels []ProtectLevel `json:"levels,omitempty"`
	Reason string         `json:"reason"`
}

// Rights is a user group membership change.
type Rights struct {
	Target    string   `json:"target"`
	OldGroups []string `json:"old_groups"`
	NewGroups []string `json:"new_groups"`
	Reason    string   `json:"reason"`
}

// Upload is a file upload, overwrite or revert.
type Upload struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// AbuseFilterHit is an abuse filter trigger.
type AbuseFilterHit struct {
	FilterID int64 `json:"filter_id"`
	Diff     int64 `json:"diff"`
}

// WikiFeature is a wiki feature toggle.
type WikiFeature struct {
	Feature string `json:"feature"`
	Value   string `json:"value"`
}

// Discussion is a discussions feed event.
type Discussion struct {
	ThreadID string `json:"thread_id"`
	ReplyID  string `json:"reply_id,omitempty"`
	Kind     string `json:"kind"` // thread, post or report
	Title    string `json:"title,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
	Size     int64  `json:"size"`
	Category string `json:"category,omitempty"`
	URL      string `json:"url"`
	Action   string `json:"action"`
}

func (*Edit) detailsType() Type           { return TypeEdit }
func (*Block) detailsType() Type          { return TypeBlock }
func (*Chatban) detailsType() Type        { return TypeChatban }
func (*Delete) detailsType() Type         { return TypeDelete }
func (*Move) detailsType() Type           { return TypeMove }
func (*Patrol) detailsType() Type         { return TypePatrol }
func (*Protect) detailsType() Type        { return TypeProtect }
func (*Rights) detailsType() Type         { return TypeRights }
func (*Upload) detailsType() Type         { return TypeUpload }
func (*AbuseFilterHit) detailsType() Type { return TypeAbuseFilter }
func (*WikiFeature) detailsType() Type    { return TypeWikiFeatures }
func (*Discussion) detailsType() Type     { return TypeDiscussion }

// newDetails returns an empty payload for t, or nil if t carries none.
func newDetails(t Type) Details {
	switch t {
	case TypeEdit:
		return &Edit{}
	case TypeBlock:
		return &Block{}
	case TypeChatban:
		return &Chatban{}
	case TypeDelete:
		return &Delete{}
	case TypeMove:
		return &Move{}
	case TypePatrol:
		return &Patrol{}
	case TypeProtect:
		return &Protect{}
	case TypeRights:
		return &Rights{}
	case TypeUpload:
		return &Upload{}
	case TypeAbuseFilter:
		return &AbuseFilterHit{}
	case TypeWikiFeatures:
		return &WikiFeature{}
	case TypeDiscussion:
		return &Discussion{}
	}
	return nil
}

// UnmarshalJSON decodes the Details payload according to Type.
func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	var aux struct {
		plain
		Details json.RawMessage `json:"details,omitempty"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = Event(aux.plain)
	e.Details = nil

	if len(aux.Details) == 0 || string(aux.Details) == "null" {
		return nil
	}
	d := newDetails(e.Type)
	if d == nil {
		return fmt.Errorf("event type %q carries no details", e.Type)
	}
	if err := json.Unmarshal(aux.Details, d); err != nil {
		return fmt.Errorf("decoding %s details: %w", e.Type, err)
	}
	e.Details = d
	return nil
}
