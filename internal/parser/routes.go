package parser

import "github.com/rcrelay/rcrelay-go/pkg/rcrelay/event"

// logType enumerates the log types the parser has a handler for.
type logType int

const (
	logUnknown logType = iota
	logBlock
	logChatban
	logDelete
	logMove
	logPatrol
	logProtect
	logRights
	logUpload
	logAbuseFilter
	logWikiFeatures
	logUserAvatar
	logMalformed
)

var logTypes = map[string]logType{
	"block":        logBlock,
	"chatban":      logChatban,
	"delete":       logDelete,
	"move":         logMove,
	"patrol":       logPatrol,
	"protect":      logProtect,
	"rights":       logRights,
	"upload":       logUpload,
	"abusefilter":  logAbuseFilter,
	"wikifeatures": logWikiFeatures,
	"useravatar":   logUserAvatar,
	// The wiki engine writes log type 0 when it failed to record the
	// real type.
	"0": logMalformed,
}

func lookupLogType(s string) logType {
	return logTypes[s]
}

// eventType returns the variant produced by a recognized entry of this log type.
func (t logType) eventType() event.Type {
	switch t {
	case logBlock:
		return event.TypeBlock
	case logChatban:
		return event.TypeChatban
	case logDelete:
		return event.TypeDelete
	case logMove:
		return event.TypeMove
	case logPatrol:
		return event.TypePatrol
	case logProtect:
		return event.TypeProtect
	case logRights:
		return event.TypeRights
	case logUpload:
		return event.TypeUpload
	case logAbuseFilter:
		return event.TypeAbuseFilter
	case logWikiFeatures:
		return event.TypeWikiFeatures
	case logUserAvatar:
		return event.TypeUserAvatar
	}
	return event.TypeLog
}

// routes maps a log type and action to the message keys whose templates
// may have rendered the summary. Keys are tried in order.
var routes = map[logType]map[string][]string{
	logBlock: {
		"block":   {"blocklogentry"},
		"reblock": {"reblock-logentry"},
		"unblock": {"unblocklogentry"},
	},
	logChatban: {
		"chatbanadd":    {"chat-chatbanadd-log-entry"},
		"chatbanchange": {"chat-chatbanchange-log-entry"},
		"chatbanremove": {"chat-chatbanremove-log-entry"},
	},
	logDelete: {
		// Article comment deletion and restoration share one action.
		"article_comment": {"deletedarticle", "undeletedarticle"},
		"delete":          {"deletedarticle"},
		"restore":         {"undeletedarticle"},
		"event":           {"logentry-delete-event-legacy"},
		"revision":        {"logentry-delete-revision-legacy"},
	},
	logMove: {
		"move":       {"1movedto2"},
		"move_redir": {"1movedto2_redir"},
	},
	logPatrol: {
		"patrol": {"patrol-log-line"},
	},
	logProtect: {
		"modify":    {"modifiedarticleprotection"},
		"move_prot": {"movedarticleprotection"},
		"protect":   {"protectedarticle"},
		"unprotect": {"unprotectedarticle"},
	},
	logRights: {
		"rights": {"rightslogentry"},
	},
	logUpload: {
		"overwrite": {"overwroteimage"},
		"revert":    {"uploadedimage"},
		"upload":    {"uploadedimage"},
	},
}

// messageKeys returns the candidate message keys for a log entry, or nil
// if the pair has no route.
func messageKeys(t logType, action string) []string {
	return routes[t][action]
}

// MessageKeys returns every message key referenced by the routing table.
// A Template Index should carry templates for each of them.
func MessageKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, actions := range routes {
		for _, candidates := range actions {
			for _, k := range candidates {
				if !seen[k] {
					seen[k] = true
					keys = append(keys, k)
				}
			}
		}
	}
	return keys
}
