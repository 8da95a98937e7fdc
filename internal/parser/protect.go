package parser

import (
	"strings"

	"github.com/rcrelay/rcrelay-go/pkg/rcrelay/event"
)

// parseProtectLevels tokenizes the restriction list of a protection
// summary, e.g. "[edit=sysop] (indefinite)" followed by
// "[move=sysop] (expires 12:00, 1 May 2030)".
//
// Every record is introduced by a space and U+200E LEFT-TO-RIGHT MARK. The mark
// belongs to the boundary, never to a record, so splitting on it yields
// each record exactly once. Records that do not have the
// [feature=level] (expiry) shape are skipped.
func parseProtectLevels(s string) []event.ProtectLevel {
	var levels []event.ProtectLevel
	for _, record := range strings.Split(s, protectSeparator) {
		res := protectRecordPattern.FindStringSubmatch(strings.TrimSpace(record))
		if res == nil {
			continue
		}
		levels = append(levels, event.ProtectLevel{
			Feature: res[1],
			Level:   res[2],
			Expiry:  res[3],
		})
	}
	return levels
}
