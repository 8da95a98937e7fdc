package parser

import "fmt"

// editLine renders an edit the way the recent changes feed does.
func editLine(page, flags, wiki, query, user, diff, summary string) string {
	return fmt.Sprintf(
		"\x0314[[\x0307%s\x0314]]\x034 %s\x0310 \x0302https://%s.wikia.com/index.php?%s\x03 \x035*\x03 \x0303%s\x03 \x035*\x03 (%s) \x0310%s\x03",
		page, flags, wiki, query, user, diff, summary,
	)
}

// logLine renders a log entry the way the recent changes feed does.
func logLine(logType, action, wiki, user, summary string) string {
	return fmt.Sprintf(
		"\x0314[[\x0307Special:Log/%s\x0314]]\x034 %s\x0310 \x0302https://%s.wikia.com/wiki/Special:Log/%s\x03 \x035*\x03 \x0303%s\x03 \x035*\x03  \x0310%s\x03",
		logType, action, wiki, logType, user, summary,
	)
}

const lrm = "\u200e"
