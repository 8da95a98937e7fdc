package rcrelay_test

import "fmt"

// editLine renders an edit the way the recent changes feed does.
func editLine(page, wiki, user, diff, summary string) string {
	return fmt.Sprintf(
		"\x0314[[\x0307%s\x0314]]\x034 \x0310 \x0302https://%s.wikia.com/index.php?diff=101&oldid=100\x03 \x035*\x03 \x0303%s\x03 \x035*\x03 (%s) \x0310%s\x03",
		page, wiki, user, diff, summary,
	)
}

// logLine renders a log entry the way the recent changes feed does.
func logLine(logType, action, wiki, user, summary string) string {
	return fmt.Sprintf(
		"\x0314[[\x0307Special:Log/%s\x0314]]\x034 %s\x0310 \x0302https://%s.wikia.com/wiki/Special:Log/%s\x03 \x035*\x03 \x0303%s\x03 \x035*\x03  \x0310%s\x03",
		logType, action, wiki, logType, user, summary,
	)
}

var (
	lineEdit         = editLine("Main Page", "community", "Alice", "+12", "typo")
	lineMove         = logLine("move", "move", "community", "Bob", "moved [[Old]] to [[New]]: rename")
	lineUnrecognized = logLine("move", "move", "community", "Bob", "something no template renders")
	lineNewUser      = "Carol New user registration https://community.wikia.com/wiki/Special:Log/newusers"
)
