package parser

import "regexp"

// Feed lines color their fields with mIRC control codes: \x03NN starts a
// color, a bare \x03 resets it, \x02 toggles bold.
var (
	// Matches: "\x0314[[\x0307Page\x0314]]\x034 !N\x0310 \x0302https://wiki.wikia.com/index.php?diff=2&oldid=1\x03 \x035*\x03 \x0303User\x03 \x035*\x03 (+42) \x0310summary"
	// Captures: (1) page, (2) flags, (3) wiki, (4) query string,
	// (5) user, (6) diff sign, (7) diff size, (8) summary
	editPattern = regexp.MustCompile(
		`^\x0314\[\[\x0307([^\]]+)\x0314\]\]\x034 ([!NBM]*)\x0310 \x0302https?://([a-z0-9.-]+)\.wikia\.com/index\.php\?(\S+)\x03 \x035\*\x03 \x0303([^\x03]+)\x03 \x035\*\x03 \(\x02?(\+|-)(\d+)\x02?\) \x0310(.*)$`,
	)

	// Matches: "\x0314[[\x0307Special:Log/block\x0314]]\x034 block\x0310 \x0302https://wiki.wikia.com/wiki/Special:Log/block\x03 \x035*\x03 \x0303User\x03 \x035*\x03  \x0310summary"
	// Captures: (1) log type, (2) action, (3) wiki, (4) user, (5) summary
	logPattern = regexp.MustCompile(
		`^\x0314\[\[\x0307[^:]+:Log/([^\x03]+)\x0314\]\]\x034 ([^\x03]+)\x0310 \x0302https?://([a-z0-9.-]+)\.wikia\.com/wiki/[^:]+:Log/[^\x03]+\x03 \x035\*\x03 \x0303([^\x03]+)\x03 \x035\*\x03\s{2}\x0310(.*)$`,
	)

	// The new users feed never carried the colored log layout.
	// Captures: (1) user, (2) wiki
	newUsersPattern = regexp.MustCompile(
		`^(.+) New user registration https?://([a-z0-9.-]+)\.wikia\.com/wiki/Special:Log/newusers$`,
	)

	// Captures: (1) wiki, (2) thread ID, (3) reply ID (optional)
	discussionsURLPattern = regexp.MustCompile(
		`^https?://([a-z0-9.-]+)\.wikia\.com/d/p/(\d{19,})(?:/r/(\d{19,}))?$`,
	)

	// Captures: (1) discussion kind
	discussionsTypePattern = regexp.MustCompile(`^discussion-(thread|post|report)$`)

	// Captures: (1) filter ID, (2) diff revision ID
	abuseFilterPattern = regexp.MustCompile(
		`https?://[a-z0-9.-]+\.wikia\.com/wiki/[^:]+:AbuseFilter/(\d+) \(https?://[a-z0-9.-]+\.wikia\.com/wiki/[^:]+:AbuseFilter/history/\d+/diff/prev/(\d+)\)$`,
	)

	// Captures: (1) feature key, (2) value
	wikiFeaturesPattern = regexp.MustCompile(`^wikifeatures: set extension option: ([^=]+) = (.*)$`)

	// One protection restriction, e.g. "[edit=sysop] (expires 12:00, 1 January 2030)".
	// Captures: (1) feature, (2) level, (3) expiry
	protectRecordPattern = regexp.MustCompile(
		`^\[(edit|move|upload|create)=(loggedin|autoconfirmed|sysop)\] \((.+)\)$`,
	)
)

// colorReset is the control character that may trail a feed summary.
const colorReset = "\x03"

// protectSeparator precedes every restriction record of a protection summary.
const protectSeparator = " \u200e"
