package scraper

import "errors"

// Failure classes of a scrape run. Login failures kill the whole run
// since nothing works without a session. Navigation failures kill the
// guest-data walk only, the caller retries the run from scratch.
// Blackout failures abort the blackout flow and are logged. Enrichment
// failures never surface as errors at all, they degrade the affected
// record to the "ERROR" sentinel.
var (
	ErrLoginFailed      = errors.New("login failed")
	ErrNavigationFailed = errors.New("front desk navigation failed")
	ErrBlackoutFailed   = errors.New("blackout update failed")
)

// enrichment fields degrade to this value when their detail pages
// cannot be reached, a visible marker downstream instead of a missing
// record
const errSentinel = "ERROR"
