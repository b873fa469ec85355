package style

import "errors"

var (
	// ErrUnknownStyle reports a style name outside the closed variant set.
	ErrUnknownStyle = errors.New("unknown citation style")

	// ErrBadRuleSet reports a malformed rule table. Raised at load time by
	// CheckRules, never silently at format time.
	ErrBadRuleSet = errors.New("malformed style rule set")
)
