package raceline

import (
	"fmt"
	"strings"
)

// UnresolvedPolicy decides what happens to an event whose driver is not
// on the roster. The event is always logged and counted.
type UnresolvedPolicy int

const (
	// PolicySkipNotification skips the team notification but still
	// publishes the highlight.
	PolicySkipNotification UnresolvedPolicy = iota

	// PolicySkipAll skips both the notification and the highlight.
	PolicySkipAll
)

// String returns the policy's configuration name.
func (p UnresolvedPolicy) String() string {
	switch p {
	case PolicySkipNotification:
		return "skip_notification"
	case PolicySkipAll:
		return "skip_all"
	default:
		return "unknown"
	}
}

// ParseUnresolvedPolicy parses a policy name. The empty string selects
// PolicySkipNotification.
func ParseUnresolvedPolicy(name string) (UnresolvedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "skip_notification":
		return PolicySkipNotification, nil
	case "skip_all":
		return PolicySkipAll, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}
