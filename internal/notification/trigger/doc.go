// Package trigger holds the concrete notification triggers: which events
// they listen to, how an event is captured, and which recipient roles each
// delivery type offers.
package trigger
