// Package clock provides a tiny time abstraction.
//
// Notification records and certificate rows are stamped through a Clocker so
// tests can pin the timestamps they assert on.
package clock
