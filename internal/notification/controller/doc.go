// Package controller turns LMS events into notification records.
//
// A Controller owns one Trigger. When an event fires it collects the
// enabled subscriber roles for every supported type into a fresh
// Subscriptions registry, resolves each role to a recipient, and hands
// every (recipient, type) pair to the Dispatcher. The dispatcher persists
// a record and, when the type has an AsyncSink, enqueues it and schedules
// a processor run.
//
// The dedup check and the record insert are separate store calls, so two
// concurrent cycles for the same event may both create a record. Callers
// that need exactly-once delivery must serialise events per trigger.
package controller
