// Package messaging publishes and consumes broker messages behind one
// interface. Drivers: nsq, nats, kafka, pubsub (Google Pub/Sub) and memory.
//
// LMS trigger events, processor run schedules and admin commands all use
// it, so switching brokers is a config change (messaging.driver).
package messaging
