package controller

import (
	"slices"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
)

// Subscription is one subscriber and the types it receives, in subscribe order.
type Subscription struct {
	Subscriber string
	Types      []entity.Type
}

// Subscriptions is the per-cycle registry of (subscriber, type) pairs.
// Subscribers keep first-subscribe order and each subscriber's types form
// an ordered set. It is not safe for concurrent use.
type Subscriptions struct {
	supports func(entity.Type) bool
	order    []string
	types    map[string][]entity.Type
}

// NewSubscriptions returns an empty registry accepting only types for which
// supports reports true.
func NewSubscriptions(supports func(entity.Type) bool) *Subscriptions {
	return &Subscriptions{
		supports: supports,
		types:    map[string][]entity.Type{},
	}
}

// Subscribe adds t to subscriber's set. Unsupported types and empty
// subscribers are ignored.
func (s *Subscriptions) Subscribe(subscriber string, t entity.Type) {
	if subscriber == "" || !s.supports(t) {
		return
	}

	current, ok := s.types[subscriber]
	if !ok {
		s.order = append(s.order, subscriber)
	}
	if slices.Contains(current, t) {
		return
	}
	s.types[subscriber] = append(current, t)
}

func (s *Subscriptions) For(subscriber string) []entity.Type {
	return slices.Clone(s.types[subscriber])
}

// All returns a snapshot in insertion order.
func (s *Subscriptions) All() []Subscription {
	out := make([]Subscription, 0, len(s.order))
	for _, sub := range s.order {
		out = append(out, Subscription{Subscriber: sub, Types: slices.Clone(s.types[sub])})
	}
	return out
}

// Len counts (subscriber, type) pairs.
func (s *Subscriptions) Len() int {
	n := 0
	for _, ts := range s.types {
		n += len(ts)
	}
	return n
}

func (s *Subscriptions) Reset() {
	s.order = nil
	s.types = map[string][]entity.Type{}
}
