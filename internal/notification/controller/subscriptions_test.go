package controller

import (
	"slices"
	"testing"

	"github.com/shandysiswandi/coursebell/internal/notification/entity"
)

func onlyBasic(t entity.Type) bool { return t == entity.TypeBasic }

func TestSubscriptions(t *testing.T) {
	t.Run("unsupported type is ignored", func(t *testing.T) {
		// Arrange
		s := NewSubscriptions(onlyBasic)

		// Act
		s.Subscribe("42", entity.TypeEmail)

		// Assert
		if s.Len() != 0 || len(s.All()) != 0 {
			t.Fatalf("registry = %+v, want empty", s.All())
		}
	})

	t.Run("empty subscriber is ignored", func(t *testing.T) {
		// Arrange
		s := NewSubscriptions(onlyBasic)

		// Act
		s.Subscribe("", entity.TypeBasic)

		// Assert
		if s.Len() != 0 {
			t.Fatalf("len = %d, want 0", s.Len())
		}
	})

	t.Run("set semantics and insertion order", func(t *testing.T) {
		// Arrange
		s := NewSubscriptions(func(entity.Type) bool { return true })

		// Act
		s.Subscribe("b", entity.TypeEmail)
		s.Subscribe("a", entity.TypeBasic)
		s.Subscribe("b", entity.TypeBasic)
		s.Subscribe("b", entity.TypeEmail)

		// Assert
		all := s.All()
		if len(all) != 2 || all[0].Subscriber != "b" || all[1].Subscriber != "a" {
			t.Fatalf("order = %+v", all)
		}
		if !slices.Equal(s.For("b"), []entity.Type{entity.TypeEmail, entity.TypeBasic}) {
			t.Fatalf("types of b = %v", s.For("b"))
		}
		if s.Len() != 3 {
			t.Fatalf("len = %d, want 3", s.Len())
		}
	})

	t.Run("snapshot is not affected by later changes", func(t *testing.T) {
		// Arrange
		s := NewSubscriptions(onlyBasic)
		s.Subscribe("42", entity.TypeBasic)
		snap := s.All()

		// Act
		s.Reset()

		// Assert
		if len(snap) != 1 || s.Len() != 0 || s.For("42") != nil {
			t.Fatalf("snap = %+v len = %d", snap, s.Len())
		}
	})
}
