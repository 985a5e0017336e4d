package controller

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestRegistry_Fire(t *testing.T) {
	t.Run("priority then bind order with truncated args", func(t *testing.T) {
		// Arrange
		r := NewRegistry()
		var calls []string
		var lateArgs []any
		r.On("evt", 20, 1, func(_ context.Context, args ...any) {
			calls = append(calls, "late")
			lateArgs = args
		})
		r.On("evt", 5, 3, func(context.Context, ...any) { calls = append(calls, "early") })
		r.On("evt", 5, 0, func(context.Context, ...any) { calls = append(calls, "early2") })
		r.On("other", 1, 0, func(context.Context, ...any) { calls = append(calls, "other") })

		// Act
		n := r.Fire(t.Context(), "evt", "a", "b")

		// Assert
		if n != 3 {
			t.Fatalf("Fire() = %d, want 3", n)
		}
		if !slices.Equal(calls, []string{"early", "early2", "late"}) {
			t.Fatalf("calls = %v", calls)
		}
		if len(lateArgs) != 1 || lateArgs[0] != "a" {
			t.Fatalf("late args = %v", lateArgs)
		}
	})

	t.Run("unbound event", func(t *testing.T) {
		if n := NewRegistry().Fire(t.Context(), "nothing"); n != 0 {
			t.Fatalf("Fire() = %d, want 0", n)
		}
	})
}

func TestRegistry_Register(t *testing.T) {
	t.Run("register binds and fires the controller", func(t *testing.T) {
		// Arrange
		f := newFixture(t, Config{}, Hooks{})
		r := NewRegistry()

		// Act
		err := r.Register(f.ctrl)
		n := r.Fire(t.Context(), "llms_user_enrolled_in_course", int64(42), int64(7))

		// Assert
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if n != 1 {
			t.Fatalf("Fire() = %d, want 1", n)
		}
		if recs := f.store.all(); len(recs) != 1 || recs[0].Subscriber != "42" {
			t.Fatalf("records = %+v", recs)
		}
		if got, ok := r.Get("course_enrollment"); !ok || got != f.ctrl {
			t.Fatal("Get() did not return the controller")
		}
		if len(r.Controllers()) != 1 {
			t.Fatalf("controllers = %d", len(r.Controllers()))
		}
	})

	t.Run("duplicate trigger id", func(t *testing.T) {
		// Arrange
		r := NewRegistry()
		if err := r.Register(newFixture(t, Config{}, Hooks{}).ctrl); err != nil {
			t.Fatalf("Register() error = %v", err)
		}

		// Act
		err := r.Register(newFixture(t, Config{}, Hooks{}).ctrl)

		// Assert
		if !errors.Is(err, ErrAlreadyRegistered) {
			t.Fatalf("error = %v, want ErrAlreadyRegistered", err)
		}
	})
}
