package goerror

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "Nil", err: nil, want: 0},
		{name: "Plain", err: errors.New("boom"), want: 1},
		{name: "Server", err: NewServer(errors.New("db down")), want: 1},
		{name: "InvalidFormat", err: NewInvalidFormat(), want: 2},
		{name: "InvalidInput", err: NewInvalidInput(nil, "trigger", "required"), want: 2},
		{name: "Forbidden", err: NewBusiness("Forbidden", CodeForbidden), want: 3},
		{name: "NotFound", err: NewBusiness("Trigger x not found", CodeNotFound), want: 4},
		{name: "Conflict", err: NewBusiness("Already migrated", CodeConflict), want: 5},
		{name: "Timeout", err: NewBusiness("Try again", CodeTimeout), want: 6},
		{name: "Wrapped", err: fmt.Errorf("cli: %w", NewBusiness("x", CodeNotFound)), want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got := ExitCode(tt.err)

			// Assert
			if got != tt.want {
				t.Fatalf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseCode(t *testing.T) {
	for c := range codes {
		if got := ParseCode(c.String()); got != c {
			t.Fatalf("ParseCode(%q) = %v, want %v", c.String(), got, c)
		}
	}
	if got := ParseCode("nope"); got != CodeInternal {
		t.Fatalf("ParseCode(nope) = %v", got)
	}
}

func TestNewInvalidInput(t *testing.T) {
	t.Run("Fields", func(t *testing.T) {
		// Act
		err := NewInvalidInput(nil, "trigger", "required", "type", "oneof")

		// Assert
		ge, ok := As(err)
		if !ok || ge.Code() != CodeInvalidInput || ge.Fields()["type"] != "oneof" {
			t.Fatalf("unexpected error %#v", err)
		}
	})

	t.Run("OddPairs", func(t *testing.T) {
		// Act
		err := NewInvalidInput(nil, "trigger")

		// Assert
		if ge, ok := As(err); !ok || ge.Code() != CodeInvalidFormat {
			t.Fatalf("unexpected error %v", err)
		}
	})

	t.Run("WrapsCause", func(t *testing.T) {
		// Arrange
		cause := errors.New("validator failed")

		// Act
		err := NewInvalidInput(cause)

		// Assert
		if !errors.Is(err, cause) || err.Error() != "validator failed" {
			t.Fatalf("unexpected error %v", err)
		}
	})
}
