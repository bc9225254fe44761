package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestBookingFailedErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("schedule: %w", &BookingFailedError{Reason: "insert event", Err: context.DeadlineExceeded})
	if !errors.Is(err, ErrBookingFailed) {
		t.Fatalf("expected ErrBookingFailed in chain: %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected cause in chain: %v", err)
	}
	var bf *BookingFailedError
	if !errors.As(err, &bf) || bf.Reason != "insert event" {
		t.Fatalf("errors.As failed: %v", err)
	}
}

func TestAuthorizationRequiredCarriesURL(t *testing.T) {
	var err error = fmt.Errorf("book: %w", &AuthorizationRequiredError{URL: "https://accounts.example/auth"})
	var ar *AuthorizationRequiredError
	if !errors.As(err, &ar) {
		t.Fatal("expected AuthorizationRequiredError")
	}
	if ar.URL != "https://accounts.example/auth" {
		t.Fatalf("got url %q", ar.URL)
	}
}

func TestInvalidArgument(t *testing.T) {
	err := InvalidArgument("title is required")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatal("expected ErrInvalidArgument")
	}
	if err.Error() != "invalid argument: title is required" {
		t.Fatalf("got %q", err.Error())
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusScheduled, StatusCompleted, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("DONE").Valid() || Status("").Valid() {
		t.Error("unexpected valid status")
	}
}
