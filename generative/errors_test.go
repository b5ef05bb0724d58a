package generative

import (
	"errors"
	"fmt"
	"testing"
)

func TestCategorizeMessage(t *testing.T) {
	cases := []struct {
		msg  string
		want ErrorCategory
	}{
		{"503 Service Unavailable", CategoryOverloaded},
		{"the model is overloaded, try again", CategoryOverloaded},
		{"server temporarily down", CategoryOverloaded},
		{"429 Too Many Requests", CategoryRateLimited},
		{"quota exceeded for project", CategoryRateLimited},
		{"read tcp: connection reset by peer", CategoryNetwork},
		{"context deadline exceeded (timeout)", CategoryNetwork},
		{"invalid api key", CategoryUnknown},
		{"", CategoryUnknown},
	}
	for _, tc := range cases {
		if got := CategorizeMessage(tc.msg); got != tc.want {
			t.Errorf("CategorizeMessage(%q) = %s, want %s", tc.msg, got, tc.want)
		}
	}
}

func TestCategorizeStatus(t *testing.T) {
	cases := map[int]ErrorCategory{
		429: CategoryRateLimited,
		503: CategoryOverloaded,
		529: CategoryOverloaded,
		500: CategoryOverloaded,
		400: CategoryInvalid,
		401: CategoryInvalid,
		200: CategoryUnknown,
	}
	for status, want := range cases {
		if got := CategorizeStatus(status); got != want {
			t.Errorf("CategorizeStatus(%d) = %s, want %s", status, got, want)
		}
	}
}

func TestClassify_PrefersTypedCategory(t *testing.T) {
	typed := &Error{Category: CategoryInvalid, Err: errors.New("429 but actually invalid")}
	wrapped := fmt.Errorf("calling backend: %w", typed)

	if got := Classify(wrapped); got != CategoryInvalid {
		t.Errorf("Classify should unwrap typed errors before sniffing, got %s", got)
	}
}

func TestRetriable(t *testing.T) {
	if CategoryInvalid.Retriable() || CategoryUnknown.Retriable() {
		t.Error("invalid/unknown must not be retriable")
	}
	for _, c := range []ErrorCategory{CategoryOverloaded, CategoryRateLimited, CategoryNetwork, CategoryEmpty} {
		if !c.Retriable() {
			t.Errorf("%s should be retriable", c)
		}
	}
}
