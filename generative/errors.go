package generative

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorCategory classifies a backend failure for retry decisions. Bindings
// surface typed categories from SDK status codes; CategorizeMessage keeps
// substring sniffing as a last-resort classifier for opaque errors.
type ErrorCategory int

const (
	// CategoryUnknown covers failures with no recognizable cause. Not
	// retried: the error propagates immediately.
	CategoryUnknown ErrorCategory = iota

	// CategoryOverloaded covers 5xx overload / temporarily unavailable.
	CategoryOverloaded

	// CategoryRateLimited covers 429 / quota exhaustion.
	CategoryRateLimited

	// CategoryNetwork covers generic transient transport failures.
	CategoryNetwork

	// CategoryEmpty marks a syntactically successful call that produced a
	// blank completion.
	CategoryEmpty

	// CategoryInvalid covers malformed requests (4xx other than 429). Never
	// retried; retrying an invalid request cannot succeed.
	CategoryInvalid
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryOverloaded:
		return "overloaded"
	case CategoryRateLimited:
		return "rate_limited"
	case CategoryNetwork:
		return "network"
	case CategoryEmpty:
		return "empty"
	case CategoryInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Retriable reports whether another attempt may succeed.
func (c ErrorCategory) Retriable() bool {
	switch c {
	case CategoryOverloaded, CategoryRateLimited, CategoryNetwork, CategoryEmpty:
		return true
	}
	return false
}

// Error is the failure surfaced by the Invoker: the last backend error
// annotated with its category and the model that produced it.
type Error struct {
	Category ErrorCategory
	ModelID  string
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("generate (%s, model %s, %d attempts): %v", e.Category, e.ModelID, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CategorizeStatus maps an HTTP status code to an error category.
func CategorizeStatus(status int) ErrorCategory {
	switch {
	case status == 429:
		return CategoryRateLimited
	case status == 503 || status == 502 || status == 529:
		return CategoryOverloaded
	case status >= 500:
		return CategoryOverloaded
	case status >= 400:
		return CategoryInvalid
	default:
		return CategoryUnknown
	}
}

// CategorizeMessage sniffs an error message for transient failure markers.
// Pattern lists mirror the failure text observed from generative backends;
// only consulted when no typed category is available.
func CategorizeMessage(msg string) ErrorCategory {
	m := strings.ToLower(msg)
	switch {
	case containsAny(m, "503", "529", "overloaded", "temporarily", "unavailable"):
		return CategoryOverloaded
	case containsAny(m, "429", "rate", "quota"):
		return CategoryRateLimited
	case containsAny(m, "connection reset", "timeout", "timed out", "broken pipe", "unexpected eof", "no such host"):
		return CategoryNetwork
	default:
		return CategoryUnknown
	}
}

// Classify resolves the category of an arbitrary error: typed categories
// first, net errors next, message sniffing last.
func Classify(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Category
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return CategoryNetwork
	}
	return CategorizeMessage(err.Error())
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
