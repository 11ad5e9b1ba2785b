// Package errors provides examples of structured error handling in the
// sync layer.
package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/recordsync/pkg/errors"
)

// Example demonstrates basic error creation with context details.
func Example() {
	err := errors.New(errors.ErrorTypeProvider, "failed to create table")

	err = err.WithDetail("base_id", "appXXXXXXXXXXXXXX").
		WithDetail("status", 422)

	fmt.Println(err.Error())

	// Output:
	// provider: failed to create table
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	originalErr := io.EOF

	err := errors.Wrap(originalErr, errors.ErrorTypeTransport, "failed to read response body").
		WithDetail("provider", "airtable")

	if errors.IsType(err, errors.ErrorTypeTransport) {
		fmt.Println("This is a transport error")
	}

	// Output:
	// This is a transport error
}

// ExampleIsRetryable shows which failures the retry policy will repeat.
func ExampleIsRetryable() {
	rateLimited := errors.New(errors.ErrorTypeRateLimit, "too many requests")
	rejected := errors.New(errors.ErrorTypeValidation, "unknown field type")

	if errors.IsRetryable(rateLimited) {
		fmt.Println("Rate limit error is retryable")
	}

	if !errors.IsRetryable(rejected) {
		fmt.Println("Validation error is not retryable")
	}

	// Output:
	// Rate limit error is retryable
	// Validation error is not retryable
}

// ExampleIsType demonstrates checking error types through wrapping.
func ExampleIsType() {
	authErr := errors.New(errors.ErrorTypeAuthentication, "token rejected")
	wrapped := errors.Wrap(authErr, errors.ErrorTypeProvider, "sync failed")

	fmt.Printf("Is auth error: %v\n", errors.IsType(authErr, errors.ErrorTypeAuthentication))
	fmt.Printf("Wrapped is provider type: %v\n", errors.IsType(wrapped, errors.ErrorTypeProvider))
	fmt.Printf("Wrapped is auth type: %v\n", errors.IsType(wrapped, errors.ErrorTypeAuthentication))

	// Output:
	// Is auth error: true
	// Wrapped is provider type: true
	// Wrapped is auth type: false
}

// Example_errorChain shows how connector layers add context while
// preserving the cause.
func Example_errorChain() {
	err := callProvider()
	if err != nil {
		err = errors.Wrap(err, errors.ErrorTypeProvider, "failed to add field").
			WithDetail("field", "score")

		fmt.Println("Full error chain:", err)
	}

	// Output:
	// Full error chain: provider: failed to add field: rate_limit: rate limited (status 429)
}

func callProvider() error {
	return errors.New(errors.ErrorTypeRateLimit, "rate limited (status 429)")
}
