// Package retry provides the bounded-attempt helper shared by every
// remediation site in the pipeline.
package retry

import "fmt"

// Do runs fn up to max times, returning the first successful value. The
// attempt number passed to fn is 1-based. When every attempt fails, the last
// error is returned wrapped with the attempt count.
func Do[T any](max int, fn func(attempt int) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 1; attempt <= max; attempt++ {
		v, err := fn(attempt)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return zero, fmt.Errorf("all %d attempts failed: %w", max, lastErr)
}
